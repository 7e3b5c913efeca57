package dashboard

import (
	"sync"
	"testing"

	"github.com/healthdash/healthdash-go/internal/core/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCache_MergeRetainsUnsetFields(t *testing.T) {
	initial := &metrics.ViewModel{
		Metrics:   metrics.KPI{AvgSteps: 8000},
		TrendData: metrics.Series{{Value: 1}},
		SleepData: metrics.Series{{Value: 7}},
	}
	cache := NewSessionCache(initial)

	newTrend := metrics.Series{{Value: 2}, {Value: 3}}
	cache.Merge(Update{TrendData: &newTrend})

	got := cache.Snapshot()
	assert.Len(t, got.TrendData, 2)
	// Untouched fields survive
	assert.Equal(t, 8000, got.Metrics.AvgSteps)
	assert.Len(t, got.SleepData, 1)
}

func TestSessionCache_ActivatePairsIDWithModel(t *testing.T) {
	cache := NewSessionCache(&metrics.ViewModel{})

	kpi := metrics.KPI{TotalPatients: 5}
	cache.Activate("ds-1", Update{Metrics: &kpi})

	got := cache.Snapshot()
	assert.Equal(t, "ds-1", got.CurrentDataID)
	assert.Equal(t, 5, got.Metrics.TotalPatients)
	assert.Equal(t, "ds-1", cache.CurrentDataID())
}

func TestSessionCache_ResetClearsDataset(t *testing.T) {
	cache := NewSessionCache(&metrics.ViewModel{})
	cache.Activate("ds-1", Update{})

	fallback := &metrics.ViewModel{Metrics: metrics.KPI{AvgSteps: 1}}
	cache.Reset(fallback)

	got := cache.Snapshot()
	assert.Empty(t, got.CurrentDataID)
	assert.Equal(t, 1, got.Metrics.AvgSteps)
}

func TestSessionCache_SubscribePublishesOnMerge(t *testing.T) {
	cache := NewSessionCache(&metrics.ViewModel{})

	var seen []string
	cancel := cache.Subscribe(func(vm metrics.ViewModel) {
		seen = append(seen, vm.CurrentDataID)
	})

	cache.Activate("ds-1", Update{})
	require.Len(t, seen, 1)
	assert.Equal(t, "ds-1", seen[0])

	cancel()
	cache.Merge(Update{})
	assert.Len(t, seen, 1)
}

func TestSessionCache_ConcurrentDisjointMerges(t *testing.T) {
	cache := NewSessionCache(&metrics.ViewModel{})

	trend := metrics.Series{{Value: 1}}
	hr := metrics.Series{{Value: 2}}
	sleep := metrics.Series{{Value: 3}}
	water := metrics.Series{{Value: 4}}

	var wg sync.WaitGroup
	for _, u := range []Update{
		{TrendData: &trend},
		{HeartRateData: &hr},
		{SleepData: &sleep},
		{WaterData: &water},
	} {
		wg.Add(1)
		go func(u Update) {
			defer wg.Done()
			cache.Merge(u)
		}(u)
	}
	wg.Wait()

	got := cache.Snapshot()
	assert.Len(t, got.TrendData, 1)
	assert.Len(t, got.HeartRateData, 1)
	assert.Len(t, got.SleepData, 1)
	assert.Len(t, got.WaterData, 1)
}

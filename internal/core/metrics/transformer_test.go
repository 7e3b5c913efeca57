package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_EmptyPayloadDefaults(t *testing.T) {
	vm := Transform(&SummaryPayload{})

	// Patient counts floor at 1 when the backend omits total_users
	assert.Equal(t, 1, vm.Metrics.TotalPatients)
	assert.Equal(t, 1, vm.Metrics.ActivePatients)

	assert.Equal(t, 0, vm.Metrics.AvgSteps)
	assert.Equal(t, 0, vm.Metrics.AvgHeartRate)
	assert.Equal(t, 0.0, vm.Metrics.AvgSleep)
	assert.Equal(t, 0, vm.Metrics.AvgWater)
	assert.Equal(t, 0, vm.Metrics.CriticalCases)
	assert.Equal(t, 0, vm.Metrics.StepsChange)
	assert.Equal(t, 0, vm.Metrics.HeartRateChange)
	assert.Equal(t, 0, vm.Metrics.SleepChange)
	assert.Equal(t, 0, vm.Metrics.WaterChange)

	assert.Empty(t, vm.TrendData)
	assert.Empty(t, vm.HeartRateData)
	assert.Empty(t, vm.SleepData)
	assert.Empty(t, vm.WaterData)
}

func TestTransform_NilPayload(t *testing.T) {
	vm := Transform(nil)
	assert.Equal(t, 1, vm.Metrics.TotalPatients)
}

func TestTransform_UrgentAnomalyCount(t *testing.T) {
	vm := Transform(&SummaryPayload{
		Anomalies: []AnomalyEntry{
			{Reason: "Urgent: HR spike"},
			{Reason: "minor blip"},
			{Reason: "Urgent case"},
		},
	})

	assert.Equal(t, 2, vm.Metrics.CriticalCases)
	// Anomalies pass through unchanged
	require.Len(t, vm.Anomalies, 3)
	assert.Equal(t, "minor blip", vm.Anomalies[1].Reason)
}

func TestTransform_TrendLookup(t *testing.T) {
	vm := Transform(&SummaryPayload{
		Trends: []TrendEntry{
			{Metric: MetricSteps, ChangePercent: 12},
			{Metric: MetricSleep, ChangePercent: -5},
		},
	})

	assert.Equal(t, 12, vm.Metrics.StepsChange)
	assert.Equal(t, 0, vm.Metrics.HeartRateChange)
	assert.Equal(t, -5, vm.Metrics.SleepChange)
	assert.Equal(t, 0, vm.Metrics.WaterChange)
}

func TestTransform_KPIRounding(t *testing.T) {
	vm := Transform(&SummaryPayload{
		Summary: Summary{
			TotalUsers:     42,
			StepsAvg7d:     8431.6,
			HeartRateAvg7d: 71.4,
			SleepAvg7d:     7.25,
			WaterAvg7d:     2.5,
		},
	})

	assert.Equal(t, 42, vm.Metrics.TotalPatients)
	assert.Equal(t, 42, vm.Metrics.ActivePatients)
	assert.Equal(t, 8432, vm.Metrics.AvgSteps)
	assert.Equal(t, 71, vm.Metrics.AvgHeartRate)
	assert.Equal(t, 7.3, vm.Metrics.AvgSleep)
	assert.Equal(t, 3, vm.Metrics.AvgWater)
}

func TestTransform_SeriesBuckets(t *testing.T) {
	vm := Transform(&SummaryPayload{
		Timeseries: []MetricReading{
			{Day: day("2026-08-01"), Metric: MetricSteps, Value: 8000},
			{Day: day("2026-08-01"), Metric: MetricWater, Value: 2500},
			{Day: day("2026-08-01"), Metric: MetricSleep, Value: 7.5},
		},
	})

	require.Len(t, vm.TrendData, 1)
	assert.Equal(t, 8000.0, vm.TrendData[0].Value)

	require.Len(t, vm.WaterData, 1)
	assert.Equal(t, 2.5, vm.WaterData[0].Value)

	require.Len(t, vm.SleepData, 1)
	assert.Empty(t, vm.HeartRateData)
}

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricSteps, Value: 8000},
		{Day: day("2026-08-02"), Metric: MetricSteps, Value: 10000},
		{Day: day("2026-08-01"), Metric: MetricHeartRate, Value: 70},
		{Day: day("2026-08-02"), Metric: MetricHeartRate, Value: 74},
		{Day: day("2026-08-01"), Metric: MetricSleep, Value: 7.2},
		{Day: day("2026-08-01"), Metric: MetricWater, Value: 2400},
	}

	slices := Distribution(readings)

	require.Len(t, slices, 4)

	// mean(8000,10000)/100 = 90
	assert.Equal(t, PieSlice{Name: "Steps", Value: 90, Color: "#00D4FF"}, slices[0])
	// mean(70,74) = 72
	assert.Equal(t, PieSlice{Name: "Heart rate", Value: 72, Color: "#FF6B6B"}, slices[1])
	// 7.2 * 10 = 72
	assert.Equal(t, PieSlice{Name: "Sleep", Value: 72, Color: "#8B5CF6"}, slices[2])
	// 2400 / 100 = 24
	assert.Equal(t, PieSlice{Name: "Water", Value: 24, Color: "#00FF88"}, slices[3])
}

func TestDistribution_MissingKindYieldsZeroSlice(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricSteps, Value: 8000},
		{Day: day("2026-08-01"), Metric: MetricSleep, Value: 7.0},
		{Day: day("2026-08-01"), Metric: MetricWater, Value: 2000},
	}

	slices := Distribution(readings)

	require.Len(t, slices, 4)
	assert.Equal(t, PieSlice{Name: "Heart rate", Value: 0, Color: "#FF6B6B"}, slices[1])
}

func TestDistribution_Empty(t *testing.T) {
	slices := Distribution(nil)

	require.Len(t, slices, 4)
	for _, s := range slices {
		assert.Equal(t, 0, s.Value)
		assert.NotEmpty(t, s.Color)
	}
}

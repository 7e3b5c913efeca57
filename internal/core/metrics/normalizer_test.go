package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) APIDate {
	t, _ := time.Parse("2006-01-02", s)
	return APIDate{Time: t}
}

func TestGroupByMetric(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricSteps, Value: 8000},
		{Day: day("2026-08-01"), Metric: MetricWater, Value: 2500},
		{Day: day("2026-08-02"), Metric: MetricSteps, Value: 9500},
		{Day: day("2026-08-02"), Metric: MetricWater, Value: 1800},
	}

	grouped := GroupByMetric(readings)

	require.Len(t, grouped[MetricSteps], 2)
	require.Len(t, grouped[MetricWater], 2)

	// Input order is preserved, no sorting
	assert.Equal(t, 8000.0, grouped[MetricSteps][0].Value)
	assert.Equal(t, 9500.0, grouped[MetricSteps][1].Value)

	// Water converted to liters at ingestion
	assert.Equal(t, 2.5, grouped[MetricWater][0].Value)
	assert.Equal(t, 1.8, grouped[MetricWater][1].Value)
}

func TestGroupByMetric_UnknownKindPassesThrough(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricKind("blood_oxygen"), Value: 97},
	}

	grouped := GroupByMetric(readings)

	require.Len(t, grouped[MetricKind("blood_oxygen")], 1)
	assert.Equal(t, 97.0, grouped[MetricKind("blood_oxygen")][0].Value)
}

func TestGroupByMetric_Empty(t *testing.T) {
	assert.Empty(t, GroupByMetric(nil))
	assert.Empty(t, GroupByMetric([]MetricReading{}))
}

func TestGroupByMetric_ConversionRunsOncePerRawPayload(t *testing.T) {
	// The normalizer only ever sees raw readings; running it over the
	// same raw payload twice must give identical results, not halve the
	// water values again.
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricWater, Value: 2000},
	}

	first := GroupByMetric(readings)
	second := GroupByMetric(readings)

	assert.Equal(t, 2.0, first[MetricWater][0].Value)
	assert.Equal(t, first[MetricWater][0].Value, second[MetricWater][0].Value)
}

func TestFilterSeries(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricHeartRate, Value: 71.6},
		{Day: day("2026-08-01"), Metric: MetricSteps, Value: 8000},
		{Day: day("2026-08-02"), Metric: MetricHeartRate, Value: 74.2},
	}

	series := FilterSeries(readings, MetricHeartRate)

	require.Len(t, series, 2)
	assert.Equal(t, 72.0, series[0].Value)
	assert.Equal(t, 74.0, series[1].Value)
}

func TestFilterSeries_WaterInLiters(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricWater, Value: 2460},
	}

	series := FilterSeries(readings, MetricWater)

	require.Len(t, series, 1)
	assert.Equal(t, 2.5, series[0].Value)
}

func TestFilterSeries_NoMatches(t *testing.T) {
	readings := []MetricReading{
		{Day: day("2026-08-01"), Metric: MetricSteps, Value: 8000},
	}
	assert.Empty(t, FilterSeries(readings, MetricSleep))
}

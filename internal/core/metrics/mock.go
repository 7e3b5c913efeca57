package metrics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Compiled-in dataset shown before any upload and whenever the backend
// is unreachable. Values are plausible for a small wellness cohort.

var defaultKPI = KPI{
	TotalPatients:   1284,
	ActivePatients:  1093,
	AvgAge:          defaultAvgAge,
	CriticalCases:   3,
	AvgSteps:        8432,
	AvgHeartRate:    72,
	AvgSleep:        7.2,
	AvgWater:        2,
	StepsChange:     5,
	HeartRateChange: -2,
	SleepChange:     3,
	WaterChange:     8,
}

var defaultAgeGroups = []AgeGroup{
	{Range: "18-25", Count: 210},
	{Range: "26-35", Count: 384},
	{Range: "36-45", Count: 342},
	{Range: "46-60", Count: 251},
	{Range: "60+", Count: 97},
}

var defaultInsights = []Insight{
	{Title: "Activity is trending up", Body: "Average daily steps rose 5% over the comparison window."},
	{Title: "Hydration improved", Body: "Water intake is up 8%; keep the current routine."},
	{Title: "Sleep is stable", Body: "Average sleep holds at 7.2h, within the recommended range."},
}

// MockProvider supplies deterministic synthetic data for offline
// operation. A zero seed derives one from the clock.
type MockProvider struct {
	rng *rand.Rand
}

func NewMockProvider(seed int64) *MockProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockProvider{rng: rand.New(rand.NewSource(seed))}
}

// DefaultViewModel returns a fresh copy of the compiled-in dataset.
// Series are regenerated per call so callers can mutate their copy.
func (m *MockProvider) DefaultViewModel() *ViewModel {
	return &ViewModel{
		Metrics:       defaultKPI,
		TrendData:     m.SyntheticSeries(MetricSteps, 30),
		HeartRateData: m.SyntheticSeries(MetricHeartRate, 30),
		SleepData:     m.SyntheticSeries(MetricSleep, 30),
		WaterData:     m.SyntheticSeries(MetricWater, 30),
		DiseaseData: []PieSlice{
			{Name: MetricSteps.DisplayName(), Value: 84, Color: kindColors[MetricSteps]},
			{Name: MetricHeartRate.DisplayName(), Value: 72, Color: kindColors[MetricHeartRate]},
			{Name: MetricSleep.DisplayName(), Value: 72, Color: kindColors[MetricSleep]},
			{Name: MetricWater.DisplayName(), Value: 21, Color: kindColors[MetricWater]},
		},
		AgeGroups: append([]AgeGroup(nil), defaultAgeGroups...),
		Insights:  append([]Insight(nil), defaultInsights...),
	}
}

// SyntheticSeries generates days of daily values for a kind, ending
// today, with bounded jitter around a per-kind baseline.
func (m *MockProvider) SyntheticSeries(kind MetricKind, days int) Series {
	type shape struct {
		base, jitter float64
	}
	shapes := map[MetricKind]shape{
		MetricSteps:     {base: 8000, jitter: 3000},
		MetricHeartRate: {base: 70, jitter: 12},
		MetricSleep:     {base: 7, jitter: 1.5},
		MetricWater:     {base: 2.0, jitter: 0.8},
	}
	sh, ok := shapes[kind]
	if !ok {
		sh = shape{base: 50, jitter: 10}
	}

	start := time.Now().AddDate(0, 0, -days+1)
	series := make(Series, 0, days)
	for i := 0; i < days; i++ {
		v := sh.base + (m.rng.Float64()*2-1)*sh.jitter
		if v < 0 {
			v = 0
		}
		series = append(series, Point{
			Date:   start.AddDate(0, 0, i),
			Value:  RoundSeriesValue(kind, v),
			Metric: kind,
		})
	}
	return series
}

// MockUploadID mints a dataset id for uploads that were served by the
// mock fallback, recognizable by its prefix.
func MockUploadID() string {
	return fmt.Sprintf("mock_%s", uuid.NewString())
}

// IsMockDataID reports whether a dataset id came from the mock fallback
func IsMockDataID(id string) bool {
	return len(id) >= 5 && id[:5] == "mock_"
}

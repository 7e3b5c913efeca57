package metrics

import "math"

// Transform converts a raw backend payload into the dashboard ViewModel.
// It is pure and total: missing or malformed fields degrade to defaults,
// never to an error. Anomalies and trends pass through unchanged.
func Transform(payload *SummaryPayload) *ViewModel {
	if payload == nil {
		payload = &SummaryPayload{}
	}

	grouped := GroupByMetric(payload.Timeseries)

	// total_users == 0 means the backend omitted the field; the cards
	// floor at 1 to distinguish that from an observed-empty dataset.
	totalUsers := payload.Summary.TotalUsers
	if totalUsers == 0 {
		totalUsers = 1
	}

	kpi := KPI{
		TotalPatients:   totalUsers,
		ActivePatients:  totalUsers,
		AvgAge:          defaultAvgAge,
		CriticalCases:   CountUrgent(payload.Anomalies),
		AvgSteps:        int(math.Round(payload.Summary.StepsAvg7d)),
		AvgHeartRate:    int(math.Round(payload.Summary.HeartRateAvg7d)),
		AvgSleep:        Round1(payload.Summary.SleepAvg7d),
		AvgWater:        int(math.Round(payload.Summary.WaterAvg7d)),
		StepsChange:     int(math.Round(TrendPercent(payload.Trends, MetricSteps))),
		HeartRateChange: int(math.Round(TrendPercent(payload.Trends, MetricHeartRate))),
		SleepChange:     int(math.Round(TrendPercent(payload.Trends, MetricSleep))),
		WaterChange:     int(math.Round(TrendPercent(payload.Trends, MetricWater))),
	}

	return &ViewModel{
		Metrics:       kpi,
		TrendData:     grouped[MetricSteps],
		HeartRateData: grouped[MetricHeartRate],
		SleepData:     grouped[MetricSleep],
		WaterData:     grouped[MetricWater],
		Anomalies:     payload.Anomalies,
		Trends:        payload.Trends,
	}
}

// The backend carries no demographic data; the cards show a fixed age
// until it does.
const defaultAvgAge = 35

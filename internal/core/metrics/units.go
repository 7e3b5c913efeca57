package metrics

import (
	"math"
	"strings"
)

// urgentMarker is the substring the backend embeds in an anomaly reason
// to flag it as urgent. Case-sensitive by backend convention.
const urgentMarker = "Urgent"

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ConvertReadingValue applies the ingestion-time unit conversion for a
// raw backend value. Water arrives in milliliters and is carried in
// liters everywhere else; all other kinds pass through unchanged.
func ConvertReadingValue(kind MetricKind, v float64) float64 {
	if kind == MetricWater {
		return Round1(v / 1000)
	}
	return v
}

// RoundSeriesValue applies the per-kind display rounding for series
// points: whole numbers for steps and heart rate, one decimal for sleep
// and water.
func RoundSeriesValue(kind MetricKind, v float64) float64 {
	switch kind {
	case MetricSteps, MetricHeartRate:
		return math.Round(v)
	case MetricSleep, MetricWater:
		return Round1(v)
	default:
		return v
	}
}

// TrendPercent looks up the percent change for a kind. First match wins;
// a second entry for the same metric is ignored. Absent entries yield 0.
func TrendPercent(trends []TrendEntry, kind MetricKind) float64 {
	for _, t := range trends {
		if t.Metric == kind {
			return t.ChangePercent
		}
	}
	return 0
}

// IsUrgent reports whether an anomaly reason carries the urgent marker.
// The backend contract is an exact substring match; a structured
// severity field would be preferable but is not part of the wire format.
func IsUrgent(reason string) bool {
	return strings.Contains(reason, urgentMarker)
}

// CountUrgent counts the anomalies classified as urgent
func CountUrgent(anomalies []AnomalyEntry) int {
	n := 0
	for _, a := range anomalies {
		if IsUrgent(a.Reason) {
			n++
		}
	}
	return n
}

package metrics

import "math"

// Fixed chart colors per metric kind
var kindColors = map[MetricKind]string{
	MetricSteps:     "#00D4FF",
	MetricHeartRate: "#FF6B6B",
	MetricSleep:     "#8B5CF6",
	MetricWater:     "#00FF88",
}

// distributionScale brings the four metric magnitudes onto comparable
// pie-chart scales: thousands of steps vs single-digit liters would
// otherwise make three slices invisible.
func distributionScale(kind MetricKind, mean float64) float64 {
	switch kind {
	case MetricSteps:
		return mean / 100
	case MetricHeartRate:
		return mean
	case MetricSleep:
		return mean * 10
	case MetricWater:
		return mean / 100
	default:
		return mean
	}
}

// Distribution summarizes the relative magnitude of the four metric
// kinds over a raw timeseries as pie slices. A kind with no observations
// contributes a zero-valued slice rather than an error.
func Distribution(readings []MetricReading) []PieSlice {
	sums := make(map[MetricKind]float64)
	counts := make(map[MetricKind]int)
	for _, r := range readings {
		sums[r.Metric] += r.Value
		counts[r.Metric]++
	}

	slices := make([]PieSlice, 0, len(KnownKinds))
	for _, kind := range KnownKinds {
		mean := 0.0
		if counts[kind] > 0 {
			mean = sums[kind] / float64(counts[kind])
		}
		slices = append(slices, PieSlice{
			Name:  kind.DisplayName(),
			Value: int(math.Round(distributionScale(kind, mean))),
			Color: kindColors[kind],
		})
	}
	return slices
}

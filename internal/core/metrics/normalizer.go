package metrics

// GroupByMetric buckets a flat list of readings into per-kind series,
// applying unit conversion once per raw value. Input order is preserved;
// the backend emits readings chronologically and this function does not
// sort. Unknown kinds get their own bucket.
func GroupByMetric(readings []MetricReading) map[MetricKind]Series {
	grouped := make(map[MetricKind]Series)
	for _, r := range readings {
		grouped[r.Metric] = append(grouped[r.Metric], Point{
			Date:   r.Day.Time,
			Value:  ConvertReadingValue(r.Metric, r.Value),
			Metric: r.Metric,
		})
	}
	return grouped
}

// FilterSeries extracts the series for one kind from a flat list of
// readings, applying the per-kind display rounding. Used by the
// single-metric accessors, which re-fetch the raw timeseries on every
// request.
func FilterSeries(readings []MetricReading, kind MetricKind) Series {
	var out Series
	for _, r := range readings {
		if r.Metric != kind {
			continue
		}
		v := ConvertReadingValue(kind, r.Value)
		out = append(out, Point{
			Date:  r.Day.Time,
			Value: RoundSeriesValue(kind, v),
		})
	}
	return out
}

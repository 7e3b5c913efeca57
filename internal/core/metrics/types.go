package metrics

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MetricKind identifies one of the tracked health metrics. Unknown kinds
// coming from the backend are carried through under their own name.
type MetricKind string

const (
	MetricSteps     MetricKind = "steps"
	MetricHeartRate MetricKind = "heart_rate"
	MetricSleep     MetricKind = "sleep"
	MetricWater     MetricKind = "water"
)

// KnownKinds lists the four tracked kinds in display order
var KnownKinds = []MetricKind{MetricSteps, MetricHeartRate, MetricSleep, MetricWater}

// DisplayName returns the human-readable label for a kind ("heart_rate" -> "Heart rate")
func (k MetricKind) DisplayName() string {
	s := strings.ReplaceAll(string(k), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// APIDate is a date that tolerates both "2006-01-02" and RFC3339 on the wire
type APIDate struct {
	time.Time
}

func (d *APIDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date format: %q", raw)
}

func (d APIDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// MetricReading is one dated reading as produced by the backend or the
// mock generator. Water arrives in milliliters.
type MetricReading struct {
	Day    APIDate    `json:"day"`
	Metric MetricKind `json:"metric"`
	Value  float64    `json:"value"`
}

// TrendEntry is the percent change of a metric over the comparison window
type TrendEntry struct {
	Metric        MetricKind `json:"metric"`
	ChangePercent float64    `json:"change_percent"`
}

// AnomalyEntry is a backend-flagged irregularity. Urgency is conveyed
// through the free-text reason, see IsUrgent.
type AnomalyEntry struct {
	Reason string     `json:"reason"`
	Metric MetricKind `json:"metric,omitempty"`
	Day    *APIDate   `json:"day,omitempty"`
	Value  float64    `json:"value,omitempty"`
}

// Summary carries the backend's 7-day rolling averages. Any field may be
// absent on the wire and decodes to zero.
type Summary struct {
	TotalUsers     int     `json:"total_users"`
	StepsAvg7d     float64 `json:"steps_avg_7d"`
	HeartRateAvg7d float64 `json:"heart_rate_avg_7d"`
	SleepAvg7d     float64 `json:"sleep_avg_7d"`
	WaterAvg7d     float64 `json:"water_avg_7d"`
}

// SummaryPayload is the full response of the summary endpoint
type SummaryPayload struct {
	UserID     string          `json:"user_id,omitempty"`
	DataID     string          `json:"data_id,omitempty"`
	Summary    Summary         `json:"summary"`
	Trends     []TrendEntry    `json:"trends"`
	Anomalies  []AnomalyEntry  `json:"anomalies"`
	Timeseries []MetricReading `json:"timeseries"`
}

// Point is one entry of a chart series. When Metric is set, marshaling
// emits an extra alias key named after the metric with the same value,
// which is what the chart widgets expect.
type Point struct {
	Date   time.Time
	Value  float64
	Metric MetricKind
}

func (p Point) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"date":  p.Date.Format("2006-01-02"),
		"value": p.Value,
	}
	if p.Metric != "" {
		m[string(p.Metric)] = p.Value
	}
	return json.Marshal(m)
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  APIDate `json:"date"`
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Date = raw.Date.Time
	p.Value = raw.Value

	// Recover the alias key, if any
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err == nil {
		for _, kind := range KnownKinds {
			if _, ok := keys[string(kind)]; ok {
				p.Metric = kind
				break
			}
		}
	}
	return nil
}

// Series is an ordered sequence of points for one metric kind
type Series []Point

// PieSlice is one wedge of the wellness distribution chart
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// AgeGroup is one bar of the demographic chart, mock-backed only
type AgeGroup struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Insight is a short narrative takeaway shown on the dashboard
type Insight struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// KPI holds the derived scalar metrics for the dashboard cards.
// Rounding is applied once, when the KPI is built; readers must not
// re-round.
type KPI struct {
	TotalPatients   int     `json:"totalPatients"`
	ActivePatients  int     `json:"activePatients"`
	AvgAge          int     `json:"avgAge"`
	CriticalCases   int     `json:"criticalCases"`
	AvgSteps        int     `json:"avgSteps"`
	AvgHeartRate    int     `json:"avgHeartRate"`
	AvgSleep        float64 `json:"avgSleep"`
	AvgWater        int     `json:"avgWater"`
	StepsChange     int     `json:"stepsChange"`
	HeartRateChange int     `json:"heartRateChange"`
	SleepChange     int     `json:"sleepChange"`
	WaterChange     int     `json:"waterChange"`
}

// ViewModel is the canonical in-memory shape the dashboard reads.
// Water series values are always liters; the milliliter conversion
// happens exactly once, at ingestion.
type ViewModel struct {
	Metrics       KPI            `json:"metrics"`
	TrendData     Series         `json:"trendData"`
	HeartRateData Series         `json:"heartRateData"`
	SleepData     Series         `json:"sleepData"`
	WaterData     Series         `json:"waterData"`
	DiseaseData   []PieSlice     `json:"diseaseData"`
	AgeGroups     []AgeGroup     `json:"ageGroups"`
	Insights      []Insight      `json:"insights"`
	Anomalies     []AnomalyEntry `json:"anomalies"`
	Trends        []TrendEntry   `json:"trends"`
	CurrentDataID string         `json:"currentDataId,omitempty"`
}

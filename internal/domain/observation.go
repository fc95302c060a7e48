package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used throughout the
// pipeline. Dates carry no time-of-day; they are stored as UTC midnight.
const DateLayout = "2006-01-02"

// RawRow is one upstream record before normalization: arbitrary column names
// mapped to their string values, as produced by CSV headers or flat JSON.
type RawRow map[string]string

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Observation is one normalized daily reading for a location.
// Exactly one Observation exists per (location, date) after EnforceDaily.
type Observation struct {
	Location  string    `json:"location"`
	Date      time.Time `json:"date"` // UTC midnight
	TmaxC     float64   `json:"tmax_c"`
	RHPercent float64   `json:"rh_percent"`
}

// Day returns the observation date in canonical form.
func (o Observation) Day() string {
	return o.Date.Format(DateLayout)
}

// Source tags a row's provenance in the concatenated alert-scan timeline.
type Source string

const (
	SourceHistory  Source = "history"
	SourceForecast Source = "forecast"
)

// ClassifiedObservation is an Observation plus its derived heat metrics.
// The derived fields are pure functions of TmaxC and RHPercent and are
// recomputed whenever those change; they are never stored independently.
type ClassifiedObservation struct {
	Observation
	HeatIndexC float64   `json:"heat_index_c"`
	RiskLevel  RiskLevel `json:"risk_level"`
	RiskColor  string    `json:"risk_color"`
	RiskNote   string    `json:"risk_note"`
}

// ForecastPoint has the shape of an Observation with forecast provenance.
// Points are owned by the ForecastLocation call that produced them and are
// discarded after the pipeline run.
type ForecastPoint struct {
	Observation
	Provenance  Source    `json:"provenance"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Alert is one actionable heat warning, emitted only for days whose resolved
// risk level is a temperature-trigger level.
type Alert struct {
	ID          string    `json:"id"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	TmaxC       float64   `json:"tmax_c"`
	RHPercent   float64   `json:"rh_percent"`
	HeatIndexC  float64   `json:"heat_index_c"`
	TriggerKind RiskLevel `json:"trigger_kind"`
	Source      Source    `json:"source"`
	ProducedAt  time.Time `json:"produced_at"`
}

// generateAlertID produces a deterministic ID from the alert's key fields.
// Reprocessing the same day yields the same ID, so downstream upserts stay
// idempotent across replays.
func generateAlertID(location string, date time.Time, trigger RiskLevel, source Source) string {
	input := fmt.Sprintf("%s|%s|%s|%s", location, date.Format(DateLayout), trigger, source)
	hash := sha256.Sum256([]byte(input))
	return "heat-" + hex.EncodeToString(hash[:8])
}

package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
)

// Result is the full output of one analytics pass over a batch of raw rows.
type Result struct {
	History  []domain.ClassifiedObservation `json:"history"`
	Forecast []domain.ClassifiedObservation `json:"forecast"`
	Alerts   []domain.Alert                 `json:"alerts"`
	Skipped  []string                       `json:"skipped_locations,omitempty"`
}

// HeatAnalyzer runs the core pass: normalize, classify, forecast, then
// compile alerts. It holds the configured thresholds and forecast options
// and is safe for concurrent use; every call works on its own data.
type HeatAnalyzer struct {
	bands       domain.RiskBands
	opts        domain.ForecastOptions
	horizonDays int
	logger      *slog.Logger
}

// NewAnalyzer creates a HeatAnalyzer with the given thresholds, forecast
// options, and default horizon.
func NewAnalyzer(bands domain.RiskBands, opts domain.ForecastOptions, horizonDays int, logger *slog.Logger) *HeatAnalyzer {
	return &HeatAnalyzer{
		bands:       bands,
		opts:        opts,
		horizonDays: horizonDays,
		logger:      logger,
	}
}

// AnalyzeBatch implements the pipeline Analyzer contract using the
// configured default horizon.
func (a *HeatAnalyzer) AnalyzeBatch(_ context.Context, rows []domain.RawRow) (Result, error) {
	return a.Analyze(rows, a.horizonDays)
}

// Analyze runs the full pass over raw rows with an explicit horizon.
//
// A *SchemaError or *ValueError from normalization rejects the whole batch
// with no partial result. A location with insufficient history is recoverable
// only inside a multi-location batch: its forecast and alerts are omitted, it
// is listed in Result.Skipped, and every other location proceeds. When every
// location lacks a trend the batch fails with *InsufficientHistoryError.
func (a *HeatAnalyzer) Analyze(rows []domain.RawRow, horizonDays int) (Result, error) {
	if horizonDays <= 0 {
		return Result{}, &domain.ValueError{Field: "horizon_days", Msg: "must be a positive integer"}
	}

	obs, err := domain.NormalizeRows(rows)
	if err != nil {
		return Result{}, err
	}
	daily := domain.EnforceDaily(obs)

	result := Result{History: domain.ClassifyAll(daily, a.bands)}

	var shortHistory *domain.InsufficientHistoryError
	locations, byLoc := domain.GroupByLocation(daily)
	for _, loc := range locations {
		points, err := domain.ForecastLocation(byLoc[loc], horizonDays, a.opts)
		if err != nil {
			var ihe *domain.InsufficientHistoryError
			if errors.As(err, &ihe) {
				a.logger.Warn("skipping forecast, insufficient history",
					"location", loc, "points", ihe.Points)
				result.Skipped = append(result.Skipped, loc)
				if shortHistory == nil {
					shortHistory = ihe
				}
				continue
			}
			return Result{}, err
		}
		result.Forecast = append(result.Forecast, domain.ClassifyForecast(points, a.bands)...)
	}

	if len(locations) > 0 && len(result.Skipped) == len(locations) {
		return Result{}, shortHistory
	}

	result.Alerts = domain.CompileAlerts(result.History, result.Forecast)
	return result, nil
}

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
	"github.com/couchcryptid/heatwave-ews/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Analyzer runs the analytics pass over a batch of decoded rows.
type Analyzer interface {
	AnalyzeBatch(ctx context.Context, rows []domain.RawRow) (Result, error)
}

// BatchLoader writes the compiled alerts to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, alerts []domain.Alert) error
}

// Pipeline orchestrates the extract-analyze-load loop.
type Pipeline struct {
	extractor BatchExtractor
	analyzer  Analyzer
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, a Analyzer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		analyzer:  a,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has analyzed at least one batch,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not analyzed any batches yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-analyze-load cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.RowsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.analyzeAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// analyzeAndLoad decodes the batch, runs the analytics pass, loads the
// compiled alerts, and commits offsets. Returns whether the batch made it
// through analysis and false (second value) if the pipeline should stop.
func (p *Pipeline) analyzeAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration, maxBackoff time.Duration) (bool, bool) {
	rows := make([]domain.RawRow, 0, len(rawBatch))
	for _, raw := range rawBatch {
		var row domain.RawRow
		if err := json.Unmarshal(raw.Value, &row); err != nil {
			p.logger.Warn("undecodable message, skipping",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.DecodeErrors.Inc()
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		p.commitBatch(ctx, rawBatch)
		return false, true
	}

	result, err := p.analyzer.AnalyzeBatch(ctx, rows)
	if err != nil {
		// Analysis is pure and deterministic: a failed batch fails the same
		// way on redelivery, so commit and move on rather than retry.
		p.logger.Error("batch analysis failed", "error", err, "rows", len(rows))
		p.metrics.AnalysisErrors.Inc()
		p.commitBatch(ctx, rawBatch)
		return false, true
	}
	p.metrics.ForecastSkips.Add(float64(len(result.Skipped)))

	if err := p.loader.LoadBatch(ctx, result.Alerts); err != nil {
		p.logger.Error("load alerts failed", "error", err, "alerts", len(result.Alerts))
		return false, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	for _, a := range result.Alerts {
		p.metrics.AlertsProduced.WithLabelValues(string(a.TriggerKind), string(a.Source)).Inc()
	}

	p.commitBatch(ctx, rawBatch)
	return true, true
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func (p *Pipeline) commitBatch(ctx context.Context, rawBatch []domain.RawEvent) {
	for _, raw := range rawBatch {
		if raw.Commit == nil {
			continue
		}
		if err := raw.Commit(ctx); err != nil {
			p.logger.Warn("commit offset failed", "error", err,
				"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
		}
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// heatwave analytics pipeline.
type Metrics struct {
	RowsConsumed    prometheus.Counter
	AlertsProduced  *prometheus.CounterVec // labels: trigger={Heatwave,Severe Heatwave}, source={history,forecast}
	DecodeErrors    prometheus.Counter
	AnalysisErrors  prometheus.Counter
	ForecastSkips   prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatwave_ews",
			Name:      "rows_consumed_total",
			Help:      "Total observation rows read from the source topic.",
		}),
		AlertsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatwave_ews",
			Name:      "alerts_produced_total",
			Help:      "Total heat alerts written to the sink topic.",
		}, []string{"trigger", "source"}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatwave_ews",
			Name:      "decode_errors_total",
			Help:      "Total source messages dropped as undecodable JSON.",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatwave_ews",
			Name:      "analysis_errors_total",
			Help:      "Total batches rejected by normalization or classification.",
		}),
		ForecastSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatwave_ews",
			Name:      "forecast_skips_total",
			Help:      "Locations skipped for insufficient history.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatwave_ews",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatwave_ews",
			Name:      "batch_size",
			Help:      "Number of observation rows per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatwave_ews",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-analyze-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.RowsConsumed,
		m.AlertsProduced,
		m.DecodeErrors,
		m.AnalysisErrors,
		m.ForecastSkips,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsConsumed:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatwave_ews", Name: "rows_consumed_total"}),
		AlertsProduced:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatwave_ews", Name: "alerts_produced_total"}, []string{"trigger", "source"}),
		DecodeErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatwave_ews", Name: "decode_errors_total"}),
		AnalysisErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatwave_ews", Name: "analysis_errors_total"}),
		ForecastSkips:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatwave_ews", Name: "forecast_skips_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "heatwave_ews", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatwave_ews", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatwave_ews", Name: "batch_processing_duration_seconds"}),
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
	"github.com/couchcryptid/heatwave-ews/internal/pipeline"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// BatchAnalyzer runs the analytics pass for ad-hoc API requests.
type BatchAnalyzer interface {
	Analyze(rows []domain.RawRow, horizonDays int) (pipeline.Result, error)
}

// Server exposes health, readiness, metrics, and analysis HTTP endpoints.
type Server struct {
	httpServer     *http.Server
	analyzer       BatchAnalyzer
	defaultHorizon int
	logger         *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /v1/analyze routes.
func NewServer(addr string, ready ReadinessChecker, analyzer BatchAnalyzer, defaultHorizon int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		analyzer:       analyzer,
		defaultHorizon: defaultHorizon,
		logger:         logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// analyzeResponse wraps the pipeline result with the request's run ID.
type analyzeResponse struct {
	RunID string `json:"run_id"`
	pipeline.Result
}

// handleAnalyze accepts a JSON array of raw observation rows, runs the full
// pipeline over them, and returns classified history, forecast, and alerts.
// The horizon query parameter overrides the configured default.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	start := time.Now()

	horizon := s.defaultHorizon
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, runID, fmt.Errorf("horizon must be a positive integer, got %q", raw))
			return
		}
		horizon = n
	}

	var payload []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, runID, fmt.Errorf("decode request body: %w", err))
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, runID, errors.New("empty observation table"))
		return
	}

	rows := make([]domain.RawRow, len(payload))
	for i, m := range payload {
		rows[i] = rawRowFromAny(m)
	}

	result, err := s.analyzer.Analyze(rows, horizon)
	if err != nil {
		s.logger.Warn("analyze request rejected", "run_id", runID, "error", err)
		writeError(w, statusForError(err), runID, err)
		return
	}

	s.logger.Info("analyze request served",
		"run_id", runID,
		"rows", len(rows),
		"alerts", len(result.Alerts),
		"skipped", len(result.Skipped),
		"duration", time.Since(start),
	)
	writeJSON(w, http.StatusOK, analyzeResponse{RunID: runID, Result: result})
}

// rawRowFromAny flattens a decoded JSON object into the string-valued row
// the normalizer expects. Numbers keep full precision via the generic
// float format.
func rawRowFromAny(m map[string]any) domain.RawRow {
	row := make(domain.RawRow, len(m))
	for k, v := range m {
		switch value := v.(type) {
		case string:
			row[k] = value
		case float64:
			row[k] = strconv.FormatFloat(value, 'g', -1, 64)
		case bool:
			row[k] = strconv.FormatBool(value)
		case nil:
			row[k] = ""
		default:
			row[k] = fmt.Sprint(value)
		}
	}
	return row
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	var se *domain.SchemaError
	var ve *domain.ValueError
	var ihe *domain.InsufficientHistoryError
	switch {
	case errors.As(err, &se), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ihe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, runID string, err error) {
	writeJSON(w, status, map[string]string{"run_id": runID, "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}

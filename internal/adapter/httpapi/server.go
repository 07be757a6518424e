// Package httpapi exposes health, readiness, metrics, and the query API
// consumed by the dashboard rendering layer.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/wildfire-data-service/internal/dataset"
	"github.com/couchcryptid/wildfire-data-service/internal/domain"
	"github.com/couchcryptid/wildfire-data-service/internal/query"
)

// Querier is the engine surface the server needs.
type Querier interface {
	CheckReadiness(ctx context.Context) error
	Query(ctx context.Context, spec domain.FilterSpec) (domain.FilteredView, error)
	Aggregates(ctx context.Context, spec domain.FilterSpec) (query.AggregateSet, error)
	Summary(ctx context.Context) (domain.Summary, []int, error)
	Refresh(ctx context.Context) (*domain.Dataset, error)
}

// Server wraps the HTTP listener and routes.
type Server struct {
	httpServer *http.Server
	engine     Querier
	logger     *slog.Logger
	defaults   FilterDefaults
}

// FilterDefaults fill in omitted query parameters.
type FilterDefaults struct {
	SampleSize int
	Seed       int64
}

// NewServer creates an HTTP server with health, metrics, and API routes.
func NewServer(addr string, engine Querier, defaults FilterDefaults, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine:   engine,
		logger:   logger,
		defaults: defaults,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/fires", s.handleFires)
	mux.HandleFunc("GET /api/v1/aggregates", s.handleAggregates)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)

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

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.engine.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// fireJSON is one record in an API response, with the derived categories
// materialized for the rendering layer.
type fireJSON struct {
	ID            string               `json:"id"`
	Name          string               `json:"name,omitempty"`
	Year          int                  `json:"year"`
	SizeAcres     float64              `json:"size_acres"`
	SizeCategory  domain.SizeCategory  `json:"size_category"`
	Cause         string               `json:"cause"`
	CauseCategory domain.CauseCategory `json:"cause_category"`
	State         string               `json:"state,omitempty"`
	Geo           domain.Geo           `json:"geo"`
}

type firesResponse struct {
	Matched    int        `json:"matched"`
	Returned   int        `json:"returned"`
	Sampled    bool       `json:"sampled"`
	SampleSize int        `json:"sample_size"`
	Records    []fireJSON `json:"records"`
}

func (s *Server) handleFires(w http.ResponseWriter, r *http.Request) {
	spec := s.parseFilterSpec(r)

	view, err := s.engine.Query(r.Context(), spec)
	if err != nil {
		s.writeLoadError(w, err)
		return
	}

	resp := firesResponse{
		Matched:    view.Matched,
		Returned:   len(view.Records),
		Sampled:    view.Sampled,
		SampleSize: view.SampleSize,
		Records:    make([]fireJSON, 0, len(view.Records)),
	}
	for _, rec := range view.Records {
		resp.Records = append(resp.Records, fireJSON{
			ID:            rec.ID,
			Name:          rec.Name,
			Year:          rec.Year,
			SizeAcres:     rec.SizeAcres,
			SizeCategory:  rec.SizeCategory(),
			Cause:         rec.Cause,
			CauseCategory: rec.CauseCategory(),
			State:         rec.State,
			Geo:           rec.Geo,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	spec := s.parseFilterSpec(r)

	aggs, err := s.engine.Aggregates(r.Context(), spec)
	if err != nil {
		s.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aggs)
}

type summaryResponse struct {
	Summary domain.Summary `json:"summary"`
	Years   []int          `json:"years"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, years, err := s.engine.Summary(r.Context())
	if err != nil {
		s.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: summary, Years: years})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := s.engine.Refresh(r.Context())
	if err != nil {
		s.writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "refreshed",
		"records":   ds.Len(),
		"dropped":   ds.Dropped(),
		"loaded_at": ds.LoadedAt(),
	})
}

// parseFilterSpec builds a FilterSpec from query parameters. Out-of-domain
// values are clamped or defaulted, never rejected: an unparseable year or
// seed falls back to its default with a logged warning, while an unknown
// size category stays an exact filter that matches nothing.
func (s *Server) parseFilterSpec(r *http.Request) domain.FilterSpec {
	q := r.URL.Query()

	spec := domain.NewFilterSpec()
	spec.SampleSize = s.defaults.SampleSize
	spec.Seed = s.defaults.Seed

	if v := q.Get("year"); v != "" && v != "all" {
		year, err := strconv.Atoi(v)
		if err != nil {
			s.logger.Warn("unparseable year filter, defaulting to all years", "value", v)
		} else {
			spec.Year = domain.ExactYear(year)
		}
	}

	if v := q.Get("size"); v != "" && v != "all" {
		spec.Size = domain.ExactSize(domain.SizeCategory(v))
	}

	if v := q.Get("sample_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.logger.Warn("unparseable sample_size, using default", "value", v)
		} else {
			spec.SampleSize = n // domain.Apply clamps out-of-range values
		}
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.logger.Warn("unparseable seed, using default", "value", v)
		} else {
			spec.Seed = seed
		}
	}

	return spec
}

// writeLoadError maps loader failures to 502: the upstream dataset source
// is the broken party, not this service.
func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	s.logger.Error("dataset load failed", "error", err)

	var loadErr *dataset.LoadError
	if errors.As(err, &loadErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  "dataset unavailable",
			"source": loadErr.Source,
			"detail": loadErr.Err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

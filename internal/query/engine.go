// Package query is the filter/sample engine: it applies per-interaction
// filter specs to the loaded dataset and computes the aggregate reductions
// the rendering layer consumes.
package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wildfire-data-service/internal/dataset"
	"github.com/couchcryptid/wildfire-data-service/internal/domain"
	"github.com/couchcryptid/wildfire-data-service/internal/observability"
)

// AggregateSet bundles the reductions computed over one filtered view.
// Every reduction is recomputed per call; nothing here is cached.
type AggregateSet struct {
	Total           int                                    `json:"total"`
	ByCause         map[string]int                         `json:"by_cause"`
	ByCauseCategory map[domain.CauseCategory]int           `json:"by_cause_category"`
	ByState         map[string]int                         `json:"by_state"`
	Yearly          []domain.YearTotal                     `json:"yearly"`
	CauseSizeMatrix map[string]map[domain.SizeCategory]int `json:"cause_size_matrix"`
}

// Engine answers filter/sample queries against the cached dataset. It holds
// no per-request state; one user interaction is one synchronous call.
type Engine struct {
	loader  *dataset.Loader
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New creates an Engine over a loader.
func New(loader *dataset.Loader, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
}

// CheckReadiness returns nil once the dataset has loaded successfully at
// least once, or an error describing why the service is not yet ready.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.loader.Loaded() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Query applies one filter spec and returns the sampled view.
func (e *Engine) Query(ctx context.Context, spec domain.FilterSpec) (domain.FilteredView, error) {
	ds, err := e.loader.Load(ctx)
	if err != nil {
		return domain.FilteredView{}, err
	}
	return e.apply(ds, spec), nil
}

// Aggregates applies one filter spec and reduces the resulting view.
func (e *Engine) Aggregates(ctx context.Context, spec domain.FilterSpec) (AggregateSet, error) {
	ds, err := e.loader.Load(ctx)
	if err != nil {
		return AggregateSet{}, err
	}

	view := e.apply(ds, spec)
	return AggregateSet{
		Total:           len(view.Records),
		ByCause:         domain.CountByCause(view.Records),
		ByCauseCategory: domain.CountByCauseCategory(view.Records),
		ByState:         domain.CountByState(view.Records),
		Yearly:          domain.YearlyTotals(view.Records),
		CauseSizeMatrix: domain.CauseSizeMatrix(view.Records),
	}, nil
}

// Summary reduces the full dataset (not a filtered view) to its headline
// statistics, plus the distinct years offered as filter options.
func (e *Engine) Summary(ctx context.Context) (domain.Summary, []int, error) {
	ds, err := e.loader.Load(ctx)
	if err != nil {
		return domain.Summary{}, nil, err
	}
	return domain.Summarize(ds.Records()), ds.Years(), nil
}

// Refresh invalidates the dataset cache and reloads from the source.
func (e *Engine) Refresh(ctx context.Context) (*domain.Dataset, error) {
	return e.loader.Refresh(ctx)
}

// Warm triggers an initial load so readiness flips without waiting for the
// first user interaction. Errors are logged, not fatal: the source may
// become reachable later.
func (e *Engine) Warm(ctx context.Context) {
	if _, err := e.loader.Load(ctx); err != nil {
		e.logger.Error("initial dataset load failed", "error", err)
	}
}

func (e *Engine) apply(ds *domain.Dataset, spec domain.FilterSpec) domain.FilteredView {
	start := e.clock.Now()
	view := domain.Apply(ds, spec)

	e.metrics.FilterRequests.Inc()
	e.metrics.FilterDuration.Observe(e.clock.Since(start).Seconds())
	e.metrics.ViewSize.Observe(float64(len(view.Records)))
	if view.Clamped {
		e.metrics.SampleClamps.Inc()
		e.logger.Warn("sample size clamped",
			"requested", spec.SampleSize,
			"effective", view.SampleSize,
		)
	}

	e.logger.Debug("filter applied",
		"matched", view.Matched,
		"returned", len(view.Records),
		"sampled", view.Sampled,
	)
	return view
}

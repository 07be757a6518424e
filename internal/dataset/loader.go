// Package dataset loads the wildfire dataset from a configured source and
// caches the parsed result. Loading is idempotent: within the cache's
// validity window repeated calls return the cached dataset with no I/O.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/wildfire-data-service/internal/domain"
	"github.com/couchcryptid/wildfire-data-service/internal/observability"
)

// Fetcher acquires the raw dataset bytes from a source.
type Fetcher interface {
	// Fetch retrieves the raw tabular resource.
	Fetch(ctx context.Context) ([]byte, error)

	// Source identifies the resource for logs and errors, e.g.
	// "s3://bucket/key" or a file path.
	Source() string
}

// LoadError is the single typed error for source-level failures: the source
// was unreachable, malformed, or schema-mismatched. No partial dataset is
// ever returned alongside it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fetches, parses, and caches the dataset. Concurrent callers on a
// cold cache are collapsed into one fetch by a single-flight group; the
// cached dataset is immutable and shared.
type Loader struct {
	fetcher Fetcher
	cache   *cache
	group   singleflight.Group
	logger  *slog.Logger
	metrics *observability.Metrics
	loaded  atomic.Bool
	clock   clockwork.Clock
}

// NewLoader creates a Loader caching parsed datasets for ttl. A ttl of zero
// or less caches for the process lifetime.
func NewLoader(f Fetcher, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return newLoaderWithClock(f, ttl, logger, metrics, clockwork.NewRealClock())
}

func newLoaderWithClock(f Fetcher, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Loader {
	return &Loader{
		fetcher: f,
		cache:   newCache(ttl, clock),
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Load returns the dataset, fetching and parsing on cache miss. Fetch and
// parse failures surface as *LoadError; the stale cache entry, if any, is
// not substituted.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	if ds, ok := l.cache.get(); ok {
		l.metrics.DatasetLoads.WithLabelValues("hit").Inc()
		return ds, nil
	}

	v, err, shared := l.group.Do("dataset", func() (any, error) {
		// A racing caller may have populated the cache while this call
		// waited on the group.
		if ds, ok := l.cache.get(); ok {
			return ds, nil
		}
		return l.fetchAndParse(ctx)
	})
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	if shared {
		l.logger.Debug("dataset load shared with concurrent caller")
	}
	return v.(*domain.Dataset), nil
}

// Refresh invalidates the cache and loads fresh data.
func (l *Loader) Refresh(ctx context.Context) (*domain.Dataset, error) {
	l.logger.Info("dataset refresh requested", "source", l.fetcher.Source())
	l.cache.invalidate()
	return l.Load(ctx)
}

// Loaded reports whether at least one load has succeeded since startup.
func (l *Loader) Loaded() bool { return l.loaded.Load() }

func (l *Loader) fetchAndParse(ctx context.Context) (*domain.Dataset, error) {
	source := l.fetcher.Source()
	start := l.clock.Now()
	l.metrics.DatasetLoads.WithLabelValues("miss").Inc()
	l.logger.Info("loading dataset", "source", source)

	data, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	ds, err := domain.ParseDataset(data, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	dropped := ds.Dropped()
	for reason, n := range dropped.ByReason {
		l.metrics.RecordsDropped.WithLabelValues(reason).Add(float64(n))
	}
	if dropped.Total > 0 {
		l.logger.Warn("records dropped during load",
			"source", source,
			"dropped", dropped.Total,
			"reasons", dropped.ByReason,
		)
	}

	l.cache.put(ds)
	l.loaded.Store(true)
	l.metrics.RecordsLoaded.Set(float64(ds.Len()))
	l.metrics.LoadDuration.Observe(l.clock.Since(start).Seconds())
	l.logger.Info("dataset loaded",
		"source", source,
		"records", ds.Len(),
		"dropped", dropped.Total,
	)
	return ds, nil
}

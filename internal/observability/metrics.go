package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset loader and the filter/sample engine.
type Metrics struct {
	// Loader metrics.
	DatasetLoads   *prometheus.CounterVec // labels: result={hit,miss,error}
	LoadDuration   prometheus.Histogram
	RecordsLoaded  prometheus.Gauge
	RecordsDropped *prometheus.CounterVec // labels: reason

	// Filter/sample engine metrics.
	FilterRequests prometheus.Counter
	FilterDuration prometheus.Histogram
	ViewSize       prometheus.Histogram
	SampleClamps   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by result: cache hit, cache miss, or error.",
		}, []string{"result"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a complete fetch-and-parse cycle on cache miss.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire",
			Name:      "dataset_records",
			Help:      "Number of valid records in the cached dataset.",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "dataset_records_dropped_total",
			Help:      "Records excluded during parsing, by validation reason.",
		}, []string{"reason"}),
		FilterRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "filter_requests_total",
			Help:      "Total filter/sample invocations.",
		}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire",
			Name:      "filter_duration_seconds",
			Help:      "Duration of one filter-and-sample pass.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ViewSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire",
			Name:      "filtered_view_size",
			Help:      "Number of records returned per filtered view.",
			Buckets:   []float64{0, 100, 500, 1000, 2500, 5000, 7500, 10000},
		}),
		SampleClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire",
			Name:      "sample_size_clamps_total",
			Help:      "Requests whose sample size was clamped into the allowed range.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetLoads,
		m.LoadDuration,
		m.RecordsLoaded,
		m.RecordsDropped,
		m.FilterRequests,
		m.FilterDuration,
		m.ViewSize,
		m.SampleClamps,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfire", Name: "dataset_loads_total"}, []string{"result"}),
		LoadDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wildfire", Name: "dataset_load_duration_seconds"}),
		RecordsLoaded:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wildfire", Name: "dataset_records"}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wildfire", Name: "dataset_records_dropped_total"}, []string{"reason"}),
		FilterRequests: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wildfire", Name: "filter_requests_total"}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wildfire", Name: "filter_duration_seconds"}),
		ViewSize:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wildfire", Name: "filtered_view_size"}),
		SampleClamps:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "wildfire", Name: "sample_size_clamps_total"}),
	}
}

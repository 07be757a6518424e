package query

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-data-service/internal/dataset"
	"github.com/couchcryptid/wildfire-data-service/internal/domain"
	"github.com/couchcryptid/wildfire-data-service/internal/observability"
)

const testGeoJSON = `{"type":"FeatureCollection","features":[
	{"type":"Feature","id":"a","geometry":{"type":"Point","coordinates":[-120.5,38.2]},
	 "properties":{"FIREYEAR":2001,"TOTALACRES":5,"STATCAUSE":"Lightning","STATENAME":"California"}},
	{"type":"Feature","id":"b","geometry":{"type":"Point","coordinates":[-121.0,44.0]},
	 "properties":{"FIREYEAR":2001,"TOTALACRES":1500,"STATCAUSE":"Campfire","STATENAME":"Oregon"}},
	{"type":"Feature","id":"c","geometry":{"type":"Point","coordinates":[-119.0,37.0]},
	 "properties":{"FIREYEAR":2002,"TOTALACRES":50,"STATCAUSE":"Miscellaneous","STATENAME":"California"}}
]}`

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context) ([]byte, error) { return f.data, f.err }
func (f *stubFetcher) Source() string                          { return "stub://fires" }

func newTestEngine(t *testing.T, f dataset.Fetcher) *Engine {
	t.Helper()
	loader := dataset.NewLoader(f, time.Minute, slog.Default(), observability.NewMetricsForTesting())
	return New(loader, slog.Default(), observability.NewMetricsForTesting())
}

func TestEngine_Query(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{data: []byte(testGeoJSON)})

	t.Run("filter by year", func(t *testing.T) {
		spec := domain.NewFilterSpec()
		spec.Year = domain.ExactYear(2001)

		view, err := engine.Query(context.Background(), spec)
		require.NoError(t, err)
		assert.Len(t, view.Records, 2)
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		spec := domain.NewFilterSpec()
		spec.Year = domain.ExactYear(1899)

		view, err := engine.Query(context.Background(), spec)
		require.NoError(t, err)
		assert.Empty(t, view.Records)
	})
}

func TestEngine_Aggregates(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{data: []byte(testGeoJSON)})

	aggs, err := engine.Aggregates(context.Background(), domain.NewFilterSpec())
	require.NoError(t, err)

	assert.Equal(t, 3, aggs.Total)
	assert.Equal(t, 1, aggs.ByCause["Lightning"])
	assert.Equal(t, 1, aggs.ByCauseCategory[domain.CauseNatural])
	assert.Equal(t, 1, aggs.ByCauseCategory[domain.CauseHuman])
	assert.Equal(t, 1, aggs.ByCauseCategory[domain.CauseUnknown])
	assert.Equal(t, 2, aggs.ByState["California"])
	require.Len(t, aggs.Yearly, 2)
	assert.Equal(t, 2001, aggs.Yearly[0].Year)
	assert.Equal(t, 2, aggs.Yearly[0].Fires)

	sum := 0
	for _, n := range aggs.ByCauseCategory {
		sum += n
	}
	assert.Equal(t, aggs.Total, sum)
}

func TestEngine_AggregatesEmptyView(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{data: []byte(testGeoJSON)})

	spec := domain.NewFilterSpec()
	spec.Year = domain.ExactYear(1899)

	aggs, err := engine.Aggregates(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 0, aggs.Total)
	assert.Empty(t, aggs.ByCause)
	assert.Empty(t, aggs.Yearly)
}

func TestEngine_Summary(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{data: []byte(testGeoJSON)})

	summary, years, err := engine.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalFires)
	assert.Equal(t, 1555.0, summary.TotalAcres)
	assert.Equal(t, []int{2001, 2002}, years)
}

func TestEngine_Readiness(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{data: []byte(testGeoJSON)})

	require.Error(t, engine.CheckReadiness(context.Background()), "not ready before first load")

	_, err := engine.Query(context.Background(), domain.NewFilterSpec())
	require.NoError(t, err)

	assert.NoError(t, engine.CheckReadiness(context.Background()))
}

func TestEngine_LoadFailurePropagates(t *testing.T) {
	engine := newTestEngine(t, &stubFetcher{err: errors.New("unreachable")})

	_, err := engine.Query(context.Background(), domain.NewFilterSpec())
	require.Error(t, err)

	var loadErr *dataset.LoadError
	assert.ErrorAs(t, err, &loadErr)

	_, err = engine.Aggregates(context.Background(), domain.NewFilterSpec())
	require.Error(t, err)

	_, _, err = engine.Summary(context.Background())
	require.Error(t, err)
}

func TestEngine_Refresh(t *testing.T) {
	fetcher := &stubFetcher{data: []byte(testGeoJSON)}
	engine := newTestEngine(t, fetcher)

	_, err := engine.Query(context.Background(), domain.NewFilterSpec())
	require.NoError(t, err)

	ds, err := engine.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

package dataset

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-data-service/internal/domain"
)

func parsedDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	ds, err := domain.ParseDataset([]byte(validGeoJSON), "test")
	require.NoError(t, err)
	return ds
}

func TestCache_GetEmpty(t *testing.T) {
	c := newCache(time.Minute, clockwork.NewFakeClock())

	_, ok := c.get()
	assert.False(t, ok)
}

func TestCache_PutGet(t *testing.T) {
	c := newCache(time.Minute, clockwork.NewFakeClock())
	ds := parsedDataset(t)

	c.put(ds)

	got, ok := c.get()
	require.True(t, ok)
	assert.Same(t, ds, got)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	c := newCache(time.Minute, fakeClock)
	c.put(parsedDataset(t))

	fakeClock.Advance(59 * time.Second)
	_, ok := c.get()
	assert.True(t, ok, "entry must survive within the TTL")

	fakeClock.Advance(2 * time.Second)
	_, ok = c.get()
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestCache_ExpiryIsExactAtBoundary(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	c := newCache(time.Minute, fakeClock)
	c.put(parsedDataset(t))

	fakeClock.Advance(time.Minute)
	_, ok := c.get()
	assert.False(t, ok, "entry expires exactly at the TTL boundary")
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	c := newCache(0, fakeClock)
	c.put(parsedDataset(t))

	fakeClock.Advance(10000 * time.Hour)
	_, ok := c.get()
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := newCache(time.Hour, clockwork.NewFakeClock())
	c.put(parsedDataset(t))

	c.invalidate()

	_, ok := c.get()
	assert.False(t, ok)
}

func TestCache_PutResetsTTL(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	c := newCache(time.Minute, fakeClock)
	c.put(parsedDataset(t))

	fakeClock.Advance(50 * time.Second)
	c.put(parsedDataset(t))

	fakeClock.Advance(50 * time.Second)
	_, ok := c.get()
	assert.True(t, ok, "second put must restart the TTL window")
}

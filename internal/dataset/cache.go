package dataset

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/wildfire-data-service/internal/domain"
)

// cache holds at most one parsed dataset with an explicit time-to-live.
// A TTL of zero or less means the entry lives for the process lifetime and
// is replaced only by an explicit invalidate. The dataset itself is
// immutable, so concurrent readers share the pointer without copying.
type cache struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu        sync.RWMutex
	value     *domain.Dataset
	expiresAt time.Time
}

func newCache(ttl time.Duration, clock clockwork.Clock) *cache {
	return &cache{clock: clock, ttl: ttl}
}

func (c *cache) get() (*domain.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil {
		return nil, false
	}
	if c.ttl > 0 && !c.clock.Now().Before(c.expiresAt) {
		return nil, false
	}
	return c.value, true
}

func (c *cache) put(ds *domain.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = ds
	if c.ttl > 0 {
		c.expiresAt = c.clock.Now().Add(c.ttl)
	}
}

func (c *cache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = nil
	c.expiresAt = time.Time{}
}

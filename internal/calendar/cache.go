package calendar

import (
	"fmt"
	"sync"
	"time"
)

const defaultCacheTTL = 24 * time.Hour

type cachedMonth struct {
	data      *MonthInfo
	fetchedAt time.Time
}

// monthCache keeps fetched months for a TTL
type monthCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*cachedMonth
	now   func() time.Time
}

func newMonthCache(ttl time.Duration) *monthCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &monthCache{
		ttl:   ttl,
		items: make(map[string]*cachedMonth),
		now:   time.Now,
	}
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func (c *monthCache) get(year int, month time.Month) (*MonthInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.items[monthKey(year, month)]
	if !ok || c.now().Sub(cached.fetchedAt) >= c.ttl {
		return nil, false
	}
	return cached.data, true
}

func (c *monthCache) put(info *MonthInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[monthKey(info.Year, info.Month)] = &cachedMonth{
		data:      info,
		fetchedAt: c.now(),
	}
}

func (c *monthCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cachedMonth)
}

func (c *monthCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

package ephem

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type cacheKey struct {
	body   string
	bucket int64
}

type cacheEntry struct {
	state      State
	computedAt time.Time
}

// Cache is a bounded position cache keyed by body and simulated-time bucket.
// An entry answers lookups for ttl of wall-clock time after it was computed.
// Entries are kept in computation order: lookups use Peek so reads never
// refresh an entry, and the LRU's oldest element is the least recently
// computed one.
type Cache struct {
	mu       sync.Mutex
	lru      *simplelru.LRU[cacheKey, cacheEntry]
	ttl      time.Duration
	capacity int
	now      func() time.Time
	onEvict  func()
}

func NewCache(capacity int, ttl time.Duration, now func() time.Time, onEvict func()) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache timeout must be positive, got %v", ttl)
	}
	if now == nil {
		now = time.Now
	}
	c := &Cache{ttl: ttl, capacity: capacity, now: now, onEvict: onEvict}
	lru, err := simplelru.NewLRU[cacheKey, cacheEntry](capacity, func(cacheKey, cacheEntry) {
		if c.onEvict != nil {
			c.onEvict()
		}
	})
	if err != nil {
		return nil, err
	}
	c.lru = lru
	return c, nil
}

// Bucket quantizes t to the cache granularity. Floor division keeps dates
// before 1970 in the right bucket.
func (c *Cache) Bucket(t time.Time) int64 {
	ms := t.UnixMilli()
	width := c.ttl.Milliseconds()
	if width <= 0 {
		width = 1
	}
	q := ms / width
	if ms%width != 0 && ms < 0 {
		q--
	}
	return q
}

func (c *Cache) get(k cacheKey) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lru.Peek(k)
	if !ok || c.now().Sub(e.computedAt) >= c.ttl {
		return State{}, false
	}
	return e.state, true
}

func (c *Cache) put(k cacheKey, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if c.lru.Len() >= c.capacity && !c.lru.Contains(k) {
		c.sweep(now)
	}
	c.lru.Add(k, cacheEntry{state: s, computedAt: now})
}

// sweep drops entries older than twice the timeout. Keys come back oldest
// first, so the scan stops at the first fresh entry.
func (c *Cache) sweep(now time.Time) {
	for _, k := range c.lru.Keys() {
		e, ok := c.lru.Peek(k)
		if !ok {
			continue
		}
		if now.Sub(e.computedAt) <= 2*c.ttl {
			return
		}
		c.lru.Remove(k)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

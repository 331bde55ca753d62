// Package querycache memoizes read calls to the API by key until an event
// says the data behind the key changed.
//
// Keys are colon-separated, e.g. "orders:r1:pending" or "order:42".
// Invalidating "orders" drops "orders" and everything under "orders:".
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value    any
	storedAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	// gen counts invalidations. While loads are in flight, invalidated maps
	// each invalidated key to the gen that dropped it, so a load that started
	// earlier does not store its result under that key.
	gen         uint64
	inflight    int
	invalidated map[string]uint64
	loading     map[string]int

	// staleAfter of zero keeps entries until invalidated.
	staleAfter time.Duration
	now        func() time.Time
	log        *zap.Logger
}

type Option func(*Cache)

func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleAfter = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:     make(map[string]entry),
		invalidated: make(map[string]uint64),
		loading:     make(map[string]int),
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the fresh cached value for key or calls fn to load it.
// Concurrent fetches of one key share a single call. Errors are not cached,
// and neither is a result whose key was invalidated while it loaded.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		started := c.beginLoad(key)
		val, err := fn(ctx)
		c.endLoad(key, val, err == nil, started)
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.staleAfter > 0 && c.now().Sub(e.storedAt) >= c.staleAfter {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) beginLoad(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	c.loading[key]++
	return c.gen
}

func (c *Cache) endLoad(key string, v any, ok bool, started uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.loading[key]--; c.loading[key] == 0 {
		delete(c.loading, key)
	}
	if ok && !c.invalidatedSinceLocked(key, started) {
		c.entries[key] = entry{value: v, storedAt: c.now()}
	} else if ok {
		c.log.Debug("discarding load invalidated in flight", zap.String("key", key))
	}
	if c.inflight == 0 {
		clear(c.invalidated)
	}
}

func (c *Cache) invalidatedSinceLocked(key string, started uint64) bool {
	for k, gen := range c.invalidated {
		if gen > started && matches(key, k) {
			return true
		}
	}
	return false
}

func matches(key, invalidated string) bool {
	return key == invalidated || strings.HasPrefix(key, invalidated+":")
}

func (c *Cache) store(key string, v any) {
	c.mu.Lock()
	c.entries[key] = entry{value: v, storedAt: c.now()}
	c.mu.Unlock()
}

// Set primes key with v.
func (c *Cache) Set(key string, v any) {
	c.store(key, v)
}

// Invalidate drops each key and every key nested under it.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.inflight > 0 {
		for _, key := range keys {
			c.invalidated[key] = c.gen
		}
		// Later fetches of a key being loaded start a new load instead of
		// joining the one that is now out of date.
		for k := range c.loading {
			for _, key := range keys {
				if matches(k, key) {
					c.group.Forget(k)
					break
				}
			}
		}
	}
	dropped := 0
	for k := range c.entries {
		for _, key := range keys {
			if matches(k, key) {
				delete(c.entries, k)
				dropped++
				break
			}
		}
	}
	c.log.Debug("cache invalidated", zap.Strings("keys", keys), zap.Int("dropped", dropped))
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

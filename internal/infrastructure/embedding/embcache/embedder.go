// Package embcache decorates an embedder with a bounded in-process
// TTL cache. Repeated concierge queries ("pizza", "passeio de barco")
// are frequent enough that most lookups never reach the provider.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/regiaodoslagos/concierge/internal/core/ports"
)

const (
	defaultTTL        = 5 * time.Minute
	defaultMaxEntries = 512
)

type entry struct {
	vector    []float32
	expiresAt time.Time
}

// CachedEmbedder caches query embeddings by text hash. The underlying
// embedder's errors (including availability) pass through uncached.
type CachedEmbedder struct {
	inner      ports.Embedder
	ttl        time.Duration
	maxEntries int
	cacheTotal *prometheus.CounterVec
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// New creates the caching decorator. cacheTotal is a counter vec with
// a "result" label (hit/miss); nil disables counting.
func New(inner ports.Embedder, ttl time.Duration, maxEntries int, cacheTotal *prometheus.CounterVec) *CachedEmbedder {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &CachedEmbedder{
		inner:      inner,
		ttl:        ttl,
		maxEntries: maxEntries,
		cacheTotal: cacheTotal,
		now:        time.Now,
		entries:    make(map[string]entry),
	}
}

func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)

	if vector, ok := c.get(key); ok {
		c.inc("hit")
		return vector, nil
	}
	c.inc("miss")

	vector, err := c.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(key, vector)
	return vector, nil
}

func (c *CachedEmbedder) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.vector, true
}

func (c *CachedEmbedder) put(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = entry{vector: vector, expiresAt: c.now().Add(c.ttl)}
}

// evictLocked drops expired entries first; if nothing expired, drops
// the entry closest to expiry. Caller holds c.mu.
func (c *CachedEmbedder) evictLocked() {
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var oldestKey string
	var oldestExpiry time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = e.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

func (c *CachedEmbedder) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

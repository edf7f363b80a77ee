// Package artifact is the content-addressed artifact cache. Entries are keyed
// by "{generator id}:{config digest}" and live until explicitly removed.
package artifact

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	art "assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/registry"
)

type MetricsSnapshot struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Waits       uint64 `json:"waits"`
	Generations uint64 `json:"generations"`
	Failures    uint64 `json:"failures"`
	Entries     int    `json:"entries"`
}

type Metrics struct {
	hits        atomic.Uint64
	misses      atomic.Uint64
	waits       atomic.Uint64
	generations atomic.Uint64
	failures    atomic.Uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Waits:       m.waits.Load(),
		Generations: m.generations.Load(),
		Failures:    m.failures.Load(),
	}
}

// Cache resolves, generates and stores artifacts. It is safe for concurrent
// use; at most one computation runs per key, and concurrent requesters for
// the same key wait for and share its result.
type Cache struct {
	resolver registry.Resolver

	mu      sync.RWMutex
	entries map[string]art.Artifact
	flight  singleflight.Group
	metrics Metrics
}

func New(resolver registry.Resolver) *Cache {
	return &Cache{
		resolver: resolver,
		entries:  make(map[string]art.Artifact),
	}
}

// Generate returns the artifact for id and raw, generating it on a miss.
// Repeated calls with an equal validated config return the same value.
// Generator failures are returned unchanged and are not cached.
func (c *Cache) Generate(ctx context.Context, id string, raw param.Raw) (art.Artifact, error) {
	if c == nil || c.resolver == nil {
		return nil, fmt.Errorf("artifact cache: resolver is not configured")
	}
	entry, err := c.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	desc := entry.Descriptor
	cfg := desc.Fields.Validate(raw)
	key := param.Key(desc.ID, cfg)

	if a, ok := c.Get(key); ok {
		c.metrics.hits.Add(1)
		return a, nil
	}
	c.metrics.misses.Add(1)

	chain := chainFrom(ctx)
	if chain.has(key) {
		return nil, &CycleError{Path: chain.push(key)}
	}
	ctx = withChain(ctx, chain.push(key))

	// Do also reports shared to the caller that ran fn.
	var leader bool
	v, err, _ := c.flight.Do(key, func() (any, error) {
		leader = true
		if a, ok := c.Get(key); ok {
			return a, nil
		}
		start := time.Now()
		a, err := entry.Factory().Generate(ctx, generator.NewRequest(desc.ID, cfg, c))
		if err != nil {
			c.metrics.failures.Add(1)
			return nil, err
		}
		if a == nil {
			c.metrics.failures.Add(1)
			return nil, fmt.Errorf("artifact cache: generator %s returned no artifact", desc.ID)
		}
		c.mu.Lock()
		c.entries[key] = a
		c.mu.Unlock()
		c.metrics.generations.Add(1)
		log.Printf("artifact cache: generated %s in %s", key, time.Since(start).Round(time.Millisecond))
		return a, nil
	})
	if !leader {
		c.metrics.waits.Add(1)
	}
	if err != nil {
		return nil, err
	}
	return v.(art.Artifact), nil
}

// Key returns the cache key Generate would use for id and raw.
func (c *Cache) Key(id string, raw param.Raw) (string, error) {
	entry, err := c.resolver.Resolve(id)
	if err != nil {
		return "", err
	}
	return param.Key(entry.Descriptor.ID, entry.Descriptor.Fields.Validate(raw)), nil
}

// Get returns a stored artifact without generating.
func (c *Cache) Get(key string) (art.Artifact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.entries[key]
	return a, ok
}

// Remove evicts one entry. Artifacts already handed out stay valid.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear evicts every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]art.Artifact)
}

// Keys returns the stored keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Metrics() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{}
	}
	s := c.metrics.snapshot()
	s.Entries = c.Len()
	return s
}

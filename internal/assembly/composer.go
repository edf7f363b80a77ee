// Package assembly realises blueprints into scene nodes and caches the
// resulting instances under their own key namespace.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"assetforge/internal/artifact"
	"assetforge/internal/generator"
	"assetforge/internal/param"
	"assetforge/internal/registry"
	"assetforge/internal/scene"
)

// ErrInvalidBlueprintReference is returned when a blueprint names a generator
// that is not registered, or a placement carries neither artifact nor ref.
var ErrInvalidBlueprintReference = errors.New("invalid blueprint reference")

// Catalog reports whether a generator id is registered. Placeholders are
// only routed to a generator the catalog knows.
type Catalog interface {
	Has(id string) bool
}

// Source produces the blueprint for an assembly on a cache miss.
type Source func(ctx context.Context) (*artifact.Blueprint, error)

// Instance is a realised blueprint: one root handle owning every child.
type Instance struct {
	Key        string
	AssemblyID string
	Root       scene.Handle
	Children   []scene.Handle
	Blueprint  *artifact.Blueprint

	unloaded atomic.Bool
}

// Unloaded reports whether Unload has run for this instance.
func (i *Instance) Unloaded() bool { return i.unloaded.Load() }

type MetricsSnapshot struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Waits     uint64 `json:"waits"`
	Builds    uint64 `json:"builds"`
	Failures  uint64 `json:"failures"`
	Unloads   uint64 `json:"unloads"`
	Instances int    `json:"instances"`
}

type metrics struct {
	hits, misses, waits, builds, failures, unloads atomic.Uint64
}

// Composer builds and caches assembly instances. Nested artifacts are
// requested through the pipeline, so they land in (and are shared via) the
// artifact cache; unloading an instance never evicts them.
type Composer struct {
	pipeline generator.Requester
	catalog  Catalog
	scene    scene.Scene

	mu        sync.RWMutex
	instances map[string]*Instance
	flight    singleflight.Group
	metrics   metrics
}

func New(pipeline generator.Requester, catalog Catalog, sc scene.Scene) *Composer {
	return &Composer{
		pipeline:  pipeline,
		catalog:   catalog,
		scene:     sc,
		instances: make(map[string]*Instance),
	}
}

// Key returns the assembly cache key for an id and raw config.
func Key(assemblyID string, raw param.Raw) string {
	return param.KeyRaw(assemblyID, raw)
}

// Build realises bp under the key of (assemblyID, raw). On a hit the stored
// instance is returned and bp is ignored.
func (c *Composer) Build(ctx context.Context, bp *artifact.Blueprint, assemblyID string, raw param.Raw) (*Instance, error) {
	if bp == nil {
		return nil, fmt.Errorf("assembly %s: nil blueprint", assemblyID)
	}
	return c.Assemble(ctx, assemblyID, raw, func(context.Context) (*artifact.Blueprint, error) {
		return bp, nil
	})
}

// Assemble is Build with the blueprint produced lazily: src runs only on a
// cache miss.
func (c *Composer) Assemble(ctx context.Context, assemblyID string, raw param.Raw, src Source) (*Instance, error) {
	key := Key(assemblyID, raw)
	if inst, ok := c.Lookup(key); ok {
		c.metrics.hits.Add(1)
		log.Printf("assembly: reusing %s", key)
		return inst, nil
	}
	c.metrics.misses.Add(1)

	var leader bool
	v, err, _ := c.flight.Do(key, func() (any, error) {
		leader = true
		if inst, ok := c.Lookup(key); ok {
			return inst, nil
		}
		bp, err := src(ctx)
		if err != nil {
			c.metrics.failures.Add(1)
			return nil, fmt.Errorf("assembly %s: blueprint: %w", assemblyID, err)
		}
		if bp == nil {
			c.metrics.failures.Add(1)
			return nil, fmt.Errorf("assembly %s: nil blueprint", assemblyID)
		}
		inst, err := c.realise(ctx, key, assemblyID, bp)
		if err != nil {
			c.metrics.failures.Add(1)
			return nil, err
		}
		c.mu.Lock()
		c.instances[key] = inst
		c.mu.Unlock()
		c.metrics.builds.Add(1)
		log.Printf("assembly: built %s (%d nodes)", key, len(inst.Children))
		return inst, nil
	})
	if !leader {
		c.metrics.waits.Add(1)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

// Lookup returns a cached instance.
func (c *Composer) Lookup(key string) (*Instance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instances[key]
	return inst, ok
}

// Unload disposes the instance's children and root and drops its own cache
// entry. Calling it again is a no-op.
func (c *Composer) Unload(inst *Instance) {
	if inst == nil || !inst.unloaded.CompareAndSwap(false, true) {
		return
	}
	dispose(inst.Root, inst.Children)

	c.mu.Lock()
	if c.instances[inst.Key] == inst {
		delete(c.instances, inst.Key)
	}
	c.mu.Unlock()
	c.metrics.unloads.Add(1)
	log.Printf("assembly: unloaded %s", inst.Key)
}

// Clear unloads every cached instance.
func (c *Composer) Clear() {
	c.mu.RLock()
	all := make([]*Instance, 0, len(c.instances))
	for _, inst := range c.instances {
		all = append(all, inst)
	}
	c.mu.RUnlock()
	for _, inst := range all {
		c.Unload(inst)
	}
}

func (c *Composer) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.instances))
	for k := range c.instances {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

func (c *Composer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}

func (c *Composer) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Hits:      c.metrics.hits.Load(),
		Misses:    c.metrics.misses.Load(),
		Waits:     c.metrics.waits.Load(),
		Builds:    c.metrics.builds.Load(),
		Failures:  c.metrics.failures.Load(),
		Unloads:   c.metrics.unloads.Load(),
		Instances: c.Len(),
	}
}

func dispose(root scene.Handle, children []scene.Handle) {
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	if root != nil {
		root.Dispose()
	}
}

var _ Catalog = (*registry.Registry)(nil)

// Package registry maps stable generator ids to their implementations.
package registry

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"assetforge/internal/generator"
)

// ErrUnknownGenerator is returned when an id has no registered generator.
var ErrUnknownGenerator = errors.New("unknown generator")

// Resolver looks generators up by id. The artifact cache depends on this
// rather than on *Registry.
type Resolver interface {
	Resolve(id string) (generator.Entry, error)
}

// Source is one extension area scanned by Discover.
type Source struct {
	Name string
	Load func() []generator.Entry
}

// Registry stores generator entries keyed by id. Registering an id twice
// replaces the earlier entry (last registration wins, with a log line).
type Registry struct {
	mu         sync.RWMutex
	entries    map[string]generator.Entry
	discovered map[string]bool
}

func New() *Registry {
	return &Registry{
		entries:    make(map[string]generator.Entry),
		discovered: make(map[string]bool),
	}
}

// Register stores a generator under desc.ID.
func (r *Registry) Register(desc generator.Descriptor, factory generator.Factory) error {
	id := normalizeID(desc.ID)
	if id == "" {
		return fmt.Errorf("registry: empty generator id")
	}
	if factory == nil {
		return fmt.Errorf("registry: generator %s has no factory", id)
	}
	if err := desc.Fields.Check(); err != nil {
		log.Printf("registry: %s declares an illegal default (%v); it will be coerced on use", id, err)
	}
	desc.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[id]; exists {
		log.Printf("registry: replacing generator %s", id)
	}
	r.entries[id] = generator.Entry{Descriptor: desc, Factory: factory}
	return nil
}

// Discover registers every entry of each source. A source is marked as
// discovered once all of its entries registered, so calling Discover again
// is a no-op for it; a source that failed part way is loaded again.
func (r *Registry) Discover(sources ...Source) error {
	var total int
	for _, src := range sources {
		r.mu.RLock()
		seen := r.discovered[src.Name]
		r.mu.RUnlock()
		if seen || src.Load == nil {
			continue
		}
		for _, e := range src.Load() {
			if err := r.Register(e.Descriptor, e.Factory); err != nil {
				return fmt.Errorf("discover %s: %w", src.Name, err)
			}
			total++
		}
		r.mu.Lock()
		r.discovered[src.Name] = true
		r.mu.Unlock()
	}
	if total > 0 {
		log.Printf("registry: discovered %d generators", total)
	}
	return nil
}

// Resolve returns the entry registered under id.
func (r *Registry) Resolve(id string) (generator.Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[normalizeID(id)]
	r.mu.RUnlock()
	if !ok {
		return generator.Entry{}, fmt.Errorf("%w: %q", ErrUnknownGenerator, id)
	}
	return e, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, err := r.Resolve(id)
	return err == nil
}

// List returns descriptors sorted by id. An empty category lists everything.
func (r *Registry) List(category string) []generator.Descriptor {
	category = strings.TrimSpace(category)
	r.mu.RLock()
	out := make([]generator.Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		if category != "" && e.Descriptor.Category != category {
			continue
		}
		out = append(out, e.Descriptor)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear drops all entries and forgets discovered sources.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]generator.Entry)
	r.discovered = make(map[string]bool)
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

// Package registry maps variant names to agent constructors so project files
// can select a hand-coded agent type by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/factory"
)

// Constructor builds one agent from sampled attributes and the compiled policy.
// The returned entity must be placed on p.Bubble.
type Constructor func(p factory.Params, policy domain.Policy) (domain.Entity, error)

// Registry manages the available variants.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]Constructor
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		variants: make(map[string]Constructor),
	}
}

// Register adds a variant to the registry.
// If a variant with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[name] = fn
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, error) {
	r.mu.RLock()
	fn, ok := r.variants[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: variant not found: %s", domain.ErrConfiguration, name)
	}
	return fn, nil
}

// Names returns the registered variant names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package core

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the entity definitions served by the transport layer.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]EntityDefinition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]EntityDefinition)}
}

// Register adds an entity definition to the registry.
// Panics if an entity with the same key is already registered.
func (r *Registry) Register(def EntityDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Info.Key]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Info.Key))
	}

	r.defs[def.Info.Key] = def
}

// Get returns an entity definition by key.
// Returns false if not found.
func (r *Registry) Get(key string) (EntityDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[key]
	return def, ok
}

// All returns all registered entity definitions.
// Sorted by group then by key for consistent ordering.
func (r *Registry) All() []EntityDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]EntityDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range r.defs {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

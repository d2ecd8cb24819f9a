// Package pipeline runs extraction strategies through a fixed sequence of
// validation, admission, extraction and pagination.
package pipeline

import (
	"strings"
	"sync"

	"github.com/fwojciec/parsekit"
)

// Registry maps normalized names to strategies in registration order.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	parsers map[string]parsekit.Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]parsekit.Parser)}
}

// NormalizeName folds case and surrounding whitespace.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register binds name to p.
// Returns ECONFLICT if the normalized name is already registered.
func (r *Registry) Register(name string, p parsekit.Parser) error {
	key := NormalizeName(name)
	if key == "" {
		return parsekit.Errorf(parsekit.EINVALID, "parser name is required")
	}
	if p == nil {
		return parsekit.Errorf(parsekit.EINVALID, "parser [%s] is nil", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parsers == nil {
		r.parsers = make(map[string]parsekit.Parser)
	}
	if _, ok := r.parsers[key]; ok {
		return parsekit.Errorf(parsekit.ECONFLICT, "parser [%s] is already registered", key)
	}
	r.parsers[key] = p
	r.names = append(r.names, key)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for wiring
// at startup, where a duplicate name is a programming error.
func (r *Registry) MustRegister(name string, p parsekit.Parser) {
	if err := r.Register(name, p); err != nil {
		panic(err)
	}
}

// Get returns the strategy bound to name.
// Returns ENOTFOUND if the name is not registered.
func (r *Registry) Get(name string) (parsekit.Parser, error) {
	key := NormalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[key]
	if !ok {
		return nil, parsekit.Errorf(parsekit.ENOTFOUND, "parser [%s] is not registered", key)
	}
	return p, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsers[NormalizeName(name)]
	return ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.names...)
}

// Remove unbinds name. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	key := NormalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parsers[key]; !ok {
		return
	}
	delete(r.parsers, key)
	for i, n := range r.names {
		if n == key {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

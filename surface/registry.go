// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sort"
	"sync"
)

// Factory acquires a surface. Implementations wrap ErrNoDisplay,
// ErrNoSurface or ErrNoContext so the caller can report which acquisition
// step failed.
type Factory func(opts Options) (Surface, error)

// Backend describes a registered surface backend.
type Backend struct {
	// Name is the unique identifier used by OpenByName.
	Name string

	// Priority orders automatic selection (higher = preferred).
	//   - 100: GPU backends
	//   - 10: host-memory backends
	Priority int

	// Factory acquires surfaces.
	Factory Factory

	// Available reports whether the backend can run on this system.
	// Nil means always.
	Available func() bool

	// Explicit backends are opened only by name. Open never picks them,
	// so a run that asked for the GPU cannot end up measuring something
	// else.
	Explicit bool
}

func (b Backend) available() bool {
	return b.Available == nil || b.Available()
}

// Registry maps backend names to factories.
//
// Backends register with the default registry from init, so importing a
// backend package is enough to make it selectable:
//
//	func init() {
//	    surface.Register(surface.Backend{Name: "wgpu", Priority: 100, Factory: open})
//	}
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

var defaultRegistry = NewRegistry()

// Default returns the registry backends add themselves to.
func Default() *Registry { return defaultRegistry }

// Register adds b to the default registry.
func Register(b Backend) { defaultRegistry.Register(b) }

// Register adds b, replacing any backend with the same name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name] = b
}

// Lookup returns the backend registered as name.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Names returns the backends usable on this system, explicit ones
// included, highest priority first.
func (r *Registry) Names() []string {
	list := r.sorted(Backend.available)
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name
	}
	return names
}

// Open acquires a surface from the highest-priority available backend that
// is not Explicit. A factory error is returned as is; lower-priority
// backends are not tried, since they would benchmark a different device
// than the one that failed.
func (r *Registry) Open(opts Options) (Surface, error) {
	candidates := r.sorted(func(b Backend) bool { return !b.Explicit && b.available() })
	if len(candidates) == 0 {
		return nil, ErrNoBackendAvailable
	}
	return candidates[0].Factory(opts.Normalized())
}

// OpenByName acquires a surface from the named backend, explicit or not.
func (r *Registry) OpenByName(name string, opts Options) (Surface, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !b.available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return b.Factory(opts.Normalized())
}

// sorted returns the backends accepted by keep, by descending priority and
// then by name.
func (r *Registry) sorted(keep func(Backend) bool) []Backend {
	r.mu.RLock()
	list := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		if keep(b) {
			list = append(list, b)
		}
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority == list[j].Priority {
			return list[i].Name < list[j].Name
		}
		return list[i].Priority > list[j].Priority
	})
	return list
}

// ErrNoBackendAvailable is returned by Open when no automatically
// selectable backend can run on this system.
var ErrNoBackendAvailable = errors.New("surface: no GPU backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but cannot run here.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

// MemoryBackend is the registry name of the host-memory backend. It is
// Explicit: a memory run is only ever requested by name.
const MemoryBackend = "memory"

func init() {
	Register(Backend{
		Name:     MemoryBackend,
		Priority: 10,
		Explicit: true,
		Factory: func(opts Options) (Surface, error) {
			return NewMemorySurface(opts), nil
		},
	})
}

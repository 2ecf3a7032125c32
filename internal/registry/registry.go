// Package registry holds user token callbacks keyed by token id, together
// with the per-token and registry-wide hit counters.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/muurk/slhttpd/internal/token"
)

var (
	// ErrExists is returned when registering an id that is already present.
	ErrExists = errors.New("token already registered")
	// ErrNotFound is returned for ids with no registered entry.
	ErrNotFound = errors.New("token not registered")
	// ErrNilCallback is returned when registering a nil callback.
	ErrNilCallback = errors.New("nil token callback")
)

type entry[C any] struct {
	callback C
	hits     uint64
}

// Stat is a snapshot of one registered token.
type Stat struct {
	ID   token.ID
	Hits uint64
}

// Registry maps token ids to callbacks of type C.
//
// The mutex guards the map and all counters. It is held only for the
// structural operation; callers invoke the returned callback after the lock
// is released.
type Registry[C any] struct {
	mu      sync.Mutex
	entries map[token.ID]*entry[C]
	global  uint64
}

// New creates an empty registry.
func New[C any]() *Registry[C] {
	return &Registry[C]{
		entries: make(map[token.ID]*entry[C]),
	}
}

// Register binds cb to id. An existing binding is never replaced.
func (r *Registry[C]) Register(id token.ID, cb C) error {
	if any(cb) == nil {
		return ErrNilCallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return fmt.Errorf("%w: %q", ErrExists, id)
	}
	r.entries[id] = &entry[C]{callback: cb}
	return nil
}

// Deregister removes the binding for id. Its hit counter is discarded; the
// global counter is left alone.
func (r *Registry[C]) Deregister(id token.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(r.entries, id)
	return nil
}

// Lookup returns the callback bound to id without touching any counter.
func (r *Registry[C]) Lookup(id token.ID) (C, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		var zero C
		return zero, false
	}
	return e.callback, true
}

// Hit looks up id and, if present, counts one dispatch against both the
// entry and the registry. Misses leave every counter unchanged.
func (r *Registry[C]) Hit(id token.ID) (C, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		var zero C
		return zero, false
	}
	e.hits++
	r.global++
	return e.callback, true
}

// Hits returns the dispatch count for id.
func (r *Registry[C]) Hits(id token.ID) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e.hits, nil
}

// GlobalHits returns the number of dispatches across all ids, including ids
// that have since been deregistered.
func (r *Registry[C]) GlobalHits() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.global
}

// Len returns the number of registered ids.
func (r *Registry[C]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Tokens returns a snapshot of all registered ids sorted by id.
func (r *Registry[C]) Tokens() []Stat {
	r.mu.Lock()
	stats := make([]Stat, 0, len(r.entries))
	for id, e := range r.entries {
		stats = append(stats, Stat{ID: id, Hits: e.hits})
	}
	r.mu.Unlock()

	sort.Slice(stats, func(i, j int) bool {
		return string(stats[i].ID[:]) < string(stats[j].ID[:])
	})
	return stats
}

// Close releases every entry. The registry stays usable afterwards and the
// global counter is preserved.
func (r *Registry[C]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}

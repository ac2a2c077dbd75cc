package memory

import (
	"context"
	"sync"
	"time"
)

// Registry is an in-memory implementation of app.Registry.
// With a positive ttl, entries untouched for longer than ttl read as absent.
type Registry[T any] struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[int64]entry[T]
}

type entry[T any] struct {
	value     T
	touchedAt time.Time
}

func NewRegistry[T any](ttl time.Duration) *Registry[T] {
	return NewRegistryWithClock[T](ttl, time.Now)
}

// NewRegistryWithClock is test-only for deterministic expiry.
func NewRegistryWithClock[T any](ttl time.Duration, clock func() time.Time) *Registry[T] {
	return &Registry[T]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[int64]entry[T]),
	}
}

func (r *Registry[T]) Put(_ context.Context, id int64, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = entry[T]{value: value, touchedAt: r.clock()}
	return nil
}

func (r *Registry[T]) Get(_ context.Context, id int64) (T, bool, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false, nil
	}
	if r.expired(e) {
		r.mu.Lock()
		if cur, still := r.entries[id]; still && r.expired(cur) {
			delete(r.entries, id)
		}
		r.mu.Unlock()
		var zero T
		return zero, false, nil
	}
	return e.value, true, nil
}

func (r *Registry[T]) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// Len counts live entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if !r.expired(e) {
			n++
		}
	}
	return n
}

func (r *Registry[T]) expired(e entry[T]) bool {
	return r.ttl > 0 && r.clock().Sub(e.touchedAt) > r.ttl
}

// Package arena implements a generational slot allocator: the Handle Arena
// component of the simulation core. An Arena[T] owns a growable slice of
// slots of one element type, hands out (index, generation) pairs on
// Allocate, and invalidates every previously issued handle to a slot the
// instant that slot is freed, without requiring callers to track liveness
// themselves.
//
// A Handle never aliases across a free/alloc boundary: once generation N is
// retired for an index, no handle carrying generation N will ever validate
// against that index again.
package arena

import "sync"

const maxGeneration = ^uint32(0)

// Handle identifies one slot in a specific Arena[T]. It is a small value
// type safe to copy, store, and compare; it carries no ownership over the
// slot it names.
type Handle[T any] struct {
	owner      *Arena[T]
	Index      uint32
	Generation uint32
}

// Valid reports whether the handle still names a live slot.
func (h Handle[T]) Valid() bool {
	return h.owner != nil && h.owner.IsValid(h.Index, h.Generation)
}

// Any returns a type-erased view of the handle for registries that index
// entities of mixed arena types under one key.
func (h Handle[T]) Any() AnyHandle {
	return AnyHandle{validator: h.owner, Index: h.Index, Generation: h.Generation}
}

// Validator is implemented by an Arena[T] so AnyHandle can validate itself
// without knowing the element type it names.
type Validator interface {
	IsValid(index, generation uint32) bool
}

// AnyHandle is a type-erased Handle: (arena, index, generation). Validation
// delegates back to the originating arena.
type AnyHandle struct {
	validator Validator
	Index     uint32
	Generation uint32
}

// Valid reports whether the handle still names a live slot in its arena.
func (h AnyHandle) Valid() bool {
	return h.validator != nil && h.validator.IsValid(h.Index, h.Generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	allocated  bool
}

// Arena allocates, validates and frees fixed-size slots of one element
// type T. All mutation is serialized by a single mutex; validation is a
// read-locked map/slice lookup.
type Arena[T any] struct {
	mu        sync.RWMutex
	slots     []slot[T]
	free      []uint32
	maxCap    uint32 // 0 means unbounded
	onSpawn   func(*T)
	onDespawn func(*T)
}

// Option configures an Arena at construction time.
type Option[T any] func(*Arena[T])

// WithMaxCapacity caps the arena at n live+free slots; Allocate beyond that
// ceiling returns ErrArenaFull instead of growing further.
func WithMaxCapacity[T any](n uint32) Option[T] {
	return func(a *Arena[T]) { a.maxCap = n }
}

// WithSpawnCallback fires on every successful Allocate, after the slot's
// value has been zeroed and before the handle is returned.
func WithSpawnCallback[T any](fn func(*T)) Option[T] {
	return func(a *Arena[T]) { a.onSpawn = fn }
}

// WithDespawnCallback fires on every successful Free, before the slot's
// value is reset to its zero value.
func WithDespawnCallback[T any](fn func(*T)) Option[T] {
	return func(a *Arena[T]) { a.onDespawn = fn }
}

// New creates an empty arena with the given initial backing capacity as a
// size hint (the backing slice still grows on demand; this only avoids
// early reallocation).
func New[T any](initialCapacity uint32, opts ...Option[T]) *Arena[T] {
	a := &Arena[T]{slots: make([]slot[T], 0, initialCapacity)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate reserves a slot, reusing the most recently freed index when one
// is available, otherwise growing the backing storage by one element (the
// backing slice itself doubles its capacity on growth via Go's append,
// preserving every live slot's generation).
func (a *Arena[T]) Allocate() (Handle[T], error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.allocated = true
		if a.onSpawn != nil {
			a.onSpawn(&s.value)
		}
		return Handle[T]{owner: a, Index: idx, Generation: s.generation}, nil
	}

	if a.maxCap > 0 && uint32(len(a.slots)) >= a.maxCap {
		return Handle[T]{}, ErrArenaFull
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{generation: 1, allocated: true})
	s := &a.slots[idx]
	if a.onSpawn != nil {
		a.onSpawn(&s.value)
	}
	return Handle[T]{owner: a, Index: idx, Generation: s.generation}, nil
}

// Free releases the slot at index if generation matches the slot's current
// generation, incrementing the generation (wrapping past the maximum back
// to 1, never to 0) so every handle carrying the old generation becomes
// permanently stale. Free on a mismatched generation is a no-op returning
// false; it never panics.
func (a *Arena[T]) Free(index, generation uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if int(index) >= len(a.slots) {
		return false
	}
	s := &a.slots[index]
	if !s.allocated || s.generation != generation {
		return false
	}

	if a.onDespawn != nil {
		a.onDespawn(&s.value)
	}

	s.allocated = false
	if s.generation == maxGeneration {
		s.generation = 1
	} else {
		s.generation++
	}
	var zero T
	s.value = zero
	a.free = append(a.free, index)
	return true
}

// IsValid reports whether (index, generation) currently names an allocated
// slot. It never panics, including for an out-of-range index.
func (a *Arena[T]) IsValid(index, generation uint32) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(index) >= len(a.slots) {
		return false
	}
	s := &a.slots[index]
	return s.allocated && s.generation == generation
}

// Get returns a pointer to the live value at (index, generation), or
// ErrStaleHandle/ErrIndexOutOfRange if the handle no longer validates.
// Callers must not retain the pointer past the next Free of that index.
func (a *Arena[T]) Get(index, generation uint32) (*T, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(index) >= len(a.slots) {
		return nil, ErrIndexOutOfRange
	}
	s := &a.slots[index]
	if !s.allocated || s.generation != generation {
		return nil, ErrStaleHandle
	}
	return &s.value, nil
}

// Len returns the number of currently allocated slots.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.slots) - len(a.free)
}

package entityregistry

import (
	"sync"

	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/ports"
)

// Registry maps entity handles to their EntityContext and maintains the
// active/marked-for-deletion invariant: a handle counts as active iff it
// has a context and that context is not marked for deletion. All mutators
// and accessors share a single mutex (phase-level granularity).
type Registry struct {
	mu       sync.RWMutex
	contexts map[arena.AnyHandle]*EntityContext
	order    []arena.AnyHandle // registration order, for deterministic snapshots
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{contexts: make(map[arena.AnyHandle]*EntityContext)}
}

// Register creates a context for handle. Returns ErrAlreadyRegistered if
// one already exists.
func (r *Registry) Register(handle arena.AnyHandle) (*EntityContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[handle]; exists {
		return nil, ErrAlreadyRegistered
	}
	ctx := &EntityContext{Handle: handle, active: true}
	r.contexts[handle] = ctx
	r.order = append(r.order, handle)
	return ctx, nil
}

// Get returns the context for handle, if registered.
func (r *Registry) Get(handle arena.AnyHandle) (*EntityContext, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctx, ok := r.contexts[handle]
	if !ok {
		return nil, ErrNotRegistered
	}
	return ctx, nil
}

// GetAllActive returns a snapshot slice of every context currently
// active: taking a copy rather than a live view lets callers iterate
// freely even as the registry is mutated (e.g. new registrations,
// deletions) mid-iteration elsewhere in the same tick.
func (r *Registry) GetAllActive() []*EntityContext {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*EntityContext, 0, len(r.order))
	for _, h := range r.order {
		if ctx := r.contexts[h]; ctx != nil && ctx.IsActive() {
			out = append(out, ctx)
		}
	}
	return out
}

// MarkForDeletion flags handle's context for removal on the next
// ProcessDeletions call. Idempotent; a no-op if handle isn't registered.
func (r *Registry) MarkForDeletion(handle arena.AnyHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx, ok := r.contexts[handle]; ok {
		ctx.markedForDeletion = true
	}
}

// GetEntitiesOfType filters active contexts by the EntityType the
// provided accessor reports for each handle. With a nil accessor it
// returns every active context, since there's no type tag to filter on.
func (r *Registry) GetEntitiesOfType(accessor ports.EntityTypeAccessor, entityType ports.EntityType) []*EntityContext {
	active := r.GetAllActive()
	if accessor == nil {
		return active
	}
	out := active[:0:0]
	for _, ctx := range active {
		if accessor.TypeOf(ctx.Handle) == entityType {
			out = append(out, ctx)
		}
	}
	return out
}

// ProcessDeletions is the only path that removes contexts from the
// registry: every context currently marked for deletion is despawned via
// spawner (if non-nil) and removed from the map and registration order.
// Returns the handles removed, in registration order, for callers that
// want to log or emit events per removal.
func (r *Registry) ProcessDeletions(spawner ports.EntitySpawner) []arena.AnyHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []arena.AnyHandle
	kept := r.order[:0:0]
	for _, h := range r.order {
		ctx, ok := r.contexts[h]
		if !ok {
			continue
		}
		if !ctx.markedForDeletion {
			kept = append(kept, h)
			continue
		}
		if spawner != nil {
			spawner.Despawn(h)
		}
		delete(r.contexts, h)
		removed = append(removed, h)
	}
	r.order = kept
	return removed
}

// Len returns the total number of registered contexts, active or marked.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

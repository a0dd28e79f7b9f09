package entityregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/ports"
)

func newHandle(t *testing.T, a *arena.Arena[int]) arena.AnyHandle {
	t.Helper()
	h, err := a.Allocate()
	require.NoError(t, err)
	return h.Any()
}

func TestRegisterAndGet(t *testing.T) {
	a := arena.New[int](4)
	r := NewRegistry()
	h := newHandle(t, a)

	ctx, err := r.Register(h)
	require.NoError(t, err)
	assert.Equal(t, h, ctx.Handle)
	assert.True(t, ctx.IsActive())

	got, err := r.Get(h)
	require.NoError(t, err)
	assert.Same(t, ctx, got)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	a := arena.New[int](4)
	r := NewRegistry()
	h := newHandle(t, a)

	_, err := r.Register(h)
	require.NoError(t, err)
	_, err = r.Register(h)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestMarkForDeletionRemovesFromActiveSet(t *testing.T) {
	a := arena.New[int](4)
	r := NewRegistry()
	h1 := newHandle(t, a)
	h2 := newHandle(t, a)
	r.Register(h1)
	r.Register(h2)

	r.MarkForDeletion(h1)
	active := r.GetAllActive()
	require.Len(t, active, 1)
	assert.Equal(t, h2, active[0].Handle)
}

func TestMarkForDeletionIsIdempotentAndNoopOnUnregistered(t *testing.T) {
	a := arena.New[int](4)
	r := NewRegistry()
	h := newHandle(t, a)
	r.Register(h)

	r.MarkForDeletion(h)
	r.MarkForDeletion(h) // idempotent
	other, _ := a.Allocate()
	r.MarkForDeletion(other.Any()) // no-op, not registered

	assert.Empty(t, r.GetAllActive())
}

type despawnRecorder struct {
	despawned []arena.AnyHandle
}

func (d *despawnRecorder) Spawn() arena.AnyHandle { return arena.AnyHandle{} }
func (d *despawnRecorder) Despawn(h arena.AnyHandle) bool {
	d.despawned = append(d.despawned, h)
	return true
}

func TestProcessDeletionsIsOnlyRemovalPath(t *testing.T) {
	a := arena.New[int](4)
	r := NewRegistry()
	h1 := newHandle(t, a)
	h2 := newHandle(t, a)
	r.Register(h1)
	r.Register(h2)
	r.MarkForDeletion(h1)

	spawner := &despawnRecorder{}
	removed := r.ProcessDeletions(spawner)

	assert.Equal(t, []arena.AnyHandle{h1}, removed)
	assert.Equal(t, []arena.AnyHandle{h1}, spawner.despawned)
	assert.Equal(t, 1, r.Len())

	_, err := r.Get(h1)
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = r.Get(h2)
	require.NoError(t, err)
}

type typeAccessor struct{ types map[arena.AnyHandle]ports.EntityType }

func (a typeAccessor) TypeOf(h arena.AnyHandle) ports.EntityType { return a.types[h] }

func TestGetEntitiesOfTypeFiltersActiveByAccessor(t *testing.T) {
	arn := arena.New[int](4)
	r := NewRegistry()
	player := newHandle(t, arn)
	enemy := newHandle(t, arn)
	r.Register(player)
	r.Register(enemy)

	accessor := typeAccessor{types: map[arena.AnyHandle]ports.EntityType{
		player: "player",
		enemy:  "enemy",
	}}

	players := r.GetEntitiesOfType(accessor, "player")
	require.Len(t, players, 1)
	assert.Equal(t, player, players[0].Handle)
}

func TestGetEntitiesOfTypeWithNilAccessorReturnsAllActive(t *testing.T) {
	arn := arena.New[int](4)
	r := NewRegistry()
	r.Register(newHandle(t, arn))
	r.Register(newHandle(t, arn))

	all := r.GetEntitiesOfType(nil, "anything")
	assert.Len(t, all, 2)
}

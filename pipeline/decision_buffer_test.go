package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
)

func TestDecisionResultBufferSetGet(t *testing.T) {
	b := NewDecisionResultBuffer()
	h := arena.AnyHandle{}
	result := action.SelectionResult{Entity: h, Selected: map[action.Category]action.Judgment{}}

	b.Set(h, result)
	got, ok := b.Get(h)
	assert.True(t, ok)
	assert.Equal(t, result.Entity, got.Entity)
	assert.Equal(t, 1, b.Len())
}

func TestDecisionResultBufferResetClearsAll(t *testing.T) {
	b := NewDecisionResultBuffer()
	b.Set(arena.AnyHandle{}, action.SelectionResult{})
	b.Reset()
	assert.Equal(t, 0, b.Len())
}

func TestDecisionResultBufferGetMissingHandle(t *testing.T) {
	b := NewDecisionResultBuffer()
	_, ok := b.Get(arena.AnyHandle{})
	assert.False(t, ok)
}

package simevents

import (
	"context"
	"errors"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToMatchingObserversOnly(t *testing.T) {
	b := NewBroker()
	var delivered int

	require.NoError(t, b.RegisterObserver(FuncObserver{ID: "phase-only", Fn: func(ctx context.Context, e cloudevents.Event) error {
		delivered++
		return nil
	}}, EventTypePhaseChanged))

	evt := NewPhaseChangedEvent(PhaseChangedPayload{Tick: 1, Phase: "Collision", Stage: "entered"})
	require.NoError(t, b.NotifyObservers(context.Background(), evt))
	assert.Equal(t, 1, delivered)

	other := NewMessagePhaseResultEvent(MessagePhaseResultPayload{Tick: 1, Waves: 1, Outcome: "converged"})
	require.NoError(t, b.NotifyObservers(context.Background(), other))
	assert.Equal(t, 1, delivered, "observer filtered to PhaseChanged should not see MessagePhaseResult")
}

func TestBrokerJoinsObserverErrorsWithoutStoppingDelivery(t *testing.T) {
	b := NewBroker()
	calls := 0
	require.NoError(t, b.RegisterObserver(FuncObserver{ID: "a", Fn: func(context.Context, cloudevents.Event) error {
		calls++
		return errors.New("boom")
	}}))
	require.NoError(t, b.RegisterObserver(FuncObserver{ID: "b", Fn: func(context.Context, cloudevents.Event) error {
		calls++
		return nil
	}}))

	evt := NewPhaseChangedEvent(PhaseChangedPayload{Tick: 2, Phase: "Cleanup", Stage: "exited"})
	err := b.NotifyObservers(context.Background(), evt)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestBrokerUnregisterIsIdempotent(t *testing.T) {
	b := NewBroker()
	obs := FuncObserver{ID: "x", Fn: func(context.Context, cloudevents.Event) error { return nil }}
	require.NoError(t, b.UnregisterObserver(obs))
	require.NoError(t, b.RegisterObserver(obs))
	require.NoError(t, b.UnregisterObserver(obs))
	require.NoError(t, b.UnregisterObserver(obs))
	assert.Empty(t, b.GetObservers())
}

// Package simevents implements the tick observability surface: a small
// CloudEvents-based Observer/Subject pair plus the two event types the
// Phase Pipeline emits every tick (PhaseChanged, MessagePhaseResult).
package simevents

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Event types emitted by the pipeline, following the reverse-domain
// CloudEvents naming convention.
const (
	EventTypePhaseChanged        = "dev.tickforge.sim.phase.changed"
	EventTypeMessagePhaseResult  = "dev.tickforge.sim.phase.message.result"
	EventTypeWaveDepthExceeded   = "dev.tickforge.sim.wave.depth_exceeded"
	EventTypeEntityDespawned     = "dev.tickforge.sim.entity.despawned"
)

// Source is the CloudEvents source attribute stamped on every event this
// package emits.
const Source = "tickforge/simcore"

// PhaseChangedPayload describes one phase's entry or exit within a tick.
type PhaseChangedPayload struct {
	Tick  uint64 `json:"tick"`
	Phase string `json:"phase"`
	Stage string `json:"stage"` // "entered" or "exited"
}

// MessagePhaseResultPayload mirrors wave.Result for event consumers that
// don't import the wave package directly.
type MessagePhaseResultPayload struct {
	Tick    uint64   `json:"tick"`
	Waves   int      `json:"waves"`
	Outcome string   `json:"outcome"`
	Errors  []string `json:"errors,omitempty"`
}

// NewPhaseChangedEvent builds a CloudEvent for a phase transition.
func NewPhaseChangedEvent(payload PhaseChangedPayload) cloudevents.Event {
	evt := newEvent(EventTypePhaseChanged)
	_ = evt.SetData(cloudevents.ApplicationJSON, payload)
	return evt
}

// NewMessagePhaseResultEvent builds a CloudEvent for a Message phase's
// wave-convergence outcome.
func NewMessagePhaseResultEvent(payload MessagePhaseResultPayload) cloudevents.Event {
	evt := newEvent(EventTypeMessagePhaseResult)
	_ = evt.SetData(cloudevents.ApplicationJSON, payload)
	return evt
}

func newEvent(eventType string) cloudevents.Event {
	evt := cloudevents.NewEvent()
	evt.SetID(generateEventID())
	evt.SetSource(Source)
	evt.SetType(eventType)
	evt.SetTime(time.Now())
	evt.SetSpecVersion(cloudevents.VersionV1)
	return evt
}

func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// Observer receives tick events a Subject publishes.
type Observer interface {
	OnEvent(ctx context.Context, event cloudevents.Event) error
	ObserverID() string
}

// Subject is implemented by anything that publishes tick events; the
// Phase Pipeline publishes through the Subject it is given (ordinarily a
// Broker).
type Subject interface {
	RegisterObserver(observer Observer, eventTypes ...string) error
	UnregisterObserver(observer Observer) error
	NotifyObservers(ctx context.Context, event cloudevents.Event) error
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer for diagnostics.
type ObserverInfo struct {
	ID           string    `json:"id"`
	EventTypes   []string  `json:"eventTypes"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// FuncObserver adapts a plain function to Observer.
type FuncObserver struct {
	ID string
	Fn func(ctx context.Context, event cloudevents.Event) error
}

func (f FuncObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.Fn(ctx, event)
}
func (f FuncObserver) ObserverID() string { return f.ID }

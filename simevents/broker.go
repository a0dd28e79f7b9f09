package simevents

import (
	"context"
	"errors"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

type registration struct {
	observer     Observer
	eventTypes   map[string]struct{} // empty means "all types"
	registeredAt time.Time
}

// Broker is the default Subject: a registry of observers, optionally
// filtered by event type, notified synchronously and in registration
// order so tick processing stays deterministic. An observer's error does
// not stop notification of the remaining observers.
type Broker struct {
	mu   sync.RWMutex
	regs []*registration
}

// NewBroker builds an empty Broker.
func NewBroker() *Broker { return &Broker{} }

// RegisterObserver adds observer, optionally filtered to eventTypes. An
// empty eventTypes means "receive everything".
func (b *Broker) RegisterObserver(observer Observer, eventTypes ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	filter := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		filter[t] = struct{}{}
	}
	b.regs = append(b.regs, &registration{observer: observer, eventTypes: filter, registeredAt: time.Now()})
	return nil
}

// UnregisterObserver removes observer. Idempotent: unregistering an
// observer that was never registered is a no-op.
func (b *Broker) UnregisterObserver(observer Observer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.regs[:0:0]
	for _, r := range b.regs {
		if r.observer.ObserverID() != observer.ObserverID() {
			kept = append(kept, r)
		}
	}
	b.regs = kept
	return nil
}

// NotifyObservers delivers event to every registered observer whose
// filter matches its type, in registration order. Observer errors are
// joined but never stop delivery to the remaining observers — tick
// processing must not depend on observer health.
func (b *Broker) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	b.mu.RLock()
	regs := append([]*registration(nil), b.regs...)
	b.mu.RUnlock()

	var errs []error
	for _, r := range regs {
		if len(r.eventTypes) > 0 {
			if _, ok := r.eventTypes[event.Type()]; !ok {
				continue
			}
		}
		if err := r.observer.OnEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetObservers reports every currently registered observer.
func (b *Broker) GetObservers() []ObserverInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ObserverInfo, 0, len(b.regs))
	for _, r := range b.regs {
		types := make([]string, 0, len(r.eventTypes))
		for t := range r.eventTypes {
			types = append(types, t)
		}
		out = append(out, ObserverInfo{ID: r.observer.ObserverID(), EventTypes: types, RegisteredAt: r.registeredAt})
	}
	return out
}

package events

import (
	"context"
	"log"
	"sync"
	"time"
)

// Event is a domain event delivered to observers.
type Event struct {
	// Type is the event type (e.g., "dataset:reloaded")
	Type string

	// Payload is one of the typed payloads in messages.go.
	Payload any

	// Time is when the event was created.
	Time time.Time

	Context context.Context
}

// New creates an event stamped with the current time.
func New(eventType string, payload any) Event {
	return Event{
		Type:    eventType,
		Payload: payload,
		Time:    time.Now(),
		Context: context.Background(),
	}
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent handles an event. A returned error is logged by the dispatcher.
	OnEvent(event Event) error

	// GetName returns a human-readable name for logging.
	GetName() string

	// ShouldHandle filters the event types the observer receives.
	ShouldHandle(eventType string) bool
}

// EventDispatcher fans events out to registered observers.
// Safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewEventDispatcher creates a new EventDispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		observers: make([]Observer, 0),
	}
}

// Register adds an observer.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[EventDispatcher] Registered observer: %s", observer.GetName())
}

// Unregister removes an observer.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			log.Printf("[EventDispatcher] Unregistered observer: %s", observer.GetName())
			return
		}
	}
}

func (d *EventDispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()

	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	return observers
}

// Dispatch notifies observers in registration order. A failing observer does
// not stop delivery to the rest.
func (d *EventDispatcher) Dispatch(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[EventDispatcher] Observer %s failed to handle event %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Payload extracts a typed payload from an event.
func Payload[T any](event Event) (T, bool) {
	typed, ok := event.Payload.(T)
	return typed, ok
}

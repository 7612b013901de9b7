package events

import (
	"log"
	"slices"
	"sync"

	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// Bus manages event distribution
type Bus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[EventType][]EventListener),
	}
}

func byPriority(a, b EventListener) int {
	return a.Priority() - b.Priority()
}

// Subscribe adds a listener for one or more event types
func (b *Bus) Subscribe(listener EventListener, eventTypes ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range eventTypes {
		b.listeners[eventType] = append(b.listeners[eventType], listener)
		// Stable so equal priorities keep subscription order
		slices.SortStableFunc(b.listeners[eventType], byPriority)

		log.Printf("EventBus: Subscribed listener %s to event %s with priority %d",
			listener.ID(), eventType, listener.Priority())
	}
}

// Unsubscribe removes a listener from every event type
func (b *Bus) Unsubscribe(listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, listeners := range b.listeners {
		kept := slices.DeleteFunc(listeners, func(l EventListener) bool {
			return l.ID() == listenerID
		})
		if len(kept) != len(listeners) {
			log.Printf("EventBus: Unsubscribed listener %s from event %s", listenerID, eventType)
		}
		b.listeners[eventType] = kept
	}
}

// Emit sends an event to all registered listeners in priority order. A cancelled event
// stops propagating and the first listener error aborts the emit.
func (b *Bus) Emit(event Event) error {
	b.mu.RLock()
	listeners := slices.Clone(b.listeners[event.GetType()])
	b.mu.RUnlock()

	log.Printf("EventBus: Emitting event %s with %d listeners", event.GetType(), len(listeners))

	for _, listener := range listeners {
		if event.IsCancelled() {
			log.Printf("EventBus: Event %s cancelled, stopping propagation", event.GetType())
			break
		}

		if err := listener.HandleEvent(event); err != nil {
			return dnderr.Wrapf(err, "listener %s failed", listener.ID()).
				WithMeta("event_type", string(event.GetType()))
		}
	}

	return nil
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[EventType][]EventListener)
	log.Printf("EventBus: Cleared all listeners")
}

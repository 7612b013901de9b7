package events

import (
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
)

// EventType names a hook in the roll lifecycle
type EventType string

// Event is the base interface for all roll events
type Event interface {
	GetType() EventType
	GetActor() *documents.Actor
	GetItem() *documents.Item
	IsCancelled() bool
	Cancel()
}

// BaseEvent provides common implementation for all events
type BaseEvent struct {
	Type      EventType
	Actor     *documents.Actor
	Item      *documents.Item
	Cancelled bool
}

func (e *BaseEvent) GetType() EventType         { return e.Type }
func (e *BaseEvent) GetActor() *documents.Actor { return e.Actor }
func (e *BaseEvent) GetItem() *documents.Item   { return e.Item }
func (e *BaseEvent) IsCancelled() bool          { return e.Cancelled }
func (e *BaseEvent) Cancel()                    { e.Cancelled = true }

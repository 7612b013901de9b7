package rolls

import (
	"github.com/KirkDiggler/dnd-babonus/internal/events"
)

// ListenerID identifies the bonus listener on the event bus
const ListenerID = "babonus"

// Listener runs the pipeline for every pre-roll event it receives
type Listener struct {
	service Service
}

// NewListener creates a listener backed by service
func NewListener(service Service) *Listener {
	return &Listener{service: service}
}

func (l *Listener) ID() string    { return ListenerID }
func (l *Listener) Priority() int { return events.PriorityBonuses }

// Register subscribes the listener to every pre-roll hook
func (l *Listener) Register(bus *events.Bus) {
	bus.Subscribe(l, events.PreRollTypes...)
}

// HandleEvent replaces the event's roll with the processed one and offers its optional
// bonuses
func (l *Listener) HandleEvent(event events.Event) error {
	pre, ok := event.(*events.PreRollEvent)
	if !ok {
		return nil
	}
	typ, ok := events.BonusType(pre.GetType())
	if !ok {
		return nil
	}

	out, err := l.service.Process(pre.Context(), &ProcessInput{
		World:   pre.World,
		Actor:   pre.GetActor(),
		Item:    pre.GetItem(),
		Type:    typ,
		Details: pre.Details,
		Config:  pre.Config,
	})
	if err != nil {
		return err
	}

	pre.Config = out.Config
	pre.Optional = append(pre.Optional, out.Optional...)
	return nil
}

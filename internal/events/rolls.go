package events

import (
	"context"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
)

// PreRollEvent is emitted before the host rolls. Listeners replace Config with the roll
// they want made and may add optional bonuses for the player to choose from.
type PreRollEvent struct {
	BaseEvent
	Ctx     context.Context
	World   *scene.World
	User    *documents.User
	Details *babonus.RollDetails
	Config  *babonus.RollConfig

	// Optional bonuses offered to the player; they are not part of Config
	Optional []*babonus.Bonus
}

// Context returns the event's context, never nil
func (e *PreRollEvent) Context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

// NewPreRollEvent builds a pre-roll event for actor or an owned item
func NewPreRollEvent(ctx context.Context, t EventType, world *scene.World, actor *documents.Actor, item *documents.Item) *PreRollEvent {
	if actor == nil && item != nil {
		actor = item.Actor()
	}
	e := &PreRollEvent{
		BaseEvent: BaseEvent{Type: t, Actor: actor, Item: item},
		Ctx:       ctx,
		World:     world,
		Details:   &babonus.RollDetails{},
	}
	if world != nil {
		e.User = world.User
	}
	if bt, ok := BonusType(t); ok {
		e.Config = babonus.NewRollConfig(bt)
	}
	if t == EventTypePreRollDeathSave {
		e.Details.IsDeath = true
	}
	return e
}

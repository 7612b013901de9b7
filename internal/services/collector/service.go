package collector

//go:generate mockgen -destination=mock/mock_service.go -package=mockcollector -source=service.go

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// Service gathers the bonuses that could apply to a roll
type Service interface {
	// Collect returns every enabled bonus of the roll's type whose aura, disposition,
	// exclusivity and suppression rules allow it to reach the roller
	Collect(ctx context.Context, input *CollectInput) (*babonus.Collection, error)
}

// CollectInput identifies the roll
type CollectInput struct {
	World *scene.World
	// Actor may be omitted when Item is owned
	Actor *documents.Actor
	Item  *documents.Item
	Type  babonus.Type
}

type service struct{}

// ServiceConfig holds configuration for the collector
type ServiceConfig struct{}

// NewService creates a collector
func NewService(cfg *ServiceConfig) Service {
	return &service{}
}

// Collect implements Service
func (s *service) Collect(ctx context.Context, input *CollectInput) (*babonus.Collection, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if !input.Type.Valid() {
		return nil, dnderr.InvalidArgumentf("unknown roll type %q", input.Type)
	}

	actor := input.Actor
	if actor == nil && input.Item != nil {
		actor = input.Item.Actor()
	}
	if actor == nil {
		return nil, dnderr.InvalidArgument("a rolling actor or owned item is required")
	}

	world := input.World
	if world == nil {
		world = &scene.World{}
	}

	roll := &rollContext{
		world: world,
		actor: actor,
		item:  input.Item,
		typ:   input.Type,
	}

	out := babonus.NewCollection()
	out.Merge(roll.selfBonuses())

	if !world.HasGeometry() {
		return out, nil
	}
	roll.token = world.TokenFor(actor)
	if roll.token == nil {
		return out, nil
	}

	out.Merge(roll.tokenBonuses())
	out.Merge(roll.templateBonuses())
	return out, nil
}

type rollContext struct {
	world *scene.World
	actor *documents.Actor
	item  *documents.Item
	typ   babonus.Type
	token *scene.Token
}

// parse reads a holder's bonuses of the roll's type that pass the general gate
func (r *rollContext) parse(holder documents.Holder) []*babonus.Bonus {
	bonuses, errs := babonus.ParseAll(holder)
	for _, err := range errs {
		log.Printf("Collector: skipping malformed bonus on %s: %v", holder.UUID(), err)
	}

	var out []*babonus.Bonus
	for _, b := range bonuses {
		if b.Type != r.typ || !b.Enabled || b.IsSuppressed() || !b.AppliesToItem(r.item) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func actorHolders(actor *documents.Actor) []documents.Holder {
	holders := []documents.Holder{actor}
	for _, item := range actor.Items {
		holders = append(holders, item)
	}
	for _, effect := range actor.Effects {
		holders = append(holders, effect)
	}
	return holders
}

func (r *rollContext) selfBonuses() *babonus.Collection {
	out := babonus.NewCollection()
	for _, holder := range actorHolders(r.actor) {
		for _, b := range r.parse(holder) {
			if b.Aura.Enabled {
				if !b.Aura.Self || b.Aura.Template || b.IsAuraBlocked() {
					continue
				}
			}
			out.Set(b)
		}
	}
	return out
}

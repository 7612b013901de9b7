package filters

//go:generate mockgen -destination=mock/mock_service.go -package=mockfilters -source=service.go

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/script"
)

// Service decides which collected bonuses apply to a specific roll
type Service interface {
	// Apply drops every bonus that fails one of its filters and rewrites the formulas of
	// the survivors that come from another document
	Apply(ctx context.Context, input *ApplyInput) (*babonus.Collection, error)
}

// ApplyInput is a collected set of bonuses and the roll they are tested against
type ApplyInput struct {
	World   *scene.World
	Actor   *documents.Actor
	Item    *documents.Item
	Type    babonus.Type
	Bonuses *babonus.Collection
	Details *babonus.RollDetails
}

type service struct {
	scripts *script.Evaluator
}

// ServiceConfig holds the dependencies of the filter engine
type ServiceConfig struct {
	Scripts *script.Evaluator
}

// NewService creates a filter engine
func NewService(cfg *ServiceConfig) Service {
	if cfg.Scripts == nil {
		panic("script evaluator is required")
	}
	return &service{scripts: cfg.Scripts}
}

// Apply implements Service
func (s *service) Apply(ctx context.Context, input *ApplyInput) (*babonus.Collection, error) {
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
	world := input.World
	if world == nil {
		world = &scene.World{}
	}

	roll := &rollContext{
		scripts: s.scripts,
		world:   world,
		actor:   actor,
		item:    input.Item,
		typ:     input.Type,
		details: input.Details,
	}
	if roll.details == nil {
		roll.details = &babonus.RollDetails{}
	}

	out := babonus.NewCollection()
	for _, b := range input.Bonuses.Values() {
		if !roll.passes(ctx, b) {
			continue
		}
		out.Set(roll.rebase(b))
	}
	return out, nil
}

type rollContext struct {
	scripts *script.Evaluator
	world   *scene.World
	actor   *documents.Actor
	item    *documents.Item
	typ     babonus.Type
	details *babonus.RollDetails
}

// rolling is the document the roll is made from
func (r *rollContext) rolling() documents.Holder {
	if r.item != nil {
		return r.item
	}
	if r.actor != nil {
		return r.actor
	}
	return nil
}

func (r *rollContext) rollData() documents.RollData {
	if h := r.rolling(); h != nil {
		return h.RollData()
	}
	return documents.RollData{}
}

func (r *rollContext) passes(ctx context.Context, b *babonus.Bonus) bool {
	for _, f := range b.Filters {
		if !r.check(ctx, b, f) {
			return false
		}
	}
	return true
}

func (r *rollContext) check(ctx context.Context, b *babonus.Bonus, f babonus.Filter) bool {
	switch f := f.(type) {
	case babonus.SetFilter:
		return r.checkSet(f)
	case babonus.SpellComponents:
		return r.checkSpellComponents(f)
	case babonus.SpellLevels:
		return r.checkSpellLevels(f)
	case babonus.ArbitraryComparisons:
		return checkComparisons(f, r.rollData())
	case babonus.ProficiencyLevels:
		return r.checkProficiency(f)
	case babonus.HealthPercentages:
		return r.checkHealth(f)
	case babonus.RemainingSpellSlots:
		return r.checkSpellSlots(f)
	case babonus.TokenSizes:
		return r.checkTokenSize(f)
	case babonus.CustomScript:
		return r.checkScript(ctx, b, f)
	}
	log.Printf("Filters: unhandled filter %s on %s", f.Key(), b.UUID())
	return false
}

// rebase resolves the formulas of a bonus granted by another document against that
// document's own data
func (r *rollContext) rebase(b *babonus.Bonus) *babonus.Bonus {
	holder := b.Holder()
	rolling := r.rolling()
	if holder == nil || (rolling != nil && holder.UUID() == rolling.UUID()) {
		return b
	}
	return b.WithBonuses(b.Bonuses.Substitute(b.RollData()))
}

package consumption

//go:generate mockgen -destination=mock/mock_service.go -package=mockconsumption -source=service.go

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
)

// Service spends the resources of optional bonuses
type Service interface {
	// Options lists the amounts the user may spend on an optional bonus
	Options(ctx context.Context, input *OptionsInput) (*OptionsOutput, error)
	// Pay spends amount of the bonus's resource and returns the formula it buys. A failed
	// payment changes nothing.
	Pay(ctx context.Context, input *PayInput) (*PayOutput, error)
}

// OptionsInput identifies an optional bonus and who wants to apply it
type OptionsInput struct {
	User   *documents.User
	Roller *documents.Actor
	Bonus  *babonus.Bonus
}

// OptionsOutput holds the spendable amounts; empty when the bonus cannot be paid for
type OptionsOutput struct {
	Amounts []int
	Scaling bool
}

// PayInput is one confirmed spend
type PayInput struct {
	User   *documents.User
	Roller *documents.Actor
	Bonus  *babonus.Bonus
	// Amount to spend; zero spends the minimum. For slots it is the slot level.
	Amount int
}

// PayOutput is the result of a successful spend
type PayOutput struct {
	Formula babonus.Formula
	Amount  int
	// Resource is the key of what was spent, such as an item uuid or spell slot key
	Resource string
}

type service struct {
	updater ResourceUpdater
	locks   *keyedMutex
}

// ServiceConfig holds the dependencies of the consumption service
type ServiceConfig struct {
	Updater ResourceUpdater
}

// NewService creates a consumption service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Updater == nil {
		panic("resource updater is required")
	}
	return &service{
		updater: cfg.Updater,
		locks:   newKeyedMutex(),
	}
}

// Options implements Service
func (s *service) Options(ctx context.Context, input *OptionsInput) (*OptionsOutput, error) {
	if input == nil || input.Bonus == nil {
		return nil, dnderr.InvalidArgument("bonus is required")
	}
	b := input.Bonus
	if !b.IsConsuming(input.User, input.Roller) {
		return &OptionsOutput{}, nil
	}
	return &OptionsOutput{
		Amounts: b.Options(input.Roller),
		Scaling: b.IsScaling(),
	}, nil
}

// Pay implements Service
func (s *service) Pay(ctx context.Context, input *PayInput) (*PayOutput, error) {
	if input == nil || input.Bonus == nil {
		return nil, dnderr.InvalidArgument("bonus is required")
	}
	b := input.Bonus
	c := b.Consume
	if !b.Optional || !c.Enabled || !c.Type.Valid() {
		return nil, dnderr.InvalidArgumentf("bonus %s does not consume a resource", b.UUID())
	}
	if !canEdit(b, input.User, input.Roller) {
		return nil, dnderr.PermissionDeniedf("user may not spend the resource of %s", b.UUID()).
			WithMeta("bonus_id", b.ID)
	}

	amount := input.Amount
	if amount == 0 || !b.IsScaling() {
		amount = b.Minimum()
	}
	if amount < b.Minimum() || (c.Value.Max > 0 && amount > c.Value.Max) {
		return nil, dnderr.InvalidArgumentf("cannot spend %d on %s", amount, b.UUID()).
			WithMeta("min", b.Minimum()).
			WithMeta("max", c.Value.Max)
	}
	if c.Type == babonus.ConsumeHealth && c.Value.Step > 0 && (amount-b.Minimum())%c.Value.Step != 0 {
		return nil, dnderr.InvalidArgumentf("health must be spent in steps of %d", c.Value.Step)
	}

	formula, err := b.ScaledFormula(amount)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to scale %s", b.UUID())
	}

	key := resourceKey(b, input.Roller)
	unlock := s.locks.Lock(key)
	defer unlock()

	resource, err := s.spend(ctx, b, input.Roller, amount)
	if err != nil {
		if dnderr.IsInsufficientResource(err) {
			log.Printf("Consumption: cannot apply %s: %v", b.UUID(), err)
			return nil, err
		}
		return nil, dnderr.Wrapf(err, "failed to spend resource for %s", b.UUID())
	}

	return &PayOutput{
		Formula:  formula,
		Amount:   amount,
		Resource: resource,
	}, nil
}

func canEdit(b *babonus.Bonus, user *documents.User, roller *documents.Actor) bool {
	switch b.Consume.Type {
	case babonus.ConsumeUses, babonus.ConsumeQuantity:
		return b.Item() != nil && b.Item().IsOwner(user)
	case babonus.ConsumeEffect:
		return b.Effect() != nil && b.Effect().IsOwner(user)
	case babonus.ConsumeSlots, babonus.ConsumeHealth:
		return roller != nil && roller.IsOwner(user)
	}
	return false
}

func resourceKey(b *babonus.Bonus, roller *documents.Actor) string {
	switch b.Consume.Type {
	case babonus.ConsumeUses, babonus.ConsumeQuantity:
		return b.Item().UUID()
	case babonus.ConsumeEffect:
		return b.Effect().UUID()
	case babonus.ConsumeSlots:
		return roller.UUID() + ".spells"
	}
	return roller.UUID() + ".hp"
}

// spend checks and decrements the resource. It must run under the resource's lock.
func (s *service) spend(ctx context.Context, b *babonus.Bonus, roller *documents.Actor, amount int) (string, error) {
	insufficient := func(format string, args ...any) error {
		return dnderr.InsufficientResourcef(format, args...).
			WithMeta("bonus_id", b.ID).
			WithMeta("amount", amount)
	}

	switch b.Consume.Type {
	case babonus.ConsumeUses:
		item := b.Item()
		if item.Uses.Value < amount {
			return "", insufficient("%s has %d uses left", item.Name, item.Uses.Value)
		}
		return item.UUID(), s.updater.SetItemUses(ctx, item, item.Uses.Value-amount)

	case babonus.ConsumeQuantity:
		item := b.Item()
		if item.Quantity < amount {
			return "", insufficient("%s has %d left", item.Name, item.Quantity)
		}
		return item.UUID(), s.updater.SetItemQuantity(ctx, item, item.Quantity-amount)

	case babonus.ConsumeSlots:
		slot := babonus.SlotAvailable(roller, amount)
		if b.IsScaling() {
			slot = babonus.SlotAtLevel(roller, amount)
		}
		if slot == "" {
			return "", insufficient("no spell slot of level %d remaining", amount)
		}
		return slot, s.updater.SetSpellSlot(ctx, roller, slot, roller.Spells[slot].Value-1)

	case babonus.ConsumeHealth:
		if roller.HP.Value < amount {
			return "", insufficient("%s has %d hit points", roller.Name, roller.HP.Value)
		}
		return roller.UUID() + ".hp", s.updater.SetHitPoints(ctx, roller, roller.HP.Value-amount)

	case babonus.ConsumeEffect:
		effect := b.Effect()
		if !b.CanAfford(roller, 1) {
			return "", insufficient("effect %s is gone", effect.Name)
		}
		return effect.UUID(), s.updater.DeleteEffect(ctx, effect)
	}
	return "", dnderr.InvalidArgumentf("unknown consumption type %q", b.Consume.Type)
}

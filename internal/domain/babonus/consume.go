package babonus

import (
	"fmt"

	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
)

// ConsumeType is the resource an optional bonus spends
type ConsumeType string

const (
	ConsumeUses     ConsumeType = "uses"
	ConsumeQuantity ConsumeType = "quantity"
	ConsumeSlots    ConsumeType = "slots"
	ConsumeEffect   ConsumeType = "effect"
	ConsumeHealth   ConsumeType = "health"
)

// Valid reports whether t is a known consumption type
func (t ConsumeType) Valid() bool {
	switch t {
	case ConsumeUses, ConsumeQuantity, ConsumeSlots, ConsumeEffect, ConsumeHealth:
		return true
	}
	return false
}

// ConsumeValue bounds the amount spent. For health, Step is the hit points per scaling step.
type ConsumeValue struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// Consume describes the resource cost of applying an optional bonus
type Consume struct {
	Enabled bool        `json:"enabled"`
	Type    ConsumeType `json:"type"`
	Scales  bool        `json:"scales"`
	// Formula is added once per step spent beyond the minimum; empty repeats the bonus itself
	Formula Formula      `json:"formula"`
	Value   ConsumeValue `json:"value"`
}

func (c Consume) validate() error {
	if !c.Enabled {
		return nil
	}
	if !c.Type.Valid() {
		return fmt.Errorf("unknown consumption type %q", c.Type)
	}
	if c.Value.Max > 0 && c.Value.Max < c.Value.Min {
		return fmt.Errorf("consumption max %d is below min %d", c.Value.Max, c.Value.Min)
	}
	if !c.Formula.IsEmpty() && !c.Formula.IsValid() {
		return fmt.Errorf("invalid scaling formula %q", c.Formula)
	}
	return nil
}

// IsConsuming reports whether the bonus can be offered as a paid optional bonus: it is
// optional, spends a known resource, its minimum is positive, the user may edit the resource
// and the minimum is currently affordable
func (b *Bonus) IsConsuming(user *documents.User, roller *documents.Actor) bool {
	c := b.Consume
	if !b.Optional || !c.Enabled || !c.Type.Valid() {
		return false
	}
	if c.Type != ConsumeEffect && c.Value.Min < 1 {
		return false
	}

	switch c.Type {
	case ConsumeUses, ConsumeQuantity:
		if b.item == nil || !b.item.IsOwner(user) {
			return false
		}
	case ConsumeEffect:
		if b.effect == nil || !b.effect.IsOwner(user) {
			return false
		}
	case ConsumeSlots, ConsumeHealth:
		if roller == nil || !roller.IsOwner(user) {
			return false
		}
	}

	return b.CanAfford(roller, b.Minimum())
}

// IsScaling reports whether the amount spent changes the bonus
func (b *Bonus) IsScaling() bool {
	c := b.Consume
	if !c.Enabled || !c.Scales {
		return false
	}
	switch c.Type {
	case ConsumeUses, ConsumeQuantity, ConsumeSlots:
		return c.Value.Max == 0 || c.Value.Max > c.Value.Min
	case ConsumeHealth:
		return c.Value.Step > 0
	}
	return false
}

// Minimum is the smallest amount that can be spent; for slots it is the lowest slot level
func (b *Bonus) Minimum() int {
	if b.Consume.Type == ConsumeEffect {
		return 1
	}
	return max(1, b.Consume.Value.Min)
}

// CanAfford reports whether amount of the resource is available. For slots amount is the
// minimum slot level.
func (b *Bonus) CanAfford(roller *documents.Actor, amount int) bool {
	switch b.Consume.Type {
	case ConsumeUses:
		return b.item != nil && b.item.Uses.Value >= amount
	case ConsumeQuantity:
		return b.item != nil && b.item.Quantity >= amount
	case ConsumeSlots:
		return roller != nil && SlotAvailable(roller, amount) != ""
	case ConsumeHealth:
		return roller != nil && roller.HP.Value >= amount
	case ConsumeEffect:
		if b.effect == nil || b.effect.Actor() == nil {
			return false
		}
		return b.effect.Actor().Effect(b.effect.ID) != nil
	}
	return false
}

// SlotAvailable returns the key of the lowest slot pool of at least level with a slot left.
// Pact slots are used only when no regular slot fits.
func SlotAvailable(actor *documents.Actor, level int) string {
	for l := max(1, level); l <= 9; l++ {
		key := documents.SlotKey(l)
		if actor.Spells[key].Value > 0 {
			return key
		}
	}
	if pact, ok := actor.Spells[documents.PactSlotKey]; ok && pact.Value > 0 && pact.Level >= level {
		return documents.PactSlotKey
	}
	return ""
}

// Options lists the amounts the roller can choose to spend
func (b *Bonus) Options(roller *documents.Actor) []int {
	if !b.CanAfford(roller, b.Minimum()) {
		return nil
	}
	c := b.Consume
	if !b.IsScaling() {
		return []int{b.Minimum()}
	}

	upper := c.Value.Max
	switch c.Type {
	case ConsumeSlots:
		if upper == 0 {
			upper = 9
		}
	case ConsumeUses:
		upper = capAt(upper, b.item.Uses.Value)
	case ConsumeQuantity:
		upper = capAt(upper, b.item.Quantity)
	case ConsumeHealth:
		upper = capAt(upper, roller.HP.Value)
	}

	step := 1
	if c.Type == ConsumeHealth {
		step = c.Value.Step
	}
	var out []int
	for v := b.Minimum(); v <= upper; v += step {
		if c.Type == ConsumeSlots {
			if SlotAtLevel(roller, v) != "" {
				out = append(out, v)
			}
			continue
		}
		if b.CanAfford(roller, v) {
			out = append(out, v)
		}
	}
	return out
}

// SlotAtLevel returns the key of a pool with a slot left at exactly level
func SlotAtLevel(actor *documents.Actor, level int) string {
	if actor.Spells[documents.SlotKey(level)].Value > 0 {
		return documents.SlotKey(level)
	}
	if pact, ok := actor.Spells[documents.PactSlotKey]; ok && pact.Value > 0 && pact.Level == level {
		return documents.PactSlotKey
	}
	return ""
}

func capAt(limit, available int) int {
	if limit == 0 || available < limit {
		return available
	}
	return limit
}

// Steps is how many scaling steps spending amount buys
func (b *Bonus) Steps(amount int) int {
	if !b.IsScaling() {
		return 0
	}
	over := amount - b.Minimum()
	if over <= 0 {
		return 0
	}
	if b.Consume.Type == ConsumeHealth {
		return over / b.Consume.Value.Step
	}
	return over
}

// ScaledFormula returns the bonus formula bought by spending amount
func (b *Bonus) ScaledFormula(amount int) (Formula, error) {
	scaled, err := dice.ScaleFormula(string(b.Bonuses.Bonus), string(b.Consume.Formula), b.Steps(amount))
	if err != nil {
		return "", err
	}
	return Formula(scaled), nil
}

package babonus

import (
	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
)

// Bonuses are the modifications a bonus grants. Which fields apply depends on the type.
type Bonuses struct {
	Bonus               Formula    `json:"bonus,omitempty"`
	CriticalRange       Formula    `json:"criticalRange,omitempty"`
	FumbleRange         Formula    `json:"fumbleRange,omitempty"`
	DamageType          string     `json:"damageType,omitempty"`
	CriticalBonusDice   Formula    `json:"criticalBonusDice,omitempty"`
	CriticalBonusDamage Formula    `json:"criticalBonusDamage,omitempty"`
	TargetValue         Formula    `json:"targetValue,omitempty"`
	DeathSaveCritical   Formula    `json:"deathSaveCritical,omitempty"`
	Modifiers           *Modifiers `json:"modifiers,omitempty"`
}

// forType drops the fields a bonus type does not support
func (b Bonuses) forType(t Type) Bonuses {
	out := Bonuses{Bonus: b.Bonus}
	switch t {
	case TypeAttack:
		out.CriticalRange = b.CriticalRange
		out.FumbleRange = b.FumbleRange
		out.Modifiers = b.Modifiers
	case TypeDamage:
		out.DamageType = b.DamageType
		out.CriticalBonusDice = b.CriticalBonusDice
		out.CriticalBonusDamage = b.CriticalBonusDamage
		out.Modifiers = b.Modifiers
	case TypeThrow:
		out.TargetValue = b.TargetValue
		out.DeathSaveCritical = b.DeathSaveCritical
		out.Modifiers = b.Modifiers
	case TypeTest, TypeHitDie:
		out.Modifiers = b.Modifiers
	}
	return out
}

// IsEmpty reports whether the bonuses change nothing
func (b Bonuses) IsEmpty() bool {
	return b.Bonus.IsEmpty() && b.CriticalRange.IsEmpty() && b.FumbleRange.IsEmpty() &&
		b.CriticalBonusDice.IsEmpty() && b.CriticalBonusDamage.IsEmpty() &&
		b.TargetValue.IsEmpty() && b.DeathSaveCritical.IsEmpty() &&
		(b.Modifiers == nil || !b.Modifiers.HasEffect())
}

// Substitute returns a copy with every formula resolved against data
func (b Bonuses) Substitute(data documents.RollData) Bonuses {
	out := b
	out.Bonus = b.Bonus.Substitute(data)
	out.CriticalRange = b.CriticalRange.Substitute(data)
	out.FumbleRange = b.FumbleRange.Substitute(data)
	out.CriticalBonusDice = b.CriticalBonusDice.Substitute(data)
	out.CriticalBonusDamage = b.CriticalBonusDamage.Substitute(data)
	out.TargetValue = b.TargetValue.Substitute(data)
	out.DeathSaveCritical = b.DeathSaveCritical.Substitute(data)
	if b.Modifiers != nil {
		m := b.Modifiers.Substitute(data)
		out.Modifiers = &m
	}
	return out
}

// ModifierValue is a toggled numeric modifier
type ModifierValue struct {
	Enabled bool    `json:"enabled"`
	Value   Formula `json:"value"`
}

// RerollModifier rerolls low (or, inverted, high) results
type RerollModifier struct {
	Enabled   bool    `json:"enabled"`
	Value     Formula `json:"value"`
	Invert    bool    `json:"invert"`
	Recursive bool    `json:"recursive"`
}

// ExplodeModifier rolls again on high results
type ExplodeModifier struct {
	Enabled bool    `json:"enabled"`
	Value   Formula `json:"value"`
	Once    bool    `json:"once"`
}

// MinimumModifier raises each die to a floor
type MinimumModifier struct {
	Enabled  bool    `json:"enabled"`
	Value    Formula `json:"value"`
	Maximize bool    `json:"maximize"`
}

// ModifierConfig controls which dice terms are changed
type ModifierConfig struct {
	First bool `json:"first"`
}

// Modifiers change the dice of a roll
type Modifiers struct {
	Amount  ModifierValue   `json:"amount"`
	Size    ModifierValue   `json:"size"`
	Reroll  RerollModifier  `json:"reroll"`
	Explode ExplodeModifier `json:"explode"`
	Minimum MinimumModifier `json:"minimum"`
	Maximum ModifierValue   `json:"maximum"`
	Config  ModifierConfig  `json:"config"`
}

// HasEffect reports whether any modifier is switched on
func (m *Modifiers) HasEffect() bool {
	return m.Amount.Enabled || m.Size.Enabled || m.Reroll.Enabled || m.Explode.Enabled ||
		m.Minimum.Enabled || m.Maximum.Enabled
}

// Substitute resolves the modifier values against data
func (m *Modifiers) Substitute(data documents.RollData) Modifiers {
	out := *m
	out.Amount.Value = m.Amount.Value.Substitute(data)
	out.Size.Value = m.Size.Value.Substitute(data)
	out.Reroll.Value = m.Reroll.Value.Substitute(data)
	out.Explode.Value = m.Explode.Value.Substitute(data)
	out.Minimum.Value = m.Minimum.Value.Substitute(data)
	out.Maximum.Value = m.Maximum.Value.Substitute(data)
	return out
}

// Resolve evaluates the modifiers into dice term changes. Values that do not evaluate
// switch their modifier off.
func (m *Modifiers) Resolve(data documents.RollData) dice.TermModifiers {
	var out dice.TermModifiers
	if m == nil {
		return out
	}

	if m.Amount.Enabled {
		if v, err := m.Amount.Value.Int(data); err == nil {
			out.Amount = v
		}
	}
	if m.Size.Enabled {
		if v, err := m.Size.Value.Int(data); err == nil {
			out.Size = v
		}
	}
	if m.Reroll.Enabled {
		v := 1
		if !m.Reroll.Value.IsEmpty() {
			var err error
			if v, err = m.Reroll.Value.Int(data); err != nil {
				v = 0
			}
		}
		if v > 0 {
			out.Reroll = true
			out.RerollValue = v
			out.RerollInvert = m.Reroll.Invert
			out.RerollRecursive = m.Reroll.Recursive
		}
	}
	if m.Explode.Enabled {
		if v, err := m.Explode.Value.Int(data); err == nil {
			out.Explode = true
			out.ExplodeValue = max(0, v)
			out.ExplodeOnce = m.Explode.Once
		}
	}
	if m.Minimum.Enabled {
		if m.Minimum.Maximize {
			out.Minimum = true
			out.MinimumMaximize = true
		} else if v, err := m.Minimum.Value.Int(data); err == nil && v > 0 {
			out.Minimum = true
			out.MinimumValue = v
		}
	}
	if m.Maximum.Enabled {
		if v, err := m.Maximum.Value.Int(data); err == nil && v > 0 {
			out.Maximum = true
			out.MaximumValue = v
		}
	}
	return out
}

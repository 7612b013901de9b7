package rolls

import (
	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
)

// applyModifiers rewrites the dice of parts with b's die modifiers. With the first-only
// option just the first dice term across all parts is changed.
func applyModifiers(parts []babonus.RollPart, b *babonus.Bonus) []babonus.RollPart {
	m := b.Bonuses.Modifiers
	if m == nil || !m.HasEffect() {
		return parts
	}
	mods := m.Resolve(b.RollData())
	if mods.IsZero() {
		return parts
	}

	out := make([]babonus.RollPart, len(parts))
	copy(out, parts)
	for i, p := range out {
		rewritten, changed := dice.ApplyModifiers(string(p.Formula), mods, m.Config.First)
		if !changed {
			continue
		}
		out[i].Formula = babonus.Formula(rewritten)
		if m.Config.First {
			break
		}
	}
	return out
}

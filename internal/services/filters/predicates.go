package filters

import (
	"context"
	"log"
	"slices"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/script"
)

// targetKeys are the set filters that read the user's first target
var targetKeys = []babonus.FilterKey{
	babonus.FilterCreatureTypes,
	babonus.FilterTargetArmors,
	babonus.FilterTargetEffects,
}

func (r *rollContext) checkSet(f babonus.SetFilter) bool {
	if f.IsEmpty() {
		return true
	}
	if slices.Contains(targetKeys, f.Name) {
		target := r.targetActor()
		if target == nil {
			return len(f.Included) == 0
		}
		return f.Matches(targetTags(f.Name, target))
	}
	return f.Matches(r.tags(f.Name))
}

func (r *rollContext) targetActor() *documents.Actor {
	t := r.world.FirstTarget()
	if t == nil {
		return nil
	}
	return t.Actor()
}

func targetTags(key babonus.FilterKey, target *documents.Actor) []string {
	switch key {
	case babonus.FilterCreatureTypes:
		return target.CreatureTypes()
	case babonus.FilterTargetArmors:
		return target.ArmorTags()
	case babonus.FilterTargetEffects:
		return target.StatusSet()
	}
	return nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// tags returns the subject's tags for a set filter about the roll itself
func (r *rollContext) tags(key babonus.FilterKey) []string {
	switch key {
	case babonus.FilterAbilities:
		return nonEmpty(r.ability())
	case babonus.FilterSkillIDs:
		return nonEmpty(r.details.SkillID)
	case babonus.FilterBaseTools:
		return nonEmpty(r.details.ToolID)
	case babonus.FilterThrowTypes:
		return r.details.ThrowTypes()
	}

	if actor := r.actor; actor != nil {
		switch key {
		case babonus.FilterActorCreatureTypes:
			return actor.CreatureTypes()
		case babonus.FilterActorLanguages:
			return actor.Languages
		case babonus.FilterBaseArmors:
			return actor.ArmorTags()
		case babonus.FilterStatusEffects:
			return actor.StatusSet()
		}
	}

	item := r.item
	if item == nil {
		return nil
	}
	switch key {
	case babonus.FilterItemTypes:
		return nonEmpty(item.Type)
	case babonus.FilterBaseWeapons:
		if item.Type != documents.ItemTypeWeapon {
			return nil
		}
		return nonEmpty(item.BaseItem)
	case babonus.FilterDamageTypes:
		if len(r.details.DamageTypes) > 0 {
			return r.details.DamageTypes
		}
		return item.DamageTypes()
	case babonus.FilterProperties:
		return item.Properties
	case babonus.FilterActionTypes:
		return nonEmpty(item.ActionType)
	case babonus.FilterIdentifiers:
		return nonEmpty(item.Identifier)
	case babonus.FilterFeatureTypes:
		return nonEmpty(item.FeatureType)
	case babonus.FilterSaveAbilities:
		return nonEmpty(item.SaveAbility)
	}

	if !item.IsSpell() {
		return nil
	}
	switch key {
	case babonus.FilterSpellSchools:
		return nonEmpty(item.Spell.School)
	case babonus.FilterSourceClasses:
		return nonEmpty(item.Spell.SourceClass)
	case babonus.FilterPreparationModes:
		return nonEmpty(item.Spell.Preparation)
	}
	return nil
}

// ability is the ability the roll is made with
func (r *rollContext) ability() string {
	if r.details.Ability != "" {
		return r.details.Ability
	}
	if r.actor != nil && r.details.SkillID != "" {
		if sk, ok := r.actor.Skills[r.details.SkillID]; ok {
			return sk.Ability
		}
	}
	if r.item != nil {
		return r.item.Ability
	}
	return ""
}

func (r *rollContext) checkSpellComponents(f babonus.SpellComponents) bool {
	if len(f.Types) == 0 {
		return true
	}
	if r.item == nil || !r.item.IsSpell() {
		return false
	}
	have := r.item.Spell.Components
	if f.Match == babonus.MatchAll {
		for _, c := range f.Types {
			if !slices.Contains(have, c) {
				return false
			}
		}
		return true
	}
	for _, c := range f.Types {
		if slices.Contains(have, c) {
			return true
		}
	}
	return false
}

func (r *rollContext) checkSpellLevels(f babonus.SpellLevels) bool {
	if len(f.Levels) == 0 {
		return true
	}
	if r.item == nil || !r.item.IsSpell() {
		return false
	}
	level := r.item.Spell.Level
	if r.details.SpellLevel > 0 {
		level = r.details.SpellLevel
	}
	return slices.Contains(f.Levels, level)
}

// proficiency resolves the multiplier that applies to the roll
func (r *rollContext) proficiency() (float64, bool) {
	actor := r.actor
	switch r.typ {
	case babonus.TypeAttack, babonus.TypeDamage:
		if r.item == nil {
			return 0, false
		}
		return r.item.ProficiencyMultiplier(), true
	case babonus.TypeTest:
		if actor == nil {
			return 0, false
		}
		if id := r.details.SkillID; id != "" {
			sk, ok := actor.Skills[id]
			return sk.Proficient, ok
		}
		if id := r.details.ToolID; id != "" {
			if r.item != nil && r.item.Type == documents.ItemTypeTool {
				return r.item.ProficiencyMultiplier(), true
			}
			tool, ok := actor.Tools[id]
			return tool.Proficient, ok
		}
		if ab, ok := actor.Abilities[r.details.Ability]; ok {
			return ab.CheckProficient, true
		}
	case babonus.TypeThrow:
		if actor == nil {
			return 0, false
		}
		if r.details.IsDeath {
			return actor.DeathSaveProficient, true
		}
		if ab, ok := actor.Abilities[r.details.Ability]; ok {
			return ab.SaveProficient, true
		}
	}
	return 0, false
}

func (r *rollContext) checkProficiency(f babonus.ProficiencyLevels) bool {
	if len(f.Levels) == 0 {
		return true
	}
	prof, ok := r.proficiency()
	if !ok {
		return false
	}
	return slices.Contains(f.Levels, prof)
}

func (r *rollContext) checkHealth(f babonus.HealthPercentages) bool {
	if f.Value == nil || f.Type == nil {
		return true
	}
	if *f.Type != babonus.AtMost && *f.Type != babonus.AtLeast {
		return true
	}
	if r.actor == nil {
		return false
	}
	pct := r.actor.HP.Percentage()
	if *f.Type == babonus.AtLeast {
		return pct >= *f.Value
	}
	return pct <= *f.Value
}

func (r *rollContext) checkSpellSlots(f babonus.RemainingSpellSlots) bool {
	if f.Min == nil && f.Max == nil {
		return true
	}
	if r.actor == nil {
		return false
	}

	total := 0
	for key, slot := range r.actor.Spells {
		if slot.Max <= 0 || slot.Value <= 0 {
			continue
		}
		if f.Size {
			total += slot.Value * r.actor.SlotLevel(key)
		} else {
			total += slot.Value
		}
	}

	if f.Min != nil && total < *f.Min {
		return false
	}
	if f.Max != nil && total > *f.Max {
		return false
	}
	return true
}

func (r *rollContext) checkTokenSize(f babonus.TokenSizes) bool {
	if f.Size <= 0 {
		return true
	}
	target := r.world.FirstTarget()
	if target == nil {
		return false
	}

	threshold := f.Size
	if f.Self {
		if own := r.world.TokenFor(r.actor); own != nil {
			if f.Type == babonus.SizeAtMost {
				threshold = min(threshold, own.Size())
			} else {
				threshold = max(threshold, own.Size())
			}
		}
	}

	if f.Type == babonus.SizeAtMost {
		return target.Size() <= threshold
	}
	return target.Size() >= threshold
}

func (r *rollContext) checkScript(ctx context.Context, b *babonus.Bonus, f babonus.CustomScript) bool {
	if !r.scripts.Enabled() {
		return true
	}
	if f.Source == "" {
		return true
	}

	env := script.Env{
		Bonus: map[string]any{
			"id":   b.ID,
			"name": b.Name,
			"type": string(b.Type),
			"uuid": b.UUID(),
		},
		Details: r.details.Map(),
	}
	if r.actor != nil {
		env.Actor = r.actor.RollData()
		if t := r.world.TokenFor(r.actor); t != nil {
			env.Token = map[string]any{
				"id":          t.ID,
				"name":        t.Name,
				"disposition": int(t.Disposition),
				"elevation":   t.Elevation,
				"size":        t.Size(),
			}
		}
	}
	if r.item != nil {
		env.Item = r.item.RollData()
	}

	pass, err := r.scripts.Eval(ctx, f.Source, env)
	if err != nil {
		log.Printf("Filters: custom script on %s failed: %v", b.UUID(), err)
		return false
	}
	return pass
}

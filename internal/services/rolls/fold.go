package rolls

import (
	"log"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
)

// folder adds the bonuses that survived filtering to a roll
type folder struct {
	details             *babonus.RollDetails
	allowFumbleBelowOne bool
}

func part(b *babonus.Bonus, f babonus.Formula) babonus.RollPart {
	p := babonus.RollPart{Formula: f, Source: b.Key()}
	if b.Type == babonus.TypeDamage {
		p.DamageType = b.Bonuses.DamageType
	}
	return p
}

// value evaluates a threshold formula of b, logging and skipping ones that do not evaluate
func value(b *babonus.Bonus, f babonus.Formula, field string) int {
	if f.IsEmpty() {
		return 0
	}
	v, err := f.Int(b.RollData())
	if err != nil {
		log.Printf("Rolls: ignoring %s %q of %s: %v", field, f, b.UUID(), err)
		return 0
	}
	return v
}

func (f *folder) fold(in *babonus.RollConfig, bonuses []*babonus.Bonus) *babonus.RollConfig {
	cfg := in.Clone()
	isDeath := f.details != nil && f.details.IsDeath

	var critical, fumble, target, deathCritical int
	for _, b := range bonuses {
		bonus := b.Bonuses

		if cfg.Type == babonus.TypeSave {
			cfg.SaveDC += value(b, bonus.Bonus, "save dc")
		} else if bonus.Bonus.IsValid() {
			cfg.Parts = append(cfg.Parts, part(b, bonus.Bonus))
		}

		switch cfg.Type {
		case babonus.TypeAttack:
			critical += value(b, bonus.CriticalRange, "critical range")
			fumble += value(b, bonus.FumbleRange, "fumble range")
		case babonus.TypeDamage:
			cfg.CriticalBonusDice += value(b, bonus.CriticalBonusDice, "critical bonus dice")
			if bonus.CriticalBonusDamage.IsValid() {
				if cfg.CriticalBonusDamage.IsEmpty() {
					cfg.CriticalBonusDamage = bonus.CriticalBonusDamage
				} else {
					cfg.CriticalBonusDamage += " + " + bonus.CriticalBonusDamage
				}
			}
		case babonus.TypeThrow:
			target += value(b, bonus.TargetValue, "target value")
			if isDeath {
				deathCritical += value(b, bonus.DeathSaveCritical, "death save critical")
			}
		}

		cfg.Applied = append(cfg.Applied, b.Key())
	}

	if cfg.CriticalThreshold > 0 {
		cfg.CriticalThreshold = max(1, cfg.CriticalThreshold-critical-deathCritical)
	}
	if cfg.FumbleThreshold > 0 || fumble != 0 {
		cfg.FumbleThreshold += fumble
		if !f.allowFumbleBelowOne {
			cfg.FumbleThreshold = max(1, cfg.FumbleThreshold)
		}
	}
	if cfg.Type == babonus.TypeThrow && isDeath {
		cfg.TargetValue = max(1, cfg.TargetValue-target)
	}

	for _, b := range bonuses {
		cfg.Parts = applyModifiers(cfg.Parts, b)
	}
	return cfg.WithStage(babonus.StageApplied)
}

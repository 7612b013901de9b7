package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/services/collector"
	"github.com/KirkDiggler/dnd-babonus/internal/services/filters"
)

// detailFlags describe the roll beyond its type
type detailFlags struct {
	ability    string
	skill      string
	tool       string
	spellLevel int
	death      bool
	damage     []string
}

func (f *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ability, "ability", "", "ability used for the roll")
	cmd.Flags().StringVar(&f.skill, "skill", "", "skill id of a skill check")
	cmd.Flags().StringVar(&f.tool, "tool", "", "tool id of a tool check")
	cmd.Flags().IntVar(&f.spellLevel, "spell-level", 0, "level the spell is cast at")
	cmd.Flags().BoolVar(&f.death, "death", false, "the saving throw is a death save")
	cmd.Flags().StringSliceVar(&f.damage, "damage-type", nil, "damage types of the roll")
}

func (f *detailFlags) details() *babonus.RollDetails {
	return &babonus.RollDetails{
		Ability:     f.ability,
		SkillID:     f.skill,
		ToolID:      f.tool,
		SpellLevel:  f.spellLevel,
		IsDeath:     f.death,
		DamageTypes: f.damage,
	}
}

func newCollectCmd(a *app) *cobra.Command {
	var (
		wf       worldFlags
		df       detailFlags
		rollType string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "List the bonuses that could apply to a roll and which of them pass their filters",
		Example: `  babonus collect --world world.json --actor hero --item sword --type attack
  babonus collect --scene-id keep --actor hero --type test --skill ath`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ := babonus.Type(rollType)
			if !typ.Valid() {
				return dnderr.InvalidArgumentf("unknown roll type %q", rollType)
			}

			ctx := cmd.Context()
			r, err := a.load(ctx, &wf)
			if err != nil {
				return err
			}

			collected, err := a.provider.Collector.Collect(ctx, &collector.CollectInput{
				World: r.world,
				Actor: r.actor,
				Item:  r.item,
				Type:  typ,
			})
			if err != nil {
				return err
			}

			active, err := a.provider.Filters.Apply(ctx, &filters.ApplyInput{
				World:   r.world,
				Actor:   r.actor,
				Item:    r.item,
				Type:    typ,
				Bonuses: collected,
				Details: df.details(),
			})
			if err != nil {
				return err
			}

			renderBonuses(cmd.OutOrStdout(), collected, active)
			return nil
		},
	}
	wf.register(cmd)
	df.register(cmd)
	cmd.Flags().StringVarP(&rollType, "type", "t", "", "roll type: attack, damage, save, throw, test or hitdie")

	return cmd
}

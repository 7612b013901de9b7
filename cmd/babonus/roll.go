package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/KirkDiggler/dnd-babonus/internal/events"
	"github.com/KirkDiggler/dnd-babonus/internal/services/rolls"
)

// choice is an optional bonus the player asked to apply, by id or key
type choice struct {
	ref    string
	amount int
}

func parseChoice(raw string) (choice, error) {
	ref, amount, found := strings.Cut(raw, "=")
	c := choice{ref: strings.TrimSpace(ref)}
	if c.ref == "" {
		return c, dnderr.InvalidArgumentf("invalid --apply %q", raw)
	}
	if found {
		n, err := strconv.Atoi(strings.TrimSpace(amount))
		if err != nil {
			return c, dnderr.InvalidArgumentf("invalid amount in --apply %q", raw)
		}
		c.amount = n
	}
	return c, nil
}

func (c choice) matches(b *babonus.Bonus) bool {
	return b.ID == c.ref || b.Key() == c.ref
}

func newRollCmd(a *app) *cobra.Command {
	var (
		wf      worldFlags
		df      detailFlags
		hook    string
		parts   []string
		saveDC  int
		apply   []string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Fold the active bonuses into a roll and preview it",
		Example: `  babonus roll --world world.json --actor hero --item sword --hook attack --part 1d20 --part @mod
  babonus roll --world world.json --actor hero --item sword --hook damage --part "1d8 + @mod" --apply focus=2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eventType := events.EventType("pre_roll_" + hook)
			typ, ok := events.BonusType(eventType)
			if !ok {
				return dnderr.InvalidArgumentf("unknown roll hook %q", hook)
			}

			choices := make([]choice, 0, len(apply))
			for _, raw := range apply {
				c, err := parseChoice(raw)
				if err != nil {
					return err
				}
				choices = append(choices, c)
			}

			ctx := cmd.Context()
			r, err := a.load(ctx, &wf)
			if err != nil {
				return err
			}

			event := events.NewPreRollEvent(ctx, eventType, r.world, r.actor, r.item)
			details := df.details()
			details.IsDeath = details.IsDeath || event.Details.IsDeath
			event.Details = details
			event.Config = babonus.NewRollConfig(typ, parts...)
			event.Config.SaveDC = saveDC

			if err := a.provider.Bus.Emit(event); err != nil {
				return err
			}

			cfg := event.Config
			offered := event.Optional
			for _, c := range choices {
				idx := -1
				for i, b := range offered {
					if c.matches(b) {
						idx = i
						break
					}
				}
				if idx < 0 {
					return dnderr.NotFoundf("optional bonus %s is not offered for this roll", c.ref)
				}

				cfg, err = a.provider.Rolls.ApplyOptional(ctx, &rolls.ApplyOptionalInput{
					User:   event.User,
					Actor:  r.actor,
					Bonus:  offered[idx],
					Amount: c.amount,
					Config: cfg,
				})
				if err != nil {
					return err
				}
				offered = append(offered[:idx:idx], offered[idx+1:]...)
			}

			out := cmd.OutOrStdout()
			renderConfig(out, cfg)
			if len(offered) > 0 {
				renderOptional(ctx, out, a.provider.Consumption, event.User, r.actor, offered)
			}

			if preview {
				if result, ok := a.preview(cfg, r.rollData()); ok {
					fmt.Fprintf(out, "\nPreview: %s = %s\n", result.Formula, strconv.FormatFloat(result.Total, 'f', -1, 64))
				}
			}
			return nil
		},
	}
	wf.register(cmd)
	df.register(cmd)
	cmd.Flags().StringVar(&hook, "hook", "", "roll hook: attack, damage, save_dc, ability_check, skill, tool, saving_throw, death_save or hit_die")
	cmd.Flags().StringArrayVarP(&parts, "part", "p", nil, "base formula part of the roll (repeatable)")
	cmd.Flags().IntVar(&saveDC, "save-dc", 0, "base save DC for the save_dc hook")
	cmd.Flags().StringArrayVar(&apply, "apply", nil, "apply an offered optional bonus as id[=amount] (repeatable)")
	cmd.Flags().BoolVar(&preview, "preview", true, "roll the resulting formula")

	return cmd
}

func (r *roller) rollData() documents.RollData {
	if r.item != nil {
		return r.item.RollData()
	}
	return r.actor.RollData()
}

// preview rolls cfg's formula with unresolved references counted as zero
func (a *app) preview(cfg *babonus.RollConfig, data documents.RollData) (*dice.FormulaResult, bool) {
	formula := cfg.Formula()
	if formula == "" {
		return nil, false
	}
	zero := "0"
	result, err := dice.RollFormula(dice.ReplaceFormulaData(formula, data, &zero), a.roller)
	if err != nil {
		return nil, false
	}
	return result, true
}

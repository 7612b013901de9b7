package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/services/consumption"
)

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderBonuses lists every collected bonus and whether it survived filtering
func renderBonuses(w io.Writer, collected, active *babonus.Collection) {
	rows := make([][]string, 0, collected.Len())
	for _, b := range collected.Values() {
		_, ok := active.Get(b.Key())
		rows = append(rows, []string{
			b.Key(),
			b.Name,
			b.Bonuses.Bonus.String(),
			yesNo(b.Optional),
			yesNo(ok),
		})
	}
	renderTable(w, []string{"Bonus", "Name", "Formula", "Optional", "Active"}, rows)
	fmt.Fprintf(w, "\n%d collected, %d active\n", collected.Len(), active.Len())
}

func renderConfig(w io.Writer, cfg *babonus.RollConfig) {
	rows := [][]string{
		{"Type", string(cfg.Type)},
		{"Stage", cfg.Stage.String()},
		{"Formula", cfg.Formula()},
	}
	if cfg.CriticalThreshold > 0 {
		rows = append(rows, []string{"Critical", strconv.Itoa(cfg.CriticalThreshold)})
	}
	if cfg.FumbleThreshold != 0 {
		rows = append(rows, []string{"Fumble", strconv.Itoa(cfg.FumbleThreshold)})
	}
	if cfg.Type == babonus.TypeThrow {
		rows = append(rows, []string{"Target", strconv.Itoa(cfg.TargetValue)})
	}
	if cfg.CriticalBonusDice != 0 {
		rows = append(rows, []string{"Critical dice", strconv.Itoa(cfg.CriticalBonusDice)})
	}
	if !cfg.CriticalBonusDamage.IsEmpty() {
		rows = append(rows, []string{"Critical damage", cfg.CriticalBonusDamage.String()})
	}
	if cfg.Type == babonus.TypeSave {
		rows = append(rows, []string{"Save DC", strconv.Itoa(cfg.SaveDC)})
	}
	rows = append(rows, []string{"Applied", strings.Join(cfg.Applied, "\n")})
	renderTable(w, []string{"Field", "Value"}, rows)
}

// renderOptional lists the offered optional bonuses with the amounts the player may spend
func renderOptional(ctx context.Context, w io.Writer, svc consumption.Service, user *documents.User, actor *documents.Actor, offered []*babonus.Bonus) {
	rows := make([][]string, 0, len(offered))
	for _, b := range offered {
		cost := "free"
		if b.Consume.Enabled {
			cost = string(b.Consume.Type)
			opts, err := svc.Options(ctx, &consumption.OptionsInput{User: user, Roller: actor, Bonus: b})
			if err == nil && len(opts.Amounts) > 0 {
				amounts := make([]string, len(opts.Amounts))
				for i, n := range opts.Amounts {
					amounts[i] = strconv.Itoa(n)
				}
				cost += " " + strings.Join(amounts, "/")
			}
		}
		rows = append(rows, []string{b.ID, b.Name, b.Bonuses.Bonus.String(), cost})
	}
	fmt.Fprintln(w)
	renderTable(w, []string{"Optional", "Name", "Formula", "Cost"}, rows)
}

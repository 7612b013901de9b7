package filters

import (
	"strings"

	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/babonus"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
)

func checkComparisons(f babonus.ArbitraryComparisons, data documents.RollData) bool {
	for _, c := range f.Comparisons {
		if !Compare(c, data) {
			return false
		}
	}
	return true
}

// Compare tests one comparison. Both sides have roll data substituted and are compared as
// numbers when both evaluate; otherwise LT and LE test that the left side is contained in
// the right, GT and GE the reverse, and EQ compares the strings.
func Compare(c babonus.Comparison, data documents.RollData) bool {
	one := strings.TrimSpace(c.One)
	other := strings.TrimSpace(c.Other)
	if one == "" || other == "" || c.Operator == "" {
		return false
	}
	left := dice.ReplaceFormulaData(one, data, nil)
	right := dice.ReplaceFormulaData(other, data, nil)

	l, lerr := dice.Evaluate(left)
	r, rerr := dice.Evaluate(right)
	if lerr == nil && rerr == nil {
		switch c.Operator {
		case babonus.OpEQ:
			return l == r
		case babonus.OpLT:
			return l < r
		case babonus.OpGT:
			return l > r
		case babonus.OpLE:
			return l <= r
		case babonus.OpGE:
			return l >= r
		}
		return false
	}

	switch c.Operator {
	case babonus.OpEQ:
		return left == right
	case babonus.OpLT, babonus.OpLE:
		return strings.Contains(right, left)
	case babonus.OpGT, babonus.OpGE:
		return strings.Contains(left, right)
	}
	return false
}

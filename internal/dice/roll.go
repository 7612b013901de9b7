package dice

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
)

// maxRerolls caps recursive rerolls and explosions
const maxRerolls = 100

var modPattern = regexp.MustCompile(`(rr|r|xo|x|min|max|kh|kl)(<=|>=|<|>|=)?(\d+)?`)

type dieMod struct {
	name   string
	cmp    string
	value  int
	hasVal bool
}

func parseMods(mods string) ([]dieMod, bool) {
	matches := modPattern.FindAllStringSubmatchIndex(mods, -1)
	covered := 0
	out := make([]dieMod, 0, len(matches))
	for _, m := range matches {
		if m[0] != covered {
			return nil, false
		}
		covered = m[1]
		mod := dieMod{name: mods[m[2]:m[3]]}
		if m[4] >= 0 {
			mod.cmp = mods[m[4]:m[5]]
		}
		if m[6] >= 0 {
			v, err := strconv.Atoi(mods[m[6]:m[7]])
			if err != nil {
				return nil, false
			}
			mod.value = v
			mod.hasVal = true
		}
		out = append(out, mod)
	}
	return out, covered == len(mods)
}

func validMods(mods string) bool {
	_, ok := parseMods(mods)
	return ok
}

// matches tests a die result against the modifier's comparison; a bare value means
// equality and no value means the die's maximum
func (m dieMod) matches(result, faces int) bool {
	target := faces
	if m.hasVal {
		target = m.value
	}
	switch m.cmp {
	case "<":
		return result < target
	case "<=":
		return result <= target
	case ">":
		return result > target
	case ">=":
		return result >= target
	}
	return result == target
}

func (n diceNode) eval(ctx *evalContext) (float64, error) {
	if ctx.roller == nil {
		return 0, ErrNonDeterministic
	}

	count := n.spec.count
	if n.count != nil {
		v, err := n.count.eval(ctx)
		if err != nil {
			return 0, err
		}
		count = int(math.Trunc(v))
	}
	if count <= 0 {
		return 0, nil
	}

	mods, ok := parseMods(n.spec.mods)
	if !ok {
		return 0, fmt.Errorf("invalid dice modifiers %q", n.spec.mods)
	}

	results := make([]int, 0, count)
	for range count {
		v, err := rollOne(ctx.roller, n.spec.faces)
		if err != nil {
			return 0, err
		}
		for _, m := range mods {
			switch m.name {
			case "r":
				if m.matches(v, n.spec.faces) {
					if v, err = rollOne(ctx.roller, n.spec.faces); err != nil {
						return 0, err
					}
				}
			case "rr":
				for i := 0; i < maxRerolls && m.matches(v, n.spec.faces); i++ {
					if v, err = rollOne(ctx.roller, n.spec.faces); err != nil {
						return 0, err
					}
				}
			}
		}
		results = append(results, v)

		for _, m := range mods {
			if m.name != "x" && m.name != "xo" {
				continue
			}
			last := v
			for i := 0; i < maxRerolls && m.matches(last, n.spec.faces); i++ {
				if last, err = rollOne(ctx.roller, n.spec.faces); err != nil {
					return 0, err
				}
				results = append(results, last)
				if m.name == "xo" {
					break
				}
			}
		}
	}

	for _, m := range mods {
		switch m.name {
		case "min":
			for i := range results {
				results[i] = max(results[i], m.value)
			}
		case "max":
			for i := range results {
				results[i] = min(results[i], m.value)
			}
		case "kh", "kl":
			keep := 1
			if m.hasVal {
				keep = m.value
			}
			sort.Ints(results)
			if keep < len(results) {
				if m.name == "kh" {
					results = results[len(results)-keep:]
				} else {
					results = results[:keep]
				}
			}
		}
	}

	total := 0
	for _, r := range results {
		total += r
	}
	ctx.rolls = append(ctx.rolls, results...)
	return float64(total), nil
}

func rollOne(roller Roller, faces int) (int, error) {
	res, err := roller.Roll(1, faces, 0)
	if err != nil {
		return 0, err
	}
	return res.Rolls[0], nil
}

// FormulaResult is a rolled formula
type FormulaResult struct {
	Formula string
	Total   float64
	Rolls   []int
}

// RollFormula rolls every dice term in formula with roller and evaluates the rest.
// References must already be replaced.
func RollFormula(formula string, roller Roller) (*FormulaResult, error) {
	n, err := parse(formula)
	if err != nil {
		return nil, err
	}
	ctx := &evalContext{roller: roller}
	total, err := n.eval(ctx)
	if err != nil {
		return nil, err
	}
	return &FormulaResult{Formula: formula, Total: total, Rolls: ctx.rolls}, nil
}

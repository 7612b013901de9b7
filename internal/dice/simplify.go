package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// sumTerm is one addend of a flat sum: either dice (faces > 0) or a constant
type sumTerm struct {
	count    int
	faces    int
	constant float64
}

// flatten returns the addends of a formula that is a plain sum of unmodified dice
// and numbers; ok is false for anything richer
func flatten(n node, sign float64, out []sumTerm) ([]sumTerm, bool) {
	switch x := n.(type) {
	case numberNode:
		return append(out, sumTerm{constant: sign * x.value}), true
	case diceNode:
		if x.count != nil || x.spec.mods != "" {
			return nil, false
		}
		return append(out, sumTerm{count: int(sign) * x.spec.count, faces: x.spec.faces}), true
	case unaryNode:
		if x.op == "-" {
			return flatten(x.x, -sign, out)
		}
		return flatten(x.x, sign, out)
	case binaryNode:
		if x.op != "+" && x.op != "-" {
			return nil, false
		}
		out, ok := flatten(x.l, sign, out)
		if !ok {
			return nil, false
		}
		rsign := sign
		if x.op == "-" {
			rsign = -sign
		}
		return flatten(x.r, rsign, out)
	}
	return nil, false
}

func formatSum(terms []sumTerm) string {
	var faces []int
	counts := make(map[int]int)
	constant := 0.0
	for _, t := range terms {
		if t.faces == 0 {
			constant += t.constant
			continue
		}
		if _, seen := counts[t.faces]; !seen {
			faces = append(faces, t.faces)
		}
		counts[t.faces] += t.count
	}

	var b strings.Builder
	write := func(negative bool, text string) {
		switch {
		case b.Len() == 0 && negative:
			b.WriteString("-" + text)
		case b.Len() == 0:
			b.WriteString(text)
		case negative:
			b.WriteString(" - " + text)
		default:
			b.WriteString(" + " + text)
		}
	}
	for _, f := range faces {
		c := counts[f]
		if c == 0 {
			continue
		}
		write(c < 0, fmt.Sprintf("%dd%d", abs(c), f))
	}
	if constant != 0 {
		write(constant < 0, strconv.FormatFloat(absf(constant), 'f', -1, 64))
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Simplify combines like dice and constants of a plain sum ("1d8 + 2 + 2d8" becomes
// "3d8 + 2"). Formulas with richer structure are returned as given.
func Simplify(formula string) string {
	n, err := parse(formula)
	if err != nil {
		return formula
	}
	terms, ok := flatten(n, 1, nil)
	if !ok {
		return strings.TrimSpace(formula)
	}
	return formatSum(terms)
}

// Alter multiplies the dice counts and numeric constants of formula by factor. Only
// plain sums are supported.
func Alter(formula string, factor int) (string, error) {
	n, err := parse(formula)
	if err != nil {
		return "", err
	}
	terms, ok := flatten(n, 1, nil)
	if !ok {
		return "", fmt.Errorf("cannot scale %q", formula)
	}
	for i := range terms {
		terms[i].count *= factor
		terms[i].constant *= float64(factor)
	}
	return formatSum(terms), nil
}

// ScaleFormula returns the formula bought by spending steps units beyond the minimum.
// When perStep is blank the base formula itself is multiplied by steps+1; otherwise
// perStep is multiplied by steps and added to base.
func ScaleFormula(base, perStep string, steps int) (string, error) {
	if steps <= 0 {
		return Simplify(base), nil
	}

	if strings.TrimSpace(perStep) == "" {
		if strings.TrimSpace(base) == "" {
			return "", nil
		}
		if altered, err := Alter(base, steps+1); err == nil {
			return altered, nil
		}
		return fmt.Sprintf("%d * (%s)", steps+1, base), nil
	}

	extra, err := Alter(perStep, steps)
	if err != nil {
		if verr := Validate(perStep); verr != nil {
			return "", verr
		}
		extra = fmt.Sprintf("%d * (%s)", steps, perStep)
	}
	if strings.TrimSpace(base) == "" {
		return Simplify(extra), nil
	}
	return Simplify(base + " + " + extra), nil
}

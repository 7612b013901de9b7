package dice

import (
	"fmt"
	"strings"
)

// TermModifiers describes changes applied to dice terms of a roll
type TermModifiers struct {
	Amount int // extra dice per term
	Size   int // extra faces per die

	Reroll          bool
	RerollValue     int
	RerollInvert    bool // reroll high results instead of low ones
	RerollRecursive bool

	Explode      bool
	ExplodeValue int // 0 explodes on the die's maximum
	ExplodeOnce  bool

	Minimum         bool
	MinimumValue    int
	MinimumMaximize bool // every die counts as its maximum

	Maximum      bool
	MaximumValue int
}

// IsZero reports whether m changes nothing
func (m TermModifiers) IsZero() bool {
	return m == TermModifiers{}
}

// suffix renders the modifiers appended to a die with the given faces
func (m TermModifiers) suffix(faces int) string {
	var b strings.Builder
	if m.Reroll && m.RerollValue > 0 {
		b.WriteString("r")
		if m.RerollRecursive {
			b.WriteString("r")
		}
		if m.RerollInvert {
			fmt.Fprintf(&b, ">=%d", m.RerollValue)
		} else {
			fmt.Fprintf(&b, "<=%d", m.RerollValue)
		}
	}
	if m.Explode {
		b.WriteString("x")
		if m.ExplodeOnce {
			b.WriteString("o")
		}
		if m.ExplodeValue > 0 {
			fmt.Fprintf(&b, ">=%d", m.ExplodeValue)
		}
	}
	if m.Minimum {
		v := m.MinimumValue
		if m.MinimumMaximize {
			v = faces
		}
		if v > 0 {
			fmt.Fprintf(&b, "min%d", v)
		}
	}
	if m.Maximum && m.MaximumValue > 0 {
		fmt.Fprintf(&b, "max%d", m.MaximumValue)
	}
	return b.String()
}

// ApplyModifiers rewrites the dice terms of formula. With firstOnly set only the first
// dice term is touched. Formulas that fail to lex are returned unchanged.
func ApplyModifiers(formula string, m TermModifiers, firstOnly bool) (string, bool) {
	if m.IsZero() {
		return formula, false
	}
	tokens, err := lex(formula)
	if err != nil {
		return formula, false
	}

	var b strings.Builder
	last := 0
	changed := false
	for _, t := range tokens {
		if t.kind != tokDice {
			continue
		}

		spec := *t.dice
		if !spec.suffix {
			spec.count = max(0, spec.count+m.Amount)
			spec.hasCount = true
		}
		spec.faces = max(1, spec.faces+m.Size)
		spec.mods += m.suffix(spec.faces)

		b.WriteString(formula[last:t.start])
		b.WriteString(spec.format())
		last = t.end
		changed = true
		if firstOnly {
			break
		}
	}
	if !changed {
		return formula, false
	}
	b.WriteString(formula[last:])
	return b.String(), true
}

// HasDice reports whether formula contains at least one dice term
func HasDice(formula string) bool {
	tokens, err := lex(formula)
	if err != nil {
		return false
	}
	for _, t := range tokens {
		if t.kind == tokDice {
			return true
		}
	}
	return false
}

package babonus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/dnd-babonus/internal/dice"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
)

// Formula is a roll formula; stored data may hold it as a string or a number
type Formula string

func (f *Formula) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Formula(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("formula must be a string or number: %w", err)
	}
	*f = Formula(n.String())
	return nil
}

func (f Formula) String() string { return string(f) }

// IsEmpty reports whether no formula is set
func (f Formula) IsEmpty() bool { return strings.TrimSpace(string(f)) == "" }

// IsValid reports whether the formula is set and syntactically valid
func (f Formula) IsValid() bool {
	return !f.IsEmpty() && dice.IsValid(string(f))
}

// Resolve replaces @references with data; unknown references become 0
func (f Formula) Resolve(data documents.RollData) Formula {
	if f.IsEmpty() {
		return f
	}
	zero := "0"
	return Formula(dice.ReplaceFormulaData(string(f), data, &zero))
}

// Substitute replaces the @references found in data and leaves the rest in place
func (f Formula) Substitute(data documents.RollData) Formula {
	if f.IsEmpty() {
		return f
	}
	return Formula(dice.ReplaceFormulaData(string(f), data, nil))
}

// Int resolves and evaluates a deterministic formula; empty formulas are 0
func (f Formula) Int(data documents.RollData) (int, error) {
	if f.IsEmpty() {
		return 0, nil
	}
	return dice.EvaluateInt(string(f.Resolve(data)))
}

// Float resolves and evaluates a deterministic formula; empty formulas are 0
func (f Formula) Float(data documents.RollData) (float64, error) {
	if f.IsEmpty() {
		return 0, nil
	}
	return dice.Evaluate(string(f.Resolve(data)))
}

// FormulaOf formats a number as a formula
func FormulaOf(v int) Formula {
	return Formula(strconv.Itoa(v))
}

package babonus

import (
	"slices"
	"strings"
)

// Stage is how far a roll has moved through the bonus pipeline
type Stage int

const (
	StagePending Stage = iota
	StageCollected
	StageFiltered
	StageApplied
	StageSkipped
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageCollected:
		return "collected"
	case StageFiltered:
		return "filtered"
	case StageApplied:
		return "applied"
	case StageSkipped:
		return "skipped"
	}
	return "unknown"
}

// RollPart is one term of a roll formula
type RollPart struct {
	Formula    Formula `json:"formula"`
	DamageType string  `json:"damageType,omitempty"`
	// Source is the key of the bonus that added the part, empty for the roll's own parts
	Source string `json:"source,omitempty"`
}

// Default thresholds of a d20 roll
const (
	DefaultCriticalThreshold = 20
	DefaultFumbleThreshold   = 1
	DefaultDeathSaveTarget   = 10
)

// RollConfig is the roll being built. Pipeline stages never change a config in place;
// they return a changed copy.
type RollConfig struct {
	Type  Type       `json:"type"`
	Stage Stage      `json:"stage"`
	Parts []RollPart `json:"parts"`

	CriticalThreshold int `json:"criticalThreshold,omitempty"`
	FumbleThreshold   int `json:"fumbleThreshold,omitempty"`
	// TargetValue is the success target of a death save
	TargetValue int `json:"targetValue,omitempty"`

	CriticalBonusDice   int     `json:"criticalBonusDice,omitempty"`
	CriticalBonusDamage Formula `json:"criticalBonusDamage,omitempty"`

	// SaveDC is the save DC of the rolled item
	SaveDC int `json:"saveDc,omitempty"`

	// Applied lists the keys of the bonuses folded into the roll
	Applied []string `json:"applied,omitempty"`
}

// NewRollConfig starts a roll with the given parts and the type's default thresholds
func NewRollConfig(t Type, parts ...string) *RollConfig {
	c := &RollConfig{Type: t}
	for _, p := range parts {
		c.Parts = append(c.Parts, RollPart{Formula: Formula(p)})
	}
	switch t {
	case TypeAttack, TypeTest, TypeThrow:
		c.CriticalThreshold = DefaultCriticalThreshold
		c.FumbleThreshold = DefaultFumbleThreshold
	}
	if t == TypeThrow {
		c.TargetValue = DefaultDeathSaveTarget
	}
	return c
}

// Clone returns a deep copy
func (c *RollConfig) Clone() *RollConfig {
	out := *c
	out.Parts = slices.Clone(c.Parts)
	out.Applied = slices.Clone(c.Applied)
	return &out
}

// WithStage returns a copy at stage s
func (c *RollConfig) WithStage(s Stage) *RollConfig {
	out := c.Clone()
	out.Stage = s
	return out
}

// Formula joins the parts into one roll formula. Damage types are kept as flavor.
func (c *RollConfig) Formula() string {
	terms := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p.Formula.IsEmpty() {
			continue
		}
		f := string(p.Formula)
		if p.DamageType != "" {
			f = "(" + f + ")[" + p.DamageType + "]"
		}
		terms = append(terms, f)
	}
	return strings.Join(terms, " + ")
}

package disposition

import "fmt"

// Disposition is a token's allegiance
type Disposition int

const (
	Secret   Disposition = -2
	Hostile  Disposition = -1
	Neutral  Disposition = 0
	Friendly Disposition = 1
)

func (d Disposition) String() string {
	switch d {
	case Secret:
		return "secret"
	case Hostile:
		return "hostile"
	case Neutral:
		return "neutral"
	case Friendly:
		return "friendly"
	default:
		return fmt.Sprintf("disposition(%d)", int(d))
	}
}

// Target is the set of dispositions an aura affects
type Target int

const (
	Enemy Target = -1
	Ally  Target = 1
	Any   Target = 2
)

func (t Target) String() string {
	switch t {
	case Enemy:
		return "enemy"
	case Ally:
		return "ally"
	case Any:
		return "any"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// Valid reports whether t is a known aura target
func (t Target) Valid() bool {
	return t == Enemy || t == Ally || t == Any
}

// Matches decides whether an aura held by source affects target.
// Any always matches, Ally needs equal dispositions and Enemy only pairs Friendly with Hostile.
func Matches(source, target Disposition, mode Target) bool {
	switch mode {
	case Any:
		return true
	case Ally:
		return source == target
	case Enemy:
		return (source == Friendly && target == Hostile) || (source == Hostile && target == Friendly)
	}
	return false
}

package babonus

import (
	"slices"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
)

// Aura makes a bonus project from its token or template onto others
type Aura struct {
	Enabled bool `json:"enabled"`
	// Range in scene units; zero or negative means unlimited
	Range       Formula            `json:"range"`
	Disposition disposition.Target `json:"disposition"`
	Self        bool               `json:"self"`
	Template    bool               `json:"template"`
	// Blockers are statuses on the source that switch the aura off
	Blockers []string `json:"blockers"`
	// Require lists the wall restrictions that must not separate source and target
	Require map[scene.Restriction]bool `json:"require"`
}

// IsToken reports whether the aura projects from a token
func (a Aura) IsToken() bool { return a.Enabled && !a.Template }

// IsTemplate reports whether the aura lives on a measured template
func (a Aura) IsTemplate() bool { return a.Enabled && a.Template }

// IsBlocked reports whether any blocker is among statuses
func (a Aura) IsBlocked(statuses []string) bool {
	for _, b := range a.Blockers {
		if slices.Contains(statuses, b) {
			return true
		}
	}
	return false
}

// Restrictions returns the required restriction types in a stable order
func (a Aura) Restrictions() []scene.Restriction {
	var out []scene.Restriction
	for _, r := range []scene.Restriction{scene.RestrictMove, scene.RestrictSight, scene.RestrictLight, scene.RestrictSound} {
		if a.Require[r] {
			out = append(out, r)
		}
	}
	return out
}

// ResolveRange evaluates the range with the holder's data. The second result is false for
// unlimited auras.
func (a Aura) ResolveRange(data documents.RollData) (float64, bool, error) {
	r, err := a.Range.Float(data)
	if err != nil {
		return 0, false, err
	}
	if r <= 0 {
		return 0, false, nil
	}
	return r, true, nil
}

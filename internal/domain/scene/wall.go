package scene

import "github.com/KirkDiggler/dnd-babonus/internal/domain/geometry"

// Restriction is a kind of wall blocking
type Restriction string

const (
	RestrictMove  Restriction = "move"
	RestrictSight Restriction = "sight"
	RestrictLight Restriction = "light"
	RestrictSound Restriction = "sound"
)

// Wall is a segment that may block movement, sight, light or sound
type Wall struct {
	ID    string         `json:"id"`
	A     geometry.Point `json:"a"`
	B     geometry.Point `json:"b"`
	Move  bool           `json:"move"`
	Sight bool           `json:"sight"`
	Light bool           `json:"light"`
	Sound bool           `json:"sound"`
	// Open doors block nothing
	Open bool `json:"open"`
}

// Segment returns the wall as a line segment
func (w *Wall) Segment() geometry.Segment {
	return geometry.Segment{A: w.A, B: w.B}
}

// Restricts reports whether the wall blocks r
func (w *Wall) Restricts(r Restriction) bool {
	if w.Open {
		return false
	}
	switch r {
	case RestrictMove:
		return w.Move
	case RestrictSight:
		return w.Sight
	case RestrictLight:
		return w.Light
	case RestrictSound:
		return w.Sound
	}
	return false
}

// RestrictsAny reports whether the wall blocks any of rs
func (w *Wall) RestrictsAny(rs []Restriction) bool {
	for _, r := range rs {
		if w.Restricts(r) {
			return true
		}
	}
	return false
}

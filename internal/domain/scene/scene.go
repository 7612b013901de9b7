package scene

import (
	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/geometry"
)

// Token is an actor placed on the scene
type Token struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	ActorID     string                  `json:"actorId"`
	X           float64                 `json:"x"`
	Y           float64                 `json:"y"`
	Width       float64                 `json:"width"`
	Height      float64                 `json:"height"`
	Elevation   float64                 `json:"elevation"`
	Disposition disposition.Disposition `json:"disposition"`
	Hidden      bool                    `json:"hidden"`
	// Group tokens represent parties or encounters rather than creatures
	Group bool `json:"group"`

	actor *documents.Actor
}

// Actor returns the linked actor
func (t *Token) Actor() *documents.Actor { return t.actor }

// Footprint returns the token's occupied area
func (t *Token) Footprint() geometry.Footprint {
	w, h := t.Width, t.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return geometry.Footprint{X: t.X, Y: t.Y, Width: w, Height: h, Elevation: t.Elevation}
}

// Size is the larger side of the token in grid cells
func (t *Token) Size() float64 {
	f := t.Footprint()
	return max(f.Width, f.Height)
}

// Scene is the placed content of one map
type Scene struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Grid      geometry.Grid `json:"grid"`
	Tokens    []*Token      `json:"tokens"`
	Templates []*Template   `json:"templates"`
	Walls     []*Wall       `json:"walls"`
}

// Token finds a token by id
func (s *Scene) Token(id string) *Token {
	for _, t := range s.Tokens {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Template finds a template by id
func (s *Scene) Template(id string) *Template {
	for _, t := range s.Templates {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// LineOfEffect reports whether the straight line from a to b crosses no wall restricting
// any of the given types. No types means nothing blocks.
func (s *Scene) LineOfEffect(a, b geometry.Point, restrictions []Restriction) bool {
	if len(restrictions) == 0 {
		return true
	}
	line := geometry.Segment{A: a, B: b}
	for _, w := range s.Walls {
		if !w.RestrictsAny(restrictions) {
			continue
		}
		if w.Segment().Intersects(line) {
			return false
		}
	}
	return true
}

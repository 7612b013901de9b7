package scene

import (
	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/geometry"
)

// TemplateKind is the shape of a measured template
type TemplateKind string

const (
	TemplateCircle TemplateKind = "circle"
	TemplateCone   TemplateKind = "cone"
	TemplateRect   TemplateKind = "rect"
	TemplateRay    TemplateKind = "ray"
)

// Template is a measured area placed on the scene, usually by a spell
type Template struct {
	ID        string       `json:"id"`
	Type      TemplateKind `json:"t"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Distance  float64      `json:"distance"`
	Direction float64      `json:"direction"`
	Angle     float64      `json:"angle"`
	Width     float64      `json:"width"`
	Hidden    bool         `json:"hidden"`

	Flags           documents.Flags         `json:"bonuses"`
	OriginItemUUID  string                  `json:"origin"`
	OriginActorUUID string                  `json:"actorUuid"`
	Disposition     disposition.Disposition `json:"templateDisposition"`
	// SpellLevel is the level the originating spell was cast at
	SpellLevel int                `json:"spellLevel"`
	ItemData   documents.RollData `json:"itemRollData"`

	sceneID string
}

func (t *Template) UUID() string {
	if t.sceneID == "" {
		return "MeasuredTemplate." + t.ID
	}
	return "Scene." + t.sceneID + ".MeasuredTemplate." + t.ID
}

func (t *Template) Kind() documents.Kind        { return documents.KindTemplate }
func (t *Template) Label() string               { return t.ID }
func (t *Template) BonusFlags() documents.Flags { return t.Flags }

// OriginUUID identifies the item that placed the template, or the template itself
func (t *Template) OriginUUID() string {
	if t.OriginItemUUID != "" {
		return t.OriginItemUUID
	}
	return t.UUID()
}

// RollData is the captured item roll data with the cast level as the item level
func (t *Template) RollData() documents.RollData {
	data := documents.CloneRollData(t.ItemData)
	if t.SpellLevel > 0 {
		item, _ := data["item"].(map[string]any)
		if item == nil {
			item = map[string]any{}
		}
		item["level"] = t.SpellLevel
		data["item"] = item
	}
	return data
}

// Shape builds the template's shape in local pixel coordinates
func (t *Template) Shape(grid geometry.Grid) geometry.Shape {
	ppu := grid.PixelsPerUnit()
	distance := t.Distance * ppu
	switch t.Type {
	case TemplateCircle:
		return geometry.Circle{Radius: distance}
	case TemplateCone:
		angle := t.Angle
		if angle <= 0 {
			angle = 53.13
		}
		return geometry.Cone(distance, t.Direction, angle)
	case TemplateRect:
		return geometry.DiagonalRectangle(distance, t.Direction)
	case TemplateRay:
		width := t.Width
		if width <= 0 {
			width = grid.Distance
		}
		return geometry.Ray(distance, t.Direction, width*ppu)
	}
	return nil
}

// Contains reports whether p lies inside the template
func (t *Template) Contains(grid geometry.Grid, p geometry.Point) bool {
	return geometry.PointInShape(t.Shape(grid), geometry.Point{X: t.X, Y: t.Y}, p)
}

// ContainsAny reports whether any of ps lies inside the template
func (t *Template) ContainsAny(grid geometry.Grid, ps []geometry.Point) bool {
	shape := t.Shape(grid)
	origin := geometry.Point{X: t.X, Y: t.Y}
	for _, p := range ps {
		if geometry.PointInShape(shape, origin, p) {
			return true
		}
	}
	return false
}

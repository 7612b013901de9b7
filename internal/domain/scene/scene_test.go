package scene_test

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/disposition"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/documents"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/geometry"
	"github.com/KirkDiggler/dnd-babonus/internal/domain/scene"
	dnderr "github.com/KirkDiggler/dnd-babonus/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grid = geometry.Grid{Size: 100, Distance: 5, Units: "ft", Diagonals: geometry.DiagonalEquidistant}

const worldJSON = `{
  "scene": {
    "id": "keep",
    "grid": {"size": 100, "distance": 5, "units": "ft"},
    "tokens": [
      {"id": "t1", "actorId": "hero", "x": 0, "y": 0, "width": 1, "height": 1, "disposition": 1},
      {"id": "t2", "actorId": "orc", "x": 200, "y": 0, "width": 1, "height": 1, "disposition": -1}
    ],
    "templates": [
      {"id": "tpl", "t": "circle", "x": 50, "y": 50, "distance": 10, "origin": "Actor.hero.Item.spirit", "spellLevel": 4,
       "itemRollData": {"item": {"level": 3}, "prof": 2}}
    ]
  },
  "actors": [
    {"id": "hero", "name": "Hero", "items": [{"id": "spirit", "name": "Spirit Guardians", "type": "spell"}],
     "effects": [{"id": "fx", "name": "Haste"}]},
    {"id": "orc", "name": "Orc"}
  ],
  "targets": ["missing", "t2"]
}`

func loadWorld(t *testing.T) *scene.World {
	t.Helper()
	var w scene.World
	require.NoError(t, json.Unmarshal([]byte(worldJSON), &w))
	require.NoError(t, w.Resolve())
	return &w
}

func TestWorldResolve(t *testing.T) {
	w := loadWorld(t)

	hero := w.Actor("hero")
	require.NotNil(t, hero)
	assert.True(t, w.HasGeometry())
	assert.Same(t, hero, w.Scene.Token("t1").Actor())
	assert.Same(t, hero, w.TokenFor(hero).Actor())
	assert.Same(t, hero.Item("spirit"), w.Item("Actor.hero.Item.spirit"))
	assert.Same(t, hero.Effect("fx"), w.Effect("Actor.hero.ActiveEffect.fx"))
	assert.Nil(t, w.Item("Actor.nobody.Item.spirit"))

	target := w.FirstTarget()
	require.NotNil(t, target)
	assert.Equal(t, "t2", target.ID)
	assert.Equal(t, disposition.Hostile, target.Disposition)

	tpl := w.Scene.Template("tpl")
	assert.Equal(t, "Scene.keep.MeasuredTemplate.tpl", tpl.UUID())
	assert.Equal(t, "Actor.hero.Item.spirit", tpl.OriginUUID())
}

func TestWorldResolveRejectsDuplicates(t *testing.T) {
	w := &scene.World{Actors: []*documents.Actor{{ID: "a"}, {ID: "a"}}}
	err := w.Resolve()
	require.Error(t, err)
	assert.Equal(t, dnderr.CodeAlreadyExists, dnderr.GetCode(err))
}

func TestTemplateRollData(t *testing.T) {
	w := loadWorld(t)
	tpl := w.Scene.Template("tpl")

	data := tpl.RollData()
	item := data["item"].(map[string]any)
	assert.Equal(t, 4, item["level"])

	original := tpl.ItemData["item"].(map[string]any)
	assert.Equal(t, 3.0, original["level"], "captured data is not modified")
}

func TestTemplateContains(t *testing.T) {
	tests := []struct {
		name     string
		template scene.Template
		point    geometry.Point
		want     bool
	}{
		{name: "circle inside", template: scene.Template{Type: scene.TemplateCircle, Distance: 10}, point: geometry.Point{X: 150, Y: 0}, want: true},
		{name: "circle outside", template: scene.Template{Type: scene.TemplateCircle, Distance: 10}, point: geometry.Point{X: 250, Y: 0}, want: false},
		{name: "cone ahead", template: scene.Template{Type: scene.TemplateCone, Distance: 15, Angle: 90}, point: geometry.Point{X: 200, Y: 0}, want: true},
		{name: "cone behind", template: scene.Template{Type: scene.TemplateCone, Distance: 15, Angle: 90}, point: geometry.Point{X: -100, Y: 0}, want: false},
		{name: "ray along", template: scene.Template{Type: scene.TemplateRay, Distance: 30, Direction: 90}, point: geometry.Point{X: 0, Y: 500}, want: true},
		{name: "ray beside", template: scene.Template{Type: scene.TemplateRay, Distance: 30, Direction: 90}, point: geometry.Point{X: 200, Y: 500}, want: false},
		{name: "unknown kind", template: scene.Template{Type: "star", Distance: 30}, point: geometry.Point{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.template.Contains(grid, tt.point))
		})
	}
}

func TestFirstTarget(t *testing.T) {
	w := &scene.World{
		Actors: []*documents.Actor{{ID: "orc"}},
		Scene: &scene.Scene{
			ID: "keep",
			Tokens: []*scene.Token{
				{ID: "barrel"},
				{ID: "orc-token", ActorID: "orc"},
			},
		},
	}
	require.NoError(t, w.Resolve())

	w.Targets = []string{"gone", "barrel", "orc-token"}
	target := w.FirstTarget()
	require.NotNil(t, target)
	assert.Equal(t, "barrel", target.ID)
	assert.Nil(t, target.Actor())

	w.Targets = []string{"gone"}
	assert.Nil(t, w.FirstTarget())

	w.Scene = nil
	w.Targets = []string{"orc-token"}
	assert.Nil(t, w.FirstTarget())
}

func TestTemplateDecodesAsHolder(t *testing.T) {
	var tmpl scene.Template
	require.NoError(t, json.Unmarshal([]byte(`{"id":"fog","t":"circle","distance":10}`), &tmpl))

	assert.Equal(t, scene.TemplateCircle, tmpl.Type)
	var holder documents.Holder = &tmpl
	assert.Equal(t, documents.KindTemplate, holder.Kind())
	assert.True(t, tmpl.Contains(grid, geometry.Point{X: 150, Y: 0}))
}

func TestLineOfEffect(t *testing.T) {
	s := &scene.Scene{
		Grid: grid,
		Walls: []*scene.Wall{
			{ID: "glass", A: geometry.Point{X: 100, Y: -500}, B: geometry.Point{X: 100, Y: 500}, Move: true},
			{ID: "door", A: geometry.Point{X: 300, Y: -500}, B: geometry.Point{X: 300, Y: 500}, Sight: true, Move: true, Open: true},
		},
	}
	a := geometry.Point{X: 0, Y: 0}
	b := geometry.Point{X: 400, Y: 0}

	assert.True(t, s.LineOfEffect(a, b, nil))
	assert.True(t, s.LineOfEffect(a, b, []scene.Restriction{scene.RestrictSight}))
	assert.False(t, s.LineOfEffect(a, b, []scene.Restriction{scene.RestrictSight, scene.RestrictMove}))
	assert.True(t, s.LineOfEffect(a, geometry.Point{X: 50, Y: 300}, []scene.Restriction{scene.RestrictMove}))
}

func TestTokenSize(t *testing.T) {
	tok := &scene.Token{Width: 2, Height: 3}
	assert.Equal(t, 3.0, tok.Size())
	assert.Equal(t, 1.0, (&scene.Token{}).Size())
}

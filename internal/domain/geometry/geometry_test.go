package geometry_test

import (
	"testing"

	"github.com/KirkDiggler/dnd-babonus/internal/domain/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grid = geometry.Grid{Size: 100, Distance: 5, Units: "ft", Diagonals: geometry.DiagonalEquidistant}

func TestCellCenters(t *testing.T) {
	t.Run("single cell fast path", func(t *testing.T) {
		centers := grid.CellCenters(geometry.Footprint{X: 200, Y: 300, Width: 1, Height: 1})
		require.Len(t, centers, 1)
		assert.Equal(t, geometry.Point{X: 250, Y: 350}, centers[0])
	})

	t.Run("tiny token uses its own center", func(t *testing.T) {
		centers := grid.CellCenters(geometry.Footprint{X: 0, Y: 0, Width: 0.5, Height: 0.5})
		require.Len(t, centers, 1)
		assert.Equal(t, geometry.Point{X: 25, Y: 25}, centers[0])
	})

	t.Run("large token covers every cell", func(t *testing.T) {
		centers := grid.CellCenters(geometry.Footprint{X: 0, Y: 0, Width: 2, Height: 3})
		require.Len(t, centers, 6)
		assert.Contains(t, centers, geometry.Point{X: 150, Y: 250})
		assert.Contains(t, centers, geometry.Point{X: 50, Y: 50})
	})
}

func TestMinimumDistance(t *testing.T) {
	tests := []struct {
		name string
		grid geometry.Grid
		a, b geometry.Footprint
		want float64
	}{
		{
			name: "adjacent medium tokens",
			grid: grid,
			a:    geometry.Footprint{X: 0, Y: 0, Width: 1, Height: 1},
			b:    geometry.Footprint{X: 100, Y: 0, Width: 1, Height: 1},
			want: 5,
		},
		{
			name: "diagonal counts as one cell",
			grid: grid,
			a:    geometry.Footprint{X: 0, Y: 0, Width: 1, Height: 1},
			b:    geometry.Footprint{X: 300, Y: 300, Width: 1, Height: 1},
			want: 15,
		},
		{
			name: "alternating diagonals",
			grid: geometry.Grid{Size: 100, Distance: 5, Diagonals: geometry.DiagonalAlternating},
			a:    geometry.Footprint{X: 0, Y: 0, Width: 1, Height: 1},
			b:    geometry.Footprint{X: 300, Y: 300, Width: 1, Height: 1},
			want: 20,
		},
		{
			name: "large token measures from nearest cell",
			grid: grid,
			a:    geometry.Footprint{X: 0, Y: 0, Width: 2, Height: 2},
			b:    geometry.Footprint{X: 400, Y: 0, Width: 1, Height: 1},
			want: 15,
		},
		{
			name: "elevation wins when larger",
			grid: grid,
			a:    geometry.Footprint{X: 0, Y: 0, Width: 1, Height: 1, Elevation: 30},
			b:    geometry.Footprint{X: 100, Y: 0, Width: 1, Height: 1},
			want: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.grid.MinimumDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, tt.grid.MinimumDistance(tt.b, tt.a))
		})
	}
}

func TestPointInShape(t *testing.T) {
	origin := geometry.Point{X: 500, Y: 500}

	t.Run("circle", func(t *testing.T) {
		c := geometry.Circle{Radius: 100}
		assert.True(t, geometry.PointInShape(c, origin, geometry.Point{X: 600, Y: 500}))
		assert.False(t, geometry.PointInShape(c, origin, geometry.Point{X: 601, Y: 500}))
	})

	t.Run("cone faces its direction", func(t *testing.T) {
		cone := geometry.Cone(300, 0, 90)
		assert.True(t, geometry.PointInShape(cone, origin, geometry.Point{X: 700, Y: 510}))
		assert.False(t, geometry.PointInShape(cone, origin, geometry.Point{X: 300, Y: 500}))
	})

	t.Run("ray", func(t *testing.T) {
		ray := geometry.Ray(600, 90, 100)
		assert.True(t, geometry.PointInShape(ray, origin, geometry.Point{X: 520, Y: 900}))
		assert.False(t, geometry.PointInShape(ray, origin, geometry.Point{X: 700, Y: 900}))
	})

	t.Run("diagonal rectangle", func(t *testing.T) {
		rect := geometry.DiagonalRectangle(141.42, 45)
		assert.True(t, geometry.PointInShape(rect, origin, geometry.Point{X: 550, Y: 550}))
		assert.False(t, geometry.PointInShape(rect, origin, geometry.Point{X: 450, Y: 550}))
	})

	t.Run("nil shape", func(t *testing.T) {
		assert.False(t, geometry.PointInShape(nil, origin, origin))
	})
}

func TestSegmentIntersects(t *testing.T) {
	wall := geometry.Segment{A: geometry.Point{X: 50, Y: -100}, B: geometry.Point{X: 50, Y: 100}}

	assert.True(t, geometry.Segment{B: geometry.Point{X: 100}}.Intersects(wall))
	assert.False(t, geometry.Segment{B: geometry.Point{X: 40}}.Intersects(wall))
	assert.True(t, geometry.Segment{B: geometry.Point{X: 50}}.Intersects(wall))
}

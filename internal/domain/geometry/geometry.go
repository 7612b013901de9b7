// Package geometry holds the grid measurement and shape containment helpers used to
// decide whether a token sits inside an aura or an area template. Everything here is
// pure; callers that have no grid must not call in.
package geometry

import (
	"math"
)

// Point is a position in scene pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p translated by -o
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// DiagonalRule controls how diagonal steps are counted on a square grid
type DiagonalRule string

const (
	// DiagonalEquidistant counts every diagonal as one cell (5/5/5)
	DiagonalEquidistant DiagonalRule = "equidistant"
	// DiagonalAlternating counts every second diagonal as two cells (5/10/5)
	DiagonalAlternating DiagonalRule = "alternating"
	// DiagonalEuclidean measures straight-line distance, snapped to whole cells
	DiagonalEuclidean DiagonalRule = "euclidean"
)

// Grid describes a square scene grid
type Grid struct {
	Size      float64      `json:"size"`     // pixels per cell
	Distance  float64      `json:"distance"` // scene units per cell
	Units     string       `json:"units"`
	Diagonals DiagonalRule `json:"diagonals"`
}

// Valid reports whether the grid can be measured against
func (g Grid) Valid() bool {
	return g.Size > 0 && g.Distance > 0
}

// PixelsPerUnit converts scene units to pixels
func (g Grid) PixelsPerUnit() float64 {
	return g.Size / g.Distance
}

// Measure returns the distance in scene units between two points, rounded to whole
// grid cells
func (g Grid) Measure(a, b Point) float64 {
	dx := math.Round(math.Abs(b.X-a.X) / g.Size)
	dy := math.Round(math.Abs(b.Y-a.Y) / g.Size)

	var cells float64
	switch g.Diagonals {
	case DiagonalAlternating:
		diag := math.Min(dx, dy)
		straight := math.Max(dx, dy) - diag
		cells = straight + diag + math.Floor(diag/2)
	case DiagonalEuclidean:
		exact := math.Hypot(b.X-a.X, b.Y-a.Y) / g.Size
		cells = math.Round(exact)
	default:
		cells = math.Max(dx, dy)
	}
	return cells * g.Distance
}

// Footprint is the area a placed token covers
type Footprint struct {
	X         float64 `json:"x"` // top-left, pixels
	Y         float64 `json:"y"`
	Width     float64 `json:"width"` // grid cells
	Height    float64 `json:"height"`
	Elevation float64 `json:"elevation"`
}

// Center returns the pixel center of the footprint
func (g Grid) Center(f Footprint) Point {
	return Point{X: f.X + f.Width*g.Size/2, Y: f.Y + f.Height*g.Size/2}
}

// CellCenters enumerates the center of every grid cell a footprint covers. Tokens of
// one cell or smaller produce a single point at their center.
func (g Grid) CellCenters(f Footprint) []Point {
	if f.Width <= 1 && f.Height <= 1 {
		return []Point{g.Center(f)}
	}

	cols := max(1, int(math.Ceil(f.Width)))
	rows := max(1, int(math.Ceil(f.Height)))
	centers := make([]Point, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			centers = append(centers, Point{
				X: f.X + (float64(c)+0.5)*g.Size,
				Y: f.Y + (float64(r)+0.5)*g.Size,
			})
		}
	}
	return centers
}

// MinimumDistance returns the smallest grid distance between any cell of a and any cell
// of b, or the elevation difference when that is larger
func (g Grid) MinimumDistance(a, b Footprint) float64 {
	as := g.CellCenters(a)
	bs := g.CellCenters(b)

	best := math.Inf(1)
	for _, p := range as {
		for _, q := range bs {
			if d := g.Measure(p, q); d < best {
				best = d
			}
		}
	}

	vertical := math.Abs(a.Elevation - b.Elevation)
	return math.Max(best, vertical)
}

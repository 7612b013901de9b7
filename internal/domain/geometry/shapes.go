package geometry

import (
	"math"
)

const epsilon = 1e-9

// Shape is a closed region in local coordinates (its origin at 0,0)
type Shape interface {
	Contains(p Point) bool
}

// PointInShape translates a world point into the shape's local frame and tests it
func PointInShape(s Shape, origin, p Point) bool {
	if s == nil {
		return false
	}
	return s.Contains(p.Sub(origin))
}

// Circle is centered on the local origin
type Circle struct {
	Radius float64
}

func (c Circle) Contains(p Point) bool {
	return math.Hypot(p.X, p.Y) <= c.Radius+epsilon
}

// Rectangle is axis aligned; negative sizes are normalized
type Rectangle struct {
	X, Y, Width, Height float64
}

func (r Rectangle) Contains(p Point) bool {
	x0, x1 := r.X, r.X+r.Width
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := r.Y, r.Y+r.Height
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return p.X >= x0-epsilon && p.X <= x1+epsilon && p.Y >= y0-epsilon && p.Y <= y1+epsilon
}

// Polygon is a simple polygon; points on an edge count as inside
type Polygon struct {
	Points []Point
}

func (poly Polygon) Contains(p Point) bool {
	n := len(poly.Points)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly.Points[i], poly.Points[j]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Cone builds a round-ended cone polygon from the origin
func Cone(distance, directionDeg, angleDeg float64) Polygon {
	const arcSteps = 16
	dir := directionDeg * math.Pi / 180
	half := angleDeg * math.Pi / 360

	points := []Point{{}}
	for i := 0; i <= arcSteps; i++ {
		a := dir - half + 2*half*float64(i)/arcSteps
		points = append(points, Point{X: distance * math.Cos(a), Y: distance * math.Sin(a)})
	}
	return Polygon{Points: points}
}

// Ray builds a rectangle of the given width extending from the origin
func Ray(distance, directionDeg, width float64) Polygon {
	dir := directionDeg * math.Pi / 180
	ux, uy := math.Cos(dir), math.Sin(dir)
	nx, ny := -uy*width/2, ux*width/2
	end := Point{X: ux * distance, Y: uy * distance}
	return Polygon{Points: []Point{
		{X: nx, Y: ny},
		{X: end.X + nx, Y: end.Y + ny},
		{X: end.X - nx, Y: end.Y - ny},
		{X: -nx, Y: -ny},
	}}
}

// DiagonalRectangle builds the rectangle whose diagonal runs from the origin for the
// given distance and direction
func DiagonalRectangle(distance, directionDeg float64) Rectangle {
	dir := directionDeg * math.Pi / 180
	return Rectangle{Width: distance * math.Cos(dir), Height: distance * math.Sin(dir)}
}

// Segment is a straight line between two points
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Intersects reports whether two segments touch or cross
func (s Segment) Intersects(o Segment) bool {
	d1 := cross(o.A, o.B, s.A)
	d2 := cross(o.A, o.B, s.B)
	d3 := cross(s.A, s.B, o.A)
	d4 := cross(s.A, s.B, o.B)

	if ((d1 > epsilon && d2 < -epsilon) || (d1 < -epsilon && d2 > epsilon)) &&
		((d3 > epsilon && d4 < -epsilon) || (d3 < -epsilon && d4 > epsilon)) {
		return true
	}

	return onSegment(o.A, o.B, s.A) || onSegment(o.A, o.B, s.B) ||
		onSegment(s.A, s.B, o.A) || onSegment(s.A, s.B, o.B)
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	if math.Abs(cross(a, b, p)) > epsilon*math.Max(1, math.Hypot(b.X-a.X, b.Y-a.Y)) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-epsilon && p.X <= math.Max(a.X, b.X)+epsilon &&
		p.Y >= math.Min(a.Y, b.Y)-epsilon && p.Y <= math.Max(a.Y, b.Y)+epsilon
}

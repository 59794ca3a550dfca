// Package geom provides the small value types shared by the layout, drag
// and zoom engines.
//
// All coordinates are container-local and measured in host units (pixels
// for a graphical host, cells for a terminal host). The Y axis grows
// downward.
package geom

import "math"

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Point is a position in container coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Valid reports whether both dimensions are non-negative numbers.
// Infinite dimensions are valid: hosts use them for "unconstrained".
func (s Size) Valid() bool {
	return !math.IsNaN(s.Width) && !math.IsNaN(s.Height) && s.Width >= 0 && s.Height >= 0
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Scale returns s multiplied by k on both axes.
func (s Size) Scale(k float64) Size { return Size{Width: s.Width * k, Height: s.Height * k} }

// Sanitize replaces NaN and negative dimensions with zero.
func (s Size) Sanitize() Size {
	if math.IsNaN(s.Width) || s.Width < 0 {
		s.Width = 0
	}
	if math.IsNaN(s.Height) || s.Height < 0 {
		s.Height = 0
	}
	return s
}

// NewRect builds a rectangle from an origin and a size.
func NewRect(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool { return r == Rect{} }

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Clamp returns p moved to the nearest point inside r (edges inclusive).
func (r Rect) Clamp(p Point) Point {
	return Point{X: clamp(p.X, r.X, r.Right()), Y: clamp(p.Y, r.Y, r.Bottom())}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}

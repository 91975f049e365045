package engine

import "math"

// Vec2 is a point or displacement in layout space. Layout space uses
// screen orientation: x grows right, y grows down.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Length returns the Euclidean norm.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the Euclidean distance to o.
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }

// Normalize returns the unit vector in the direction of v. The zero
// vector normalizes to the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Circle is a disc used for round hit regions.
type Circle struct {
	Center Vec2
	Radius float64
}

// Contains reports whether p lies inside the disc, boundary included.
func (c Circle) Contains(p Vec2) bool {
	return c.Center.Distance(p) <= c.Radius
}

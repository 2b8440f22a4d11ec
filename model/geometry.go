package model

import "math"

// Vec2 is a position or velocity in world coordinates.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec2) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Norm()
}

// Normalized returns the unit vector along v. When |v| <= eps it returns
// the zero vector instead; every direction computation in the simulation
// goes through this guard so a body coinciding with the central mass never
// propagates NaN or Inf.
func (v Vec2) Normalized(eps float64) Vec2 {
	m := v.Norm()
	if m <= eps {
		return Vec2{}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// Tangent returns v rotated 90 degrees counter-clockwise, (-y, x).
func (v Vec2) Tangent() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

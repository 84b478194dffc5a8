// Package physics provides the vector, box and distance helpers used by the
// simulation. There is no physics engine: motion is closed-form and collisions
// are axis-aligned box or radius tests.
package physics

import "math"

// Vec is a 2D point or direction in logical screen units (y grows downward).
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns v divided by its length. A zero-length vector is divided by
// a fallback length of 1 instead, which leaves it at zero.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		l = 1
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// AngleDeg returns the angle of the direction from -> to, in degrees.
func AngleDeg(from, to Vec) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
}

// FromAngleDeg returns a vector of the given length pointing at angle degrees.
func FromAngleDeg(deg, length float64) Vec {
	rad := deg * math.Pi / 180
	return Vec{X: length * math.Cos(rad), Y: length * math.Sin(rad)}
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

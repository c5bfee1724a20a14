// Package components defines the vector and entity types moved by the flow
// renderer.
package components

import "math"

// Vector is an immutable 2D vector. All operations return new values.
type Vector struct {
	X, Y float64
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Length returns the Euclidean length of v.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSq returns the squared length of v.
func (v Vector) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// IsZero reports whether both components are zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector pointing in the same direction as v.
// The zero vector normalizes to the zero vector rather than NaN.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vector{}
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Scale multiplies both components by factor.
func (v Vector) Scale(factor float64) Vector {
	return Vector{X: v.X * factor, Y: v.Y * factor}
}

// Add returns the component-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// ClampLength rescales v to exactly max when it is longer than max,
// preserving direction. Shorter vectors are returned unchanged.
// Infinite components keep their sign: (+Inf, 0) clamps to (max, 0) and
// (-Inf, +Inf) to the diagonal of length max. NaN components clamp to zero.
func (v Vector) ClampLength(max float64) Vector {
	if max < 0 {
		max = 0
	}
	if v.LengthSq() <= max*max {
		return v
	}
	if math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		v = Vector{X: infSign(v.X), Y: infSign(v.Y)}
	}
	return v.Normalize().Scale(max)
}

// infSign is ±1 for an infinite f and 0 otherwise.
func infSign(f float64) float64 {
	switch {
	case math.IsInf(f, 1):
		return 1
	case math.IsInf(f, -1):
		return -1
	}
	return 0
}

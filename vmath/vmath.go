// Package vmath provides the 2D vector helpers the simulation needs on top of gonum's r2.
//
// r2.Vec is the value type for positions, velocities and forces. r2.Add, r2.Sub,
// r2.Scale, r2.Norm, r2.Dot and r2.Cross cover the arithmetic; this package adds
// the zero-safe and clamping operations r2 does not provide.
package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zero is the zero vector.
var Zero = r2.Vec{}

// Length returns the Euclidean length of v.
func Length(v r2.Vec) float64 {
	return r2.Norm(v)
}

// Normalize returns v scaled to unit length.
// The zero vector normalizes to the zero vector.
func Normalize(v r2.Vec) r2.Vec {
	l := r2.Norm(v)
	if l == 0 {
		return Zero
	}
	return r2.Scale(1/l, v)
}

// ClampLength rescales v to exactly max when it is longer than max.
// Shorter vectors are returned unchanged.
func ClampLength(v r2.Vec, max float64) r2.Vec {
	l := r2.Norm(v)
	if l > max && l > 0 {
		return r2.Scale(max/l, v)
	}
	return v
}

// FlooredDistance returns |a-b|, raised to floor when smaller.
func FlooredDistance(a, b r2.Vec, floor float64) float64 {
	d := r2.Norm(r2.Sub(a, b))
	if d < floor {
		return floor
	}
	return d
}

// SignedAngle returns the angle in radians that turns from towards to.
// Positive angles are counter-clockwise. A zero from vector is treated as (1,0);
// a zero to vector yields no turn.
func SignedAngle(from, to r2.Vec) float64 {
	if r2.Norm(from) == 0 {
		from = r2.Vec{X: 1}
	}
	toLen := r2.Norm(to)
	if toLen == 0 {
		return 0
	}

	cos := r2.Dot(from, to) / (r2.Norm(from) * toLen)
	// Rounding can push the ratio just outside [-1,1].
	cos = math.Max(-1, math.Min(1, cos))
	angle := math.Acos(cos)

	if r2.Cross(from, to) < 0 {
		angle = -angle
	}
	return angle
}

// WrapAngle wraps an angle to [-Pi, Pi].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

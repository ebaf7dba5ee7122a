// Package physics provides math utilities and the rigid-body space the rays
// and the item live in.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SinApprox is a polynomial sine, accurate to 1e-5 for any finite input.
func SinApprox(x float64) float64 {
	// Reduce to [-π, π].
	x = math.Remainder(x, 2*math.Pi)
	// Fold onto [-π/2, π/2] where the series converges fast.
	if x > math.Pi/2 {
		x = math.Pi - x
	} else if x < -math.Pi/2 {
		x = -math.Pi - x
	}
	x2 := x * x
	return x * (1 - x2/6*(1-x2/20*(1-x2/42*(1-x2/72))))
}

// Sub returns a - b.
func Sub(a, b cp.Vector) cp.Vector {
	return cp.Vector{X: a.X - b.X, Y: a.Y - b.Y}
}

// AngleTo returns the angle of the vector pointing from "from" to "to".
func AngleTo(from, to cp.Vector) float64 {
	d := Sub(to, from)
	return math.Atan2(d.Y, d.X)
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b cp.Vector) float64 {
	d := Sub(b, a)
	return math.Sqrt(d.X*d.X + d.Y*d.Y)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b cp.Vector) float64 {
	d := Sub(b, a)
	return d.X*d.X + d.Y*d.Y
}

// FromAngle returns a vector of the given length pointing at angle a.
func FromAngle(a, length float64) cp.Vector {
	return cp.Vector{X: math.Cos(a) * length, Y: math.Sin(a) * length}
}

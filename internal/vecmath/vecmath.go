// Package vecmath provides the vector helpers used by the particle core.
//
// All functions are pure and operate on gonum's [r2.Vec] (the simulation
// plane) or [r3.Vec] (the 3D view). Degenerate inputs such as zero-length
// axes return zero values rather than NaN; callers that divide by distances
// still apply their own distance floor.
package vecmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is the 2D simulation vector.
type Vec = r2.Vec

func Add(a, b Vec) Vec           { return r2.Add(a, b) }
func Sub(a, b Vec) Vec           { return r2.Sub(a, b) }
func Scale(v Vec, k float64) Vec { return r2.Scale(k, v) }
func Dot(a, b Vec) float64       { return r2.Dot(a, b) }
func Norm(v Vec) float64         { return r2.Norm(v) }

// Distance returns |a - b|.
func Distance(a, b Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// ProjectOnto returns the component of v along axis:
// axis * (v.axis / |axis|^2).
func ProjectOnto(v, axis Vec) Vec {
	n2 := r2.Norm2(axis)
	if n2 == 0 {
		return Vec{}
	}
	return r2.Scale(r2.Dot(v, axis)/n2, axis)
}

// AngleBetween returns acos(a.b / (|a||b|)) in [0, π].
func AngleBetween(a, b Vec) float64 {
	na, nb := r2.Norm(a), r2.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return math.Acos(clamp(r2.Dot(a, b)/(na*nb), -1, 1))
}

// Angle returns the polar angle of v in (-π, π].
func Angle(v Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// Polar returns the point at radius r and angle theta around origin.
func Polar(origin Vec, r, theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{X: origin.X + r*c, Y: origin.Y + r*s}
}

// Lift embeds a plane vector into 3D at height z.
func Lift(v Vec, z float64) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: z}
}

// Distance3 returns |a - b| in 3D.
func Distance3(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// ProjectOnto3 is the 3D counterpart of ProjectOnto.
func ProjectOnto3(v, axis r3.Vec) r3.Vec {
	n2 := r3.Norm2(axis)
	if n2 == 0 {
		return r3.Vec{}
	}
	return r3.Scale(r3.Dot(v, axis)/n2, axis)
}

// AngleBetween3 is the 3D counterpart of AngleBetween.
func AngleBetween3(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return math.Acos(clamp(r3.Dot(a, b)/(na*nb), -1, 1))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

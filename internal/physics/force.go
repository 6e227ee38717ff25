package physics

import (
	"math"

	"github.com/san-kum/atomsim/internal/vecmath"
)

// Simulate accumulates the pairwise force on particle id and applies it to
// its velocity. Only that particle is written.
//
// The source term uses sign(charge) of the particle being pushed, not its
// magnitude, so a heavy nucleus is pushed as hard as a light one.
func (w *World) Simulate(id ID) {
	p := &w.particles[id]
	p.Force = vecmath.Vec{}

	sp := sign(p.charge)
	floor := w.params.MinDistance
	scale := w.params.ElectricForceScale
	jitter := w.params.Jitter

	for j := range w.particles {
		if ID(j) == id {
			continue
		}
		q := &w.particles[j]

		invDist := 1 / math.Max(vecmath.Distance(p.Pos, q.Pos)/2, floor)
		force := q.charge * sp * invDist * invDist

		if w.rel.Paired(p.ID, q.ID) {
			force -= w.params.PairAttraction
		}

		contrib := vecmath.Scale(vecmath.Sub(p.Pos, q.Pos), force*invDist*scale)
		if jitter > 0 {
			contrib.X += (w.rng.Float64() - 0.5) * jitter
			contrib.Y += (w.rng.Float64() - 0.5) * jitter
		}
		p.Force = vecmath.Add(p.Force, contrib)
	}

	p.Vel = vecmath.Add(p.Vel, p.Force)
}

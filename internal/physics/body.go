package physics

import "github.com/san-kum/atomsim/internal/vecmath"

// Body is a read-only copy of one particle and its relations, taken after
// integration. It is what renderers and recorders consume.
type Body struct {
	ID     ID
	Kind   Kind
	Pos    vecmath.Vec
	Vel    vecmath.Vec
	Charge float64
	Light  float64

	// MaxShell is set for nuclei.
	MaxShell int

	// Nucleus and Shell give the electron's classification around the
	// lowest-ID nucleus holding it, or NoParticle and 0.
	Nucleus ID
	Shell   int
	Pair    ID
}

// Bodies snapshots every particle in ID order.
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.particles))
	for i := range w.particles {
		p := &w.particles[i]
		b := Body{
			ID:      p.ID,
			Kind:    p.Kind,
			Pos:     p.Pos,
			Vel:     p.Vel,
			Charge:  p.charge,
			Light:   p.Light(),
			Nucleus: NoParticle,
			Pair:    NoParticle,
		}
		if p.IsNucleus() {
			b.MaxShell = MaxShell(p.charge)
		} else {
			if as := w.rel.ShellsOf(p.ID); len(as) > 0 {
				b.Nucleus = as[0].Nucleus
				b.Shell = as[0].Shell
			}
			if pair, ok := w.rel.Pair(p.ID); ok {
				b.Pair = pair
			}
		}
		out[i] = b
	}
	return out
}

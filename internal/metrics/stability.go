package metrics

import (
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

// Stability is the fraction of ticks in which every particle moved slower
// than the threshold speed.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *physics.World, r physics.TickReport) {
	s.samples++
	for _, p := range w.Particles() {
		if vecmath.Norm(p.Vel) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

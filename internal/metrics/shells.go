package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/atomsim/internal/physics"
)

// ShellDeviation is the mean |distFromShell| over every classified electron
// and every tick.
type ShellDeviation struct {
	name    string
	means   []float64
	weights []float64
	scratch []float64
}

func NewShellDeviation() *ShellDeviation {
	return &ShellDeviation{name: "shell_deviation"}
}

func (s *ShellDeviation) Name() string { return s.name }

func (s *ShellDeviation) Observe(w *physics.World, r physics.TickReport) {
	s.scratch = s.scratch[:0]
	for _, sh := range r.Shells {
		for _, d := range sh.Deviations {
			s.scratch = append(s.scratch, math.Abs(d))
		}
	}
	if len(s.scratch) == 0 {
		return
	}
	s.means = append(s.means, stat.Mean(s.scratch, nil))
	s.weights = append(s.weights, float64(len(s.scratch)))
}

func (s *ShellDeviation) Value() float64 {
	if len(s.means) == 0 {
		return 0
	}
	return stat.Mean(s.means, s.weights)
}

// Series returns the per-tick mean deviation, for plotting.
func (s *ShellDeviation) Series() []float64 {
	out := make([]float64, len(s.means))
	copy(out, s.means)
	return out
}

func (s *ShellDeviation) Reset() {
	s.means = s.means[:0]
	s.weights = s.weights[:0]
}

// OverflowRatio is the fraction of ticks in which some nucleus had a shell
// above capacity.
type OverflowRatio struct {
	name      string
	overflows int
	samples   int
}

func NewOverflowRatio() *OverflowRatio {
	return &OverflowRatio{name: "overflow_ratio"}
}

func (o *OverflowRatio) Name() string { return o.name }

func (o *OverflowRatio) Observe(w *physics.World, r physics.TickReport) {
	o.samples++
	if r.Overflowed() {
		o.overflows++
	}
}

func (o *OverflowRatio) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.overflows) / float64(o.samples)
}

func (o *OverflowRatio) Reset() {
	o.overflows = 0
	o.samples = 0
}

// PromotionRate is the mean number of overflow promotions per tick.
type PromotionRate struct {
	name   string
	counts []float64
}

func NewPromotionRate() *PromotionRate {
	return &PromotionRate{name: "promotion_rate"}
}

func (p *PromotionRate) Name() string { return p.name }

func (p *PromotionRate) Observe(w *physics.World, r physics.TickReport) {
	p.counts = append(p.counts, float64(r.Promoted()))
}

func (p *PromotionRate) Value() float64 {
	if len(p.counts) == 0 {
		return 0
	}
	return floats.Sum(p.counts) / float64(len(p.counts))
}

func (p *PromotionRate) Reset() { p.counts = p.counts[:0] }

// PairAsymmetry is the largest fraction of one-sided pair links seen after
// any tick. Classification keeps it at zero.
type PairAsymmetry struct {
	name  string
	worst float64
}

func NewPairAsymmetry() *PairAsymmetry {
	return &PairAsymmetry{name: "pair_asymmetry"}
}

func (p *PairAsymmetry) Name() string { return p.name }

func (p *PairAsymmetry) Observe(w *physics.World, r physics.TickReport) {
	rel := w.Relations()
	if rel.PairCount() == 0 {
		return
	}
	p.worst = math.Max(p.worst, float64(rel.Asymmetric())/float64(rel.PairCount()))
}

func (p *PairAsymmetry) Value() float64 { return p.worst }
func (p *PairAsymmetry) Reset()         { p.worst = 0 }

package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/vecmath"
)

// Divergence returns the RMS position difference between two runs of the
// same scene, frame by frame. Both runs must hold the same particles.
func Divergence(a, b []dynamo.Frame) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		ba, bb := a[i].Bodies, b[i].Bodies
		m := min(len(ba), len(bb))
		if m == 0 {
			continue
		}
		sum := 0.0
		for j := 0; j < m; j++ {
			d := vecmath.Distance(ba[j].Pos, bb[j].Pos)
			sum += d * d
		}
		out = append(out, math.Sqrt(sum/float64(m)))
	}
	return out
}

// DivergenceRate fits log(separation) against the sample index and returns
// the slope, a finite-time Lyapunov estimate per sample. Zero separations
// are skipped.
func DivergenceRate(sep []float64) float64 {
	xs := make([]float64, 0, len(sep))
	ys := make([]float64, 0, len(sep))
	for i, s := range sep {
		if s <= 0 {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, math.Log(s))
	}
	if len(xs) < 2 {
		return 0
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

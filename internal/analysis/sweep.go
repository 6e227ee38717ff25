package analysis

import (
	"context"
	"math"

	"github.com/san-kum/atomsim/internal/physics"
)

// SweepPoint is the settled behaviour of one parameter value.
type SweepPoint struct {
	Param float64
	// Deviation is the mean |distFromShell| over the recorded ticks.
	Deviation float64
	// Promotions counts overflow promotions over the recorded ticks.
	Promotions int
	// Occupancy is the final shell population of the first nucleus.
	Occupancy map[int]int
}

// SweepParam builds a world for each of steps values in [lo, hi], runs
// transient ticks to let it settle and then records record ticks.
func SweepParam(
	ctx context.Context,
	build func(param float64) (*physics.World, error),
	lo, hi float64,
	steps int,
	transient, record int,
) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	step := (hi - lo) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		param := lo + float64(i)*step
		w, err := build(param)
		if err != nil {
			return results, err
		}

		for t := 0; t < transient; t++ {
			w.Tick()
		}

		point := SweepPoint{Param: param}
		sum, count := 0.0, 0
		var last physics.TickReport
		for t := 0; t < record; t++ {
			last = w.Tick()
			point.Promotions += last.Promoted()
			for _, s := range last.Shells {
				for _, d := range s.Deviations {
					sum += math.Abs(d)
					count++
				}
			}
		}
		if count > 0 {
			point.Deviation = sum / float64(count)
		}
		if len(last.Shells) > 0 {
			point.Occupancy = last.Shells[0].Occupancy
		}
		results = append(results, point)
	}
	return results, nil
}

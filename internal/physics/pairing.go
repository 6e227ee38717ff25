package physics

import (
	"sort"

	"github.com/san-kum/atomsim/internal/vecmath"
)

// pairPlan is the outcome of pairing one shell: index pairs into the
// angularly ordered input, and the two candidate costs that were compared.
type pairPlan struct {
	Pairs   [][2]int
	CostA   float64
	CostB   float64
	Rotated bool
}

// angularOrder returns the indices of points sorted by ascending polar angle
// around center. Equal angles keep input order.
func angularOrder(center vecmath.Vec, points []vecmath.Vec) []int {
	order := make([]int, len(points))
	angles := make([]float64, len(points))
	for i, p := range points {
		order[i] = i
		angles[i] = vecmath.Angle(vecmath.Sub(p, center))
	}
	sort.SliceStable(order, func(i, j int) bool {
		return angles[order[i]] < angles[order[j]]
	})
	return order
}

// adjacentCost sums |p[2k]-p[2k+1]| over the first need pairs of seq.
func adjacentCost(points []vecmath.Vec, seq []int, need int) float64 {
	cost := 0.0
	for k := 0; k < need; k++ {
		cost += vecmath.Distance(points[seq[2*k]], points[seq[2*k+1]])
	}
	return cost
}

func rotate(seq []int) []int {
	out := make([]int, len(seq))
	for i := range seq {
		out[i] = seq[(i+1)%len(seq)]
	}
	return out
}

// planPairs picks need adjacent pairs from points, which must already be in
// angular order. It compares the straight adjacent pairing against the one
// obtained after a single cyclic shift and keeps the cheaper; ties keep the
// straight pairing. need is capped at len(points)/2.
func planPairs(points []vecmath.Vec, need int) pairPlan {
	if limit := len(points) / 2; need > limit {
		need = limit
	}
	if need <= 0 {
		return pairPlan{}
	}

	straight := make([]int, len(points))
	for i := range straight {
		straight[i] = i
	}
	shifted := rotate(straight)

	plan := pairPlan{
		CostA: adjacentCost(points, straight, need),
		CostB: adjacentCost(points, shifted, need),
	}
	seq := straight
	if plan.CostB < plan.CostA {
		seq = shifted
		plan.Rotated = true
	}

	plan.Pairs = make([][2]int, need)
	for k := 0; k < need; k++ {
		plan.Pairs[k] = [2]int{seq[2*k], seq[2*k+1]}
	}
	return plan
}

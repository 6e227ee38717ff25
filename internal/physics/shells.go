package physics

import (
	"math"
	"sort"

	"github.com/san-kum/atomsim/internal/vecmath"
)

// candidate is the working state of one electron during a pass.
type candidate struct {
	id       ID
	shell    int
	dist     float64
	arrived  bool // promoted into its bucket during this pass
	reseeded bool
	fresh    bool // had no stored shell for this nucleus before the pass
}

// ClassifyShells runs one shell classification pass for nucleus nid and
// applies the confinement force. It must run after every particle's force
// has been accumulated for the tick and before integration.
func (w *World) ClassifyShells(nid ID) ShellReport {
	n := w.Particle(nid)
	if n == nil || !n.IsNucleus() {
		return ShellReport{Nucleus: nid}
	}

	maxShell := MaxShell(n.charge)
	report := ShellReport{
		Nucleus:   nid,
		MaxShell:  maxShell,
		Occupancy: make(map[int]int),
		Unpaired:  make(map[int]int),
	}

	cands := w.seedShells(n)
	byID := make(map[ID]*candidate, len(cands))
	for i := range cands {
		byID[cands[i].id] = &cands[i]
	}

	report.Promoted = w.promoteOverflow(cands)
	report.PairsBroken = w.repairPairs(byID, maxShell)

	working := cands[:0]
	for _, c := range cands {
		if c.shell > maxShell {
			if w.rel.ClearShell(c.id, nid) {
				report.Evicted++
			}
			continue
		}
		working = append(working, c)
	}

	buckets := make(map[int][]*candidate)
	for i := range working {
		buckets[working[i].shell] = append(buckets[working[i].shell], &working[i])
	}

	for shell := 1; shell <= maxShell; shell++ {
		report.PairsFormed += w.pairShell(n, buckets[shell], shell)
	}

	for i := range working {
		c := &working[i]
		dev, moved := w.confine(n, c)
		report.Deviations = append(report.Deviations, dev)
		if moved {
			report.Reshelled++
		}
	}

	for _, c := range working {
		if c.reseeded {
			w.rel.reseed(c.id, nid, c.shell, w.tick)
		} else {
			w.rel.SetShell(c.id, nid, c.shell, w.tick)
		}
	}

	for shell, bucket := range buckets {
		report.Occupancy[shell] = len(bucket)
		if len(bucket) > ShellCapacity(shell) {
			report.Overflow = true
		}
		for _, c := range bucket {
			if _, ok := w.rel.Pair(c.id); !ok {
				report.Unpaired[shell]++
			}
		}
	}

	w.log.Debug().
		Int("tick", w.tick).
		Int("nucleus", int(nid)).
		Int("classified", len(working)).
		Int("promoted", report.Promoted).
		Int("evicted", report.Evicted).
		Int("pairs_formed", report.PairsFormed).
		Int("pairs_broken", report.PairsBroken).
		Msg("shells classified")

	return report
}

// seedShells builds the working list in ID order. A stored shell is reused
// unless it is older than ShellMemory, otherwise the shell is derived from
// distance.
func (w *World) seedShells(n *Particle) []candidate {
	memory := w.params.ShellMemory
	cands := make([]candidate, 0, len(w.particles))
	for i := range w.particles {
		e := &w.particles[i]
		if !e.IsElectron() {
			continue
		}
		c := candidate{id: e.ID, dist: vecmath.Distance(n.Pos, e.Pos)}
		entry, ok := w.rel.entry(e.ID, n.ID)
		switch {
		case ok && (memory == 0 || w.tick-entry.since < memory):
			c.shell = entry.shell
		case ok:
			c.shell = w.seedFromDistance(c.dist)
			c.reseeded = true
		default:
			c.shell = w.seedFromDistance(c.dist)
			c.fresh = true
		}
		cands = append(cands, c)
	}
	return cands
}

func (w *World) seedFromDistance(d float64) int {
	return max(int(math.Round(d/w.params.ShellInterval)), 1)
}

// promoteOverflow moves the farthest residents of every over-full shell one
// shell out, sweeping upward once. Electrons promoted into a shell during
// the sweep are not promoted again until the next tick, so only residents
// are candidates. Returns the number moved.
func (w *World) promoteOverflow(cands []candidate) int {
	buckets := make(map[int][]*candidate)
	top := 0
	for i := range cands {
		c := &cands[i]
		buckets[c.shell] = append(buckets[c.shell], c)
		top = max(top, c.shell)
	}

	promoted := 0
	for shell := 1; shell <= top; shell++ {
		bucket := buckets[shell]
		excess := len(bucket) - ShellCapacity(shell)
		if excess <= 0 {
			continue
		}

		residents := make([]*candidate, 0, len(bucket))
		for _, c := range bucket {
			if !c.arrived {
				residents = append(residents, c)
			}
		}
		sort.SliceStable(residents, func(i, j int) bool {
			if residents[i].dist != residents[j].dist {
				return residents[i].dist > residents[j].dist
			}
			return residents[i].id < residents[j].id
		})

		excess = min(excess, len(residents))
		for _, c := range residents[:excess] {
			c.shell++
			c.arrived = true
			buckets[shell+1] = append(buckets[shell+1], c)
			promoted++
		}
		top = max(top, shell+1)
	}

	for i := range cands {
		cands[i].arrived = false
	}
	return promoted
}

// repairPairs drops the link of every electron held by this nucleus when
// its partner does not link back, when the electron had no stored shell for
// the nucleus before this pass, or when the partner sits in a different
// shell. Both ends are cleared. Returns the number of links cut.
func (w *World) repairPairs(byID map[ID]*candidate, maxShell int) int {
	ids := make([]ID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	broken := 0
	for _, id := range ids {
		c := byID[id]
		if c.shell > maxShell {
			continue
		}
		partner, ok := w.rel.Pair(id)
		if !ok {
			continue
		}
		pc, known := byID[partner]
		if w.rel.Paired(partner, id) && !c.fresh && known && pc.shell == c.shell {
			continue
		}
		w.rel.Unlink(id)
		broken++
	}
	return broken
}

// pairShell links unpaired electrons of one shell until no more than
// OrbitalCount(shell) remain unpaired. Returns the pairs formed.
func (w *World) pairShell(n *Particle, bucket []*candidate, shell int) int {
	unpaired := make([]*candidate, 0, len(bucket))
	for _, c := range bucket {
		if _, ok := w.rel.Pair(c.id); !ok {
			unpaired = append(unpaired, c)
		}
	}
	need := len(unpaired) - OrbitalCount(shell)
	if need <= 0 {
		return 0
	}

	points := make([]vecmath.Vec, len(unpaired))
	for i, c := range unpaired {
		points[i] = w.particles[c.id].Pos
	}
	order := angularOrder(n.Pos, points)

	sorted := make([]vecmath.Vec, len(order))
	for i, idx := range order {
		sorted[i] = points[idx]
	}
	plan := planPairs(sorted, need)
	for _, pr := range plan.Pairs {
		a := unpaired[order[pr[0]]].id
		b := unpaired[order[pr[1]]].id
		w.rel.Link(a, b)
	}

	if len(plan.Pairs) > 0 {
		w.log.Trace().
			Int("nucleus", int(n.ID)).
			Int("shell", shell).
			Float64("cost_a", plan.CostA).
			Float64("cost_b", plan.CostB).
			Bool("rotated", plan.Rotated).
			Msg("shell paired")
	}
	return len(plan.Pairs)
}

// confine applies the radial spring that pulls electron c toward its shell
// radius, with the reaction on the nucleus. It returns the signed distance
// from the shell (positive when the electron sits inside it) and whether
// the instability check moved the electron to another shell.
func (w *World) confine(n *Particle, c *candidate) (float64, bool) {
	e := &w.particles[c.id]

	rel := vecmath.Sub(n.Pos, e.Pos)
	dist := math.Max(vecmath.Norm(rel), w.params.MinDistance)
	distFromShell := float64(c.shell)*w.params.ShellInterval - dist

	moved := false
	if t := w.params.InstabilityThreshold; t > 0 {
		radial := -vecmath.Dot(e.Force, rel) / dist
		switch {
		case radial > t:
			c.shell++
			c.reseeded = true
			moved = true
		case radial < -t && c.shell > 1:
			c.shell--
			c.reseeded = true
			moved = true
		}
	}

	inverseSquare := math.Min(w.params.ShellForceConstant/(dist*dist), 1)
	projected := vecmath.ProjectOnto(e.Vel, rel)
	force := vecmath.Sub(vecmath.Scale(rel, -distFromShell/dist), projected)
	force = vecmath.Scale(force, inverseSquare)

	e.Vel = vecmath.Add(e.Vel, force)
	n.Vel = vecmath.Sub(n.Vel, vecmath.Scale(force, 1/n.charge))

	return distFromShell, moved
}

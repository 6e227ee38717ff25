package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/atomsim/internal/vecmath"
)

func TestShellFormulas(t *testing.T) {
	tests := []struct {
		n        int
		capacity int
		orbitals int
	}{
		{0, 0, 0},
		{1, 2, 1},
		{2, 6, 3},
		{3, 10, 5},
		{4, 14, 7},
	}

	for _, tt := range tests {
		if got := ShellCapacity(tt.n); got != tt.capacity {
			t.Errorf("ShellCapacity(%d) = %d, want %d", tt.n, got, tt.capacity)
		}
		if got := OrbitalCount(tt.n); got != tt.orbitals {
			t.Errorf("OrbitalCount(%d) = %d, want %d", tt.n, got, tt.orbitals)
		}
	}
}

func TestMaxShell(t *testing.T) {
	tests := []struct {
		charge float64
		want   int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{8, 2},
		{9, 3},
		{18, 3},
		{19, 4},
	}
	for _, tt := range tests {
		if got := MaxShell(tt.charge); got != tt.want {
			t.Errorf("MaxShell(%v) = %d, want %d", tt.charge, got, tt.want)
		}
	}
}

func TestShellPopulation(t *testing.T) {
	for protons := 1; protons <= 40; protons++ {
		pop := ShellPopulation(protons)
		total := 0
		for shell := 1; shell < len(pop); shell++ {
			if pop[shell] > ShellCapacity(shell) {
				t.Errorf("protons=%d: shell %d holds %d, capacity %d", protons, shell, pop[shell], ShellCapacity(shell))
			}
			total += pop[shell]
		}
		if total != protons {
			t.Errorf("protons=%d: placed %d electrons", protons, total)
		}
		if len(pop)-1 != MaxShell(float64(protons)) {
			t.Errorf("protons=%d: %d shells, max shell %d", protons, len(pop)-1, MaxShell(float64(protons)))
		}
	}
	if ShellPopulation(0) != nil {
		t.Error("expected nil population for zero protons")
	}
}

func TestNewWorldRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.ShellInterval = 0
	if _, err := NewWorld(p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestAddAtom(t *testing.T) {
	w, err := NewWorld(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	center := vecmath.Vec{X: 100, Y: 40}
	vel := vecmath.Vec{X: 0.5}
	nid, err := w.AddAtom(center, 8, 0.25, vel)
	if err != nil {
		t.Fatalf("AddAtom failed: %v", err)
	}

	if w.Len() != 9 {
		t.Fatalf("expected 9 particles, got %d", w.Len())
	}
	if len(w.Nuclei()) != 1 || w.Nuclei()[0] != nid {
		t.Errorf("unexpected nuclei %v", w.Nuclei())
	}

	perShell := map[int]int{}
	for _, e := range w.Electrons() {
		p := w.Particle(e)
		if p.Charge() != -1 {
			t.Errorf("electron %d has charge %v", e, p.Charge())
		}
		if p.Vel != vel {
			t.Errorf("electron %d has velocity %v", e, p.Vel)
		}
		d := vecmath.Distance(center, p.Pos)
		shell := int(math.Round(d / DefaultShellInterval))
		if math.Abs(d-float64(shell)*DefaultShellInterval) > 1e-9 {
			t.Errorf("electron %d at %.3f is not on a shell", e, d)
		}
		perShell[shell]++
	}
	if perShell[1] != 2 || perShell[2] != 6 {
		t.Errorf("unexpected shell layout %v", perShell)
	}

	first := w.Particle(nid + 1)
	if got := vecmath.Angle(vecmath.Sub(first.Pos, center)); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("first electron angle %.4f, want 0.25", got)
	}

	if _, ok := w.Relations().Shell(nid+1, nid); ok {
		t.Error("AddAtom should not pre-classify electrons")
	}
}

func TestAddAtomInvalid(t *testing.T) {
	w, _ := NewWorld(DefaultParams())
	for _, protons := range []int{0, -3} {
		if _, err := w.AddAtom(vecmath.Vec{}, protons, 0, vecmath.Vec{}); !errors.Is(err, ErrInvalidAtom) {
			t.Errorf("protons=%d: expected ErrInvalidAtom, got %v", protons, err)
		}
	}
	if w.Len() != 0 {
		t.Errorf("invalid atoms should add nothing, got %d particles", w.Len())
	}
}

func TestSimulateUsesChargeSign(t *testing.T) {
	// force on the nucleus at the origin from a charge-1 nucleus at X=100
	pushed := func(protons int) (origin, other vecmath.Vec) {
		w, _ := NewWorld(quietParams())
		a, _ := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, protons)
		b, _ := w.AddNucleus(vecmath.Vec{X: 100}, vecmath.Vec{}, 1)
		w.AccumulateForces()
		return w.Particle(a).Force, w.Particle(b).Force
	}

	heavy, pushedByHeavy := pushed(9)
	light, pushedByLight := pushed(1)

	if light.X >= 0 {
		t.Fatalf("like charges should repel, got %v", light)
	}
	// only the sign of the pushed particle's charge counts
	if math.Abs(heavy.X-light.X) > 1e-12 || heavy.Y != 0 {
		t.Errorf("charge-9 nucleus pushed by %v, want %v", heavy, light)
	}
	// the source charge counts in full
	if math.Abs(pushedByHeavy.X-9*pushedByLight.X) > 1e-12 {
		t.Errorf("push from charge 9 = %v, want 9 * %v", pushedByHeavy, pushedByLight)
	}

	w, _ := NewWorld(quietParams())
	w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 9)
	w.AddNucleus(vecmath.Vec{X: 100}, vecmath.Vec{}, 1)
	e := w.AddElectron(vecmath.Vec{X: 50}, vecmath.Vec{})
	w.AccumulateForces()
	if w.Particle(e).Force.X >= 0 {
		t.Errorf("electron should be pulled toward the heavier nucleus, got %v", w.Particle(e).Force)
	}
	for _, p := range w.Particles() {
		if p.Vel != p.Force {
			t.Errorf("particle %d: velocity %v does not match force %v", p.ID, p.Vel, p.Force)
		}
	}
}

func TestConfinementReaction(t *testing.T) {
	for _, protons := range []int{1, 3, 8} {
		w, _ := NewWorld(quietParams())
		nid, _ := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, protons)
		e := w.AddElectron(vecmath.Vec{X: 20, Y: 3}, vecmath.Vec{X: 0.4, Y: -0.2})

		before := w.Particle(e).Vel
		w.ClassifyShells(nid)
		dv := vecmath.Sub(w.Particle(e).Vel, before)

		if dv == (vecmath.Vec{}) {
			t.Fatalf("protons=%d: confinement left the electron untouched", protons)
		}
		want := vecmath.Scale(dv, -1/float64(protons))
		if got := w.Particle(nid).Vel; vecmath.Distance(got, want) > 1e-12 {
			t.Errorf("protons=%d: nucleus velocity %v, want %v", protons, got, want)
		}
	}
}

func TestSimulateDistanceFloor(t *testing.T) {
	w, _ := NewWorld(quietParams())
	w.AddElectron(vecmath.Vec{}, vecmath.Vec{})
	w.AddElectron(vecmath.Vec{}, vecmath.Vec{})

	w.AccumulateForces()

	if !w.Valid() {
		t.Fatal("coincident particles produced a non-finite state")
	}
}

func TestPairAttraction(t *testing.T) {
	p := quietParams()
	w, _ := NewWorld(p)
	a := w.AddElectron(vecmath.Vec{}, vecmath.Vec{})
	b := w.AddElectron(vecmath.Vec{X: 40}, vecmath.Vec{})

	w.Simulate(a)
	unpaired := w.Particle(a).Force.X

	w.Particle(a).Vel = vecmath.Vec{}
	w.Relations().Link(a, b)
	w.Simulate(a)
	paired := w.Particle(a).Force.X

	// a sits left of b: repulsion pushes it left, the pair term pulls it back.
	if !(paired > unpaired) {
		t.Errorf("paired force %v should be less repulsive than %v", paired, unpaired)
	}
}

func TestTickIntegratesAfterClassification(t *testing.T) {
	w, _ := NewWorld(quietParams())
	if _, err := w.AddAtom(vecmath.Vec{}, 3, 0, vecmath.Vec{X: 1}); err != nil {
		t.Fatal(err)
	}

	before := w.Particle(0).Pos
	report := w.Tick()
	after := w.Particle(0).Pos

	if report.Tick != 0 || w.TickCount() != 1 {
		t.Errorf("unexpected tick counters %d/%d", report.Tick, w.TickCount())
	}
	want := vecmath.Add(before, w.Particle(0).Vel)
	if vecmath.Distance(after, want) > 1e-12 {
		t.Errorf("nucleus moved to %v, want %v", after, want)
	}
	if len(report.Shells) != 1 {
		t.Errorf("expected one shell report, got %d", len(report.Shells))
	}
}

func TestBodies(t *testing.T) {
	w, _ := NewWorld(quietParams())
	nid, _ := w.AddAtom(vecmath.Vec{}, 4, 0, vecmath.Vec{})
	w.Tick()

	bodies := w.Bodies()
	if len(bodies) != 5 {
		t.Fatalf("expected 5 bodies, got %d", len(bodies))
	}
	if bodies[0].MaxShell != 2 || bodies[0].Light != 2 {
		t.Errorf("unexpected nucleus body %+v", bodies[0])
	}
	for _, b := range bodies[1:] {
		if b.Nucleus != nid || b.Shell < 1 {
			t.Errorf("electron %d not classified: %+v", b.ID, b)
		}
		if b.Light != 1 {
			t.Errorf("electron light %v, want 1", b.Light)
		}
	}
}

func TestRelationsLinkReplacesPartners(t *testing.T) {
	r := NewRelations()
	r.Link(1, 2)
	r.Link(2, 3)

	if _, ok := r.Pair(1); ok {
		t.Error("1 should have lost its partner")
	}
	if !r.Paired(2, 3) || !r.Paired(3, 2) {
		t.Error("2 and 3 should be paired")
	}
	if r.Asymmetric() != 0 {
		t.Errorf("expected symmetric links, got %d asymmetric", r.Asymmetric())
	}

	r.Unlink(3)
	if r.PairCount() != 0 {
		t.Errorf("expected no links, got %d", r.PairCount())
	}
}

func TestRelationsShellAge(t *testing.T) {
	r := NewRelations()
	r.SetShell(1, 0, 2, 5)
	r.SetShell(1, 0, 2, 9)
	if entry, _ := r.entry(1, 0); entry.since != 5 {
		t.Errorf("unchanged shell should keep its age, since=%d", entry.since)
	}
	r.SetShell(1, 0, 3, 9)
	if entry, _ := r.entry(1, 0); entry.since != 9 {
		t.Errorf("changed shell should restart its age, since=%d", entry.since)
	}

	r.SetShell(1, 4, 1, 0)
	as := r.ShellsOf(1)
	if len(as) != 2 || as[0].Nucleus != 0 || as[1].Nucleus != 4 {
		t.Errorf("unexpected assignments %v", as)
	}

	if !r.ClearShell(1, 0) || r.ClearShell(1, 0) {
		t.Error("ClearShell should report only existing entries")
	}
}

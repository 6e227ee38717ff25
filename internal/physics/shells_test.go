package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/atomsim/internal/vecmath"
)

func quietParams() Params {
	p := DefaultParams()
	p.Jitter = 0
	return p
}

func newTestWorld(p Params) *World {
	w, err := NewWorld(p, WithSeed(42))
	Expect(err).NotTo(HaveOccurred())
	return w
}

func pairsOf(w *World) map[ID]ID {
	out := make(map[ID]ID)
	for _, e := range w.Electrons() {
		if p, ok := w.Relations().Pair(e); ok {
			out[e] = p
		}
	}
	return out
}

var _ = Describe("ClassifyShells", func() {
	var w *World

	BeforeEach(func() {
		w = newTestWorld(quietParams())
	})

	Context("when shell 1 overflows", func() {
		var (
			nucleus   ID
			electrons []ID
		)

		BeforeEach(func() {
			var err error
			nucleus, err = w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 6)
			Expect(err).NotTo(HaveOccurred())
			electrons = nil
			for i := 0; i < 7; i++ {
				r := 4 + float64(i)
				angle := float64(i) * 2 * math.Pi / 7
				electrons = append(electrons, w.AddElectron(vecmath.Polar(vecmath.Vec{}, r, angle), vecmath.Vec{}))
			}
		})

		It("promotes the five farthest electrons to shell 2", func() {
			report := w.ClassifyShells(nucleus)

			Expect(report.Promoted).To(Equal(5))
			Expect(report.Occupancy[1]).To(Equal(2))
			Expect(report.Occupancy[2]).To(Equal(5))

			for i, e := range electrons {
				shell, ok := w.Relations().Shell(e, nucleus)
				Expect(ok).To(BeTrue())
				if i < 2 {
					Expect(shell).To(Equal(1), "electron %d", i)
				} else {
					Expect(shell).To(Equal(2), "electron %d", i)
				}
			}
		})

		It("never leaves more unpaired electrons than orbital slots", func() {
			report := w.ClassifyShells(nucleus)
			for shell, unpaired := range report.Unpaired {
				Expect(unpaired).To(BeNumerically("<=", OrbitalCount(shell)))
			}
		})
	})

	It("pairs two unpaired electrons in shell 1", func() {
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 2)
		Expect(err).NotTo(HaveOccurred())
		a := w.AddElectron(vecmath.Vec{X: 15}, vecmath.Vec{})
		b := w.AddElectron(vecmath.Vec{X: -15}, vecmath.Vec{})

		report := w.ClassifyShells(nucleus)

		Expect(report.PairsFormed).To(Equal(1))
		Expect(w.Relations().Paired(a, b)).To(BeTrue())
		Expect(w.Relations().Paired(b, a)).To(BeTrue())
	})

	It("evicts electrons beyond the highest shell", func() {
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 1)
		Expect(err).NotTo(HaveOccurred())
		far := w.AddElectron(vecmath.Vec{X: 100}, vecmath.Vec{})
		w.Relations().SetShell(far, nucleus, 4, 0)
		report := w.ClassifyShells(nucleus)

		Expect(report.Evicted).To(Equal(1))
		_, ok := w.Relations().Shell(far, nucleus)
		Expect(ok).To(BeFalse())
		Expect(report.Classified()).To(Equal(0))
	})

	It("keeps pairs symmetric after repairing stale links", func() {
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 10)
		Expect(err).NotTo(HaveOccurred())
		a := w.AddElectron(vecmath.Vec{X: 16}, vecmath.Vec{})
		b := w.AddElectron(vecmath.Vec{X: -16}, vecmath.Vec{})
		c := w.AddElectron(vecmath.Vec{Y: 32}, vecmath.Vec{})
		d := w.AddElectron(vecmath.Vec{Y: -32}, vecmath.Vec{})

		w.Relations().setPair(a, c)
		w.Relations().Link(b, d)
		Expect(w.Relations().Asymmetric()).To(Equal(1))

		report := w.ClassifyShells(nucleus)

		Expect(report.PairsBroken).To(BeNumerically(">=", 2))
		Expect(w.Relations().Asymmetric()).To(BeZero())
		for e, p := range pairsOf(w) {
			Expect(w.Relations().Paired(p, e)).To(BeTrue())
		}
	})

	It("cuts the pair of an electron the nucleus has not classified before", func() {
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 8)
		Expect(err).NotTo(HaveOccurred())
		a := w.AddElectron(vecmath.Vec{X: 32}, vecmath.Vec{})
		b := w.AddElectron(vecmath.Vec{X: -32}, vecmath.Vec{})
		w.Relations().Link(a, b)

		report := w.ClassifyShells(nucleus)

		Expect(report.PairsBroken).To(Equal(1))
		Expect(report.PairsFormed).To(BeZero())
		_, ok := w.Relations().Pair(a)
		Expect(ok).To(BeFalse())
		_, ok = w.Relations().Pair(b)
		Expect(ok).To(BeFalse())
		Expect(report.Unpaired[2]).To(Equal(2))
	})

	It("keeps a valid pair across passes", func() {
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 8)
		Expect(err).NotTo(HaveOccurred())
		a := w.AddElectron(vecmath.Vec{X: 32}, vecmath.Vec{})
		b := w.AddElectron(vecmath.Vec{X: -32}, vecmath.Vec{})
		w.Relations().SetShell(a, nucleus, 2, 0)
		w.Relations().SetShell(b, nucleus, 2, 0)
		w.Relations().Link(a, b)

		report := w.ClassifyShells(nucleus)

		Expect(report.PairsBroken).To(BeZero())
		Expect(w.Relations().Paired(a, b)).To(BeTrue())
	})

	It("re-derives the same pairing after links are removed", func() {
		nucleus, err := w.AddAtom(vecmath.Vec{X: 50, Y: 50}, 6, 0.3, vecmath.Vec{})
		Expect(err).NotTo(HaveOccurred())

		w.ClassifyShells(nucleus)
		first := pairsOf(w)
		Expect(first).NotTo(BeEmpty())

		for e := range first {
			w.Relations().Unlink(e)
		}
		Expect(w.Relations().PairCount()).To(BeZero())

		w.ClassifyShells(nucleus)
		Expect(pairsOf(w)).To(Equal(first))
	})

	It("does not keep a shell over capacity for two ticks in a row", func() {
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 10)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 10; i++ {
			angle := float64(i) * 2 * math.Pi / 10
			w.AddElectron(vecmath.Polar(vecmath.Vec{}, 6+float64(i)/2, angle), vecmath.Vec{})
		}

		prevOverflow := false
		for tick := 0; tick < 20; tick++ {
			report := w.Tick()
			Expect(report.Shells).To(HaveLen(1))
			s := report.Shells[0]
			Expect(s.Nucleus).To(Equal(nucleus))
			if prevOverflow {
				Expect(s.Overflow).To(BeFalse(), "tick %d", tick)
			}
			prevOverflow = s.Overflow
		}

		final := w.Tick().Shells[0]
		for shell, count := range final.Occupancy {
			Expect(count).To(BeNumerically("<=", ShellCapacity(shell)))
		}
		Expect(final.Classified()).To(Equal(10))
	})

	It("settles a lone electron onto its shell", func() {
		w = newTestWorld(DefaultParams())
		nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 1)
		Expect(err).NotTo(HaveOccurred())
		e := w.AddElectron(vecmath.Vec{X: DefaultShellInterval}, vecmath.Vec{})

		var report TickReport
		for i := 0; i < 50; i++ {
			report = w.Tick()
		}

		shell, ok := w.Relations().Shell(e, nucleus)
		Expect(ok).To(BeTrue())
		Expect(shell).To(Equal(1))
		Expect(report.Shells[0].Deviations).To(HaveLen(1))
		Expect(math.Abs(report.Shells[0].Deviations[0])).To(BeNumerically("<", 0.5))
		Expect(w.Valid()).To(BeTrue())
	})

	It("ignores IDs that are not nuclei", func() {
		e := w.AddElectron(vecmath.Vec{}, vecmath.Vec{})
		report := w.ClassifyShells(e)
		Expect(report.Classified()).To(BeZero())
		report = w.ClassifyShells(ID(99))
		Expect(report.Nucleus).To(Equal(ID(99)))
	})

	Context("with shell memory", func() {
		It("reseeds an expired shell from distance", func() {
			p := quietParams()
			p.ShellMemory = 3
			p.ShellForceConstant = 0
			w = newTestWorld(p)
			nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 8)
			Expect(err).NotTo(HaveOccurred())
			e := w.AddElectron(vecmath.Vec{X: 16}, vecmath.Vec{})
			w.Relations().SetShell(e, nucleus, 2, 0)

			w.ClassifyShells(nucleus)
			shell, _ := w.Relations().Shell(e, nucleus)
			Expect(shell).To(Equal(2))

			w.tick = 3
			w.ClassifyShells(nucleus)
			shell, _ = w.Relations().Shell(e, nucleus)
			Expect(shell).To(Equal(1))
		})

		It("ages an entry from its last change, not its last commit", func() {
			p := quietParams()
			p.ShellMemory = 3
			p.ShellForceConstant = 0
			w = newTestWorld(p)
			nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 8)
			Expect(err).NotTo(HaveOccurred())
			e := w.AddElectron(vecmath.Vec{X: 16}, vecmath.Vec{})
			w.Relations().SetShell(e, nucleus, 2, 0)

			for tick := 0; tick < 3; tick++ {
				w.tick = tick
				w.ClassifyShells(nucleus)
				shell, _ := w.Relations().Shell(e, nucleus)
				Expect(shell).To(Equal(2), "tick %d", tick)
			}

			w.tick = 3
			w.ClassifyShells(nucleus)
			shell, _ := w.Relations().Shell(e, nucleus)
			Expect(shell).To(Equal(1))

			entry, ok := w.Relations().entry(e, nucleus)
			Expect(ok).To(BeTrue())
			Expect(entry.since).To(Equal(3))
		})
	})

	Context("with an instability threshold", func() {
		It("moves an electron out when the outward force exceeds it", func() {
			p := quietParams()
			p.InstabilityThreshold = 0.5
			w = newTestWorld(p)
			nucleus, err := w.AddNucleus(vecmath.Vec{}, vecmath.Vec{}, 8)
			Expect(err).NotTo(HaveOccurred())
			e := w.AddElectron(vecmath.Vec{X: 16}, vecmath.Vec{})
			w.Particle(e).Force = vecmath.Vec{X: 1}

			report := w.ClassifyShells(nucleus)

			Expect(report.Reshelled).To(Equal(1))
			shell, _ := w.Relations().Shell(e, nucleus)
			Expect(shell).To(Equal(2))
		})
	})
})

var _ = Describe("planPairs", func() {
	unit := func(deg float64) vecmath.Vec {
		return vecmath.Polar(vecmath.Vec{}, 1, deg*math.Pi/180)
	}

	It("keeps the rotated pairing when it is cheaper", func() {
		points := []vecmath.Vec{unit(-80), unit(10), unit(20), unit(110)}
		plan := planPairs(points, 1)

		Expect(plan.Rotated).To(BeTrue())
		Expect(plan.CostB).To(BeNumerically("<", plan.CostA))
		Expect(plan.Pairs).To(Equal([][2]int{{1, 2}}))
	})

	It("keeps the straight pairing on ties", func() {
		points := []vecmath.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
		plan := planPairs(points, 2)

		Expect(plan.Rotated).To(BeFalse())
		Expect(plan.CostA).To(BeNumerically("~", plan.CostB, 1e-12))
		Expect(plan.Pairs).To(Equal([][2]int{{0, 1}, {2, 3}}))
	})

	It("caps the number of pairs at half the points", func() {
		points := []vecmath.Vec{unit(0), unit(10), unit(20)}
		plan := planPairs(points, 3)
		Expect(plan.Pairs).To(HaveLen(1))
	})

	It("returns nothing when no pairs are needed", func() {
		Expect(planPairs(nil, 2).Pairs).To(BeEmpty())
		Expect(planPairs([]vecmath.Vec{unit(0), unit(1)}, 0).Pairs).To(BeEmpty())
	})
})

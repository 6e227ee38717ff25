package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/san-kum/atomsim/internal/vecmath"
)

// World owns every particle and the relations between them.
type World struct {
	params    Params
	particles []Particle
	rel       *Relations
	rng       *rand.Rand
	tick      int
	log       zerolog.Logger
}

type Option func(*World)

// WithSeed seeds the jitter source.
func WithSeed(seed int64) Option {
	return func(w *World) { w.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand installs a caller-owned jitter source.
func WithRand(rng *rand.Rand) Option {
	return func(w *World) { w.rng = rng }
}

func WithLogger(l zerolog.Logger) Option {
	return func(w *World) { w.log = l }
}

func NewWorld(p Params, opts ...Option) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		params:    p,
		particles: make([]Particle, 0, 64),
		rel:       NewRelations(),
		rng:       rand.New(rand.NewSource(1)),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *World) Params() Params          { return w.params }
func (w *World) Relations() *Relations   { return w.rel }
func (w *World) TickCount() int          { return w.tick }
func (w *World) Len() int                { return len(w.particles) }
func (w *World) Particles() []Particle   { return w.particles }
func (w *World) Logger() *zerolog.Logger { return &w.log }

// Particle returns a pointer into the world's storage. It stays valid until
// the next particle is added.
func (w *World) Particle(id ID) *Particle {
	if id < 0 || int(id) >= len(w.particles) {
		return nil
	}
	return &w.particles[id]
}

func (w *World) add(kind Kind, pos, vel vecmath.Vec, charge float64) ID {
	id := ID(len(w.particles))
	w.particles = append(w.particles, Particle{
		ID:     id,
		Kind:   kind,
		Pos:    pos,
		Vel:    vel,
		charge: charge,
	})
	return id
}

// AddNucleus adds a bare nucleus with the given proton count.
func (w *World) AddNucleus(pos, vel vecmath.Vec, protons int) (ID, error) {
	if protons <= 0 {
		return NoParticle, fmt.Errorf("%w: proton count must be positive, got %d", ErrInvalidAtom, protons)
	}
	return w.add(KindNucleus, pos, vel, float64(protons)), nil
}

func (w *World) AddElectron(pos, vel vecmath.Vec) ID {
	return w.add(KindElectron, pos, vel, -1)
}

// AddAtom adds a nucleus and a neutral electron cloud around it. Electrons
// are spread evenly over each shell's ring starting at angleOffset; even
// shells are turned by half a step so neighbouring rings interleave. All
// particles start with velocity vel.
func (w *World) AddAtom(pos vecmath.Vec, protons int, angleOffset float64, vel vecmath.Vec) (ID, error) {
	nucleus, err := w.AddNucleus(pos, vel, protons)
	if err != nil {
		return NoParticle, err
	}

	pop := ShellPopulation(protons)
	for shell := 1; shell < len(pop); shell++ {
		count := pop[shell]
		if count == 0 {
			continue
		}
		step := 2 * math.Pi / float64(count)
		phase := 0.0
		if shell%2 == 0 {
			phase = step / 2
		}
		radius := float64(shell) * w.params.ShellInterval
		for j := 0; j < count; j++ {
			angle := angleOffset + phase + float64(j)*step
			w.AddElectron(vecmath.Polar(pos, radius, angle), vel)
		}
	}

	w.log.Debug().Int("nucleus", int(nucleus)).Int("protons", protons).Msg("atom added")
	return nucleus, nil
}

// Nuclei returns the IDs of all nuclei in insertion order.
func (w *World) Nuclei() []ID {
	ids := make([]ID, 0)
	for i := range w.particles {
		if w.particles[i].Kind == KindNucleus {
			ids = append(ids, w.particles[i].ID)
		}
	}
	return ids
}

func (w *World) Electrons() []ID {
	ids := make([]ID, 0, len(w.particles))
	for i := range w.particles {
		if w.particles[i].Kind == KindElectron {
			ids = append(ids, w.particles[i].ID)
		}
	}
	return ids
}

// Tick advances the world by one frame: forces for all particles, then
// shell classification for every nucleus, then integration.
func (w *World) Tick() TickReport {
	w.AccumulateForces()

	report := TickReport{Tick: w.tick}
	for i := range w.particles {
		if w.particles[i].Kind != KindNucleus {
			continue
		}
		report.Shells = append(report.Shells, w.ClassifyShells(w.particles[i].ID))
	}

	w.Integrate()
	w.tick++
	return report
}

func (w *World) AccumulateForces() {
	for i := range w.particles {
		w.Simulate(w.particles[i].ID)
	}
}

// Integrate moves every particle along its velocity.
func (w *World) Integrate() {
	dt := w.params.TimeStep
	for i := range w.particles {
		p := &w.particles[i]
		p.Pos = vecmath.Add(p.Pos, vecmath.Scale(p.Vel, dt))
	}
}

// Valid reports whether every position and velocity is finite.
func (w *World) Valid() bool {
	for i := range w.particles {
		p := &w.particles[i]
		for _, v := range [4]float64{p.Pos.X, p.Pos.Y, p.Vel.X, p.Vel.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// KineticEnergy returns sum(|v|^2 / 2) over all particles, unit mass.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	for i := range w.particles {
		v := w.particles[i].Vel
		e += 0.5 * vecmath.Dot(v, v)
	}
	return e
}

package physics

import (
	"math"

	"github.com/san-kum/atomsim/internal/vecmath"
)

// ID identifies a particle inside its world. IDs are dense slice indices
// and never reused.
type ID int

// NoParticle is the null ID.
const NoParticle ID = -1

type Kind uint8

const (
	KindNucleus Kind = iota
	KindElectron
)

func (k Kind) String() string {
	switch k {
	case KindNucleus:
		return "nucleus"
	case KindElectron:
		return "electron"
	default:
		return "unknown"
	}
}

// Particle is a charged point mass. Force is the accumulator of the current
// tick and is only meaningful between the force and classification phases.
type Particle struct {
	ID    ID
	Kind  Kind
	Pos   vecmath.Vec
	Vel   vecmath.Vec
	Force vecmath.Vec

	charge float64
}

func (p *Particle) Charge() float64 { return p.charge }

func (p *Particle) IsNucleus() bool  { return p.Kind == KindNucleus }
func (p *Particle) IsElectron() bool { return p.Kind == KindElectron }

// Light is the point-light intensity a 3D renderer attaches to the particle.
func (p *Particle) Light() float64 { return math.Sqrt(math.Abs(p.charge)) }

// ShellCapacity is the number of electrons shell n holds before overflow.
func ShellCapacity(n int) int {
	if n < 1 {
		return 0
	}
	return 4*(n-1) + 2
}

// OrbitalCount is the number of pairing slots in shell n.
func OrbitalCount(n int) int {
	if n < 1 {
		return 0
	}
	return 2*(n-1) + 1
}

// MaxShell is the highest shell a nucleus of the given charge can host.
func MaxShell(charge float64) int {
	if charge <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(charge / 2)))
}

// ShellPopulation returns the ground-state electron count per shell for a
// neutral atom, indexed by shell (index 0 is unused). Electron i (1-based)
// goes to shell ceil(sqrt(i/2)), which fills shells exactly to ShellCapacity.
func ShellPopulation(protons int) []int {
	if protons <= 0 {
		return nil
	}
	pop := make([]int, MaxShell(float64(protons))+1)
	for i := 1; i <= protons; i++ {
		pop[int(math.Ceil(math.Sqrt(float64(i)/2)))]++
	}
	return pop
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

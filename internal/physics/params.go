package physics

import "fmt"

const (
	DefaultShellInterval        = 16.0
	DefaultElectricForceScale   = 2.0
	DefaultJitter               = 0.02
	DefaultPairAttraction       = 0.03
	DefaultShellForceConstant   = 100.0
	DefaultMinDistance          = 1.0
	DefaultTimeStep             = 1.0
	DefaultShellMemory          = 0
	DefaultInstabilityThreshold = 0.0
)

// Params holds the model constants. Units are arbitrary screen units per tick.
type Params struct {
	// ShellInterval is the radial distance between consecutive shells.
	ShellInterval float64
	// ElectricForceScale multiplies every pairwise force contribution.
	ElectricForceScale float64
	// Jitter is the width of the uniform per-axis thermal noise.
	Jitter float64
	// PairAttraction is subtracted from the force between paired electrons.
	PairAttraction float64
	// ShellForceConstant sets the inverse-square falloff of the
	// confinement spring, clamped to 1.
	ShellForceConstant float64
	// MinDistance floors every distance used in a reciprocal.
	MinDistance float64
	// TimeStep scales velocities during integration.
	TimeStep float64
	// ShellMemory is the number of ticks a shell assignment stays sticky
	// before it is reseeded from distance. 0 keeps it forever.
	ShellMemory int
	// InstabilityThreshold moves an electron one shell out (or in) when the
	// radial part of its accumulated force exceeds it. 0 disables.
	InstabilityThreshold float64
}

func DefaultParams() Params {
	return Params{
		ShellInterval:        DefaultShellInterval,
		ElectricForceScale:   DefaultElectricForceScale,
		Jitter:               DefaultJitter,
		PairAttraction:       DefaultPairAttraction,
		ShellForceConstant:   DefaultShellForceConstant,
		MinDistance:          DefaultMinDistance,
		TimeStep:             DefaultTimeStep,
		ShellMemory:          DefaultShellMemory,
		InstabilityThreshold: DefaultInstabilityThreshold,
	}
}

func (p Params) Validate() error {
	switch {
	case p.ShellInterval <= 0:
		return fmt.Errorf("%w: shell interval must be positive, got %f", ErrInvalidParams, p.ShellInterval)
	case p.MinDistance <= 0:
		return fmt.Errorf("%w: min distance must be positive, got %f", ErrInvalidParams, p.MinDistance)
	case p.ShellForceConstant < 0:
		return fmt.Errorf("%w: shell force constant must be non-negative, got %f", ErrInvalidParams, p.ShellForceConstant)
	case p.Jitter < 0:
		return fmt.Errorf("%w: jitter must be non-negative, got %f", ErrInvalidParams, p.Jitter)
	case p.TimeStep <= 0:
		return fmt.Errorf("%w: time step must be positive, got %f", ErrInvalidParams, p.TimeStep)
	case p.ShellMemory < 0:
		return fmt.Errorf("%w: shell memory must be non-negative, got %d", ErrInvalidParams, p.ShellMemory)
	case p.InstabilityThreshold < 0:
		return fmt.Errorf("%w: instability threshold must be non-negative, got %f", ErrInvalidParams, p.InstabilityThreshold)
	}
	return nil
}

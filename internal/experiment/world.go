package experiment

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/atomsim/internal/config"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/vecmath"
)

// BuildWorld places every atom and free electron of cfg into a new world
// seeded with seed.
func BuildWorld(cfg *config.Config, seed int64, log zerolog.Logger) (*physics.World, error) {
	w, err := physics.NewWorld(cfg.Params(), physics.WithSeed(seed), physics.WithLogger(log))
	if err != nil {
		return nil, err
	}

	for i, a := range cfg.Atoms {
		pos := vecmath.Vec{X: a.X, Y: a.Y}
		vel := vecmath.Vec{X: a.VX, Y: a.VY}
		if a.Bare {
			_, err = w.AddNucleus(pos, vel, a.Protons)
		} else {
			_, err = w.AddAtom(pos, a.Protons, a.Angle, vel)
		}
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}
	}
	for _, e := range cfg.Electrons {
		w.AddElectron(vecmath.Vec{X: e.X, Y: e.Y}, vecmath.Vec{X: e.VX, Y: e.VY})
	}

	return w, nil
}

// Factory adapts BuildWorld to an ensemble world factory.
func Factory(cfg *config.Config, log zerolog.Logger) func(seed int64) (*physics.World, error) {
	return func(seed int64) (*physics.World, error) {
		return BuildWorld(cfg, seed, log)
	}
}

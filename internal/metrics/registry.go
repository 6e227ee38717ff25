package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/atomsim/internal/dynamo"
)

// DefaultStabilitySpeed is the speed above which a tick counts as unstable.
const DefaultStabilitySpeed = 5.0

var constructors = map[string]func() dynamo.Metric{
	"shell_deviation": func() dynamo.Metric { return NewShellDeviation() },
	"overflow_ratio":  func() dynamo.Metric { return NewOverflowRatio() },
	"promotion_rate":  func() dynamo.Metric { return NewPromotionRate() },
	"pair_asymmetry":  func() dynamo.Metric { return NewPairAsymmetry() },
	"kinetic_energy":  func() dynamo.Metric { return NewKineticEnergy() },
	"energy_drift":    func() dynamo.Metric { return NewEnergyDrift() },
	"stability":       func() dynamo.Metric { return NewStability(DefaultStabilitySpeed) },
}

// Default returns a fresh instance of every built-in metric.
func Default() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(constructors))
	for _, name := range Names() {
		out = append(out, constructors[name]())
	}
	return out
}

// ByName builds the named metrics.
func ByName(names []string) ([]dynamo.Metric, error) {
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		fn, ok := constructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", name)
		}
		out = append(out, fn())
	}
	return out, nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/atomsim/internal/config"
	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/metrics"
)

type Experiment struct {
	cfg       *config.Config
	simulator *dynamo.Simulator
	log       zerolog.Logger
}

func New(cfg *config.Config, log zerolog.Logger) *Experiment {
	return &Experiment{cfg: cfg, log: log}
}

// Setup builds the world and attaches metrics. A nil list attaches the
// metrics named in the config, or every built-in metric when it names none.
func (e *Experiment) Setup(ms []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	if ms == nil {
		var err error
		ms, err = e.metrics()
		if err != nil {
			return err
		}
	}

	w, err := BuildWorld(e.cfg, e.cfg.Seed, e.log)
	if err != nil {
		return err
	}

	e.simulator = dynamo.New(w)
	e.simulator.SetLogger(e.log)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) metrics() ([]dynamo.Metric, error) {
	if len(e.cfg.Metrics) == 0 {
		return metrics.Default(), nil
	}
	return metrics.ByName(e.cfg.Metrics)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.RunConfig())
}

// RunConfig is the simulator configuration derived from the scenario.
func (e *Experiment) RunConfig() dynamo.Config {
	return dynamo.Config{
		Ticks:         e.cfg.Ticks,
		SampleEvery:   e.cfg.SampleEvery,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}
}

// Ensemble runs the scenario once per seed, starting at the config seed.
func (e *Experiment) Ensemble(ctx context.Context, runs, parallel int) ([]*dynamo.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.metrics(); err != nil {
		return nil, err
	}

	ens := dynamo.NewEnsemble(Factory(e.cfg, e.log), func() []dynamo.Metric {
		ms, _ := e.metrics()
		return ms
	}, runs, e.cfg.Seed)
	ens.SetLimit(parallel)
	return ens.Run(ctx, e.RunConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Package automation runs scripted batches of scenarios and parameter
// sweeps described in YAML.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/atomsim/internal/analysis"
	"github.com/san-kum/atomsim/internal/config"
	"github.com/san-kum/atomsim/internal/dynamo"
	"github.com/san-kum/atomsim/internal/experiment"
	"github.com/san-kum/atomsim/internal/physics"
	"github.com/san-kum/atomsim/internal/storage"
)

var ErrInvalidStep = errors.New("automation: invalid step")

// Batch is an ordered list of runs.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step names a preset or carries an inline scenario. Non-zero Ticks, Seed
// and Params override the scenario values.
type Step struct {
	Preset  string             `yaml:"preset"`
	Config  *config.Config     `yaml:"config"`
	Ticks   int                `yaml:"ticks"`
	Seed    int64              `yaml:"seed"`
	Params  map[string]float64 `yaml:"params"`
	Metrics []string           `yaml:"metrics"`
	Save    bool               `yaml:"save"`
}

// StepResult is the outcome of one step. RunID is set when the step was
// saved.
type StepResult struct {
	Scenario string
	Result   *dynamo.Result
	RunID    string
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Resolve returns the scenario the step runs, with overrides applied.
func (s Step) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != nil && s.Preset != "":
		return nil, fmt.Errorf("%w: both preset and config given", ErrInvalidStep)
	case s.Config != nil:
		cfg = s.Config.Clone()
	case s.Preset != "":
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidStep, s.Preset)
		}
	default:
		return nil, fmt.Errorf("%w: neither preset nor config given", ErrInvalidStep)
	}

	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if len(s.Metrics) > 0 {
		cfg.Metrics = s.Metrics
	}
	for k, v := range s.Params {
		if err := cfg.Physics.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Runner executes batches. Store may be nil when no step saves.
type Runner struct {
	Store *storage.Store
	Log   zerolog.Logger
}

// Run executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func (r *Runner) Run(ctx context.Context, b *Batch) ([]StepResult, error) {
	results := make([]StepResult, 0, len(b.Steps))

	for i, step := range b.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.Log.Info().Int("step", i+1).Int("of", len(b.Steps)).Str("scenario", cfg.Name).Msg("running batch step")

		exp := experiment.New(cfg, r.Log)
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scenario: cfg.Name, Result: result}
		if step.Save {
			if r.Store == nil {
				return results, fmt.Errorf("step %d: %w: save requested without a store", i+1, ErrInvalidStep)
			}
			sr.RunID, err = r.Store.Save(storage.RunInfo{
				Scenario:    cfg.Name,
				Seed:        cfg.Seed,
				Ticks:       cfg.Ticks,
				SampleEvery: cfg.SampleEvery,
				Params:      cfg.Params(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep varies one physics parameter of a preset.
type ParameterSweep struct {
	Preset    string  `yaml:"preset"`
	Param     string  `yaml:"param"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Steps     int     `yaml:"steps"`
	Transient int     `yaml:"transient"`
	Record    int     `yaml:"record"`
}

// RunSweep builds the preset once per parameter value and measures how
// its shells settle.
func RunSweep(ctx context.Context, sweep ParameterSweep, log zerolog.Logger) ([]analysis.SweepPoint, error) {
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidStep, sweep.Preset)
	}
	if err := base.Physics.Set(sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	build := func(v float64) (*physics.World, error) {
		cfg := base.Clone()
		if err := cfg.Physics.Set(sweep.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return experiment.BuildWorld(cfg, cfg.Seed, log)
	}
	return analysis.SweepParam(ctx, build, sweep.Min, sweep.Max, sweep.Steps, sweep.Transient, sweep.Record)
}

package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/atomsim/internal/config"
	"github.com/san-kum/atomsim/internal/storage"
)

func TestResolve(t *testing.T) {
	cfg, err := Step{Preset: "helium", Ticks: 12, Seed: 9, Params: map[string]float64{"jitter": 0}}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "helium", cfg.Name)
	assert.Equal(t, 12, cfg.Ticks)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 0.0, cfg.Physics.Jitter)

	// the preset table itself is untouched
	assert.NotEqual(t, 12, config.GetPreset("helium").Ticks)

	tests := []struct {
		name string
		step Step
		want error
	}{
		{"empty", Step{}, ErrInvalidStep},
		{"both", Step{Preset: "helium", Config: config.DefaultConfig()}, ErrInvalidStep},
		{"unknown preset", Step{Preset: "unobtainium"}, ErrInvalidStep},
		{"unknown param", Step{Preset: "helium", Params: map[string]float64{"gravity": 1}}, config.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.step.Resolve()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

const batchYAML = `name: smoke
description: two short runs
steps:
  - preset: hydrogen
    ticks: 10
  - config:
      name: inline
      ticks: 8
      atoms:
        - {x: 100, y: 100, protons: 3}
    seed: 4
    save: true
`

func TestLoadAndRunBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batchYAML), 0644))

	b, err := LoadBatch(path)
	require.NoError(t, err)
	require.Len(t, b.Steps, 2)
	assert.Equal(t, "smoke", b.Name)

	store := storage.New(filepath.Join(dir, "runs"))
	require.NoError(t, store.Init())
	r := &Runner{Store: store, Log: zerolog.Nop()}

	results, err := r.Run(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "hydrogen", results[0].Scenario)
	assert.Empty(t, results[0].RunID)
	assert.Equal(t, 10, results[0].Result.StepsTaken)

	assert.Equal(t, "inline", results[1].Scenario)
	assert.NotEmpty(t, results[1].RunID)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(4), runs[0].Seed)
}

func TestRunSaveWithoutStore(t *testing.T) {
	r := &Runner{Log: zerolog.Nop()}
	results, err := r.Run(context.Background(), &Batch{Steps: []Step{{Preset: "hydrogen", Ticks: 3, Save: true}}})
	assert.True(t, errors.Is(err, ErrInvalidStep))
	assert.Empty(t, results)
}

func TestRunSweep(t *testing.T) {
	points, err := RunSweep(context.Background(), ParameterSweep{
		Preset:    "helium",
		Param:     "jitter",
		Min:       0,
		Max:       0.02,
		Steps:     3,
		Transient: 5,
		Record:    5,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 0.01, points[1].Param, 1e-12)
	assert.NotNil(t, points[2].Occupancy)

	_, err = RunSweep(context.Background(), ParameterSweep{Preset: "helium", Param: "gravity", Steps: 2}, zerolog.Nop())
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

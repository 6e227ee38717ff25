package dynamo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/atomsim/internal/physics"
)

// WorldFactory builds a fresh world for one ensemble member.
type WorldFactory func(seed int64) (*physics.World, error)

// MetricFactory builds fresh metric instances for one ensemble member.
type MetricFactory func() []Metric

type Ensemble struct {
	build     WorldFactory
	metrics   MetricFactory
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build WorldFactory, metrics MetricFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps the number of worlds ticking at once. n <= 0 means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run executes numRuns independent simulations with consecutive seeds.
// The first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.build == nil {
		return nil, ErrNoWorld
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	g, gctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			w, err := e.build(cfgCopy.Seed)
			if err != nil {
				return err
			}

			s := New(w)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(gctx, cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

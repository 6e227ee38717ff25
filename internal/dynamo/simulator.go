package dynamo

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/san-kum/atomsim/internal/physics"
)

type Simulator struct {
	world     *physics.World
	metrics   []Metric
	observers []Observer
	log       zerolog.Logger
}

func New(w *physics.World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zerolog.Nop(),
	}
}

func (s *Simulator) AddMetric(m Metric)         { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l zerolog.Logger) { s.log = l }
func (s *Simulator) World() *physics.World      { return s.world }

// Run ticks the world cfg.Ticks times. A non-finite state stops the run and
// is reported in Result.Errors; cancellation returns the partial result
// with a *SimulationError.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if s.world == nil {
		return nil, ErrNoWorld
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frames := 2
	if cfg.SampleEvery > 0 {
		frames += cfg.Ticks / cfg.SampleEvery
	}
	result := &Result{
		Frames:  make([]Frame, 0, frames),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.world
	result.Frames = append(result.Frames, Frame{Tick: w.TickCount(), Bodies: w.Bodies()})
	initialEnergy := w.KineticEnergy()

	s.log.Info().
		Int("ticks", cfg.Ticks).
		Int("particles", w.Len()).
		Int("nuclei", len(w.Nuclei())).
		Msg("run started")

	var last physics.TickReport
	recorded := true
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, &SimulationError{
				Tick:    w.TickCount(),
				Wrapped: fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		last = w.Tick()
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(w, last)
		}
		for _, obs := range s.observers {
			obs.OnTick(w, last)
		}

		recorded = false
		if cfg.ValidateState && !w.Valid() {
			err := &SimulationError{Tick: last.Tick, Wrapped: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.log.Warn().Err(err).Msg("run stopped")
			break
		}

		if cfg.SampleEvery > 0 && result.StepsTaken%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, Frame{Tick: w.TickCount(), Bodies: w.Bodies(), Report: last})
			recorded = true
		}
	}
	if !recorded {
		result.Frames = append(result.Frames, Frame{Tick: w.TickCount(), Bodies: w.Bodies(), Report: last})
	}

	finalEnergy := w.KineticEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info().
		Int("steps", result.StepsTaken).
		Int("frames", len(result.Frames)).
		Int("errors", len(result.Errors)).
		Msg("run finished")

	return result, nil
}

// RunWithCallback ticks until cfg.Ticks is reached or callback returns
// false. The callback sees the world after every tick.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*physics.World, physics.TickReport) bool) error {
	if s.world == nil {
		return ErrNoWorld
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w := s.world
	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return &SimulationError{Tick: w.TickCount(), Wrapped: fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())}
		default:
		}

		report := w.Tick()
		for _, m := range s.metrics {
			m.Observe(w, report)
		}

		if cfg.ValidateState && !w.Valid() {
			return &SimulationError{Tick: report.Tick, Wrapped: ErrInvalidState}
		}

		if !callback(w, report) {
			return nil
		}
	}

	return nil
}

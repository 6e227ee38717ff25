package dynamo

import (
	"fmt"

	"github.com/san-kum/atomsim/internal/physics"
)

type Metric interface {
	Name() string
	Observe(w *physics.World, r physics.TickReport)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(w *physics.World, r physics.TickReport)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(w *physics.World, r physics.TickReport)

func (f ObserverFunc) OnTick(w *physics.World, r physics.TickReport) { f(w, r) }

type Config struct {
	Ticks int
	// SampleEvery records a frame every n ticks. 0 records only the
	// initial and final frames.
	SampleEvery   int
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Ticks:         500,
		SampleEvery:   1,
		Seed:          1,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, c.Ticks)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must be non-negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	return nil
}

// Frame is a snapshot of the world after a tick. Report is empty for the
// initial frame.
type Frame struct {
	Tick   int
	Bodies []physics.Body
	Report physics.TickReport
}

type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Final returns the last recorded frame.
func (r *Result) Final() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

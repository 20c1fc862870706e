package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/fluidsim/internal/fluid"
)

// ErrNoSolver indicates a simulator was built without a solver.
var ErrNoSolver = errors.New("sim: no solver")

// Snapshot is the view handed to metrics and observers after a tick.
// Field slices alias solver memory and are only valid during the call.
type Snapshot struct {
	Tick      int
	Grid      fluid.Grid
	Density   []float64
	VelocityX []float64
	VelocityY []float64
	Stats     fluid.Stats
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

type Config struct {
	Ticks       int
	SampleEvery int
	// Fade applies the solver's fade after every step.
	Fade bool
	// ValidateState stops the run when any field holds NaN or Inf.
	ValidateState bool
}

// Sample is one row of the per-tick series.
type Sample struct {
	Tick int `json:"tick" csv:"tick"`
	fluid.Stats
}

type Result struct {
	Ticks   int
	Series  []Sample
	Metrics map[string]float64
	Final   fluid.Stats
	Density []float64
	Errors  []error
}

// SimError stops a run at a given tick.
type SimError struct {
	Tick    int
	Message string
	Wrapped error
}

func (e SimError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("tick %d: %s: %v", e.Tick, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("tick %d: %s", e.Tick, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}

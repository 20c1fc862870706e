package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

// Experiment binds a config to a ready-to-run simulator.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry}
}

// Setup builds the solver, the emitters and the default metrics.
func (e *Experiment) Setup() error {
	g, err := e.cfg.GridSpec()
	if err != nil {
		return err
	}
	solver, err := fluid.New(g)
	if err != nil {
		return err
	}

	e.simulator = sim.New(solver)
	for i, em := range e.cfg.Emitters {
		src, err := e.registry.GetSource(em, g.N, e.cfg.Run.Seed+int64(i))
		if err != nil {
			return fmt.Errorf("emitter %d: %w", i, err)
		}
		e.simulator.AddSource(src)
	}
	for _, m := range e.registry.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// SimConfig is the simulator configuration derived from the run section.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Ticks:         e.cfg.Run.Ticks,
		SampleEvery:   e.cfg.Run.SampleEvery,
		Fade:          e.cfg.Run.Fade,
		ValidateState: e.cfg.Run.Validate,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/forcing"
)

type Simulator struct {
	solver    *fluid.Solver
	sources   []forcing.Source
	metrics   []Metric
	observers []Observer
	scratch   *FieldPool
	logger    *slog.Logger
}

func New(solver *fluid.Solver) *Simulator {
	s := &Simulator{
		solver:    solver,
		sources:   make([]forcing.Source, 0),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
	if solver != nil {
		s.scratch = NewFieldPool(solver.Grid().Cells())
	}
	return s
}

func (s *Simulator) AddSource(src forcing.Source) { s.sources = append(s.sources, src) }
func (s *Simulator) AddMetric(m Metric)           { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)       { s.observers = append(s.observers, o) }

// SetLogger replaces the logger. nil keeps the current one.
func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetPool shares a scratch pool between simulators of the same grid size.
func (s *Simulator) SetPool(p *FieldPool) {
	if p != nil && s.solver != nil && p.size == s.solver.Grid().Cells() {
		s.scratch = p
	}
}

func (s *Simulator) Solver() *fluid.Solver { return s.solver }

// Run advances the solver cfg.Ticks times. Each tick applies the sources,
// steps, optionally fades, then samples metrics and observers every
// cfg.SampleEvery ticks and on the last tick. A health fault or invalid
// field ends the run early; the partial result is returned with the error
// recorded in Result.Errors.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if s.solver == nil {
		return nil, ErrNoSolver
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Series:  make([]Sample, 0, cfg.Ticks/cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	g := s.solver.Grid()
	scratch := s.scratch.Get()
	defer s.scratch.Put(scratch)

	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.applySources(tick); err != nil {
			return result, err
		}

		s.solver.Step()
		if cfg.Fade {
			s.solver.Fade()
		}
		result.Ticks++

		if err := s.solver.Fault(); err != nil {
			result.Errors = append(result.Errors, SimError{Tick: tick, Message: "solver fault", Wrapped: err})
			s.logger.Warn("run stopped", "tick", tick, "error", err)
			break
		}
		if cfg.ValidateState && !s.fieldsFinite() {
			result.Errors = append(result.Errors, SimError{Tick: tick, Message: "invalid state (NaN/Inf)", Wrapped: fluid.ErrNonFinite})
			s.logger.Warn("run stopped", "tick", tick, "reason", "non-finite field")
			break
		}

		if tick%cfg.SampleEvery != 0 && tick != cfg.Ticks-1 {
			continue
		}

		snap := Snapshot{
			Tick:      tick,
			Grid:      g,
			Density:   s.solver.Density(),
			VelocityX: s.solver.VelocityX(),
			VelocityY: s.solver.VelocityY(),
			Stats:     s.solver.Stats(scratch),
		}
		result.Series = append(result.Series, Sample{Tick: tick, Stats: snap.Stats})

		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnTick(snap)
		}
	}

	result.Final = s.solver.Stats(scratch)
	result.Density = append([]float64(nil), s.solver.Density()...)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback advances until the callback returns false, the context
// ends, or maxTicks ticks have run (maxTicks <= 0 means no limit).
func (s *Simulator) RunWithCallback(ctx context.Context, maxTicks int, fade bool, callback func(tick int, solver *fluid.Solver) bool) error {
	if s.solver == nil {
		return ErrNoSolver
	}
	for tick := 0; maxTicks <= 0 || tick < maxTicks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.Advance(tick, fade); err != nil {
			return err
		}
		if !callback(tick, s.solver) {
			return nil
		}
	}
	return nil
}

// Advance runs a single tick outside of Run: sources, step, then an
// optional fade. Interactive front-ends call it once per frame.
func (s *Simulator) Advance(tick int, fade bool) error {
	if s.solver == nil {
		return ErrNoSolver
	}
	if err := s.applySources(tick); err != nil {
		return err
	}
	s.solver.Step()
	if fade {
		s.solver.Fade()
	}
	if err := s.solver.Fault(); err != nil {
		return SimError{Tick: tick, Message: "solver fault", Wrapped: err}
	}
	return nil
}

func (s *Simulator) applySources(tick int) error {
	for _, src := range s.sources {
		if err := src.Apply(s.solver, tick); err != nil {
			return SimError{Tick: tick, Message: "source " + src.Name(), Wrapped: err}
		}
	}
	return nil
}

func (s *Simulator) fieldsFinite() bool {
	return fluid.IsFinite(s.solver.Density()) &&
		fluid.IsFinite(s.solver.VelocityX()) &&
		fluid.IsFinite(s.solver.VelocityY())
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.SampleEvery < 1 {
		return fmt.Errorf("sample interval must be at least 1, got %d", cfg.SampleEvery)
	}
	return nil
}

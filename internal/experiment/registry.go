package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/forcing"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/sim"
)

// SourceBuilder turns an emitter description into a source for an n×n
// grid. seed is the run seed, used when the emitter has none of its own.
type SourceBuilder func(e config.EmitterConfig, n int, seed int64) (forcing.Source, error)

type Registry struct {
	sources map[string]SourceBuilder
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		sources: make(map[string]SourceBuilder),
		metrics: make(map[string]func() sim.Metric),
	}

	r.sources["point"] = func(e config.EmitterConfig, n int, seed int64) (forcing.Source, error) {
		return &forcing.Point{
			Window: window(e), X: e.X, Y: e.Y,
			Density: e.Density, VX: e.VX, VY: e.VY,
		}, nil
	}
	r.sources["swirl"] = func(e config.EmitterConfig, n int, seed int64) (forcing.Source, error) {
		return &forcing.Swirl{
			Window: window(e), X: e.X, Y: e.Y,
			Density: e.Density, Speed: e.Speed, Rate: e.Rate,
		}, nil
	}
	r.sources["jet"] = func(e config.EmitterConfig, n int, seed int64) (forcing.Source, error) {
		if e.Length < 1 {
			return nil, fmt.Errorf("jet length must be positive, got %d", e.Length)
		}
		var horizontal bool
		switch e.Axis {
		case "horizontal", "x":
			horizontal = true
		case "", "vertical", "y":
		default:
			return nil, fmt.Errorf("unknown jet axis: %s", e.Axis)
		}
		return &forcing.Jet{
			Window: window(e), X: e.X, Y: e.Y, Length: e.Length, Horizontal: horizontal,
			Density: e.Density, VX: e.VX, VY: e.VY,
		}, nil
	}
	r.sources["random"] = func(e config.EmitterConfig, n int, seed int64) (forcing.Source, error) {
		if e.Seed != 0 {
			seed = e.Seed
		}
		src := forcing.NewRandom(n, e.Density, e.Speed, e.Every, seed)
		src.Window = window(e)
		return src, nil
	}

	r.metrics["mass"] = func() sim.Metric { return metrics.NewMass() }
	r.metrics["min_density"] = func() sim.Metric { return metrics.NewMinDensity() }
	r.metrics["kinetic_energy"] = func() sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["max_speed"] = func() sim.Metric { return metrics.NewPeakSpeed() }
	r.metrics["max_divergence"] = func() sim.Metric { return metrics.NewMaxDivergence() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability(metrics.DefaultStabilityThreshold) }

	return r
}

func window(e config.EmitterConfig) forcing.Window {
	return forcing.Window{Start: e.Start, Stop: e.Stop}
}

// RegisterSource adds or replaces an emitter kind.
func (r *Registry) RegisterSource(kind string, b SourceBuilder) {
	r.sources[kind] = b
}

func (r *Registry) GetSource(e config.EmitterConfig, n int, seed int64) (forcing.Source, error) {
	fn, ok := r.sources[e.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown emitter: %s", e.Kind)
	}
	return fn(e, n, seed)
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSources() []string {
	return sortedKeys(r.sources)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns one fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

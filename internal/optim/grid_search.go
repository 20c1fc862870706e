package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
	"github.com/san-kum/fluidsim/internal/sim"
)

// GridSearch evaluates every combination of parameter values against a
// base config and keeps the one with the best metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize picks the largest metric instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated combination.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Combinations expands the grid in row-major order, last parameter fastest.
func (g *GridSearch) Combinations() []map[string]float64 {
	var out []map[string]float64
	g.expand(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		combo := make(map[string]float64, len(current))
		for k, v := range current {
			combo[k] = v
		}
		*out = append(*out, combo)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.expand(depth+1, current, out)
	}
	delete(current, paramName)
}

// Search runs every combination concurrently and returns the best
// parameters, their metric value, and all trials in Combinations order.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	if _, err := registry.GetMetric(metricName); err != nil {
		return nil, 0, nil, err
	}

	combos := g.Combinations()
	configs := make([]*config.Config, len(combos))
	trials := make([]Trial, len(combos))
	for i, combo := range combos {
		cfg := base.Clone()
		for k, v := range combo {
			if err := cfg.Set(k, v); err != nil {
				return nil, 0, nil, err
			}
		}
		configs[i] = cfg
		trials[i] = Trial{Params: combo}
		if err := cfg.Validate(); err != nil {
			trials[i].Err = err
		}
	}

	valid := make([]int, 0, len(combos))
	for i := range combos {
		if trials[i].Err == nil {
			valid = append(valid, i)
		}
	}

	results := make([]*sim.Result, len(combos))
	if len(valid) > 0 {
		ens := sim.NewEnsemble(func(idx int) (*sim.Simulator, error) {
			exp := experiment.New(configs[valid[idx]], registry)
			if err := exp.Setup(); err != nil {
				return nil, err
			}
			return exp.GetSimulator(), nil
		}, len(valid))

		runs, err := ens.Run(ctx, experiment.New(base, registry).SimConfig())
		if err != nil {
			return nil, 0, trials, err
		}
		for k, r := range runs {
			results[valid[k]] = r
		}
	}

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	for i, r := range results {
		if trials[i].Err != nil || r == nil {
			continue
		}
		val, ok := r.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			trials[i].Err = fmt.Errorf("metric %s missing", metricName)
			continue
		}
		trials[i].Value = val
		if (g.Maximize && val > best) || (!g.Maximize && val < best) {
			best = val
			bestParams = trials[i].Params
		}
	}

	if bestParams == nil {
		return nil, 0, trials, fmt.Errorf("no valid combination")
	}
	return bestParams, best, trials, nil
}

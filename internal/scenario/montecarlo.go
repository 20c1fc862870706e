package scenario

import (
	"context"
	"math/rand"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
	"github.com/san-kum/fluidsim/internal/sim"
)

// MonteCarloConfig jitters emitter positions around a base config.
type MonteCarloConfig struct {
	Base      *config.Config
	Jitter    int
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID  int
	Emitters []config.EmitterConfig
	Mass     float64
	Stable   bool
}

// RunMonteCarlo runs every trial concurrently and reports, per trial,
// whether the run stayed stable.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(mc.Seed))
	trials := make([]*config.Config, mc.NumTrials)
	for t := range trials {
		cfg := mc.Base.Clone()
		cfg.Run.Seed = mc.Seed + int64(t)
		for i := range cfg.Emitters {
			cfg.Emitters[i].X = jitter(rng, cfg.Emitters[i].X, mc.Jitter, cfg.Grid.Size)
			cfg.Emitters[i].Y = jitter(rng, cfg.Emitters[i].Y, mc.Jitter, cfg.Grid.Size)
		}
		trials[t] = cfg
	}

	ens := sim.NewEnsemble(func(idx int) (*sim.Simulator, error) {
		exp := experiment.New(trials[idx], registry)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}, mc.NumTrials)

	base := experiment.New(mc.Base, registry)
	runs, err := ens.Run(ctx, base.SimConfig())
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:  i,
			Emitters: trials[i].Emitters,
			Mass:     r.Final.Mass,
			Stable:   len(r.Errors) == 0 && r.Metrics["stability"] == 1,
		}
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// jitter offsets v by up to ±amount, keeping it inside the interior.
func jitter(rng *rand.Rand, v, amount, n int) int {
	if amount > 0 {
		v += rng.Intn(2*amount+1) - amount
	}
	return max(1, min(v, n-2))
}

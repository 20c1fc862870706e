// Package scenario runs scripted sequences of headless simulations
// described in YAML.
package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. It starts from Preset (or the defaults), applies
// Params, and replaces the emitters when any are given.
type Step struct {
	Name     string                 `yaml:"name"`
	Preset   string                 `yaml:"preset"`
	Ticks    int                    `yaml:"ticks"`
	Seed     int64                  `yaml:"seed"`
	Params   map[string]float64     `yaml:"params"`
	Emitters []config.EmitterConfig `yaml:"emitters"`
	SaveAs   string                 `yaml:"save_as"`
}

// StepResult pairs a step with its outcome. RunID is empty when the
// result was not stored.
type StepResult struct {
	Step   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &sc, nil
}

// Config builds the run configuration for a step.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	for k, v := range s.Params {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	if s.Ticks > 0 {
		cfg.Run.Ticks = s.Ticks
	}
	if s.Seed != 0 {
		cfg.Run.Seed = s.Seed
	}
	if len(s.Emitters) > 0 {
		cfg.Emitters = append([]config.EmitterConfig(nil), s.Emitters...)
	}
	switch {
	case s.SaveAs != "":
		cfg.Name = s.SaveAs
	case s.Name != "":
		cfg.Name = s.Name
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with SaveAs set are
// written to store when store is non-nil.
func RunScenario(ctx context.Context, sc *Scenario, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		slog.Info("running step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps), "name", step.Name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: cfg.Name, Result: result}
		if store != nil && step.SaveAs != "" {
			id, err := store.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

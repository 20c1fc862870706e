package experiment

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/fluidsim/internal/config"
)

func TestRegistrySources(t *testing.T) {
	r := NewRegistry()
	for _, kind := range []string{"point", "swirl", "jet", "random"} {
		e := config.EmitterConfig{Kind: kind, X: 5, Y: 5, Length: 3, Density: 1}
		src, err := r.GetSource(e, 32, 1)
		if err != nil {
			t.Errorf("%s: %v", kind, err)
			continue
		}
		if src.Name() != kind {
			t.Errorf("expected %s, got %s", kind, src.Name())
		}
	}

	if _, err := r.GetSource(config.EmitterConfig{Kind: "vortex"}, 32, 1); err == nil {
		t.Error("expected error for unknown emitter")
	}
	if _, err := r.GetSource(config.EmitterConfig{Kind: "jet", Length: 0}, 32, 1); err == nil {
		t.Error("expected error for empty jet")
	}
	if _, err := r.GetSource(config.EmitterConfig{Kind: "jet", Length: 2, Axis: "z"}, 32, 1); err == nil {
		t.Error("expected error for bad axis")
	}
}

func TestRegistryMetrics(t *testing.T) {
	r := NewRegistry()
	names := r.ListMetrics()
	if len(names) != len(r.DefaultMetrics()) {
		t.Errorf("metric count mismatch: %v", names)
	}
	if _, err := r.GetMetric("mass"); err != nil {
		t.Error(err)
	}
	if _, err := r.GetMetric("entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("smoke")
	cfg.Grid.Size = 32
	cfg.Emitters[0].X, cfg.Emitters[0].Y = 16, 4
	cfg.Run.Ticks = 20
	cfg.Run.SampleEvery = 5

	exp := New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Metrics["mass"] <= 0 {
		t.Errorf("expected positive mass, got %v", result.Metrics["mass"])
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("expected stable run, got %v", result.Metrics["stability"])
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(config.DefaultConfig(), nil)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error without setup")
	}
}

func TestExperimentBadEmitter(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Emitters = []config.EmitterConfig{{Kind: "geyser"}}
	err := New(cfg, nil).Setup()
	if err == nil || !strings.Contains(err.Error(), "emitter 0") {
		t.Errorf("expected emitter error, got %v", err)
	}
}

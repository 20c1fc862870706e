package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

func testResult(n int) *sim.Result {
	density := make([]float64, n*n)
	density[1+n*2] = 0.5
	return &sim.Result{
		Ticks: 2,
		Series: []sim.Sample{
			{Tick: 0, Stats: fluid.Stats{Mass: 1.0, MaxSpeed: 0.2}},
			{Tick: 1, Stats: fluid.Stats{Mass: 0.99, MaxSpeed: 0.3}},
		},
		Metrics: map[string]float64{"mass": 0.99},
		Final:   fluid.Stats{Mass: 0.99},
		Density: density,
		Errors:  []error{errors.New("tick 1: halted")},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Name = "test"
	cfg.Grid.Size = 4
	cfg.Run.Seed = 42

	runID, err := st.Save(cfg, testResult(4))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Size != 4 || meta.Ticks != 2 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["mass"] != 0.99 {
		t.Errorf("expected mass 0.99, got %f", meta.Metrics["mass"])
	}
	if len(meta.Errors) != 1 {
		t.Errorf("expected recorded error, got %v", meta.Errors)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series) != 2 || series[1].Tick != 1 || series[1].MaxSpeed != 0.3 {
		t.Errorf("unexpected series: %+v", series)
	}

	density, n, err := st.LoadDensity(runID)
	if err != nil {
		t.Fatalf("load density failed: %v", err)
	}
	if n != 4 || density[1+4*2] != 0.5 {
		t.Errorf("density not restored: n=%d field=%v", n, density)
	}
}

func TestStoreSaveTwiceDistinctIDs(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Grid.Size = 3

	a, err := st.Save(cfg, testResult(3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(cfg, testResult(3))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("expected distinct run ids, got %s twice", a)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/missing").List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestWriteSeries(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSeries(&buf, testResult(2).Series); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,mass") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestExportJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	res := testResult(2)
	meta := NewMetadata("x", cfg, res)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, res.Series, nil); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Samples != 2 || data.Meta.ID != "x" || data.Density != nil {
		t.Errorf("unexpected export: %+v", data)
	}
	if data.Series[0].Mass != 1.0 {
		t.Errorf("embedded stats not exported: %+v", data.Series[0])
	}
}

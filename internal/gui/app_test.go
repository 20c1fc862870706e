package gui

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

func newApp(t *testing.T, opts Options) *App {
	t.Helper()
	g := fluid.DefaultGrid()
	g.N = 32
	solver, err := fluid.New(g)
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewApp(sim.New(solver), opts)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewAppDefaults(t *testing.T) {
	a := newApp(t, Options{})
	if a.Size() != 32*6 {
		t.Errorf("expected window side %d, got %d", 32*6, a.Size())
	}
	if len(a.colors) != 256 {
		t.Errorf("expected 256 colors, got %d", len(a.colors))
	}
	if _, err := NewApp(nil, Options{}); err == nil {
		t.Error("expected error for nil simulator")
	}
}

func TestHandlePointerHeld(t *testing.T) {
	a := newApp(t, Options{Scale: 4})
	a.HandlePointer(40, 60, true)
	a.HandlePointer(48, 60, true)
	if !a.pointer.Down() {
		t.Fatal("expected pointer to be down while held")
	}
	a.HandlePointer(48, 60, false)
	if a.pointer.Down() {
		t.Error("expected release when the button is up")
	}

	a.Advance()
	if a.stats.Mass <= 0 {
		t.Errorf("expected injected mass, got %v", a.stats.Mass)
	}
	if len(a.telemetry) != 1 {
		t.Errorf("expected one telemetry sample, got %d", len(a.telemetry))
	}
}

func TestHandlePointerStillInjectsNothing(t *testing.T) {
	a := newApp(t, Options{Scale: 4})
	for range 3 {
		a.HandlePointer(40, 60, true)
	}
	a.Advance()
	if a.stats.Mass != 0 {
		t.Errorf("expected a still pointer to inject nothing, got mass %v", a.stats.Mass)
	}
}

func TestResetAndColormap(t *testing.T) {
	a := newApp(t, Options{Colormap: "inferno"})
	a.HandlePointer(30, 30, true)
	a.Advance()
	a.Reset()
	if a.solver.Mass() != 0 || a.tick != 0 || len(a.telemetry) != 0 {
		t.Errorf("expected a clean reset, mass=%v tick=%d", a.solver.Mass(), a.tick)
	}

	a.CycleColormap()
	if a.cmap.Name() != "magma" {
		t.Errorf("expected magma after inferno, got %s", a.cmap.Name())
	}
}

func TestRecording(t *testing.T) {
	dir := t.TempDir()
	a := newApp(t, Options{RecordDir: dir, Scale: 2})
	a.ToggleRecording()
	a.Advance()
	a.Advance()
	a.ToggleRecording()

	files, _ := filepath.Glob(filepath.Join(dir, "*.gif"))
	if len(files) != 1 {
		t.Fatalf("expected one gif, got %v", files)
	}
	if info, err := os.Stat(files[0]); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty gif, err=%v", err)
	}
}

func TestFadeFrameFollowsStep(t *testing.T) {
	a := newApp(t, Options{Fade: true})
	if err := a.solver.AddDensity(16, 16, 10); err != nil {
		t.Fatal(err)
	}
	a.Advance()
	stepped := a.solver.Mass()
	if a.stats.Mass != stepped {
		t.Errorf("expected telemetry to see the unfaded frame, got %v want %v", a.stats.Mass, stepped)
	}

	a.FadeFrame()
	faded := a.solver.Mass()
	if math.Abs(faded-0.99*stepped) > 1e-9*stepped {
		t.Errorf("expected mass %v after fade, got %v", 0.99*stepped, faded)
	}
	a.FadeFrame()
	if a.solver.Mass() != faded {
		t.Error("expected no fade on a frame without a step")
	}
}

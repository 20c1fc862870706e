package viz

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

func newModel(t *testing.T, n int, opts Options) Model {
	t.Helper()
	g := fluid.DefaultGrid()
	g.N = n
	solver, err := fluid.New(g)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewModel(sim.New(solver), opts)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNewModelDefaults(t *testing.T) {
	m := newModel(t, 32, Options{})
	if m.cmap.Name() != "white" || m.theme.Name != "dark" {
		t.Errorf("unexpected defaults: colormap=%s theme=%s", m.cmap.Name(), m.theme.Name)
	}
	if m.stride != 1 || m.cols != 32 || m.rows != 32 {
		t.Errorf("expected a 32-column field at stride 1, got stride=%d cols=%d", m.stride, m.cols)
	}
}

func TestNewModelErrors(t *testing.T) {
	if _, err := NewModel(nil, Options{}); err == nil {
		t.Error("expected error for nil simulator")
	}
	g := fluid.DefaultGrid()
	g.N = 16
	solver, _ := fluid.New(g)
	if _, err := NewModel(sim.New(solver), Options{Colormap: "sepia"}); err == nil {
		t.Error("expected error for unknown colormap")
	}
}

func TestLayoutStride(t *testing.T) {
	m := newModel(t, 128, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: panelWidth + 4 + 64, Height: 40})
	if m.stride != 2 || m.cols != 64 {
		t.Errorf("expected stride 2 for 64 columns, got stride=%d cols=%d", m.stride, m.cols)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 300, Height: 18})
	if m.stride != 4 {
		t.Errorf("expected height to force stride 4, got %d", m.stride)
	}
}

func TestTickAdvances(t *testing.T) {
	m := newModel(t, 32, Options{})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	if m.tick != 2 || m.solver.Steps() != 2 {
		t.Errorf("expected two steps, got tick=%d steps=%d", m.tick, m.solver.Steps())
	}
	if len(m.massHistory) != 2 {
		t.Errorf("expected two history samples, got %d", len(m.massHistory))
	}
}

func TestPauseStopsTicks(t *testing.T) {
	m := newModel(t, 32, Options{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.running {
		t.Fatal("expected space to pause")
	}
	m = update(t, m, TickMsg{})
	if m.solver.Steps() != 0 {
		t.Errorf("paused model stepped %d times", m.solver.Steps())
	}
}

func TestMouseDragInjects(t *testing.T) {
	m := newModel(t, 32, Options{})
	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 14, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 14, Y: 5, Action: tea.MouseActionRelease})
	if m.pointer.Down() {
		t.Error("expected release to end the drag")
	}
	m = update(t, m, TickMsg{})
	if m.stats.Mass <= 0 {
		t.Errorf("expected injected mass, got %v", m.stats.Mass)
	}
	if m.stats.MaxSpeed <= 0 {
		t.Errorf("expected a rightward drag to add velocity, got %v", m.stats.MaxSpeed)
	}
}

func TestMousePressAloneInjectsNothing(t *testing.T) {
	m := newModel(t, 32, Options{})
	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !m.pointer.Down() {
		t.Fatal("expected press to start a drag")
	}
	m = update(t, m, TickMsg{})
	if m.stats.Mass != 0 {
		t.Errorf("expected no injection before motion, got mass %v", m.stats.Mass)
	}
}

func TestMouseOutsideFieldIgnored(t *testing.T) {
	m := newModel(t, 32, Options{})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, TickMsg{})
	if m.stats.Mass != 0 {
		t.Errorf("expected no injection from the panel, got mass %v", m.stats.Mass)
	}
}

func TestKeysCycleAndReset(t *testing.T) {
	m := newModel(t, 32, Options{Colormap: "viridis", Theme: "ocean"})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.cmap.Name() == "viridis" {
		t.Error("expected c to change the colormap")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.theme.Name != "sunset" {
		t.Errorf("expected theme after ocean to be sunset, got %s", m.theme.Name)
	}

	if err := m.solver.AddDensity(16, 16, 10); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.solver.Mass() != 0 || m.tick != 0 || len(m.massHistory) != 0 {
		t.Errorf("expected reset to clear state, mass=%v tick=%d", m.solver.Mass(), m.tick)
	}
}

func TestFaultStopsModel(t *testing.T) {
	g := fluid.DefaultGrid()
	g.N = 16
	g.CheckHealth = true
	solver, _ := fluid.New(g)
	m, err := NewModel(sim.New(solver), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := solver.AddDensity(8, 8, math.NaN()); err != nil {
		t.Fatal(err)
	}

	m = update(t, m, TickMsg{})
	if m.err == nil || m.running {
		t.Fatalf("expected a fault to stop the model, err=%v running=%v", m.err, m.running)
	}
	if !strings.Contains(m.View(), "FAULT") {
		t.Error("expected FAULT in the view")
	}
	m = update(t, m, TickMsg{})
	if m.tick != 1 {
		t.Errorf("faulted model kept stepping, tick=%d", m.tick)
	}
}

func TestRecordGIF(t *testing.T) {
	dir := t.TempDir()
	m := newModel(t, 16, Options{RecordDir: dir})
	g := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}

	m = update(t, m, g)
	if !m.recording {
		t.Fatal("expected g to start recording")
	}
	for i := 0; i < 3; i++ {
		m = update(t, m, TickMsg{})
	}
	if m.recorder.Len() != 3 {
		t.Errorf("expected 3 frames, got %d", m.recorder.Len())
	}
	m = update(t, m, g)
	if m.recording {
		t.Fatal("expected second g to stop recording")
	}

	files, err := filepath.Glob(filepath.Join(dir, "fluid_*.gif"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one gif, got %v (%v)", files, err)
	}
	info, err := os.Stat(files[0])
	if err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty gif, err=%v", err)
	}
}

func TestViewContents(t *testing.T) {
	m := newModel(t, 16, Options{Name: "smoke"})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	view := m.View()
	for _, want := range []string{"SMOKE", "RUNNING", "Mass", "Tick", "▀"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !strings.Contains(m.View(), "next colormap") {
		t.Error("expected help text")
	}
}

func TestDownsample(t *testing.T) {
	n := 4
	d := make([]float64, n*n)
	d[0], d[1], d[n], d[n+1] = 1, 1, 1, 1
	d[2+n*2] = 4

	out := downsample(d, n, 2, 2, 2)
	if out[0] != 1 || out[1] != 0 || out[3] != 1 {
		t.Errorf("unexpected blocks %v", out)
	}
}

func TestSparklineWidth(t *testing.T) {
	s := NewStyles(ThemeMinimal)
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}
	line := s.Sparkline(values, 20)
	if got := strings.Count(line, "▁") + strings.Count(line, "▂") + strings.Count(line, "▃") +
		strings.Count(line, "▄") + strings.Count(line, "▅") + strings.Count(line, "▆") +
		strings.Count(line, "▇") + strings.Count(line, "█"); got != 20 {
		t.Errorf("expected 20 bars, got %d", got)
	}
}

func TestNextTheme(t *testing.T) {
	names := ThemeNames()
	last := names[len(names)-1]
	if NextTheme(last).Name != names[0] {
		t.Error("expected NextTheme to wrap")
	}
	if GetTheme("unknown").Name != "dark" {
		t.Error("expected dark fallback")
	}
}

// Package gui is the windowed front-end. It draws the density field as
// scale×scale quads with raylib and feeds mouse drags into the solver.
package gui

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/input"
	"github.com/san-kum/fluidsim/internal/render"
	"github.com/san-kum/fluidsim/internal/sim"
)

const telemetryCapacity = 200

var (
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(110, 110, 110, 255)
	ColPanel   = rl.NewColor(10, 10, 10, 160)
	ColAccent  = rl.NewColor(0, 204, 255, 255)
	ColFault   = rl.NewColor(255, 68, 68, 255)
)

// Options configures a window session.
type Options struct {
	Title              string
	Colormap           string
	Scale              int
	FPS                int
	Fade               bool
	DensityAmount      float64
	VelocityMultiplier float64
	RecordDir          string
}

// App owns the simulator for the lifetime of the window. Update and Draw
// run on the window thread.
type App struct {
	sim     *sim.Simulator
	solver  *fluid.Solver
	opts    Options
	pointer *input.Pointer

	cmap    render.Colormap
	colors  []rl.Color
	scratch []float64

	Running   bool
	tick      int
	stats     fluid.Stats
	telemetry []float64

	stepped   bool
	recorder  *render.Recorder
	recording bool
	notice    string
	err       error
	quit      bool
}

func NewApp(s *sim.Simulator, opts Options) (*App, error) {
	if s == nil || s.Solver() == nil {
		return nil, sim.ErrNoSolver
	}
	if opts.Title == "" {
		opts.Title = "fluidsim"
	}
	if opts.Colormap == "" {
		opts.Colormap = "white"
	}
	if opts.Scale < 1 {
		opts.Scale = 6
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.RecordDir == "" {
		opts.RecordDir = "."
	}
	cmap, err := render.Lookup(opts.Colormap)
	if err != nil {
		return nil, err
	}

	solver := s.Solver()
	n := solver.Grid().N
	a := &App{
		sim:       s,
		solver:    solver,
		opts:      opts,
		pointer:   input.NewPointer(solver, n, opts.Scale, n*opts.Scale),
		scratch:   solver.Grid().NewField(),
		Running:   true,
		telemetry: make([]float64, 0, telemetryCapacity),
	}
	if opts.DensityAmount != 0 {
		a.pointer.DensityAmount = opts.DensityAmount
	}
	if opts.VelocityMultiplier != 0 {
		a.pointer.VelocityMultiplier = opts.VelocityMultiplier
	}
	a.setColormap(cmap)
	return a, nil
}

// Run opens a window sized to the grid and blocks until it is closed.
func Run(s *sim.Simulator, opts Options) error {
	a, err := NewApp(s, opts)
	if err != nil {
		return err
	}
	size := a.Size()
	rl.InitWindow(size, size, a.opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.opts.FPS))
	rl.SetExitKey(0)

	a.RunLoop()
	return a.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
		a.FadeFrame()
	}
}

// Size is the window side in pixels.
func (a *App) Size() int32 {
	return int32(a.solver.Grid().N * a.opts.Scale)
}

func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ), rl.IsKeyPressed(rl.KeyEscape):
		a.quit = true
		return
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Reset()
	case rl.IsKeyPressed(rl.KeyC):
		a.CycleColormap()
	case rl.IsKeyPressed(rl.KeyG):
		a.ToggleRecording()
	}

	mouse := rl.GetMousePosition()
	a.HandlePointer(int(mouse.X), int(mouse.Y), rl.IsMouseButtonDown(rl.MouseButtonLeft))

	if a.Running && a.err == nil {
		a.Advance()
	}
}

// HandlePointer feeds the mouse state for one frame. Pressing records
// the position; injection happens only while the held pointer moves.
func (a *App) HandlePointer(x, y int, down bool) {
	if !down {
		if a.pointer.Down() {
			a.pointer.Release()
		}
		return
	}
	if !a.pointer.Down() {
		a.pointer.Press(x, y)
		return
	}
	if err := a.pointer.Move(x, y); err != nil {
		a.notice = err.Error()
	}
}

// Advance steps the simulator once and records telemetry. Fading is left
// to FadeFrame so the drawn frame is the stepped one.
func (a *App) Advance() {
	a.stepped = true
	if err := a.sim.Advance(a.tick, false); err != nil {
		a.err = err
		a.Running = false
		slog.Warn("simulation stopped", "tick", a.tick, "error", err)
	}
	a.tick++

	a.stats = a.solver.Stats(a.scratch)
	a.telemetry = append(a.telemetry, a.stats.Mass)
	if len(a.telemetry) > telemetryCapacity {
		a.telemetry = a.telemetry[1:]
	}
	if a.recording {
		a.recorder.Capture(a.solver.Density(), a.solver.Grid().N)
	}
}

// FadeFrame fades density after a frame that stepped.
func (a *App) FadeFrame() {
	if a.stepped && a.opts.Fade && a.err == nil {
		a.solver.Fade()
	}
	a.stepped = false
}

func (a *App) Reset() {
	a.solver.Reset()
	a.tick = 0
	a.err = nil
	a.stats = fluid.Stats{}
	a.telemetry = a.telemetry[:0]
	a.notice = ""
}

func (a *App) CycleColormap() {
	cmap, err := render.Lookup(render.Next(a.cmap.Name()))
	if err != nil {
		a.notice = err.Error()
		return
	}
	a.setColormap(cmap)
}

func (a *App) setColormap(cmap render.Colormap) {
	a.cmap = cmap
	pal := cmap.Palette()
	a.colors = make([]rl.Color, len(pal))
	for i, c := range pal {
		a.colors[i] = rlColor(c)
	}
	if !a.recording {
		a.recorder = render.NewRecorder(cmap, a.opts.Scale, 1)
	}
}

func (a *App) ToggleRecording() {
	if !a.recording {
		a.recording = true
		a.recorder.Reset()
		a.notice = "recording"
		return
	}
	a.recording = false
	if a.recorder.Len() == 0 {
		a.notice = "no frames captured"
		return
	}
	path := filepath.Join(a.opts.RecordDir, fmt.Sprintf("fluid_%s.gif", time.Now().Format("20060102_150405")))
	if err := a.writeGIF(path); err != nil {
		a.notice = "gif: " + err.Error()
		return
	}
	a.recorder.Reset()
	a.notice = "saved " + path
}

func (a *App) writeGIF(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.recorder.Encode(f)
}

func rlColor(c color.Color) rl.Color {
	r, g, b, al := c.RGBA()
	return rl.NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(al>>8))
}

package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/input"
	"github.com/san-kum/fluidsim/internal/render"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	panelWidth      = 42
	historyCapacity = 600
	defaultCols     = 64
	defaultRows     = 32
	headerRows      = 1
)

type TickMsg time.Time

// Options configures a live session.
type Options struct {
	Name               string
	Colormap           string
	Theme              string
	FPS                int
	Fade               bool
	DensityAmount      float64
	VelocityMultiplier float64
	// RecordDir is where G writes GIF recordings.
	RecordDir string
}

// Model drives a simulator from the bubbletea event loop and draws the
// density field with half-block characters, two grid rows per line.
// Every solver call happens on the event loop goroutine.
type Model struct {
	sim     *sim.Simulator
	solver  *fluid.Solver
	opts    Options
	pointer *input.Pointer

	// stride is the number of grid cells averaged into one column.
	stride int
	cols   int
	rows   int

	cmap    render.Colormap
	colors  []lipgloss.Color
	theme   Theme
	styles  Styles
	scratch []float64

	tick          int
	running       bool
	stats         fluid.Stats
	massHistory   []float64
	energyHistory []float64

	recorder  *render.Recorder
	recording bool
	notice    string
	err       error
	showHelp  bool
}

// NewModel prepares a live view over s. Unset options take the
// package defaults.
func NewModel(s *sim.Simulator, opts Options) (Model, error) {
	if s == nil || s.Solver() == nil {
		return Model{}, sim.ErrNoSolver
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Colormap == "" {
		opts.Colormap = "white"
	}
	if opts.DensityAmount == 0 {
		opts.DensityAmount = input.DefaultDensityAmount
	}
	if opts.VelocityMultiplier == 0 {
		opts.VelocityMultiplier = input.DefaultVelocityMultiplier
	}
	if opts.RecordDir == "" {
		opts.RecordDir = "."
	}

	cmap, err := render.Lookup(opts.Colormap)
	if err != nil {
		return Model{}, err
	}

	solver := s.Solver()
	m := Model{
		sim:           s,
		solver:        solver,
		opts:          opts,
		theme:         GetTheme(opts.Theme),
		scratch:       solver.Grid().NewField(),
		running:       true,
		massHistory:   make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.styles = NewStyles(m.theme)
	m.setColormap(cmap)
	m.layout(panelWidth+defaultCols+4, defaultRows+headerRows+1)
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.nextTick()
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "c":
			cmap, err := render.Lookup(render.Next(m.cmap.Name()))
			if err == nil {
				m.setColormap(cmap)
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, m.nextTick()
	}
	return m, nil
}

// layout fits the field into a terminal of the given size.
func (m *Model) layout(width, height int) {
	n := m.solver.Grid().N
	cols := max(width-panelWidth-4, 8)
	lines := max(height-headerRows-1, 4)

	stride := max(ceilDiv(n, cols), ceilDiv(n, 2*lines), 1)
	m.stride = stride
	m.cols = n / stride
	m.rows = n / stride

	m.pointer = input.NewPointer(m.solver, n, 1, m.rows*stride)
	m.pointer.DensityAmount = m.opts.DensityAmount
	m.pointer.VelocityMultiplier = m.opts.VelocityMultiplier
}

func (m *Model) setColormap(cmap render.Colormap) {
	m.cmap = cmap
	pal := cmap.Palette()
	m.colors = make([]lipgloss.Color, len(pal))
	for i, c := range pal {
		m.colors[i] = hexColor(c)
	}
	// A recording keeps the colormap it started with.
	if !m.recording {
		m.recorder = render.NewRecorder(cmap, 4, 1)
	}
}

// mouse maps a terminal cell onto grid pixels: one column is stride
// cells wide and one line is two rows of stride cells.
func (m *Model) mouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return
	}
	x := msg.X*m.stride + m.stride/2
	y := (msg.Y-headerRows)*2*m.stride + m.stride
	if msg.X >= m.cols || msg.Y < headerRows {
		m.pointer.Release()
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.pointer.Press(x, y)
	case tea.MouseActionMotion:
		if m.pointer.Down() {
			m.inject(x, y)
		}
	case tea.MouseActionRelease:
		m.pointer.Release()
	}
}

func (m *Model) inject(x, y int) {
	if err := m.pointer.Drag(x, y); err != nil {
		m.notice = err.Error()
	}
}

func (m *Model) step() {
	if err := m.sim.Advance(m.tick, m.opts.Fade); err != nil {
		m.err = err
		m.running = false
	}
	m.tick++

	m.stats = m.solver.Stats(m.scratch)
	m.massHistory = appendCapped(m.massHistory, m.stats.Mass)
	m.energyHistory = appendCapped(m.energyHistory, m.stats.KineticEnergy)

	if m.recording {
		m.recorder.Capture(m.solver.Density(), m.solver.Grid().N)
	}
}

func (m *Model) reset() {
	m.solver.Reset()
	m.tick = 0
	m.err = nil
	m.stats = fluid.Stats{}
	m.massHistory = m.massHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.notice = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorder.Reset()
		m.notice = ""
		return
	}
	m.recording = false
	path, err := m.saveGIF()
	if err != nil {
		m.notice = "gif: " + err.Error()
		return
	}
	m.notice = "saved " + path
}

func (m *Model) saveGIF() (string, error) {
	if m.recorder.Len() == 0 {
		return "", fmt.Errorf("no frames captured")
	}
	name := fmt.Sprintf("fluid_%s.gif", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.opts.RecordDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := m.recorder.Encode(f); err != nil {
		return "", err
	}
	m.recorder.Reset()
	return path, nil
}

// View renders the field next to the stats panel.
func (m Model) View() string {
	title := m.opts.Name
	if title == "" {
		title = "fluid"
	}
	header := m.styles.Title.Render(strings.ToUpper(title)) + "  " + m.status()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.field(), " ", m.panel())
	view := header + "\n" + body
	if m.showHelp {
		view += "\n" + m.help()
	}
	return view
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.StatusFault.Render("FAULT")
	case m.recording:
		return m.styles.StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	case !m.running:
		return m.styles.StatusPaused.Render("PAUSED")
	}
	return m.styles.StatusRunning.Render("RUNNING")
}

// field draws the density with the upper row of each pair as the
// foreground of '▀' and the lower row as its background.
func (m Model) field() string {
	density := m.solver.Density()
	n := m.solver.Grid().N
	blocks := downsample(density, n, m.stride, m.cols, m.rows)

	var b strings.Builder
	for line := 0; line < ceilDiv(m.rows, 2); line++ {
		upper := m.rows - 1 - 2*line
		lower := upper - 1
		for col := 0; col < m.cols; col++ {
			fg := m.colors[render.Level(blocks[col+m.cols*upper])]
			bg := m.colors[0]
			if lower >= 0 {
				bg = m.colors[render.Level(blocks[col+m.cols*lower])]
			}
			b.WriteString(lipgloss.NewStyle().Foreground(fg).Background(bg).Render("▀"))
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) panel() string {
	s := m.styles
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(s.MetricLabel.Render(label) + s.MetricValue.Render(value) + "\n")
	}
	g := m.solver.Grid()
	row("Grid", fmt.Sprintf("%d×%d", g.N, g.N))
	row("Tick", fmt.Sprintf("%d", m.tick))
	row("Mass", fmt.Sprintf("%.4f", m.stats.Mass))
	row("Max dens", fmt.Sprintf("%.4f", m.stats.MaxDensity))
	row("Kinetic", fmt.Sprintf("%.4g", m.stats.KineticEnergy))
	row("Max speed", fmt.Sprintf("%.4g", m.stats.MaxSpeed))
	row("Max div", fmt.Sprintf("%.2e", m.stats.MaxDivergence))
	row("Colormap", m.cmap.Name())
	row("Theme", m.theme.Name)
	b.WriteString(s.Separator(panelWidth-4) + "\n")

	if len(m.massHistory) > 1 {
		b.WriteString(asciigraph.Plot(lastN(m.massHistory, panelWidth-18),
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-18),
			asciigraph.Caption("mass")) + "\n")
	}
	b.WriteString(s.MetricLabel.Render("Energy") + s.Sparkline(m.energyHistory, panelWidth-16) + "\n")
	if m.stats.MaxDensity > 0 {
		b.WriteString(s.MetricLabel.Render("Peak") + s.ProgressBar(min(m.stats.MaxDensity, 1), panelWidth-16) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + s.StatusFault.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString("\n" + s.Subtle.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + s.KeyHint.Render("drag:inject SP:pause R:reset\nC:colormap T:theme G:gif ?:help Q:quit"))
	return s.Panel.Render(b.String())
}

func (m Model) help() string {
	lines := []string{
		"mouse drag  inject density and velocity",
		"space       pause or resume",
		"r           clear all fields",
		"c           next colormap",
		"t           next theme",
		"g           start or stop GIF recording",
		"?           toggle this help",
		"q           quit",
	}
	return m.styles.Panel.Render(m.styles.Subtle.Render(strings.Join(lines, "\n")))
}

// downsample averages stride×stride blocks into a cols×rows field.
func downsample(density []float64, n, stride, cols, rows int) []float64 {
	out := make([]float64, cols*rows)
	if stride == 1 {
		for j := 0; j < rows; j++ {
			copy(out[j*cols:(j+1)*cols], density[j*n:j*n+cols])
		}
		return out
	}
	inv := 1 / float64(stride*stride)
	for bj := 0; bj < rows; bj++ {
		for bi := 0; bi < cols; bi++ {
			sum := 0.0
			for y := bj * stride; y < (bj+1)*stride; y++ {
				for x := bi * stride; x < (bi+1)*stride; x++ {
					sum += density[x+n*y]
				}
			}
			out[bi+cols*bj] = sum * inv
		}
	}
	return out
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func lastN(v []float64, n int) []float64 {
	if len(v) > n {
		return v[len(v)-n:]
	}
	return v
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Run starts the live view and blocks until the user quits.
func Run(s *sim.Simulator, opts Options) error {
	m, err := NewModel(s, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string

	size        int
	dt          float64
	diffusion   float64
	viscosity   float64
	ticks       int
	seed        int64
	sweepOrder  string
	injection   string
	workers     int
	checkHealth bool
	noFade      bool
	colormap    string
	scale       int
	frameRate   int

	gifPath   string
	renderOut string
	svgOut    string
	gifEvery  int
	plotField string
	svgField  string
	svgKind   string
	withGrid  bool

	sweepParams []string
	metricName  string
	maximize    bool
	trials      int
	jitter      int
	benchTicks  int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "fluidsim",
		Short:             "2d stable fluids simulator",
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setupLogging() },
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addGridFlags(runCmd)
	runCmd.Flags().StringVar(&gifPath, "gif", "", "also record the run to this GIF")
	runCmd.Flags().IntVar(&gifEvery, "gif-every", 2, "ticks between GIF frames")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addGridFlags(liveCmd)
	addRenderFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addGridFlags(guiCmd)
	addRenderFlags(guiCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a headless run to GIF or PNG",
		Args:  cobra.NoArgs,
		RunE:  renderRun,
	}
	addGridFlags(renderCmd)
	addRenderFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "fluid.gif", "output file (.gif or .png)")
	renderCmd.Flags().IntVar(&gifEvery, "every", 2, "ticks between GIF frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's time series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "", "series to plot (default: all)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "decay, frequency and spread analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().BoolVar(&withGrid, "density", false, "include the final density field")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final field or a series as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "field", "what to draw (field, series)")
	exportSVGCmd.Flags().StringVar(&svgField, "field", "mass", "series for --kind series")
	exportSVGCmd.Flags().StringVar(&colormap, "colormap", config.DefaultColormap, "colormap for --kind field")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addGridFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter range, e.g. diffusion=0,0.0001,0.001 (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "max_divergence", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "jitter emitter positions and count stable runs",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addGridFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().IntVar(&jitter, "jitter", 4, "maximum emitter offset in cells")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark solver throughput",
		Args:  cobra.NoArgs,
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 100, "ticks per measurement")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "red-black workers (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, renderCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, scenarioCmd, sweepCmd, monteCarloCmd, benchCmd)
	return rootCmd
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&size, "size", fluid.DefaultSize, "grid side including the boundary ring")
	cmd.Flags().Float64Var(&dt, "dt", fluid.DefaultDt, "time step")
	cmd.Flags().Float64Var(&diffusion, "diffusion", fluid.DefaultDiffusion, "density diffusion")
	cmd.Flags().Float64Var(&viscosity, "viscosity", fluid.DefaultViscosity, "velocity viscosity")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&sweepOrder, "sweep", fluid.Lexicographic.String(), "relaxation order (lexicographic, red-black)")
	cmd.Flags().StringVar(&injection, "injection", fluid.Staged.String(), "impulse mode (staged, direct)")
	cmd.Flags().IntVar(&workers, "workers", 0, "red-black workers (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&checkHealth, "check-health", false, "stop on NaN or Inf")
	cmd.Flags().BoolVar(&noFade, "no-fade", false, "disable density fade")
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&colormap, "colormap", config.DefaultColormap, "density colormap")
	cmd.Flags().IntVar(&scale, "scale", config.DefaultScale, "pixels per cell")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
}

func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	fluid.SetLogger(logger)
	return nil
}

// loadConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Resize(size)
	}
	if flags.Changed("dt") {
		cfg.Grid.Dt = dt
	}
	if flags.Changed("diffusion") {
		cfg.Grid.Diffusion = diffusion
	}
	if flags.Changed("viscosity") {
		cfg.Grid.Viscosity = viscosity
	}
	if flags.Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if flags.Changed("seed") || cfg.Run.Seed == 0 {
		cfg.Run.Seed = seed
	}
	if flags.Changed("sweep") {
		cfg.Grid.Sweep = sweepOrder
	}
	if flags.Changed("injection") {
		cfg.Grid.Injection = injection
	}
	if flags.Changed("workers") {
		cfg.Grid.Workers = workers
	}
	if flags.Changed("check-health") {
		cfg.Grid.CheckHealth = checkHealth
	}
	if flags.Changed("no-fade") {
		cfg.Run.Fade = !noFade
	}
	if flags.Changed("colormap") {
		cfg.Render.Colormap = colormap
	}
	if flags.Changed("scale") {
		cfg.Render.Scale = scale
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

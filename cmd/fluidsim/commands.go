package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/analysis"
	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/gui"
	"github.com/san-kum/fluidsim/internal/optim"
	"github.com/san-kum/fluidsim/internal/render"
	"github.com/san-kum/fluidsim/internal/scenario"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
	"github.com/san-kum/fluidsim/internal/viz"
)

var seriesFields = []string{"mass", "min_density", "max_density", "kinetic_energy", "max_speed", "max_divergence"}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func setupExperiment(cmd *cobra.Command) (*config.Config, *experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return buildExperiment(cfg)
}

// setupInteractive starts from an empty tank unless a preset or config
// file asked for emitters.
func setupInteractive(cmd *cobra.Command) (*config.Config, *experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if preset == "" && configFile == "" {
		cfg.Emitters = nil
	}
	return buildExperiment(cfg)
}

func buildExperiment(cfg *config.Config) (*config.Config, *experiment.Experiment, error) {
	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return nil, nil, err
	}
	return cfg, exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}

	var rec *render.Recorder
	if gifPath != "" {
		cmap, err := render.Lookup(cfg.Render.Colormap)
		if err != nil {
			return err
		}
		rec = render.NewRecorder(cmap, cfg.Render.Scale, gifEvery)
		exp.GetSimulator().AddObserver(rec)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	slog.Info("run started", "name", cfg.Name, "size", cfg.Grid.Size, "ticks", cfg.Run.Ticks, "emitters", len(cfg.Emitters))
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	slog.Info("run saved", "id", runID, "elapsed", elapsed)

	if rec != nil {
		if err := writeFile(gifPath, rec.Encode); err != nil {
			return err
		}
		fmt.Printf("gif: %s (%d frames)\n", gifPath, rec.Len())
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setupInteractive(cmd)
	if err != nil {
		return err
	}
	// The terminal belongs to the TUI.
	fluid.SetLogger(nil)
	return viz.Run(exp.GetSimulator(), viz.Options{
		Name:               cfg.Name,
		Colormap:           cfg.Render.Colormap,
		Theme:              cfg.Render.Theme,
		FPS:                cfg.Render.FPS,
		Fade:               cfg.Run.Fade,
		DensityAmount:      cfg.Input.DensityAmount,
		VelocityMultiplier: cfg.Input.VelocityMultiplier,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setupInteractive(cmd)
	if err != nil {
		return err
	}
	title := "fluidsim"
	if cfg.Name != "" {
		title += " :: " + cfg.Name
	}
	return gui.Run(exp.GetSimulator(), gui.Options{
		Title:              title,
		Colormap:           cfg.Render.Colormap,
		Scale:              cfg.Render.Scale,
		FPS:                cfg.Render.FPS,
		Fade:               cfg.Run.Fade,
		DensityAmount:      cfg.Input.DensityAmount,
		VelocityMultiplier: cfg.Input.VelocityMultiplier,
	})
}

func renderRun(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}
	cmap, err := render.Lookup(cfg.Render.Colormap)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(renderOut))
	var rec *render.Recorder
	switch ext {
	case ".gif":
		rec = render.NewRecorder(cmap, cfg.Render.Scale, gifEvery)
		exp.GetSimulator().AddObserver(rec)
	case ".png":
	default:
		return fmt.Errorf("unsupported output format %q (use .gif or .png)", ext)
	}

	ctx, cancel := signalContext()
	defer cancel()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	if rec != nil {
		err = writeFile(renderOut, rec.Encode)
	} else {
		err = writeFile(renderOut, func(w io.Writer) error {
			return render.WritePNG(w, result.Density, cfg.Grid.Size, cmap, cfg.Render.Scale)
		})
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", renderOut)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSIZE\tTICKS\tDT\tMASS\tERRORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%.4f\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			run.Ticks,
			run.Dt,
			run.Final.Mass,
			len(run.Errors),
		)
	}
	return w.Flush()
}

// seriesValues extracts one named column of a sample series.
func seriesValues(series []sim.Sample, name string) ([]float64, error) {
	var get func(fluid.Stats) float64
	switch name {
	case "mass":
		get = func(s fluid.Stats) float64 { return s.Mass }
	case "min_density":
		get = func(s fluid.Stats) float64 { return s.MinDensity }
	case "max_density":
		get = func(s fluid.Stats) float64 { return s.MaxDensity }
	case "kinetic_energy":
		get = func(s fluid.Stats) float64 { return s.KineticEnergy }
	case "max_speed":
		get = func(s fluid.Stats) float64 { return s.MaxSpeed }
	case "max_divergence":
		get = func(s fluid.Stats) float64 { return s.MaxDivergence }
	default:
		return nil, fmt.Errorf("unknown series %q (available: %v)", name, seriesFields)
	}
	out := make([]float64, len(series))
	for i, s := range series {
		out[i] = get(s.Stats)
	}
	return out, nil
}

// sampleInterval is the tick spacing of a series.
func sampleInterval(series []sim.Sample) int {
	if len(series) < 2 || series[1].Tick <= series[0].Tick {
		return 1
	}
	return series[1].Tick - series[0].Tick
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series))

	names := seriesFields
	if plotField != "" {
		names = []string{plotField}
	}
	for _, name := range names {
		data, err := seriesValues(series, name)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	density, n, err := st.LoadDensity(args[0])
	if err != nil {
		return err
	}

	interval := sampleInterval(series)
	mass, _ := seriesValues(series, "mass")
	energy, _ := seriesValues(series, "kinetic_energy")

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Name)

	if rate, err := analysis.DecayRate(mass, interval); err == nil {
		fmt.Printf("mass decay rate: %.6f per tick\n", rate)
	} else {
		fmt.Printf("mass decay rate: %v\n", err)
	}
	if freq, period, err := analysis.DominantFrequency(energy, interval); err == nil {
		fmt.Printf("kinetic energy: dominant frequency %.6f per tick (period %.1f ticks)\n", freq, period)
	} else {
		fmt.Printf("kinetic energy: %v\n", err)
	}
	if x, y, ok := analysis.Centroid(density, n); ok {
		fmt.Printf("density centroid: (%.2f, %.2f)\n", x, y)
		fmt.Printf("density spread: %.2f cells\n", analysis.Spread(density, n))
	} else {
		fmt.Println("density centroid: empty field")
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSeries(os.Stdout, series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	var density []float64
	if withGrid {
		if density, _, err = st.LoadDensity(args[0]); err != nil {
			return err
		}
	}
	return storage.ExportJSON(os.Stdout, *meta, series, density)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var svg string
	switch svgKind {
	case "field":
		density, n, err := st.LoadDensity(args[0])
		if err != nil {
			return err
		}
		cmap, err := render.Lookup(colormap)
		if err != nil {
			return err
		}
		svg = export.FieldToSVG(density, n, cmap, 4)
	case "series":
		series, err := st.LoadSeries(args[0])
		if err != nil {
			return err
		}
		data, err := seriesValues(series, svgField)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(data, 800, 300, "#00ccff")
		if svg == "" {
			return fmt.Errorf("series %s has fewer than two samples", svgField)
		}
	default:
		return fmt.Errorf("unknown svg kind %q (use field or series)", svgKind)
	}

	if svgOut == "" {
		_, err := io.WriteString(os.Stdout, svg)
		return err
	}
	return os.WriteFile(svgOut, []byte(svg), 0o644)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tDIFFUSION\tVISCOSITY\tTICKS\tEMITTERS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\t%d\n",
			name, p.Grid.Size, p.Grid.Diffusion, p.Grid.Viscosity, p.Run.Ticks, len(p.Emitters))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := scenario.RunScenario(ctx, sc, experiment.NewRegistry(), st)
	for _, r := range results {
		line := fmt.Sprintf("%-20s ticks=%d mass=%.4f", r.Step, r.Result.Ticks, r.Result.Final.Mass)
		if r.RunID != "" {
			line += " saved=" + r.RunID
		}
		fmt.Println(line)
	}
	return err
}

// parseParamRanges reads "name=v1,v2,..." specs.
func parseParamRanges(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid parameter range %q (want name=v1,v2)", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parameter %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (tunable: %v)", config.Tunables())
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseParamRanges(sweepParams)
	if err != nil {
		return err
	}

	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize

	ctx, cancel := signalContext()
	defer cancel()
	slog.Info("sweep started", "params", names, "metric", metricName)
	best, value, results, err := gs.Search(ctx, cfg, experiment.NewRegistry(), metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, tr := range results {
		cols := make([]string, len(names))
		for i, name := range names {
			cols[i] = strconv.FormatFloat(tr.Params[name], 'g', -1, 64)
		}
		val := strconv.FormatFloat(tr.Value, 'g', 6, 64)
		if tr.Err != nil {
			val = "error: " + tr.Err.Error()
		}
		fmt.Fprintln(w, strings.Join(cols, "\t")+"\t"+val)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6g at %v\n", metricName, value, best)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Emitters) == 0 {
		return fmt.Errorf("montecarlo needs a preset or config with emitters")
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := scenario.RunMonteCarlo(ctx, &scenario.MonteCarloConfig{
		Base:      cfg,
		Jitter:    jitter,
		NumTrials: trials,
		Seed:      cfg.Run.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tMASS\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%v\n", r.TrialID, r.Mass, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := scenario.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	sizes := []int{64, 128, 256}
	orders := []fluid.Ordering{fluid.Lexicographic, fluid.RedBlack}

	fmt.Printf("benchmarking %d ticks per run\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tSWEEP\tTIME\tTICKS/SEC")

	for _, n := range sizes {
		for _, order := range orders {
			g := fluid.DefaultGrid()
			g.N = n
			g.Sweep = order
			g.Workers = workers
			s, err := fluid.New(g)
			if err != nil {
				return err
			}
			if err := s.AddDensity(n/2, n/2, 100); err != nil {
				return err
			}
			if err := s.AddVelocity(n/2, n/2, 5, 5); err != nil {
				return err
			}

			start := time.Now()
			for range benchTicks {
				s.Tick()
			}
			elapsed := time.Since(start)
			fmt.Fprintf(w, "%d\t%s\t%v\t%.1f\n", n, order, elapsed.Round(time.Millisecond), float64(benchTicks)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

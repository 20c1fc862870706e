package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	densityFile  = "density.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Size      int                `json:"size"`
	Dt        float64            `json:"dt"`
	Diffusion float64            `json:"diffusion"`
	Viscosity float64            `json:"viscosity"`
	Fade      float64            `json:"fade"`
	Sweep     string             `json:"sweep"`
	Injection string             `json:"injection"`
	Ticks     int                `json:"ticks"`
	Emitters  int                `json:"emitters"`
	Metrics   map[string]float64 `json:"metrics"`
	Final     fluid.Stats        `json:"final"`
	Errors    []string           `json:"errors,omitempty"`
}

// DensityCell is one row of density.csv.
type DensityCell struct {
	X       int     `csv:"x"`
	Y       int     `csv:"y"`
	Density float64 `csv:"density"`
}

func NewMetadata(id string, cfg *config.Config, result *sim.Result) RunMetadata {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	meta := RunMetadata{
		ID:        id,
		Name:      name,
		Timestamp: time.Now(),
		Seed:      cfg.Run.Seed,
		Size:      cfg.Grid.Size,
		Dt:        cfg.Grid.Dt,
		Diffusion: cfg.Grid.Diffusion,
		Viscosity: cfg.Grid.Viscosity,
		Fade:      cfg.Grid.Fade,
		Sweep:     cfg.Grid.Sweep,
		Injection: cfg.Grid.Injection,
		Ticks:     result.Ticks,
		Emitters:  len(cfg.Emitters),
		Metrics:   result.Metrics,
		Final:     result.Final,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	return meta
}

// Save writes a run directory holding metadata.json, series.csv and
// density.csv, and returns the run ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; ; i++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", name, time.Now().UnixMilli(), i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := NewMetadata(runID, cfg, result)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, seriesFile), &result.Series); err != nil {
		return "", err
	}

	cells := DensityCells(result.Density, cfg.Grid.Size)
	if err := writeCSV(filepath.Join(runDir, densityFile), &cells); err != nil {
		return "", err
	}

	return runID, nil
}

// DensityCells flattens an n×n field into rows.
func DensityCells(density []float64, n int) []DensityCell {
	cells := make([]DensityCell, 0, len(density))
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			cells = append(cells, DensityCell{X: i, Y: j, Density: density[i+n*j]})
		}
	}
	return cells
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	var series []sim.Sample
	if err := readCSV(filepath.Join(s.baseDir, runID, seriesFile), &series); err != nil {
		return nil, err
	}
	return series, nil
}

// LoadDensity rebuilds the final density field of a run.
func (s *Store) LoadDensity(runID string) ([]float64, int, error) {
	var cells []DensityCell
	if err := readCSV(filepath.Join(s.baseDir, runID, densityFile), &cells); err != nil {
		return nil, 0, err
	}

	n := 0
	for _, c := range cells {
		n = max(n, c.X+1, c.Y+1)
	}
	field := make([]float64, n*n)
	for _, c := range cells {
		field[c.X+n*c.Y] = c.Density
	}
	return field, n, nil
}

// WriteSeries writes a series as CSV with a header row.
func WriteSeries(w io.Writer, series []sim.Sample) error {
	return gocsv.Marshal(&series, w)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(rows, f)
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}

package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fluidsim/internal/sim"
)

type ExportData struct {
	Meta    RunMetadata  `json:"meta"`
	Samples int          `json:"samples"`
	Series  []sim.Sample `json:"series"`
	Density []float64    `json:"density,omitempty"`
}

// ExportJSON writes metadata, series and optionally the final density
// field as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, series []sim.Sample, density []float64) error {
	data := ExportData{
		Meta:    meta,
		Samples: len(series),
		Series:  series,
		Density: density,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

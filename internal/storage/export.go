package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/episweep/internal/sweep"
)

type ExportData struct {
	Model        string             `json:"model"`
	Integrator   string             `json:"integrator"`
	Compartments []string           `json:"compartments"`
	Betas        []float64          `json:"betas"`
	Times        []float64          `json:"times"`
	States       [][][]float64      `json:"states"` // [beta][sample][compartment]
	Metrics      map[string]float64 `json:"metrics"`
}

func buildExportData(meta *RunMetadata, table *sweep.Table) ExportData {
	states := make([][][]float64, len(table.States))
	for g, traj := range table.States {
		states[g] = make([][]float64, len(traj))
		for i, x := range traj {
			states[g][i] = x
		}
	}
	return ExportData{
		Model:        meta.Model,
		Integrator:   meta.Integrator,
		Compartments: table.Compartments,
		Betas:        table.Betas,
		Times:        table.Times,
		States:       states,
		Metrics:      meta.Metrics,
	}
}

func ExportJSON(w io.Writer, meta *RunMetadata, table *sweep.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExportData(meta, table))
}

func ExportJSONFile(path string, meta *RunMetadata, table *sweep.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, table)
}

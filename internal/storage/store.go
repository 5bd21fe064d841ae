// Package storage persists sweep runs under a data directory, one directory
// per run holding metadata.json and the flattened result table as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/sweep"
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
	ID           string             `json:"id"`
	Model        string             `json:"model"`
	Timestamp    time.Time          `json:"timestamp"`
	Integrator   string             `json:"integrator"`
	BetaStart    float64            `json:"beta_start"`
	BetaStop     float64            `json:"beta_stop"`
	BetaStep     float64            `json:"beta_step"`
	Horizon      float64            `json:"horizon"`
	Samples      int                `json:"samples"`
	Compartments []string           `json:"compartments"`
	Metrics      map[string]float64 `json:"metrics"`
}

func (s *Store) Save(integrator string, cfg sweep.Config, table *sweep.Table, metricVals map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", table.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Model:        table.Model,
		Timestamp:    time.Now(),
		Integrator:   integrator,
		BetaStart:    cfg.BetaStart,
		BetaStop:     cfg.BetaStop,
		BetaStep:     cfg.BetaStep,
		Horizon:      cfg.Horizon,
		Samples:      cfg.Samples,
		Compartments: table.Compartments,
		Metrics:      metricVals,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "table.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"beta", "time"}, table.Compartments...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, row := range table.Rows() {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTable rebuilds the sweep table from a saved run.
func (s *Store) LoadTable(runID string) (*sweep.Table, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "table.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: empty table", runID)
	}
	records = records[1:] // header

	nComp := len(meta.Compartments)
	var betas, times []float64
	var states [][]dynamo.State
	var current []dynamo.State
	lastBeta := 0.0

	for i, rec := range records {
		if len(rec) != 2+nComp {
			return nil, fmt.Errorf("run %s: row %d has %d fields, want %d", runID, i, len(rec), 2+nComp)
		}
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i, err)
			}
			vals[j] = v
		}
		beta, tm := vals[0], vals[1]
		if len(betas) == 0 || beta != lastBeta {
			if current != nil {
				states = append(states, current)
			}
			betas = append(betas, beta)
			lastBeta = beta
			current = make([]dynamo.State, 0, meta.Samples)
		}
		if len(betas) == 1 {
			times = append(times, tm)
		}
		current = append(current, dynamo.State(vals[2:]))
	}
	states = append(states, current)

	table := sweep.NewTable(meta.Model, meta.Compartments, betas, times)
	copy(table.States, states)
	if err := table.Check(); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return table, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/sweep"
)

func sampleTable(model string) *sweep.Table {
	betas := []float64{0.1, 0.2}
	times := []float64{0, 0.5, 1}
	comps := []string{"Susceptible", "Infected", "Recovered"}

	t := sweep.NewTable(model, comps, betas, times)
	for g := range betas {
		traj := make([]dynamo.State, len(times))
		for i := range traj {
			traj[i] = dynamo.State{
				1000 - float64(g*10+i),
				float64(g*10 + i),
				0.25,
			}
		}
		t.States[g] = traj
	}
	return t
}

func sampleConfig() sweep.Config {
	cfg := sweep.DefaultConfig()
	cfg.BetaStart = 0.1
	cfg.BetaStop = 0.2
	cfg.BetaStep = 0.1
	cfg.Samples = 3
	return cfg
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	metrics := map[string]float64{"peak_infected": 11, "attack_rate": 0.011}
	runID, err := store.Save("rk45", sampleConfig(), sampleTable("seir"), metrics)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Model != "seir" || meta.Integrator != "rk45" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.BetaStart != 0.1 || meta.BetaStop != 0.2 {
		t.Errorf("beta range not preserved: %+v", meta)
	}
	if meta.Metrics["peak_infected"] != 11 {
		t.Errorf("metrics not preserved: %v", meta.Metrics)
	}
}

func TestLoadTableRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	original := sampleTable("sird")

	runID, err := store.Save("rk45", sampleConfig(), original, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadTable(runID)
	if err != nil {
		t.Fatalf("load table: %v", err)
	}

	if loaded.NumBeta() != original.NumBeta() || loaded.Samples() != original.Samples() {
		t.Fatalf("shape mismatch: %dx%d vs %dx%d",
			loaded.NumBeta(), loaded.Samples(), original.NumBeta(), original.Samples())
	}
	if err := loaded.Check(); err != nil {
		t.Fatalf("loaded table inconsistent: %v", err)
	}

	// Values survive the fixed-precision CSV encoding.
	for g := range original.Betas {
		for i := range original.Times {
			for c := range original.Compartments {
				want := original.States[g][i][c]
				got := loaded.States[g][i][c]
				if math.Abs(got-want) > 1e-6 {
					t.Fatalf("group %d sample %d comp %d: got %f want %f", g, i, c, got, want)
				}
			}
		}
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("seir_0"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := store.LoadTable("seir_0"); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestLoadTableRejectsCorruptCSV(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	runID, err := store.Save("seir", sampleConfig(), sampleTable("seir"), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(dir, runID, "table.csv")
	if err := os.WriteFile(path, []byte("beta,time,Susceptible,Infected,Recovered\n0.1,0,not-a-number,1,0\n0.1,1,2,3,4\n"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	if _, err := store.LoadTable(runID); err == nil {
		t.Error("expected parse error for corrupt CSV")
	}
}

func TestListSortedByTimestamp(t *testing.T) {
	store := New(t.TempDir())

	if runs, err := store.List(); err != nil || len(runs) != 0 {
		t.Fatalf("empty store: runs=%v err=%v", runs, err)
	}

	// Distinct model names keep the run IDs unique within one second.
	if _, err := store.Save("seir", sampleConfig(), sampleTable("seir"), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save("sird", sampleConfig(), sampleTable("sird"), nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[1].Timestamp.Before(runs[0].Timestamp) {
		t.Error("runs not sorted by timestamp")
	}
}

func TestExportJSON(t *testing.T) {
	store := New(t.TempDir())
	table := sampleTable("seir")

	runID, err := store.Save("rk45", sampleConfig(), table, map[string]float64{"attack_rate": 0.5})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, table); err != nil {
		t.Fatalf("export: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Model != "seir" || data.Integrator != "rk45" {
		t.Errorf("export header mismatch: %+v", data)
	}
	if len(data.States) != 2 || len(data.States[0]) != 3 || len(data.States[0][0]) != 3 {
		t.Errorf("export states shape wrong")
	}
	if data.Metrics["attack_rate"] != 0.5 {
		t.Errorf("metrics missing from export: %v", data.Metrics)
	}
}

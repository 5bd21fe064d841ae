package sweep

import (
	"fmt"

	"github.com/san-kum/episweep/internal/dynamo"
)

// Table holds one sampled trajectory per swept beta value. Trajectories are
// preallocated and grouped by beta, each internally ordered by ascending
// time over the shared axis, so the shape invariant (numBeta groups of
// exactly Samples rows) is structural rather than incidental.
type Table struct {
	Model        string
	Compartments []string
	Betas        []float64
	Times        []float64       // shared time axis
	States       [][]dynamo.State // [betaIndex][sampleIndex]
}

func NewTable(model string, compartments []string, betas, times []float64) *Table {
	return &Table{
		Model:        model,
		Compartments: compartments,
		Betas:        betas,
		Times:        times,
		States:       make([][]dynamo.State, len(betas)),
	}
}

func (t *Table) NumBeta() int { return len(t.Betas) }

func (t *Table) Samples() int { return len(t.Times) }

// Series extracts one compartment's sampled values for one beta group.
func (t *Table) Series(compartment, betaIdx int) []float64 {
	traj := t.States[betaIdx]
	out := make([]float64, len(traj))
	for i, x := range traj {
		out[i] = x[compartment]
	}
	return out
}

// Check verifies the shape invariant the trace builder depends on.
func (t *Table) Check() error {
	if len(t.States) != len(t.Betas) {
		return fmt.Errorf("table has %d groups for %d beta values", len(t.States), len(t.Betas))
	}
	nComp := len(t.Compartments)
	for g, traj := range t.States {
		if len(traj) != len(t.Times) {
			return fmt.Errorf("beta group %d has %d rows, want %d", g, len(traj), len(t.Times))
		}
		for _, x := range traj {
			if len(x) != nComp {
				return fmt.Errorf("beta group %d has a row with %d components, want %d", g, len(x), nComp)
			}
		}
	}
	for i := 1; i < len(t.Times); i++ {
		if t.Times[i] <= t.Times[i-1] {
			return fmt.Errorf("time axis not strictly ascending at index %d", i)
		}
	}
	return nil
}

// Rows flattens the table into (beta, time, compartments...) records, beta
// groups in sweep order, times ascending within each group.
func (t *Table) Rows() [][]float64 {
	rows := make([][]float64, 0, len(t.Betas)*len(t.Times))
	for g, beta := range t.Betas {
		for i, tm := range t.Times {
			row := make([]float64, 0, 2+len(t.Compartments))
			row = append(row, beta, tm)
			row = append(row, t.States[g][i]...)
			rows = append(rows, row)
		}
	}
	return rows
}

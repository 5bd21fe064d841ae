package sweep

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/epi"
)

// Config describes a transmission-rate sweep: evenly spaced beta values from
// BetaStart to BetaStop inclusive, one adaptive solve per value, Samples
// uniform samples of each dense solution.
type Config struct {
	BetaStart float64
	BetaStop  float64
	BetaStep  float64
	Horizon   float64
	Samples   int
	Solver    dynamo.Config
}

func DefaultConfig() Config {
	return Config{
		BetaStart: 0.10,
		BetaStop:  0.50,
		BetaStep:  0.01,
		Horizon:   365.0,
		Samples:   730,
		Solver:    dynamo.DefaultConfig(),
	}
}

func (c Config) validate() error {
	if c.BetaStep <= 0 {
		return fmt.Errorf("beta step must be positive, got %g", c.BetaStep)
	}
	if c.BetaStop < c.BetaStart {
		return fmt.Errorf("beta range inverted: [%g, %g]", c.BetaStart, c.BetaStop)
	}
	if c.BetaStart < 0 {
		return fmt.Errorf("beta must be non-negative, got %g", c.BetaStart)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %g", c.Horizon)
	}
	if c.Samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", c.Samples)
	}
	return nil
}

// Betas lists the swept values, endpoints inclusive.
func (c Config) Betas() []float64 {
	n := int(math.Round((c.BetaStop-c.BetaStart)/c.BetaStep)) + 1
	betas := make([]float64, n)
	for i := range betas {
		betas[i] = c.BetaStart + float64(i)*c.BetaStep
	}
	return betas
}

// Run integrates the model once per beta value and collects the sampled
// trajectories into a Table. Any solver failure aborts the whole sweep: a
// short or missing group would corrupt the trace indexing downstream, so
// nothing is skipped silently. Iterations share no state beyond the model's
// swept parameter; each starts from a fresh initial condition.
func Run(ctx context.Context, model epi.Model, integ dynamo.Integrator, cfg Config) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	betas := cfg.Betas()
	solver := dynamo.NewSolver(integ)
	solverCfg := cfg.Solver
	solverCfg.Horizon = cfg.Horizon

	originalBeta := model.GetParams()["beta"]
	defer model.SetParam("beta", originalBeta)

	var table *Table
	for i, beta := range betas {
		if err := model.SetParam("beta", beta); err != nil {
			return nil, fmt.Errorf("sweep beta=%.2f: %w", beta, err)
		}

		sol, err := solver.Solve(ctx, model, model.InitialState(), solverCfg)
		if err != nil {
			return nil, fmt.Errorf("sweep beta=%.2f: %w", beta, err)
		}

		times, states, err := sol.SampleUniform(cfg.Samples)
		if err != nil {
			return nil, fmt.Errorf("sweep beta=%.2f: %w", beta, err)
		}

		if table == nil {
			table = NewTable(model.Name(), model.Compartments(), betas, times)
		}
		table.States[i] = states
	}

	if err := table.Check(); err != nil {
		return nil, fmt.Errorf("sweep produced inconsistent table: %w", err)
	}
	return table, nil
}

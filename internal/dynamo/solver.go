package dynamo

import (
	"context"
	"fmt"
	"math"
)

// Step-size controller constants, shared with the embedded error orders of
// the Dormand-Prince pair.
const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0
)

// Solver runs an integrator over a time span and records every accepted step
// together with its derivative, so the result can be queried at arbitrary
// times inside the span.
type Solver struct {
	integ Integrator
}

func NewSolver(integ Integrator) *Solver {
	return &Solver{integ: integ}
}

func (s *Solver) validate(sys System, x0 State, cfg Config) error {
	if cfg.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %f", cfg.Horizon)
	}
	if cfg.InitialDt <= 0 {
		return fmt.Errorf("initial dt must be positive, got %f", cfg.InitialDt)
	}
	if _, ok := s.integ.(AdaptiveIntegrator); ok && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	if len(x0) != sys.Dim() {
		return fmt.Errorf("%w: state has %d components, system wants %d",
			ErrDimensionMismatch, len(x0), sys.Dim())
	}
	if !x0.IsValid() {
		return ErrInvalidState
	}
	return nil
}

// Solve integrates sys from x0 over [0, cfg.Horizon]. With an adaptive
// integrator, steps are accepted only when the scaled error estimate meets
// cfg.Tolerance; rejected steps shrink dt and retry, and dt falling below
// cfg.MinDt aborts the solve. Fixed-step integrators march at cfg.InitialDt.
func (s *Solver) Solve(ctx context.Context, sys System, x0 State, cfg Config) (*Solution, error) {
	if err := s.validate(sys, x0, cfg); err != nil {
		return nil, err
	}

	adaptive, isAdaptive := s.integ.(AdaptiveIntegrator)

	x := x0.Clone()
	t := 0.0
	dt := cfg.InitialDt

	sol := &Solution{
		Times:   []float64{0},
		States:  []State{x.Clone()},
		derivs:  []State{sys.Derive(x, 0)},
		horizon: cfg.Horizon,
	}

	step := 0
	for t < cfg.Horizon {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if t+dt > cfg.Horizon {
			dt = cfg.Horizon - t
		}

		var xNew State
		if isAdaptive {
			var errEst float64
			xNew, errEst = adaptive.StepErr(sys, x, t, dt)

			ratio := errEst / cfg.Tolerance
			if ratio > 1 {
				dt *= math.Max(minScale, safety*math.Pow(ratio, -0.25))
				if dt < cfg.MinDt {
					return nil, &SolveError{Step: step, Time: t, Wrapped: ErrStepTooSmall}
				}
				continue
			}

			t += dt
			if ratio > 0 {
				dt *= math.Min(maxScale, safety*math.Pow(ratio, -0.2))
			} else {
				dt *= maxScale
			}
			if cfg.MaxDt > 0 && dt > cfg.MaxDt {
				dt = cfg.MaxDt
			}
			if dt < cfg.MinDt {
				dt = cfg.MinDt
			}
		} else {
			xNew = s.integ.Step(sys, x, t, dt)
			t += dt
		}

		if !xNew.IsValid() {
			return nil, &SolveError{Step: step, Time: t, Wrapped: ErrInvalidState}
		}

		x = xNew
		step++
		sol.Times = append(sol.Times, t)
		sol.States = append(sol.States, x.Clone())
		sol.derivs = append(sol.derivs, sys.Derive(x, t))
	}

	return sol, nil
}

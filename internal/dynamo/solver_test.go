package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type decay struct{}

func (d *decay) Dim() int { return 1 }

func (d *decay) Derive(x State, t float64) State {
	return State{-x[0]}
}

// rk4 is a local fixed-step integrator so the solver tests do not depend on
// the integrators package.
type rk4 struct{}

func (r *rk4) Step(sys System, x State, t, dt float64) State {
	n := len(x)
	k1 := sys.Derive(x, t)
	mid := make(State, n)
	for i := range mid {
		mid[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(mid, t+dt*0.5)
	for i := range mid {
		mid[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(mid, t+dt*0.5)
	for i := range mid {
		mid[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(mid, t+dt)
	out := make(State, n)
	for i := range out {
		out[i] = x[i] + dt/6.0*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

// adaptiveRK4 wraps rk4 with a crude error estimate so the adaptive path of
// the solver can be exercised without the real RK45.
type adaptiveRK4 struct {
	rk4
	errEst float64
}

func (a *adaptiveRK4) StepErr(sys System, x State, t, dt float64) (State, float64) {
	return a.rk4.Step(sys, x, t, dt), a.errEst
}

type blowup struct{}

func (b *blowup) Dim() int { return 1 }

func (b *blowup) Derive(x State, t float64) State {
	return State{math.NaN()}
}

func TestSolveFixedStep(t *testing.T) {
	solver := NewSolver(&rk4{})
	cfg := Config{Horizon: 1.0, InitialDt: 0.1}

	sol, err := solver.Solve(context.Background(), &decay{}, State{1.0}, cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	final := sol.States[len(sol.States)-1][0]
	expected := math.Exp(-1.0)
	if math.Abs(final-expected) > 1e-6 {
		t.Errorf("expected final ~%.8f, got %.8f", expected, final)
	}
	if sol.Times[len(sol.Times)-1] != 1.0 {
		t.Errorf("expected final time 1.0, got %f", sol.Times[len(sol.Times)-1])
	}
}

func TestSolveAdaptiveAcceptsSmallError(t *testing.T) {
	integ := &adaptiveRK4{errEst: 1e-12}
	solver := NewSolver(integ)
	cfg := Config{Horizon: 1.0, InitialDt: 0.1, MinDt: 1e-10, MaxDt: 0.5, Tolerance: 1e-8}

	sol, err := solver.Solve(context.Background(), &decay{}, State{1.0}, cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if sol.Steps() == 0 {
		t.Error("expected at least one accepted step")
	}
}

func TestSolveAdaptiveStepUnderflow(t *testing.T) {
	// Error estimate always over tolerance: dt shrinks until it underflows.
	integ := &adaptiveRK4{errEst: 1.0}
	solver := NewSolver(integ)
	cfg := Config{Horizon: 1.0, InitialDt: 0.1, MinDt: 1e-4, MaxDt: 0.5, Tolerance: 1e-8}

	_, err := solver.Solve(context.Background(), &decay{}, State{1.0}, cfg)
	if !errors.Is(err, ErrStepTooSmall) {
		t.Errorf("expected ErrStepTooSmall, got %v", err)
	}

	var solveErr *SolveError
	if !errors.As(err, &solveErr) {
		t.Error("expected a *SolveError wrapper")
	}
}

func TestSolveInvalidState(t *testing.T) {
	solver := NewSolver(&rk4{})
	cfg := Config{Horizon: 1.0, InitialDt: 0.1}

	_, err := solver.Solve(context.Background(), &blowup{}, State{1.0}, cfg)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestSolveContextCanceled(t *testing.T) {
	solver := NewSolver(&rk4{})
	cfg := Config{Horizon: 1.0, InitialDt: 0.1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, &decay{}, State{1.0}, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSolveValidatesInput(t *testing.T) {
	solver := NewSolver(&rk4{})

	tests := []struct {
		name string
		x0   State
		cfg  Config
	}{
		{"zero horizon", State{1.0}, Config{Horizon: 0, InitialDt: 0.1}},
		{"negative horizon", State{1.0}, Config{Horizon: -1, InitialDt: 0.1}},
		{"zero dt", State{1.0}, Config{Horizon: 1, InitialDt: 0}},
		{"dimension mismatch", State{1.0, 2.0}, Config{Horizon: 1, InitialDt: 0.1}},
		{"invalid initial state", State{math.Inf(1)}, Config{Horizon: 1, InitialDt: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := solver.Solve(context.Background(), &decay{}, tt.x0, tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an ODE system dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator produces, alongside the higher-order step, a scaled
// estimate of the local truncation error. Step acceptance and step-size
// control live in the Solver.
type AdaptiveIntegrator interface {
	Integrator
	StepErr(sys System, x State, t, dt float64) (State, float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Horizon   float64 // integration span is [0, Horizon]
	InitialDt float64
	MinDt     float64
	MaxDt     float64
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{
		Horizon:   365.0,
		InitialDt: 0.1,
		MinDt:     1e-10,
		MaxDt:     5.0,
		Tolerance: 1e-8,
	}
}

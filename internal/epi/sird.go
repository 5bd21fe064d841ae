package epi

import (
	"fmt"

	"github.com/san-kum/episweep/internal/dynamo"
)

// SIRD splits recoveries from the Infected compartment into Recovered and
// Dead by a mortality fraction alpha.
type SIRD struct {
	beta  float64 // transmission rate
	gamma float64 // recovery rate
	alpha float64 // mortality fraction of those leaving Infected
	n     float64 // total population
}

func NewSIRD() *SIRD {
	return &SIRD{beta: DefaultBeta, gamma: DefaultGamma, alpha: DefaultAlpha, n: DefaultPopulation}
}

func (m *SIRD) Name() string { return "sird" }
func (m *SIRD) Dim() int     { return 4 }

func (m *SIRD) Compartments() []string {
	return []string{"Susceptible", "Infected", "Recovered", "Dead"}
}

func (m *SIRD) Derive(x dynamo.State, _ float64) dynamo.State {
	s, i := x[0], x[1]
	infection := m.beta * s * i / m.n
	leaving := m.gamma * i
	return dynamo.State{-infection, infection - leaving, (1 - m.alpha) * leaving, m.alpha * leaving}
}

func (m *SIRD) InitialState() dynamo.State {
	return dynamo.State{m.n - 1, 1, 0, 0}
}

func (m *SIRD) Population() float64 { return m.n }

func (m *SIRD) Validate() error {
	if m.n <= 0 {
		return fmt.Errorf("%w: population must be positive, got %g", dynamo.ErrParameterBounds, m.n)
	}
	if m.beta < 0 || m.gamma < 0 {
		return fmt.Errorf("%w: rates must be non-negative (beta=%g gamma=%g)",
			dynamo.ErrParameterBounds, m.beta, m.gamma)
	}
	if m.alpha < 0 || m.alpha > 1 {
		return fmt.Errorf("%w: alpha must be in [0,1], got %g", dynamo.ErrParameterBounds, m.alpha)
	}
	return nil
}

func (m *SIRD) FixedParams() string {
	return fmt.Sprintf("N=%.0f, gamma=%.2f, alpha=%.2f", m.n, m.gamma, m.alpha)
}

func (m *SIRD) GetParams() map[string]float64 {
	return map[string]float64{"beta": m.beta, "gamma": m.gamma, "alpha": m.alpha, "N": m.n}
}

func (m *SIRD) SetParam(name string, v float64) error {
	switch name {
	case "beta":
		m.beta = v
	case "gamma":
		m.gamma = v
	case "alpha":
		m.alpha = v
	case "N":
		m.n = v
	default:
		return fmt.Errorf("sird: unknown parameter %q", name)
	}
	return m.Validate()
}

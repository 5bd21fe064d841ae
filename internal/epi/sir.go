package epi

import (
	"fmt"

	"github.com/san-kum/episweep/internal/dynamo"
)

// SIR is the classic three-compartment model, the SEIR system without a
// latent stage.
type SIR struct {
	beta  float64
	gamma float64
	n     float64
}

func NewSIR() *SIR {
	return &SIR{beta: DefaultBeta, gamma: DefaultGamma, n: DefaultPopulation}
}

func (m *SIR) Name() string { return "sir" }
func (m *SIR) Dim() int     { return 3 }

func (m *SIR) Compartments() []string {
	return []string{"Susceptible", "Infected", "Recovered"}
}

func (m *SIR) Derive(x dynamo.State, _ float64) dynamo.State {
	s, i := x[0], x[1]
	infection := m.beta * s * i / m.n
	recovery := m.gamma * i
	return dynamo.State{-infection, infection - recovery, recovery}
}

func (m *SIR) InitialState() dynamo.State {
	return dynamo.State{m.n - 1, 1, 0}
}

func (m *SIR) Population() float64 { return m.n }

func (m *SIR) Validate() error {
	if m.n <= 0 {
		return fmt.Errorf("%w: population must be positive, got %g", dynamo.ErrParameterBounds, m.n)
	}
	if m.beta < 0 || m.gamma < 0 {
		return fmt.Errorf("%w: rates must be non-negative (beta=%g gamma=%g)",
			dynamo.ErrParameterBounds, m.beta, m.gamma)
	}
	return nil
}

func (m *SIR) FixedParams() string {
	return fmt.Sprintf("N=%.0f, gamma=%.2f", m.n, m.gamma)
}

func (m *SIR) GetParams() map[string]float64 {
	return map[string]float64{"beta": m.beta, "gamma": m.gamma, "N": m.n}
}

func (m *SIR) SetParam(name string, v float64) error {
	switch name {
	case "beta":
		m.beta = v
	case "gamma":
		m.gamma = v
	case "N":
		m.n = v
	default:
		return fmt.Errorf("sir: unknown parameter %q", name)
	}
	return m.Validate()
}

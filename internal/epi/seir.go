package epi

import (
	"fmt"

	"github.com/san-kum/episweep/internal/dynamo"
)

// Default epidemiological constants shared by the bundled models.
const (
	DefaultPopulation = 330_000_000.0
	DefaultBeta       = 0.5
	DefaultGamma      = 0.1
	DefaultSigma      = 0.2
	DefaultAlpha      = 0.03
)

// SEIR partitions the population into Susceptible, Exposed, Infected and
// Recovered compartments with a latent (incubation) stage between exposure
// and infectiousness.
type SEIR struct {
	beta  float64 // transmission rate
	gamma float64 // recovery rate
	sigma float64 // latent-activation rate
	n     float64 // total population
}

func NewSEIR() *SEIR {
	return &SEIR{beta: DefaultBeta, gamma: DefaultGamma, sigma: DefaultSigma, n: DefaultPopulation}
}

func (m *SEIR) Name() string { return "seir" }
func (m *SEIR) Dim() int     { return 4 }

func (m *SEIR) Compartments() []string {
	return []string{"Susceptible", "Exposed", "Infected", "Recovered"}
}

// Derive computes the instantaneous compartment flow rates. The four terms
// sum to zero, so S+E+I+R is conserved analytically.
func (m *SEIR) Derive(x dynamo.State, _ float64) dynamo.State {
	s, e, i := x[0], x[1], x[2]
	infection := m.beta * s * i / m.n
	activation := m.sigma * e
	recovery := m.gamma * i
	return dynamo.State{-infection, infection - activation, activation - recovery, recovery}
}

// InitialState is the entire population susceptible except one initial case.
func (m *SEIR) InitialState() dynamo.State {
	return dynamo.State{m.n - 1, 0, 1, 0}
}

func (m *SEIR) Population() float64 { return m.n }

func (m *SEIR) Validate() error {
	if m.n <= 0 {
		return fmt.Errorf("%w: population must be positive, got %g", dynamo.ErrParameterBounds, m.n)
	}
	if m.beta < 0 || m.gamma < 0 || m.sigma < 0 {
		return fmt.Errorf("%w: rates must be non-negative (beta=%g gamma=%g sigma=%g)",
			dynamo.ErrParameterBounds, m.beta, m.gamma, m.sigma)
	}
	return nil
}

// FixedParams describes the non-swept constants for chart titles.
func (m *SEIR) FixedParams() string {
	return fmt.Sprintf("N=%.0f, gamma=%.2f, sigma=%.2f", m.n, m.gamma, m.sigma)
}

func (m *SEIR) GetParams() map[string]float64 {
	return map[string]float64{"beta": m.beta, "gamma": m.gamma, "sigma": m.sigma, "N": m.n}
}

func (m *SEIR) SetParam(name string, v float64) error {
	switch name {
	case "beta":
		m.beta = v
	case "gamma":
		m.gamma = v
	case "sigma":
		m.sigma = v
	case "N":
		m.n = v
	default:
		return fmt.Errorf("seir: unknown parameter %q", name)
	}
	return m.Validate()
}

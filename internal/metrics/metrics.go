// Package metrics provides summary statistics observed over a sampled
// epidemic trajectory.
package metrics

import (
	"math"

	"github.com/san-kum/episweep/internal/dynamo"
)

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Peak tracks the maximum of one compartment over the trajectory.
type Peak struct {
	name     string
	idx      int
	max      float64
	maxT     float64
	observed bool
}

func NewPeak(name string, compartmentIdx int) *Peak {
	return &Peak{name: name, idx: compartmentIdx}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.idx >= len(x) {
		return
	}
	if !p.observed || x[p.idx] > p.max {
		p.max = x[p.idx]
		p.maxT = t
	}
	p.observed = true
}

func (p *Peak) Value() float64 { return p.max }

// Time reports when the maximum occurred.
func (p *Peak) Time() float64 { return p.maxT }

func (p *Peak) Reset() {
	p.max = 0
	p.maxT = 0
	p.observed = false
}

// AttackRate is the fraction of the population no longer susceptible at the
// last observed time.
type AttackRate struct {
	name       string
	population float64
	final      float64
	observed   bool
}

func NewAttackRate(population float64) *AttackRate {
	return &AttackRate{name: "attack_rate", population: population}
}

func (a *AttackRate) Name() string { return a.name }

func (a *AttackRate) Observe(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	a.final = x[0]
	a.observed = true
}

func (a *AttackRate) Value() float64 {
	if !a.observed || a.population <= 0 {
		return 0
	}
	return (a.population - a.final) / a.population
}

func (a *AttackRate) Reset() {
	a.final = 0
	a.observed = false
}

// ConservationDrift tracks the worst relative deviation of the compartment
// sum from its initial value. For a conservative model this is pure
// integrator error.
type ConservationDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewConservationDrift() *ConservationDrift {
	return &ConservationDrift{name: "conservation_drift"}
}

func (c *ConservationDrift) Name() string { return c.name }

func (c *ConservationDrift) Observe(x dynamo.State, t float64) {
	total := x.Sum()
	if c.samples == 0 {
		c.initial = total
	}
	c.samples++
	if c.initial != 0 {
		drift := math.Abs(total-c.initial) / math.Abs(c.initial)
		c.maxDrift = math.Max(c.maxDrift, drift)
	}
}

func (c *ConservationDrift) Value() float64 { return c.maxDrift }

func (c *ConservationDrift) Reset() {
	c.initial = 0
	c.maxDrift = 0
	c.samples = 0
}

// ObserveAll feeds a sampled trajectory through a set of metrics.
func ObserveAll(ms []Metric, times []float64, states []dynamo.State) {
	for _, m := range ms {
		m.Reset()
	}
	for i, x := range states {
		for _, m := range ms {
			m.Observe(x, times[i])
		}
	}
}

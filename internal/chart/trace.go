package chart

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/episweep/internal/sweep"
)

// Compartment colors, indexed by compartment position. Infection-adjacent
// compartments lean warm, outcomes cool.
var palette = map[string]drawing.Color{
	"Susceptible": {R: 0, G: 116, B: 217, A: 255},
	"Exposed":     {R: 255, G: 165, B: 0, A: 255},
	"Infected":    {R: 255, G: 65, B: 54, A: 255},
	"Recovered":   {R: 46, G: 204, B: 64, A: 255},
	"Dead":        {R: 85, G: 85, B: 85, A: 255},
}

var defaultColor = drawing.Color{R: 128, G: 128, B: 128, A: 255}

func CompartmentColor(name string) drawing.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return defaultColor
}

// Trace is one plottable curve: a single compartment's trajectory for a
// single beta value over the shared time axis.
type Trace struct {
	Name        string
	Compartment string
	CompIdx     int
	Beta        float64
	BetaIdx     int
	Y           []float64
	Color       drawing.Color
}

// BuildTraces flattens a sweep table into curves ordered compartment-major:
// all beta values of compartment 0, then compartment 1, and so on. Slider
// visibility vectors index into exactly this ordering.
func BuildTraces(t *sweep.Table) []Trace {
	traces := make([]Trace, 0, len(t.Compartments)*t.NumBeta())
	for c, comp := range t.Compartments {
		for b, beta := range t.Betas {
			traces = append(traces, Trace{
				Name:        fmt.Sprintf("%s (beta=%.2f)", comp, beta),
				Compartment: comp,
				CompIdx:     c,
				Beta:        beta,
				BetaIdx:     b,
				Y:           t.Series(c, b),
				Color:       CompartmentColor(comp),
			})
		}
	}
	return traces
}

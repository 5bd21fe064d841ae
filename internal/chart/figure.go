package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/episweep/internal/sweep"
)

// DefaultSliderBeta is the parameter value preselected when the figure
// loads; the step whose beta is closest to it starts visible.
const DefaultSliderBeta = 0.5

// ErrStructure indicates a mismatch between trace count, beta count and
// compartment count. It means curve construction and slider construction
// went out of sync and the figure would be mis-wired.
var ErrStructure = errors.New("chart: trace/slider structure mismatch")

// Figure is the assembled chart model: all traces over a shared time axis
// plus one slider step per beta value. Exactly one beta group is visible at
// any slider position.
type Figure struct {
	Model        string
	FixedParams  string
	Times        []float64
	Betas        []float64
	Compartments []string
	Traces       []Trace
	DefaultStep  int
}

// NewFigure builds the figure from a sweep table, failing loudly on any
// structural inconsistency rather than producing a mis-wired slider.
func NewFigure(t *sweep.Table, fixedParams string) (*Figure, error) {
	if err := t.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructure, err)
	}

	traces := BuildTraces(t)
	numBeta := t.NumBeta()
	nComp := len(t.Compartments)
	if len(traces) != numBeta*nComp {
		return nil, fmt.Errorf("%w: %d traces for %d betas x %d compartments",
			ErrStructure, len(traces), numBeta, nComp)
	}

	f := &Figure{
		Model:        t.Model,
		FixedParams:  fixedParams,
		Times:        t.Times,
		Betas:        t.Betas,
		Compartments: t.Compartments,
		Traces:       traces,
		DefaultStep:  closestIndex(t.Betas, DefaultSliderBeta),
	}
	return f, nil
}

// Steps produces one slider step per beta value, labeled with the beta
// rounded to 2 decimals. The step title embeds the fixed model constants.
func (f *Figure) Steps() []Step {
	steps := make([]Step, len(f.Betas))
	for i, beta := range f.Betas {
		steps[i] = Step{
			Label:   fmt.Sprintf("%.2f", beta),
			Title:   f.StepTitle(beta),
			Visible: StepVisibility(i, len(f.Betas), len(f.Compartments)),
		}
	}
	return steps
}

func (f *Figure) StepTitle(beta float64) string {
	return fmt.Sprintf("%s outbreak over one year (beta=%.2f, %s)",
		strings.ToUpper(f.Model), beta, f.FixedParams)
}

// GroupTraces returns the traces visible at a slider step, via the same
// visibility function the steps use.
func (f *Figure) GroupTraces(step int) []Trace {
	visible := StepVisibility(step, len(f.Betas), len(f.Compartments))
	group := make([]Trace, 0, len(f.Compartments))
	for i, on := range visible {
		if on {
			group = append(group, f.Traces[i])
		}
	}
	return group
}

func closestIndex(values []float64, target float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range values {
		if d := math.Abs(v - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

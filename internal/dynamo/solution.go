package dynamo

import (
	"fmt"
	"sort"
)

// Solution is a dense solve result: every accepted step with its derivative.
// Values between steps come from cubic Hermite interpolation, which matches
// the state and its derivative at both ends of each segment.
type Solution struct {
	Times  []float64
	States []State

	derivs  []State
	horizon float64
}

func (sol *Solution) Steps() int { return len(sol.Times) - 1 }

func (sol *Solution) Horizon() float64 { return sol.horizon }

// At evaluates the interpolant at time t inside the solved span.
func (sol *Solution) At(t float64) (State, error) {
	n := len(sol.Times)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty solution", ErrOutOfSpan)
	}
	if t < sol.Times[0] || t > sol.Times[n-1] {
		return nil, fmt.Errorf("%w: t=%.4f not in [%.4f, %.4f]",
			ErrOutOfSpan, t, sol.Times[0], sol.Times[n-1])
	}

	// Segment index: largest i with Times[i] <= t.
	i := sort.SearchFloat64s(sol.Times, t)
	if i < n && sol.Times[i] == t {
		return sol.States[i].Clone(), nil
	}
	i--

	t0, t1 := sol.Times[i], sol.Times[i+1]
	h := t1 - t0
	theta := (t - t0) / h

	h00 := (1 + 2*theta) * (1 - theta) * (1 - theta)
	h10 := theta * (1 - theta) * (1 - theta)
	h01 := theta * theta * (3 - 2*theta)
	h11 := theta * theta * (theta - 1)

	y0, y1 := sol.States[i], sol.States[i+1]
	f0, f1 := sol.derivs[i], sol.derivs[i+1]

	out := make(State, len(y0))
	for k := range out {
		out[k] = h00*y0[k] + h*h10*f0[k] + h01*y1[k] + h*h11*f1[k]
	}
	return out, nil
}

// SampleUniform evaluates the interpolant at n uniformly spaced times over
// the full solved span, endpoints included.
func (sol *Solution) SampleUniform(n int) ([]float64, []State, error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	last := len(sol.Times) - 1
	if last < 0 {
		return nil, nil, fmt.Errorf("%w: empty solution", ErrOutOfSpan)
	}

	t0, t1 := sol.Times[0], sol.Times[last]
	times := make([]float64, n)
	states := make([]State, n)
	span := t1 - t0
	for i := 0; i < n; i++ {
		t := t0 + span*float64(i)/float64(n-1)
		if i == n-1 {
			t = t1
		}
		x, err := sol.At(t)
		if err != nil {
			return nil, nil, err
		}
		times[i] = t
		states[i] = x
	}
	return times, states, nil
}

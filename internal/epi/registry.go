package epi

import (
	"fmt"
	"sort"

	"github.com/san-kum/episweep/internal/dynamo"
)

// Model is a compartmental epidemic system with named compartments, a
// canonical initial condition (one index case) and tunable parameters.
type Model interface {
	dynamo.System
	dynamo.Configurable
	Name() string
	Compartments() []string
	InitialState() dynamo.State
	Population() float64
	Validate() error
	FixedParams() string
}

var builders = map[string]func() Model{
	"seir": func() Model { return NewSEIR() },
	"sird": func() Model { return NewSIRD() },
	"sir":  func() Model { return NewSIR() },
}

func New(name string) (Model, error) {
	fn, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, List())
	}
	return fn(), nil
}

func List() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package integrators

import (
	"fmt"

	"github.com/san-kum/episweep/internal/dynamo"
)

func Get(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s (available: euler, rk4, rk45)", name)
	}
}

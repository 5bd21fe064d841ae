// Package dynamo provides core numerical primitives for ODE integration.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator] / [AdaptiveIntegrator]: numerical stepper interfaces
//   - [Solver]: runs an integrator over a span, producing a [Solution]
//   - [Solution]: dense result queryable at arbitrary times in the span
//
// # Example
//
//	sys := epi.NewSEIR(epi.SEIRParams{...})
//	solver := dynamo.NewSolver(integrators.NewRK45())
//	sol, err := solver.Solve(ctx, sys, sys.InitialState(), dynamo.DefaultConfig())
//	times, states, _ := sol.SampleUniform(730)
//
// # Thread Safety
//
// Solver and Solution instances are NOT thread-safe; the sweep pipeline runs
// one solve at a time by design.
package dynamo

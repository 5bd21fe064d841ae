// Package epi provides compartmental epidemic models for simulation.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the flow between compartments:
//
//   - [SEIR]: Susceptible -> Exposed -> Infected -> Recovered
//   - [SIRD]: Susceptible -> Infected -> Recovered/Dead
//   - [SIR]: Susceptible -> Infected -> Recovered
//
// All models also implement [dynamo.Configurable] for parameter sweeps; the
// transmission rate is registered as "beta".
//
// # Conservation
//
// The derivative terms of every model sum to exactly zero, so the total
// population is conserved analytically. Numerical output drifts only by the
// integrator's local error.
package epi

// Package models provides named ODE systems for integration runs.
//
// Each model implements the [System] interface, defining a first-order
// right-hand side dy/dx = f(x, y) together with a canonical initial
// state:
//
//   - [Decay]: exponential decay, the simplest accuracy benchmark
//   - [Harmonic]: undamped oscillator
//   - [Logistic]: saturating population growth
//   - [Mixed]: three decoupled components with distinct character
//   - [VanDerPol]: relaxation oscillations, hard on large steps
//   - [Lorenz]: chaotic attractor
//   - [Kepler]: planar two-body orbit
//
// Models with a closed-form solution also implement [Reference], which
// tests and accuracy studies use as ground truth:
//
//	sys := models.NewDecay()
//	exact := sys.Exact(2.0) // solution at x=2 from DefaultState at x=0
package models

// Package solve drives adaptive integration across caller-chosen intervals.
//
// The package layers interval control on top of the single-step formulas
// in the integrators package:
//
//   - [Solver.Integrate]: advance a state between two coordinates,
//     resizing steps to hold the local error within tolerance
//   - [Solver.Sample]: record the solution at a sequence of coordinates,
//     one Integrate per consecutive pair
//   - [Table]: the sampled result, one column per coordinate
//   - [Ensemble]: sample independent variants concurrently
//
// # Example
//
//	sys := models.NewDecay()
//	s := solve.New(sys, integrators.NewRKCK())
//	y := ivp.State{1.0}
//	stats, err := s.Integrate(ctx, y, 0, 10, solve.DefaultConfig())
//
// # Failure reporting
//
// Integrate distinguishes three conditions: stepsize underflow and step
// exhaustion abort the call with [ivp.ErrStepUnderflow] and
// [ivp.ErrTooManySteps] respectively, while a proposed step below
// Config.HMin is advisory only, counted in [Stats] with integration
// continuing. The state slice always holds the last accepted state, so a
// step-exhaustion error leaves a usable partial result behind.
//
// # Thread Safety
//
// A Solver is not safe for concurrent use; its stepper reuses scratch
// buffers between calls. Independent integrations are safely parallel
// when each has its own Solver, which is what [Ensemble] arranges.
package solve

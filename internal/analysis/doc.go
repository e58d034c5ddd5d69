// Package analysis measures integrator behavior on reference problems.
//
// The package includes two kinds of study:
//
//   - [WorkPrecision]: achieved global error against derivative-evaluation
//     cost across a ladder of tolerances
//   - [ConvergenceOrder]: empirical order of a fixed-step method from the
//     slope of error against step size
//
// # Reading a work-precision sweep
//
// Plot Error against Evals on log-log axes; a higher-order method's curve
// sits below and to the left of a lower-order one once the tolerance is
// tight enough to matter:
//
//	points, err := analysis.WorkPrecision(ctx, ref, stepper, y0, 0, 10, tolerances)
package analysis

// Package ivp provides core primitives for initial value problems.
//
// The package defines the fundamental interfaces and types for numerical
// integration of first-order ODE systems (dy/dx = f(x, y)):
//
//   - [State]: vector of dependent variables
//   - [System]: interface for ODE right-hand sides
//   - [SystemOf]: adapter from a plain derivative function with caller params
//   - [Stepper]: fixed-step integration formula
//   - [AdaptiveStepper]: embedded formula with stepsize control
//
// # Example
//
//	sys := ivp.SystemOf(1, 0.5, func(x float64, y ivp.State, k float64) ivp.State {
//	    return ivp.State{-k * y[0]}
//	})
//	s := solve.New(sys, integrators.NewRKCK())
//	stats, err := s.Integrate(ctx, y, 0, 10, solve.DefaultConfig())
//
// # Thread Safety
//
// Stepper instances are NOT thread-safe; they reuse internal scratch
// buffers between calls. For parallel integrations give each goroutine
// its own stepper, or use the solve package's Ensemble type.
package ivp

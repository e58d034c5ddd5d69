package models

import "github.com/joehahn/int-sys-eqns/internal/ivp"

// System is a named ODE model: an ivp.System plus the canonical initial
// state its presets and closed forms are anchored to.
type System interface {
	ivp.System
	DefaultState() ivp.State
}

// Reference is implemented by systems with a closed-form solution. Exact
// returns the solution at coordinate x for the trajectory starting from
// DefaultState at x = 0.
type Reference interface {
	System
	Exact(x float64) ivp.State
}

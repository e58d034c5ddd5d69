package models

import "github.com/joehahn/int-sys-eqns/internal/ivp"

type Lorenz struct{ Sigma, Rho, Beta float64 }

func NewLorenz() *Lorenz   { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }
func (l *Lorenz) Dim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{l.Sigma * (y[1] - y[0]), y[0]*(l.Rho-y[2]) - y[1], y[0]*y[1] - l.Beta*y[2]}
}

func (l *Lorenz) DefaultState() ivp.State { return ivp.State{1.0, 1.0, 1.0} }

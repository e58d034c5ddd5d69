package models

import "github.com/joehahn/int-sys-eqns/internal/ivp"

// VanDerPol is the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
//
// For large μ the limit cycle develops fast segments that force an
// adaptive controller through wide stepsize swings.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 1.0}
}

func (v *VanDerPol) Dim() int { return 2 }

func (v *VanDerPol) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{y[1], v.Mu*(1-y[0]*y[0])*y[1] - y[0]}
}

func (v *VanDerPol) DefaultState() ivp.State { return ivp.State{2.0, 0.0} }

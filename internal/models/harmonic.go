package models

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Harmonic is the undamped oscillator y'' = -ω²y written as a first-order
// pair [position, velocity].
type Harmonic struct {
	Omega float64
}

func NewHarmonic() *Harmonic {
	return &Harmonic{Omega: 1.0}
}

func (h *Harmonic) Dim() int { return 2 }

func (h *Harmonic) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{y[1], -h.Omega * h.Omega * y[0]}
}

func (h *Harmonic) DefaultState() ivp.State { return ivp.State{1.0, 0.0} }

func (h *Harmonic) Exact(x float64) ivp.State {
	return ivp.State{math.Cos(h.Omega * x), -h.Omega * math.Sin(h.Omega*x)}
}

// Energy is conserved along exact trajectories; drift measures
// integration error.
func (h *Harmonic) Energy(y ivp.State) float64 {
	return 0.5 * (y[1]*y[1] + h.Omega*h.Omega*y[0]*y[0])
}

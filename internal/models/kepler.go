package models

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Kepler is the planar two-body problem around a fixed central mass.
// State: [x, y, vx, vy]. The default state is a circular orbit of unit
// radius, for which the trajectory has the closed form
// [cos(ωx), sin(ωx), -ω·sin(ωx), ω·cos(ωx)] with ω = sqrt(GM).
type Kepler struct {
	GM float64
}

func NewKepler() *Kepler {
	return &Kepler{GM: 1.0}
}

func (k *Kepler) Dim() int { return 4 }

func (k *Kepler) Derive(y ivp.State, x float64) ivp.State {
	r := math.Hypot(y[0], y[1])
	r3 := r * r * r
	return ivp.State{y[2], y[3], -k.GM * y[0] / r3, -k.GM * y[1] / r3}
}

func (k *Kepler) DefaultState() ivp.State {
	v := math.Sqrt(k.GM)
	return ivp.State{1.0, 0.0, 0.0, v}
}

func (k *Kepler) Exact(x float64) ivp.State {
	w := math.Sqrt(k.GM)
	s, c := math.Sincos(w * x)
	return ivp.State{c, s, -w * s, w * c}
}

// Energy is the conserved orbital energy; negative for bound orbits.
func (k *Kepler) Energy(y ivp.State) float64 {
	r := math.Hypot(y[0], y[1])
	return 0.5*(y[2]*y[2]+y[3]*y[3]) - k.GM/r
}

// AngularMomentum is conserved exactly along any Kepler orbit.
func (k *Kepler) AngularMomentum(y ivp.State) float64 {
	return y[0]*y[3] - y[1]*y[2]
}

package models

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

type Decay struct {
	Lambda float64
}

func NewDecay() *Decay {
	return &Decay{Lambda: 1.0}
}

func (d *Decay) Dim() int { return 1 }

func (d *Decay) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{-d.Lambda * y[0]}
}

func (d *Decay) DefaultState() ivp.State { return ivp.State{1.0} }

func (d *Decay) Exact(x float64) ivp.State {
	return ivp.State{math.Exp(-d.Lambda * x)}
}

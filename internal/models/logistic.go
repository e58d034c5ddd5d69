package models

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Logistic is saturating growth dy/dx = r·y·(1 - y/K). Nonlinear but
// smooth, with a closed form for exactness checks.
type Logistic struct {
	R float64
	K float64
}

func NewLogistic() *Logistic {
	return &Logistic{R: 1.0, K: 1.0}
}

func (l *Logistic) Dim() int { return 1 }

func (l *Logistic) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{l.R * y[0] * (1 - y[0]/l.K)}
}

func (l *Logistic) DefaultState() ivp.State { return ivp.State{0.1} }

func (l *Logistic) Exact(x float64) ivp.State {
	y0 := l.DefaultState()[0]
	return ivp.State{l.K / (1 + (l.K-y0)/y0*math.Exp(-l.R*x))}
}

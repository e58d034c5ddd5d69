package models

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Mixed couples nothing: three independent components with different
// character in one state vector, so a single run exercises a pure
// quadrature term, a polynomial term, and a decaying term at once.
//
//	dy0/dx = a·cos(x)
//	dy1/dx = 2b·x
//	dy2/dx = -y2
//
// From the default state [1, 0, c] the solution is
// [1 + a·sin(x), b·x², c·e^(-x)].
type Mixed struct {
	A float64
	B float64
	C float64
}

func NewMixed() *Mixed {
	return &Mixed{A: 1.0, B: 2.0, C: 3.0}
}

func (m *Mixed) Dim() int { return 3 }

func (m *Mixed) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{m.A * math.Cos(x), 2 * m.B * x, -y[2]}
}

func (m *Mixed) DefaultState() ivp.State { return ivp.State{1.0, 0.0, m.C} }

func (m *Mixed) Exact(x float64) ivp.State {
	return ivp.State{1 + m.A*math.Sin(x), m.B * x * x, m.C * math.Exp(-x)}
}

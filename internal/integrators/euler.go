package integrators

import "github.com/joehahn/int-sys-eqns/internal/ivp"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ivp.System, y ivp.State, x, h float64) ivp.State {
	dydx := sys.Derive(y, x)
	result := make(ivp.State, len(y))
	for i := range y {
		result[i] = y[i] + h*dydx[i]
	}
	return result
}

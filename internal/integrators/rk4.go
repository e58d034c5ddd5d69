package integrators

import "github.com/joehahn/int-sys-eqns/internal/ivp"

type RK4 struct {
	k1, k2, k3, k4 ivp.State
	scratch        ivp.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(ivp.State, n)
		r.k2 = make(ivp.State, n)
		r.k3 = make(ivp.State, n)
		r.k4 = make(ivp.State, n)
		r.scratch = make(ivp.State, n)
	}
}

func (r *RK4) Step(sys ivp.System, y ivp.State, x, h float64) ivp.State {
	n := len(y)
	r.ensureScratch(n)

	k1 := sys.Derive(y, x)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k1[i]
	}
	k2 := sys.Derive(r.scratch, x+h*0.5)
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k2[i]
	}
	k3 := sys.Derive(r.scratch, x+h*0.5)
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*r.k3[i]
	}
	k4 := sys.Derive(r.scratch, x+h)
	copy(r.k4, k4)

	result := make(ivp.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

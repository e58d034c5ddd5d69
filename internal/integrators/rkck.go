package integrators

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Cash-Karp coefficients (embedded RK5(4))
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 3.0 / 5.0
	a5 = 1.0
	a6 = 7.0 / 8.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 3.0 / 10.0
	b42 = -9.0 / 10.0
	b43 = 6.0 / 5.0
	b51 = -11.0 / 54.0
	b52 = 5.0 / 2.0
	b53 = -70.0 / 27.0
	b54 = 35.0 / 27.0
	b61 = 1631.0 / 55296.0
	b62 = 175.0 / 512.0
	b63 = 575.0 / 13824.0
	b64 = 44275.0 / 110592.0
	b65 = 253.0 / 4096.0

	c1 = 37.0 / 378.0
	c3 = 250.0 / 621.0
	c4 = 125.0 / 594.0
	c6 = 512.0 / 1771.0

	dc1 = c1 - 2825.0/27648.0
	dc3 = c3 - 18575.0/48384.0
	dc4 = c4 - 13525.0/55296.0
	dc5 = -277.0 / 14336.0
	dc6 = c6 - 1.0/4.0
)

// RKCK is the Cash-Karp fifth-order formula with an embedded fourth-order
// error estimate driving the stepsize control.
type RKCK struct {
	safety   float64
	minScale float64
	maxScale float64
	errcon   float64

	k2, k3, k4, k5, k6 ivp.State
	ytemp              ivp.State
	yerr               ivp.State
}

func NewRKCK() *RKCK {
	return &RKCK{
		safety:   0.9,
		minScale: 0.1,
		maxScale: 5.0,
		errcon:   1.89e-4,
	}
}

func (r *RKCK) ensureScratch(n int) {
	if len(r.k2) != n {
		r.k2 = make(ivp.State, n)
		r.k3 = make(ivp.State, n)
		r.k4 = make(ivp.State, n)
		r.k5 = make(ivp.State, n)
		r.k6 = make(ivp.State, n)
		r.ytemp = make(ivp.State, n)
		r.yerr = make(ivp.State, n)
	}
}

// step takes a single trial step of size h given the derivative at (x, y).
// It returns the fifth-order advance and the embedded error estimate; the
// error slice is scratch, valid only until the next call.
func (r *RKCK) step(sys ivp.System, y, dydx ivp.State, x, h float64) (ivp.State, ivp.State) {
	n := len(y)
	r.ensureScratch(n)
	k1 := dydx

	for i := 0; i < n; i++ {
		r.ytemp[i] = y[i] + h*b21*k1[i]
	}
	copy(r.k2, sys.Derive(r.ytemp, x+a2*h))

	for i := 0; i < n; i++ {
		r.ytemp[i] = y[i] + h*(b31*k1[i]+b32*r.k2[i])
	}
	copy(r.k3, sys.Derive(r.ytemp, x+a3*h))

	for i := 0; i < n; i++ {
		r.ytemp[i] = y[i] + h*(b41*k1[i]+b42*r.k2[i]+b43*r.k3[i])
	}
	copy(r.k4, sys.Derive(r.ytemp, x+a4*h))

	for i := 0; i < n; i++ {
		r.ytemp[i] = y[i] + h*(b51*k1[i]+b52*r.k2[i]+b53*r.k3[i]+b54*r.k4[i])
	}
	copy(r.k5, sys.Derive(r.ytemp, x+a5*h))

	for i := 0; i < n; i++ {
		r.ytemp[i] = y[i] + h*(b61*k1[i]+b62*r.k2[i]+b63*r.k3[i]+b64*r.k4[i]+b65*r.k5[i])
	}
	copy(r.k6, sys.Derive(r.ytemp, x+a6*h))

	yout := make(ivp.State, n)
	for i := 0; i < n; i++ {
		yout[i] = y[i] + h*(c1*k1[i]+c3*r.k3[i]+c4*r.k4[i]+c6*r.k6[i])
		r.yerr[i] = h * (dc1*k1[i] + dc3*r.k3[i] + dc4*r.k4[i] + dc5*r.k5[i] + dc6*r.k6[i])
	}

	return yout, r.yerr
}

func (r *RKCK) Step(sys ivp.System, y ivp.State, x, h float64) ivp.State {
	dydx := sys.Derive(y, x)
	yout, _ := r.step(sys, y, dydx, x, h)
	return yout
}

// StepAdaptive retries the trial step with shrinking h until the scaled
// error estimate fits within eps, then proposes the next stepsize. The
// shrink per retry is capped at a factor of ten; growth per accepted step
// is capped at a factor of five.
func (r *RKCK) StepAdaptive(sys ivp.System, y, dydx ivp.State, x, hTry, eps float64, yscal ivp.State) (ivp.StepResult, error) {
	h := hTry
	tries := 0

	for {
		tries++
		yout, yerr := r.step(sys, y, dydx, x, h)

		errMax := 0.0
		for i := range yerr {
			errMax = math.Max(errMax, math.Abs(yerr[i]/yscal[i]))
		}
		errMax /= eps

		if errMax <= 1 {
			var scale float64
			if errMax > r.errcon {
				scale = math.Min(r.maxScale, r.safety*math.Pow(errMax, -0.2))
			} else {
				scale = r.maxScale
			}
			return ivp.StepResult{Y: yout, X: x + h, HDid: h, HNext: h * scale, Tries: tries}, nil
		}

		scale := math.Max(r.minScale, r.safety*math.Pow(errMax, -0.25))
		h *= scale
		if x+h == x {
			return ivp.StepResult{X: x, Tries: tries}, ivp.ErrStepUnderflow
		}
	}
}

package integrators

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Dormand-Prince coefficients (RK5(4), first-same-as-last)
var (
	dpA2 = 1.0 / 5.0
	dpA3 = 3.0 / 10.0
	dpA4 = 4.0 / 5.0
	dpA5 = 8.0 / 9.0

	dpB21 = 1.0 / 5.0
	dpB31 = 3.0 / 40.0
	dpB32 = 9.0 / 40.0
	dpB41 = 44.0 / 45.0
	dpB42 = -56.0 / 15.0
	dpB43 = 32.0 / 9.0
	dpB51 = 19372.0 / 6561.0
	dpB52 = -25360.0 / 2187.0
	dpB53 = 64448.0 / 6561.0
	dpB54 = -212.0 / 729.0
	dpB61 = 9017.0 / 3168.0
	dpB62 = -355.0 / 33.0
	dpB63 = 46732.0 / 5247.0
	dpB64 = 49.0 / 176.0
	dpB65 = -5103.0 / 18656.0

	dpC1 = 35.0 / 384.0
	dpC3 = 500.0 / 1113.0
	dpC4 = 125.0 / 192.0
	dpC5 = -2187.0 / 6784.0
	dpC6 = 11.0 / 84.0

	dpD1 = dpC1 - 5179.0/57600.0
	dpD3 = dpC3 - 7571.0/16695.0
	dpD4 = dpC4 - 393.0/640.0
	dpD5 = dpC5 - -92097.0/339200.0
	dpD6 = dpC6 - 187.0/2100.0
	dpD7 = -1.0 / 40.0
)

// Dopri is the Dormand-Prince 5(4) formula. It spends one extra derivative
// evaluation per trial on the FSAL stage but tends to take slightly larger
// steps than Cash-Karp at the same tolerance.
type Dopri struct {
	safety   float64
	minScale float64
	maxScale float64
	errcon   float64

	k2, k3, k4, k5, k6, k7 ivp.State
	ytemp                  ivp.State
	yerr                   ivp.State
}

func NewDopri() *Dopri {
	return &Dopri{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		errcon:   5.9e-6,
	}
}

func (d *Dopri) ensureScratch(n int) {
	if len(d.k2) != n {
		d.k2 = make(ivp.State, n)
		d.k3 = make(ivp.State, n)
		d.k4 = make(ivp.State, n)
		d.k5 = make(ivp.State, n)
		d.k6 = make(ivp.State, n)
		d.k7 = make(ivp.State, n)
		d.ytemp = make(ivp.State, n)
		d.yerr = make(ivp.State, n)
	}
}

func (d *Dopri) step(sys ivp.System, y, dydx ivp.State, x, h float64) (ivp.State, ivp.State) {
	n := len(y)
	d.ensureScratch(n)
	k1 := dydx

	for i := 0; i < n; i++ {
		d.ytemp[i] = y[i] + h*dpB21*k1[i]
	}
	copy(d.k2, sys.Derive(d.ytemp, x+dpA2*h))

	for i := 0; i < n; i++ {
		d.ytemp[i] = y[i] + h*(dpB31*k1[i]+dpB32*d.k2[i])
	}
	copy(d.k3, sys.Derive(d.ytemp, x+dpA3*h))

	for i := 0; i < n; i++ {
		d.ytemp[i] = y[i] + h*(dpB41*k1[i]+dpB42*d.k2[i]+dpB43*d.k3[i])
	}
	copy(d.k4, sys.Derive(d.ytemp, x+dpA4*h))

	for i := 0; i < n; i++ {
		d.ytemp[i] = y[i] + h*(dpB51*k1[i]+dpB52*d.k2[i]+dpB53*d.k3[i]+dpB54*d.k4[i])
	}
	copy(d.k5, sys.Derive(d.ytemp, x+dpA5*h))

	for i := 0; i < n; i++ {
		d.ytemp[i] = y[i] + h*(dpB61*k1[i]+dpB62*d.k2[i]+dpB63*d.k3[i]+dpB64*d.k4[i]+dpB65*d.k5[i])
	}
	copy(d.k6, sys.Derive(d.ytemp, x+h))

	yout := make(ivp.State, n)
	for i := 0; i < n; i++ {
		yout[i] = y[i] + h*(dpC1*k1[i]+dpC3*d.k3[i]+dpC4*d.k4[i]+dpC5*d.k5[i]+dpC6*d.k6[i])
	}
	copy(d.k7, sys.Derive(yout, x+h))

	for i := 0; i < n; i++ {
		d.yerr[i] = h * (dpD1*k1[i] + dpD3*d.k3[i] + dpD4*d.k4[i] + dpD5*d.k5[i] + dpD6*d.k6[i] + dpD7*d.k7[i])
	}

	return yout, d.yerr
}

func (d *Dopri) Step(sys ivp.System, y ivp.State, x, h float64) ivp.State {
	dydx := sys.Derive(y, x)
	yout, _ := d.step(sys, y, dydx, x, h)
	return yout
}

func (d *Dopri) StepAdaptive(sys ivp.System, y, dydx ivp.State, x, hTry, eps float64, yscal ivp.State) (ivp.StepResult, error) {
	h := hTry
	tries := 0

	for {
		tries++
		yout, yerr := d.step(sys, y, dydx, x, h)

		errMax := 0.0
		for i := range yerr {
			errMax = math.Max(errMax, math.Abs(yerr[i]/yscal[i]))
		}
		errMax /= eps

		if errMax <= 1 {
			var scale float64
			if errMax > d.errcon {
				scale = math.Min(d.maxScale, d.safety*math.Pow(errMax, -0.2))
			} else {
				scale = d.maxScale
			}
			return ivp.StepResult{Y: yout, X: x + h, HDid: h, HNext: h * scale, Tries: tries}, nil
		}

		scale := math.Max(d.minScale, d.safety*math.Pow(errMax, -0.25))
		h *= scale
		if x+h == x {
			return ivp.StepResult{X: x, Tries: tries}, ivp.ErrStepUnderflow
		}
	}
}

package solve

import (
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// EstimateInitialStep proposes a starting stepsize for integrating from x1
// toward x2 when the caller supplies none. It sizes a trial step from the
// ratio of state to derivative magnitude, probes the second derivative
// with one explicit Euler step, and bounds the result by the fifth-order
// accuracy of the step formula. eps acts as both absolute and relative
// weight in the component scales. The returned step carries the sign of
// x2-x1.
func EstimateInitialStep(sys ivp.System, y ivp.State, x1, x2, eps float64) float64 {
	span := math.Abs(x2 - x1)
	dir := math.Copysign(1, x2-x1)
	f := sys.Derive(y, x1)

	dnf, dny := 0.0, 0.0
	for i := range y {
		sc := eps * (1 + math.Abs(y[i]))
		dnf += (f[i] / sc) * (f[i] / sc)
		dny += (y[i] / sc) * (y[i] / sc)
	}

	var h float64
	if math.Min(dnf, dny) < 1e-10 {
		h = 1e-6
	} else {
		h = 1e-2 * math.Sqrt(dny/dnf)
	}
	h = math.Min(h, span)

	y2 := make(ivp.State, len(y))
	for i := range y {
		y2[i] = y[i] + dir*h*f[i]
	}
	f2 := sys.Derive(y2, x1+dir*h)

	der2 := 0.0
	for i := range y {
		sc := eps * (1 + math.Abs(y[i]))
		d := (f2[i] - f[i]) / sc
		der2 += d * d
	}
	der2 = math.Sqrt(der2) / h
	der12 := math.Max(der2, math.Sqrt(dnf))

	var h1 float64
	if der12 <= 1e-15 {
		h1 = math.Max(1e-6, h*1e-3)
	} else {
		h1 = math.Pow(1e-2/der12, 0.2)
	}

	h = math.Min(100*h, math.Min(h1, span))
	return dir * h
}

package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/models"
)

// ConvergenceResult pairs each tested step size with its endpoint error.
// Order is the fitted slope of log error against log h.
type ConvergenceResult struct {
	Hs     []float64
	Errors []float64
	Order  float64
}

// ConvergenceOrder drives a fixed-step method from x1 to x2, halving the
// step across levels refinements, and estimates the method's global order.
//
// Algorithm:
//  1. Integrate with n, 2n, 4n, ... uniform steps
//  2. Measure the endpoint error against the exact solution
//  3. Fit log(err) = a + p*log(h); p is the empirical order
//
// Levels where the error reaches rounding noise are excluded from the fit.
func ConvergenceOrder(ref models.Reference, stepper ivp.Stepper, y0 ivp.State, x1, x2 float64, n0, levels int) (ConvergenceResult, error) {
	if levels < 2 {
		return ConvergenceResult{}, fmt.Errorf("need at least 2 refinement levels, got %d", levels)
	}
	if n0 < 1 {
		n0 = 16
	}
	if x1 == x2 {
		return ConvergenceResult{}, fmt.Errorf("degenerate interval [%g,%g]", x1, x2)
	}

	exact := ref.Exact(x2)

	var res ConvergenceResult
	for level := 0; level < levels; level++ {
		n := n0 << level
		h := (x2 - x1) / float64(n)

		y := integrateFixed(ref, stepper, y0, x1, h, n)
		e := maxAbsDiff(y, exact)

		res.Hs = append(res.Hs, math.Abs(h))
		res.Errors = append(res.Errors, e)
	}

	logH := make([]float64, 0, levels)
	logE := make([]float64, 0, levels)
	for k := range res.Hs {
		if res.Errors[k] > 1e-14 {
			logH = append(logH, math.Log(res.Hs[k]))
			logE = append(logE, math.Log(res.Errors[k]))
		}
	}
	if len(logH) < 2 {
		return res, fmt.Errorf("errors hit rounding noise on all but %d levels; use a coarser n0", len(logH))
	}

	_, slope := stat.LinearRegression(logH, logE, nil, false)
	res.Order = slope
	return res, nil
}

func integrateFixed(sys ivp.System, stepper ivp.Stepper, y0 ivp.State, x1, h float64, n int) ivp.State {
	y := y0.Clone()
	for k := 0; k < n; k++ {
		y = stepper.Step(sys, y, x1+float64(k)*h, h)
	}
	return y
}

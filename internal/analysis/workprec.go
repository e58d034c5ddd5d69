package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/models"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

// WorkPoint is one tolerance level of a work-precision sweep.
type WorkPoint struct {
	Eps      float64
	Error    float64
	Evals    int
	Steps    int
	Rejected int
}

// countingSystem counts derivative evaluations, the cost unit that makes
// methods with different stage counts comparable.
type countingSystem struct {
	ivp.System
	evals int
}

func (c *countingSystem) Derive(y ivp.State, x float64) ivp.State {
	c.evals++
	return c.System.Derive(y, x)
}

// WorkPrecision integrates ref from x1 to x2 once per tolerance and pairs
// the endpoint error against the exact solution with the evaluation count.
// Points come back in the given tolerance order.
func WorkPrecision(ctx context.Context, ref models.Reference, stepper ivp.AdaptiveStepper, y0 ivp.State, x1, x2 float64, tolerances []float64) ([]WorkPoint, error) {
	if len(tolerances) == 0 {
		return nil, fmt.Errorf("no tolerances given")
	}

	points := make([]WorkPoint, 0, len(tolerances))
	for _, eps := range tolerances {
		counter := &countingSystem{System: ref}
		solver := solve.New(counter, stepper)

		cfg := solve.DefaultConfig()
		cfg.Eps = eps

		y := y0.Clone()
		stats, err := solver.Integrate(ctx, y, x1, x2, cfg)
		if err != nil {
			return points, fmt.Errorf("tolerance %g: %w", eps, err)
		}

		points = append(points, WorkPoint{
			Eps:      eps,
			Error:    maxAbsDiff(y, ref.Exact(x2)),
			Evals:    counter.evals,
			Steps:    stats.Steps,
			Rejected: stats.Rejected,
		})
	}
	return points, nil
}

func maxAbsDiff(a, b ivp.State) float64 {
	m := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}

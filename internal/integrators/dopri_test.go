package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

func TestDopri_Coefficients(t *testing.T) {
	rows := []struct {
		node float64
		sum  float64
	}{
		{dpA2, dpB21},
		{dpA3, dpB31 + dpB32},
		{dpA4, dpB41 + dpB42 + dpB43},
		{dpA5, dpB51 + dpB52 + dpB53 + dpB54},
		{1.0, dpB61 + dpB62 + dpB63 + dpB64 + dpB65},
	}

	for i, row := range rows {
		if math.Abs(row.sum-row.node) > 1e-14 {
			t.Errorf("stage %d: row sum %v does not match node %v", i+2, row.sum, row.node)
		}
	}

	if w := dpC1 + dpC3 + dpC4 + dpC5 + dpC6; math.Abs(w-1) > 1e-14 {
		t.Errorf("solution weights sum to %v, want 1", w)
	}
	if w := dpD1 + dpD3 + dpD4 + dpD5 + dpD6 + dpD7; math.Abs(w) > 1e-14 {
		t.Errorf("error weights sum to %v, want 0", w)
	}
}

func TestDopri_StepAccuracy(t *testing.T) {
	integ := NewDopri()
	dyn := &harmonicOscillator{}

	y := ivp.State{1.0, 0.0}
	h := 0.01
	steps := 1000

	for i := 0; i < steps; i++ {
		y = integ.Step(dyn, y, float64(i)*h, h)
	}

	expectedY := math.Cos(float64(steps) * h)
	expectedV := -math.Sin(float64(steps) * h)

	if math.Abs(y[0]-expectedY) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", y[0], expectedY)
	}
	if math.Abs(y[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", y[1], expectedV)
	}
}

func TestDopri_StepAdaptive_GrowthCap(t *testing.T) {
	integ := NewDopri()
	dyn := &harmonicOscillator{}

	y := ivp.State{1.0, 0.0}
	dydx := dyn.Derive(y, 0)
	hTry := 1e-4

	res, err := integ.StepAdaptive(dyn, y, dydx, 0, hTry, 1e-3, adaptiveScale(y, dydx, hTry))
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}

	if res.Tries != 1 {
		t.Errorf("expected first try accepted, got %d tries", res.Tries)
	}
	if math.Abs(res.HNext-10*res.HDid) > 1e-18 {
		t.Errorf("tiny error estimate should grow h tenfold: hDid=%g hNext=%g", res.HDid, res.HNext)
	}
}

func TestDopri_StepAdaptive_Underflow(t *testing.T) {
	integ := NewDopri()
	dyn := &jumpDerivative{at: 1.0, size: 1e12}

	y := ivp.State{0.0}
	dydx := dyn.Derive(y, 1.0)

	_, err := integ.StepAdaptive(dyn, y, dydx, 1.0, 0.1, 1e-10, ivp.State{1.0})
	if !errors.Is(err, ivp.ErrStepUnderflow) {
		t.Fatalf("expected stepsize underflow, got %v", err)
	}
}

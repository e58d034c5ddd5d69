package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Dim() int { return 2 }

func (h *harmonicOscillator) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{y[1], -y[0]}
}

func oscillatorEnergy(y ivp.State) float64 {
	return 0.5 * (y[0]*y[0] + y[1]*y[1])
}

func TestRKCK_Coefficients(t *testing.T) {
	rows := []struct {
		node float64
		sum  float64
	}{
		{a2, b21},
		{a3, b31 + b32},
		{a4, b41 + b42 + b43},
		{a5, b51 + b52 + b53 + b54},
		{a6, b61 + b62 + b63 + b64 + b65},
	}

	for i, row := range rows {
		if math.Abs(row.sum-row.node) > 1e-15 {
			t.Errorf("stage %d: row sum %v does not match node %v", i+2, row.sum, row.node)
		}
	}

	if w := c1 + c3 + c4 + c6; math.Abs(w-1) > 1e-15 {
		t.Errorf("solution weights sum to %v, want 1", w)
	}
	if w := dc1 + dc3 + dc4 + dc5 + dc6; math.Abs(w) > 1e-15 {
		t.Errorf("error weights sum to %v, want 0", w)
	}
}

func TestRKCK_QuadratureExact(t *testing.T) {
	// For derivatives depending only on x, a single step reduces to
	// quadrature with the c weights; a fifth-order formula is exact for
	// polynomials up to degree four.
	tests := []struct {
		name     string
		fn       func(x float64) float64
		integral func(h float64) float64
	}{
		{"constant", func(x float64) float64 { return 2.0 }, func(h float64) float64 { return 2.0 * h }},
		{"quadratic", func(x float64) float64 { return x * x }, func(h float64) float64 { return h * h * h / 3.0 }},
		{"quartic", func(x float64) float64 { return x * x * x * x }, func(h float64) float64 { return math.Pow(h, 5) / 5.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := ivp.SystemOf(1, tt.fn, func(x float64, y ivp.State, f func(float64) float64) ivp.State {
				return ivp.State{f(x)}
			})

			integ := NewRKCK()
			h := 0.3
			y := integ.Step(sys, ivp.State{0}, 0, h)

			if math.Abs(y[0]-tt.integral(h)) > 1e-14 {
				t.Errorf("expected %.16f, got %.16f", tt.integral(h), y[0])
			}
		})
	}
}

func TestRKCK_StepAccuracy(t *testing.T) {
	integ := NewRKCK()
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

func TestRKCK_EnergyConservation(t *testing.T) {
	integ := NewRKCK()
	dyn := &harmonicOscillator{}
	y0 := ivp.State{1.0, 0.0}

	initialEnergy := oscillatorEnergy(y0)
	y := y0.Clone()
	h := 0.01

	for i := 0; i < 10000; i++ {
		y = integ.Step(dyn, y, float64(i)*h, h)
	}

	finalEnergy := oscillatorEnergy(y)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("energy drift too high: %e", drift)
	}
}

func adaptiveScale(y, dydx ivp.State, h float64) ivp.State {
	yscal := make(ivp.State, len(y))
	for i := range y {
		yscal[i] = math.Abs(y[i]) + math.Abs(h*dydx[i]) + 1e-30
	}
	return yscal
}

func TestRKCK_StepAdaptive(t *testing.T) {
	integ := NewRKCK()
	dyn := &harmonicOscillator{}

	y := ivp.State{1.0, 0.0}
	dydx := dyn.Derive(y, 0)
	hTry := 0.1

	res, err := integ.StepAdaptive(dyn, y, dydx, 0, hTry, 1e-6, adaptiveScale(y, dydx, hTry))
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}

	if !res.Y.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if res.Tries < 1 {
		t.Errorf("expected at least one try, got %d", res.Tries)
	}
	if res.HDid <= 0 || res.HDid > hTry {
		t.Errorf("accepted step %f outside (0, %f]", res.HDid, hTry)
	}
	if res.X != res.HDid {
		t.Errorf("expected x %f after step from 0, got %f", res.HDid, res.X)
	}
	if res.HNext <= 0 {
		t.Errorf("proposed next step should be positive, got %f", res.HNext)
	}
}

func TestRKCK_StepAdaptive_ShrinksOnTightTolerance(t *testing.T) {
	integ := NewRKCK()
	dyn := &harmonicOscillator{}

	y := ivp.State{1.0, 0.0}
	dydx := dyn.Derive(y, 0)
	hTry := 1.0

	res, err := integ.StepAdaptive(dyn, y, dydx, 0, hTry, 1e-12, adaptiveScale(y, dydx, hTry))
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}

	if res.Tries < 2 {
		t.Errorf("expected rejections at eps=1e-12 with h=1, got %d tries", res.Tries)
	}
	if res.HDid >= hTry {
		t.Errorf("expected accepted step below %f, got %f", hTry, res.HDid)
	}

	exact := math.Sin(res.X)
	if math.Abs(res.Y[0]-math.Cos(res.X)) > 1e-9 || math.Abs(res.Y[1]+exact) > 1e-9 {
		t.Errorf("accepted step inaccurate: got [%.12f, %.12f] at x=%.6f", res.Y[0], res.Y[1], res.X)
	}
}

func TestRKCK_StepAdaptive_GrowsOnLooseTolerance(t *testing.T) {
	integ := NewRKCK()
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
	if math.Abs(res.HNext-5*res.HDid) > 1e-18 {
		t.Errorf("tiny error estimate should grow h fivefold: hDid=%g hNext=%g", res.HDid, res.HNext)
	}
}

type jumpDerivative struct {
	at   float64
	size float64
}

func (j *jumpDerivative) Dim() int { return 1 }

func (j *jumpDerivative) Derive(y ivp.State, x float64) ivp.State {
	if x > j.at {
		return ivp.State{j.size}
	}
	return ivp.State{0}
}

func TestRKCK_StepAdaptive_Underflow(t *testing.T) {
	integ := NewRKCK()
	dyn := &jumpDerivative{at: 1.0, size: 1e12}

	y := ivp.State{0.0}
	dydx := dyn.Derive(y, 1.0)

	_, err := integ.StepAdaptive(dyn, y, dydx, 1.0, 0.1, 1e-10, ivp.State{1.0})
	if !errors.Is(err, ivp.ErrStepUnderflow) {
		t.Fatalf("expected stepsize underflow, got %v", err)
	}
}

func TestRKCK_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rkck := NewRKCK()
	dyn := &harmonicOscillator{}
	y0 := ivp.State{1.0, 0.0}

	y4 := y0.Clone()
	yck := y0.Clone()
	h := 0.1

	for i := 0; i < 100; i++ {
		y4 = rk4.Step(dyn, y4, float64(i)*h, h)
		yck = rkck.Step(dyn, yck, float64(i)*h, h)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", y4[0], y4[1])
	t.Logf("RKCK final: [%.6f, %.6f]", yck[0], yck[1])

	e4 := oscillatorEnergy(y4)
	eck := oscillatorEnergy(yck)

	if math.Abs(eck-0.5) > math.Abs(e4-0.5) {
		t.Log("Warning: RKCK not more accurate than RK4 for this case")
	}
}

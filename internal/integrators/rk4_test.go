package integrators

import (
	"math"
	"testing"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

type oscillator struct{}

func (o *oscillator) Dim() int { return 2 }
func (o *oscillator) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{y[1], -y[0]}
}

func TestRK4Accuracy(t *testing.T) {
	sys := &oscillator{}
	stepper := NewRK4()

	y := ivp.State{1.0, 0.0}
	h := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		y = stepper.Step(sys, y, float64(i)*h, h)
	}

	expectedPos := math.Cos(float64(steps) * h)
	expectedVel := -math.Sin(float64(steps) * h)

	if math.Abs(y[0]-expectedPos) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", y[0], expectedPos)
	}
	if math.Abs(y[1]-expectedVel) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", y[1], expectedVel)
	}
}

func TestEulerAccuracy(t *testing.T) {
	sys := &oscillator{}
	stepper := NewEuler()

	y := ivp.State{1.0, 0.0}
	h := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		y = stepper.Step(sys, y, float64(i)*h, h)
	}

	// First order: expect rough agreement only.
	if math.Abs(y[0]-math.Cos(1)) > 1e-2 {
		t.Errorf("position error too large: got %.6f, expected %.6f", y[0], math.Cos(1))
	}
}

func TestRK4_DoesNotMutateInput(t *testing.T) {
	sys := &oscillator{}
	stepper := NewRK4()

	y := ivp.State{1.0, 0.5}
	stepper.Step(sys, y, 0, 0.1)

	if y[0] != 1.0 || y[1] != 0.5 {
		t.Errorf("input state mutated: %v", y)
	}
}

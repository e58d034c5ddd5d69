package ivp

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE right-hand side. Derive evaluates dy/dx at
// (x, y) and must not modify y.
type System interface {
	Derive(y State, x float64) State
	Dim() int
}

// Func is a derivative callback with an opaque parameter bundle. The
// integration core never inspects params; it is carried to every
// evaluation unchanged.
type Func[P any] func(x float64, y State, params P) State

type funcSystem[P any] struct {
	dim    int
	params P
	fn     Func[P]
}

func (s *funcSystem[P]) Derive(y State, x float64) State { return s.fn(x, y, s.params) }
func (s *funcSystem[P]) Dim() int                        { return s.dim }

// SystemOf wraps a derivative function and its params as a System.
func SystemOf[P any](dim int, params P, fn Func[P]) System {
	return &funcSystem[P]{dim: dim, params: params, fn: fn}
}

// Stepper advances y by a single step of size h.
type Stepper interface {
	Step(sys System, y State, x, h float64) State
}

// StepResult reports the outcome of one controlled step. Tries counts
// attempted step sizes; Tries-1 of them were rejected.
type StepResult struct {
	Y     State
	X     float64
	HDid  float64
	HNext float64
	Tries int
}

// AdaptiveStepper is a Stepper with embedded error estimation. StepAdaptive
// attempts a step of size hTry, shrinking until the scaled error estimate
// max|yerr/yscal| falls within eps, and proposes the size for the next step.
// dydx must hold the derivative at (x, y).
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, y, dydx State, x, hTry, eps float64, yscal State) (StepResult, error)
}

type Observer interface {
	OnStep(y State, x, h float64)
}

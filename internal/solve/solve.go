package solve

import (
	"context"
	"fmt"
	"math"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// scaleFloor keeps the per-component error scale nonzero where a component
// and its derivative both pass through zero.
const scaleFloor = 1e-30

// Config bounds one integration call. Eps is the fractional local error
// tolerance; H1 the magnitude of the first trial step (zero means estimate
// one from the initial derivative); HMin the advisory stepsize floor;
// MaxSteps the accepted-step limit per segment.
type Config struct {
	Eps      float64
	H1       float64
	HMin     float64
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		Eps:      1e-6,
		H1:       0,
		HMin:     0,
		MaxSteps: 1000000,
	}
}

// Solver advances a system between caller-chosen coordinates with adaptive
// stepsize control.
type Solver struct {
	sys       ivp.System
	stepper   ivp.AdaptiveStepper
	observers []ivp.Observer
	progress  func(done, total int)
}

func New(sys ivp.System, stepper ivp.AdaptiveStepper) *Solver {
	return &Solver{sys: sys, stepper: stepper}
}

// AddObserver registers o to be invoked after every accepted step.
func (s *Solver) AddObserver(o ivp.Observer) { s.observers = append(s.observers, o) }

// SetProgress registers fn to be invoked after each completed segment of a
// Sample call, with the number of finished segments and the total. A nil
// fn silences progress reporting.
func (s *Solver) SetProgress(fn func(done, total int)) { s.progress = fn }

func validateConfig(cfg Config) error {
	if cfg.Eps <= 0 {
		return fmt.Errorf("eps must be positive, got %g", cfg.Eps)
	}
	if cfg.HMin < 0 {
		return fmt.Errorf("hmin must be non-negative, got %g", cfg.HMin)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", cfg.MaxSteps)
	}
	return nil
}

// Integrate advances y in place from x1 to x2, honoring cfg.Eps at every
// step. Integration toward smaller x (x2 < x1) works symmetrically; the
// step sign is derived from x2-x1 regardless of the sign of cfg.H1.
//
// A proposed stepsize below cfg.HMin is recorded in the returned Stats and
// integration continues. Exhausting cfg.MaxSteps returns ErrTooManySteps
// with y holding the state reached so far; stepsize underflow returns
// ErrStepUnderflow. Both are wrapped in a StepError carrying the step
// index and coordinate.
func (s *Solver) Integrate(ctx context.Context, y ivp.State, x1, x2 float64, cfg Config) (Stats, error) {
	if err := validateConfig(cfg); err != nil {
		return Stats{}, err
	}
	if len(y) != s.sys.Dim() {
		return Stats{}, ivp.ErrDimensionMismatch
	}

	stats := Stats{X: x1}
	if x1 == x2 {
		return stats, nil
	}

	var h float64
	if cfg.H1 != 0 {
		h = math.Copysign(cfg.H1, x2-x1)
	} else {
		h = EstimateInitialStep(s.sys, y, x1, x2, cfg.Eps)
	}

	x := x1
	yscal := make(ivp.State, len(y))

	for step := 0; step < cfg.MaxSteps; step++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		dydx := s.sys.Derive(y, x)
		for i := range y {
			yscal[i] = math.Abs(y[i]) + math.Abs(h*dydx[i]) + scaleFloor
		}

		// Clamp so the step cannot cross past x2; this also produces the
		// final partial step.
		if (x+h-x2)*(x+h-x1) > 0 {
			h = x2 - x
		}

		res, err := s.stepper.StepAdaptive(s.sys, y, dydx, x, h, cfg.Eps, yscal)
		if err != nil {
			return stats, &ivp.StepError{Step: step, X: x, H: h, Err: err}
		}

		copy(y, res.Y)
		x = res.X
		stats.Steps++
		stats.Rejected += res.Tries - 1
		stats.LastStep = res.HDid
		stats.NextStep = res.HNext
		stats.X = x

		if !y.IsValid() {
			return stats, &ivp.StepError{Step: step, X: x, H: res.HDid, Err: ivp.ErrInvalidState}
		}

		for _, o := range s.observers {
			o.OnStep(y, x, res.HDid)
		}

		if (x-x2)*(x2-x1) >= 0 {
			return stats, nil
		}

		if math.Abs(res.HNext) < cfg.HMin {
			stats.MinStepHits++
			stats.Warnings = append(stats.Warnings,
				&ivp.StepError{Step: step, X: x, H: res.HNext, Err: ivp.ErrStepBelowMin})
		}
		h = res.HNext
	}

	return stats, &ivp.StepError{Step: cfg.MaxSteps, X: x, H: h, Err: ivp.ErrTooManySteps}
}

// Sample integrates across each consecutive pair of xs and records the
// state at every coordinate. Column 0 of the returned table is y0 itself.
// The coordinates need not be uniformly spaced or monotonic; direction is
// re-derived per segment. On error the table holds the columns completed
// so far and the error identifies the failing segment.
func (s *Solver) Sample(ctx context.Context, y0 ivp.State, xs []float64, cfg Config) (*Table, Stats, error) {
	if len(xs) == 0 {
		return nil, Stats{}, fmt.Errorf("no sample coordinates given")
	}
	if len(y0) != s.sys.Dim() {
		return nil, Stats{}, ivp.ErrDimensionMismatch
	}

	table := NewTable(len(y0), xs)
	y := y0.Clone()
	table.SetCol(0, y)

	var total Stats
	total.X = xs[0]

	segments := len(xs) - 1
	for j := 1; j < len(xs); j++ {
		st, err := s.Integrate(ctx, y, xs[j-1], xs[j], cfg)
		total.add(st)
		if err != nil {
			return table, total, fmt.Errorf("segment %d (x=%g to %g): %w", j, xs[j-1], xs[j], err)
		}
		table.SetCol(j, y)
		if s.progress != nil {
			s.progress(j, segments)
		}
	}

	return table, total, nil
}

package solve

import (
	"context"
	"sync"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
)

// Variant is one member of an ensemble: a system (typically the same
// equations under different parameters) and its starting state.
type Variant struct {
	Name string
	Sys  ivp.System
	Y0   ivp.State
}

// Ensemble samples independent variants concurrently. Steppers reuse
// scratch buffers between calls, so each goroutine builds its own from
// newStepper.
type Ensemble struct {
	newStepper func() ivp.AdaptiveStepper
}

func NewEnsemble(newStepper func() ivp.AdaptiveStepper) *Ensemble {
	return &Ensemble{newStepper: newStepper}
}

// Sample runs Solver.Sample for every variant over the same coordinates
// and config. Results are indexed like variants. The first variant error
// is returned after all runs finish.
func (e *Ensemble) Sample(ctx context.Context, variants []Variant, xs []float64, cfg Config) ([]*Table, []Stats, error) {
	tables := make([]*Table, len(variants))
	stats := make([]Stats, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(idx int, v Variant) {
			defer wg.Done()

			s := New(v.Sys, e.newStepper())
			tables[idx], stats[idx], errs[idx] = s.Sample(ctx, v.Y0, xs, cfg)
		}(i, v)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return tables, stats, err
		}
	}

	return tables, stats, nil
}

package experiment

import (
	"context"
	"fmt"

	"github.com/joehahn/int-sys-eqns/internal/config"
	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/models"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

// Experiment binds a configured scenario to a resolved system and solver.
type Experiment struct {
	cfg    *config.Config
	system models.System
	solver *solve.Solver
	y0     ivp.State
	xs     []float64
}

// New resolves the scenario's system and method against the registry and
// prepares a solver. The initial state comes from the scenario when given,
// otherwise from the system's default.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	sys, err := reg.GetSystem(cfg.System, cfg.Params)
	if err != nil {
		return nil, err
	}

	stepper, err := reg.GetMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	y0 := sys.DefaultState()
	if len(cfg.Y0) > 0 {
		if len(cfg.Y0) != sys.Dim() {
			return nil, fmt.Errorf("initial state has %d components, system %s needs %d",
				len(cfg.Y0), cfg.System, sys.Dim())
		}
		y0 = ivp.State(cfg.Y0).Clone()
	}

	xs, err := cfg.SampleXs()
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:    cfg,
		system: sys,
		solver: solve.New(sys, stepper),
		y0:     y0,
		xs:     xs,
	}, nil
}

// Run integrates the scenario across all sample points.
func (e *Experiment) Run(ctx context.Context) (*solve.Table, solve.Stats, error) {
	return e.solver.Sample(ctx, e.y0, e.xs, e.solveConfig())
}

func (e *Experiment) solveConfig() solve.Config {
	sc := solve.DefaultConfig()
	if e.cfg.Eps > 0 {
		sc.Eps = e.cfg.Eps
	}
	if e.cfg.H1 > 0 {
		sc.H1 = e.cfg.H1
	}
	if e.cfg.HMin > 0 {
		sc.HMin = e.cfg.HMin
	}
	if e.cfg.MaxSteps > 0 {
		sc.MaxSteps = e.cfg.MaxSteps
	}
	return sc
}

// Solver exposes the underlying solver for adding observers.
func (e *Experiment) Solver() *solve.Solver { return e.solver }

// System returns the resolved system.
func (e *Experiment) System() models.System { return e.system }

// InitialState returns a copy of the resolved initial state.
func (e *Experiment) InitialState() ivp.State { return e.y0.Clone() }

// SamplePoints returns the resolved x coordinates.
func (e *Experiment) SamplePoints() []float64 { return e.xs }

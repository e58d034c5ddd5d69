package experiment

import (
	"fmt"
	"sort"

	"github.com/joehahn/int-sys-eqns/internal/integrators"
	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/models"
)

// Registry maps names to system and stepper factories. System factories
// take a parameter map so presets and CLI flags can override coefficients
// without new code.
type Registry struct {
	systems map[string]func(params map[string]float64) models.System
	methods map[string]func() ivp.AdaptiveStepper
	fixed   map[string]func() ivp.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		systems: make(map[string]func(params map[string]float64) models.System),
		methods: make(map[string]func() ivp.AdaptiveStepper),
		fixed:   make(map[string]func() ivp.Stepper),
	}

	r.systems["decay"] = func(params map[string]float64) models.System {
		d := models.NewDecay()
		d.Lambda = paramOr(params, "lambda", d.Lambda)
		return d
	}
	r.systems["harmonic"] = func(params map[string]float64) models.System {
		h := models.NewHarmonic()
		h.Omega = paramOr(params, "omega", h.Omega)
		return h
	}
	r.systems["logistic"] = func(params map[string]float64) models.System {
		l := models.NewLogistic()
		l.R = paramOr(params, "r", l.R)
		l.K = paramOr(params, "k", l.K)
		return l
	}
	r.systems["mixed"] = func(params map[string]float64) models.System {
		m := models.NewMixed()
		m.A = paramOr(params, "a", m.A)
		m.B = paramOr(params, "b", m.B)
		m.C = paramOr(params, "c", m.C)
		return m
	}
	r.systems["vanderpol"] = func(params map[string]float64) models.System {
		v := models.NewVanDerPol()
		v.Mu = paramOr(params, "mu", v.Mu)
		return v
	}
	r.systems["lorenz"] = func(params map[string]float64) models.System {
		l := models.NewLorenz()
		l.Sigma = paramOr(params, "sigma", l.Sigma)
		l.Rho = paramOr(params, "rho", l.Rho)
		l.Beta = paramOr(params, "beta", l.Beta)
		return l
	}
	r.systems["kepler"] = func(params map[string]float64) models.System {
		k := models.NewKepler()
		k.GM = paramOr(params, "gm", k.GM)
		return k
	}

	r.methods["rkck"] = func() ivp.AdaptiveStepper { return integrators.NewRKCK() }
	r.methods["dopri"] = func() ivp.AdaptiveStepper { return integrators.NewDopri() }

	r.fixed["euler"] = func() ivp.Stepper { return integrators.NewEuler() }
	r.fixed["rk4"] = func() ivp.Stepper { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetSystem(name string, params map[string]float64) (models.System, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetMethod(name string) (ivp.AdaptiveStepper, error) {
	fn, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn(), nil
}

// GetFixed resolves non-adaptive steppers used for convergence studies.
func (r *Registry) GetFixed(name string) (ivp.Stepper, error) {
	fn, ok := r.fixed[name]
	if !ok {
		return nil, fmt.Errorf("unknown fixed-step method: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListMethods() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func paramOr(params map[string]float64, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}

package solve_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joehahn/int-sys-eqns/internal/integrators"
	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/models"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

// uniform returns n evenly spaced points from 0 to to, endpoints exact.
func uniform(to float64, n int) []float64 {
	xs := make([]float64, n)
	for j := range xs {
		xs[j] = to * float64(j) / float64(n-1)
	}
	return xs
}

var _ = Describe("sampling a mixed quadrature/polynomial/decay run", func() {
	var (
		sys *models.Mixed
		cfg solve.Config
	)

	BeforeEach(func() {
		sys = models.NewMixed()
		cfg = solve.DefaultConfig()
		cfg.Eps = 1e-4
		cfg.H1 = 1e-5
		cfg.HMin = 1e-13
	})

	It("tracks the closed-form solution at 101 uniform points", func() {
		xs := uniform(10, 101)
		s := solve.New(sys, integrators.NewRKCK())

		table, stats, err := s.Sample(context.Background(), sys.DefaultState(), xs, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Steps).To(BeNumerically(">", 0))
		Expect(stats.X).To(Equal(10.0))
		Expect(stats.MinStepHits).To(BeZero())

		for j, x := range table.Xs() {
			exact := sys.Exact(x)
			for i := range exact {
				Expect(table.At(i, j)).To(BeNumerically("~", exact[i], 1e-2*(1+math.Abs(exact[i]))),
					"component %d at x=%g (sample %d)", i, x, j)
			}
		}
	})

	It("reaches the same endpoint regardless of sampling density", func() {
		cfg.Eps = 1e-8

		var endpoints []ivp.State
		for _, n := range []int{2, 11, 101} {
			s := solve.New(sys, integrators.NewRKCK())
			table, _, err := s.Sample(context.Background(), sys.DefaultState(), uniform(10, n), cfg)
			Expect(err).NotTo(HaveOccurred())
			endpoints = append(endpoints, table.Col(n-1))
		}

		for _, y := range endpoints[1:] {
			for i := range y {
				Expect(y[i]).To(BeNumerically("~", endpoints[0][i], 1e-5))
			}
		}
	})
})

var _ = Describe("tolerance control", func() {
	integrate := func(eps float64) (ivp.State, solve.Stats) {
		sys := models.NewHarmonic()
		s := solve.New(sys, integrators.NewRKCK())
		cfg := solve.DefaultConfig()
		cfg.Eps = eps

		y := sys.DefaultState()
		stats, err := s.Integrate(context.Background(), y, 0, 10, cfg)
		Expect(err).NotTo(HaveOccurred())
		return y, stats
	}

	It("tightening eps shrinks the endpoint error and raises the work", func() {
		exact := models.NewHarmonic().Exact(10)

		prevErr := math.Inf(1)
		prevSteps := 0
		for _, eps := range []float64{1e-3, 1e-6, 1e-9} {
			y, stats := integrate(eps)
			e := math.Abs(y[0]-exact[0]) + math.Abs(y[1]-exact[1])
			Expect(e).To(BeNumerically("<=", prevErr), "eps=%g", eps)
			Expect(stats.Steps).To(BeNumerically(">=", prevSteps), "eps=%g", eps)
			prevErr, prevSteps = e, stats.Steps
		}
	})
})

var _ = Describe("failure reporting", func() {
	It("surfaces step exhaustion as a typed error with partial progress", func() {
		sys := models.NewHarmonic()
		s := solve.New(sys, integrators.NewRKCK())
		cfg := solve.DefaultConfig()
		cfg.Eps = 1e-10
		cfg.H1 = 1e-6
		cfg.MaxSteps = 5

		y := sys.DefaultState()
		stats, err := s.Integrate(context.Background(), y, 0, 100, cfg)
		Expect(err).To(MatchError(ivp.ErrTooManySteps))
		Expect(stats.Steps).To(Equal(5))
		Expect(stats.X).To(BeNumerically(">", 0))
		Expect(stats.X).To(BeNumerically("<", 100))
	})

	It("rejects states that blow up to infinity", func() {
		s := solve.New(overflowSystem{}, integrators.NewRKCK())
		cfg := solve.DefaultConfig()
		cfg.H1 = 1

		y := ivp.State{0}
		_, err := s.Integrate(context.Background(), y, 0, 3, cfg)
		Expect(err).To(MatchError(ivp.ErrInvalidState))
	})
})

// overflowSystem has a derivative so large the state overflows to +Inf
// within a step or two. The two embedded estimates agree on a constant
// derivative, so the step is accepted rather than rejected.
type overflowSystem struct{}

func (overflowSystem) Dim() int { return 1 }

func (overflowSystem) Derive(y ivp.State, x float64) ivp.State {
	return ivp.State{math.MaxFloat64}
}

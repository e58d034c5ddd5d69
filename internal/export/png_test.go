package export

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

func sineTable() *solve.Table {
	xs := make([]float64, 50)
	for j := range xs {
		xs[j] = float64(j) * 0.2
	}
	table := solve.NewTable(2, xs)
	for j, x := range xs {
		table.SetCol(j, ivp.State{math.Sin(x), math.Cos(x)})
	}
	return table
}

func TestSolutionPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.png")

	if err := SolutionPNG(path, "test", sineTable()); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty png")
	}
}

func TestPhasePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phase.png")

	if err := PhasePNG(path, "test", sineTable(), 0, 1); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output not created: %v", err)
	}
}

func TestPhasePNG_OutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phase.png")

	if err := PhasePNG(path, "test", sineTable(), 0, 5); err == nil {
		t.Error("expected error for out-of-range component")
	}
}

func TestLogLogPNG_DropsNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wp.png")

	xs := []float64{1e-4, 1e-6, 1e-8, -1}
	ys := []float64{1e-3, 1e-5, 1e-7, 2}
	if err := LogLogPNG(path, "test", "eps", "error", xs, ys); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if err := LogLogPNG(path, "test", "eps", "error", []float64{-1}, []float64{1}); err == nil {
		t.Error("expected error when nothing is plottable")
	}
}

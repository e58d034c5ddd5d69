package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joehahn/int-sys-eqns/internal/config"
	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

func sampleTable() *solve.Table {
	table := solve.NewTable(2, []float64{0, 0.5, 1})
	table.SetCol(0, ivp.State{1, 0})
	table.SetCol(1, ivp.State{0.8775825618903728, -0.479425538604203})
	table.SetCol(2, ivp.State{0.5403023058681398, -0.8414709848078965})
	return table
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.System = "harmonic"
	cfg.Method = "rkck"
	cfg.Eps = 1e-7

	stats := solve.Stats{Steps: 42, Rejected: 3, MinStepHits: 1}

	runID, err := st.Save(cfg, ivp.State{1, 0}, sampleTable(), stats)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "harmonic_") {
		t.Errorf("run id %q should start with the system name", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.System != "harmonic" || meta.Method != "rkck" {
		t.Errorf("metadata mismatch: %s/%s", meta.System, meta.Method)
	}
	if meta.Eps != 1e-7 {
		t.Errorf("expected eps 1e-7, got %g", meta.Eps)
	}
	if meta.Steps != 42 || meta.Rejected != 3 {
		t.Errorf("stats mismatch: %d/%d", meta.Steps, meta.Rejected)
	}
	if len(meta.Y0) != 2 || meta.Y0[0] != 1 {
		t.Errorf("y0 mismatch: %v", meta.Y0)
	}
}

func TestLoadSamples_RoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	original := sampleTable()
	runID, err := st.Save(config.DefaultConfig(), ivp.State{1, 0}, original, solve.Stats{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}

	dim, samples := loaded.Dims()
	if dim != 2 || samples != 3 {
		t.Fatalf("expected 2x3 table, got %dx%d", dim, samples)
	}
	for j := 0; j < samples; j++ {
		if loaded.Xs()[j] != original.Xs()[j] {
			t.Errorf("x[%d] = %g, expected %g", j, loaded.Xs()[j], original.Xs()[j])
		}
		for i := 0; i < dim; i++ {
			if loaded.At(i, j) != original.At(i, j) {
				t.Errorf("value (%d,%d) = %g, expected exact %g", i, j, loaded.At(i, j), original.At(i, j))
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(config.DefaultConfig(), ivp.State{1, 0}, sampleTable(), solve.Stats{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(config.DefaultConfig(), ivp.State{1, 0}, sampleTable(), solve.Stats{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "samples.csv")); os.IsNotExist(err) {
		t.Error("samples.csv not created")
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "x,y0,y1" {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{System: "harmonic", Method: "rkck", Eps: 1e-6, Steps: 10}

	if err := WriteJSON(&buf, meta, sampleTable()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, `"system": "harmonic"`) {
		t.Errorf("missing system field in %s", out)
	}
	if !strings.Contains(out, `"states"`) {
		t.Errorf("missing states field in %s", out)
	}
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/joehahn/int-sys-eqns/internal/config"
	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	System      string    `json:"system"`
	Method      string    `json:"method"`
	Timestamp   time.Time `json:"timestamp"`
	Eps         float64   `json:"eps"`
	H1          float64   `json:"h1"`
	HMin        float64   `json:"hmin"`
	MaxSteps    int       `json:"max_steps"`
	From        float64   `json:"from"`
	To          float64   `json:"to"`
	Points      int       `json:"points"`
	Y0          []float64 `json:"y0"`
	Steps       int       `json:"steps"`
	Rejected    int       `json:"rejected"`
	MinStepHits int       `json:"min_step_hits,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// Save writes one run as a directory holding metadata.json and samples.csv.
// The run ID combines the system name with a short random suffix so repeated
// runs of the same scenario never collide.
func (s *Store) Save(cfg *config.Config, y0 ivp.State, table *solve.Table, stats solve.Stats) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.System, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		System:      cfg.System,
		Method:      cfg.Method,
		Timestamp:   time.Now(),
		Eps:         cfg.Eps,
		H1:          cfg.H1,
		HMin:        cfg.HMin,
		MaxSteps:    cfg.MaxSteps,
		From:        cfg.From,
		To:          cfg.To,
		Points:      cfg.Points,
		Y0:          y0,
		Steps:       stats.Steps,
		Rejected:    stats.Rejected,
		MinStepHits: stats.MinStepHits,
	}
	for _, w := range stats.Warnings {
		meta.Warnings = append(meta.Warnings, w.Error())
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, table); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads a run's samples.csv back into a table. Values were
// written with full precision, so a save/load cycle is exact.
func (s *Store) LoadSamples(runID string) (*solve.Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("run %s has no samples", runID)
	}

	dim := len(records[0]) - 1
	if dim < 1 {
		return nil, fmt.Errorf("run %s has a malformed header", runID)
	}

	xs := make([]float64, 0, len(records)-1)
	cols := make([]ivp.State, 0, len(records)-1)
	for _, record := range records[1:] {
		x, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad sample coordinate %q", runID, record[0])
		}
		xs = append(xs, x)

		y := make(ivp.State, dim)
		for i := 0; i < dim; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: bad value %q at x=%g", runID, record[i+1], x)
			}
			y[i] = v
		}
		cols = append(cols, y)
	}

	table := solve.NewTable(dim, xs)
	for j, y := range cols {
		table.SetCol(j, y)
	}
	return table, nil
}

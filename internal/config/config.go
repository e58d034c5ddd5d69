package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEps      = 1e-6
	DefaultH1       = 1e-3
	DefaultHMin     = 0.0
	DefaultMaxSteps = 1000000
	DefaultFrom     = 0.0
	DefaultTo       = 10.0
	DefaultPoints   = 101
)

type Config struct {
	System   string             `yaml:"system"`
	Method   string             `yaml:"method"`
	From     float64            `yaml:"from"`
	To       float64            `yaml:"to"`
	Points   int                `yaml:"points"`
	Xs       []float64          `yaml:"xs,omitempty"`
	Eps      float64            `yaml:"eps"`
	H1       float64            `yaml:"h1"`
	HMin     float64            `yaml:"hmin"`
	MaxSteps int                `yaml:"max_steps"`
	Y0       []float64          `yaml:"y0,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		System:   "mixed",
		Method:   "rkck",
		From:     DefaultFrom,
		To:       DefaultTo,
		Points:   DefaultPoints,
		Eps:      DefaultEps,
		H1:       DefaultH1,
		HMin:     DefaultHMin,
		MaxSteps: DefaultMaxSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SampleXs returns the sample coordinates for the run: the explicit xs
// list when given, otherwise Points uniform coordinates from From to To.
func (c *Config) SampleXs() ([]float64, error) {
	if len(c.Xs) > 0 {
		return c.Xs, nil
	}
	if c.Points < 1 {
		return nil, fmt.Errorf("points must be at least 1, got %d", c.Points)
	}
	if c.Points == 1 {
		return []float64{c.From}, nil
	}

	xs := make([]float64, c.Points)
	span := c.To - c.From
	for i := range xs {
		xs[i] = c.From + span*float64(i)/float64(c.Points-1)
	}
	// Land exactly on the endpoint regardless of rounding.
	xs[c.Points-1] = c.To
	return xs, nil
}

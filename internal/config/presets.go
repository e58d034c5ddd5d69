package config

import "sort"

var Presets = map[string]map[string]*Config{
	"mixed": {
		"standard": {
			System: "mixed", Method: "rkck", From: 0, To: 10, Points: 101,
			Eps: 1e-4, H1: 1e-5, HMin: 1e-13, MaxSteps: DefaultMaxSteps,
			Y0: []float64{1, 0, 3},
		},
		"tight": {
			System: "mixed", Method: "rkck", From: 0, To: 10, Points: 101,
			Eps: 1e-10, H1: 1e-5, HMin: 1e-13, MaxSteps: DefaultMaxSteps,
			Y0: []float64{1, 0, 3},
		},
	},
	"decay": {
		"quick": {
			System: "decay", Method: "rkck", From: 0, To: 5, Points: 51,
			Eps: 1e-6, H1: 1e-3, MaxSteps: DefaultMaxSteps,
		},
		"precise": {
			System: "decay", Method: "rkck", From: 0, To: 5, Points: 51,
			Eps: 1e-12, H1: 1e-3, MaxSteps: DefaultMaxSteps,
		},
	},
	"harmonic": {
		"period": {
			System: "harmonic", Method: "rkck", From: 0, To: 6.283185307179586, Points: 65,
			Eps: 1e-8, H1: 1e-3, MaxSteps: DefaultMaxSteps,
		},
	},
	"vanderpol": {
		"limit_cycle": {
			System: "vanderpol", Method: "rkck", From: 0, To: 20, Points: 201,
			Eps: 1e-6, H1: 1e-3, MaxSteps: DefaultMaxSteps,
		},
		"relaxation": {
			System: "vanderpol", Method: "rkck", From: 0, To: 40, Points: 401,
			Eps: 1e-6, H1: 1e-4, MaxSteps: DefaultMaxSteps,
			Params: map[string]float64{"mu": 10},
		},
	},
	"lorenz": {
		"butterfly": {
			System: "lorenz", Method: "dopri", From: 0, To: 25, Points: 2501,
			Eps: 1e-8, H1: 1e-3, MaxSteps: DefaultMaxSteps,
		},
	},
	"kepler": {
		"circular": {
			System: "kepler", Method: "rkck", From: 0, To: 12.566370614359172, Points: 129,
			Eps: 1e-9, H1: 1e-3, MaxSteps: DefaultMaxSteps,
		},
		"eccentric": {
			System: "kepler", Method: "rkck", From: 0, To: 20, Points: 201,
			Eps: 1e-9, H1: 1e-3, MaxSteps: DefaultMaxSteps,
			Y0: []float64{1, 0, 0, 1.3},
		},
	},
}

func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package main

import (
	"fmt"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/game"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Target  string // species name or terrain name
	Key     string // override key
	Min     float64
	Max     float64
	Default float64
}

// Name returns the override form "target.key".
func (s ParamSpec) Name() string { return s.Target + "." + s.Key }

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard search space: the reproduction,
// mortality and appetite coefficients of both species plus lowland fodder.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Target: "herbivore", Key: "beta", Min: 0.5, Max: 1.0, Default: 0.9},
			{Target: "herbivore", Key: "gamma", Min: 0.05, Max: 0.5, Default: 0.2},
			{Target: "herbivore", Key: "omega", Min: 0.1, Max: 0.9, Default: 0.4},
			{Target: "herbivore", Key: "F", Min: 5, Max: 20, Default: 10},
			{Target: "carnivore", Key: "beta", Min: 0.5, Max: 1.0, Default: 0.75},
			{Target: "carnivore", Key: "eta", Min: 0.05, Max: 0.3, Default: 0.125},
			{Target: "carnivore", Key: "gamma", Min: 0.2, Max: 1.0, Default: 0.8},
			{Target: "carnivore", Key: "omega", Min: 0.3, Max: 1.0, Default: 0.8},
			{Target: "carnivore", Key: "F", Min: 20, Max: 80, Default: 50},
			{Target: "carnivore", Key: "DeltaPhiMax", Min: 2, Max: 20, Default: 10},
			{Target: "lowland", Key: "f_max", Min: 300, Max: 1200, Default: 700},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Overrides turns clamped values into species and landscape overrides.
func (pv *ParamVector) Overrides(values []float64) (animal, landscape []game.Override) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		o := game.Override{Target: spec.Target, Key: spec.Key, Value: clamped[i]}
		if _, err := components.ParseSpecies(spec.Target); err == nil {
			animal = append(animal, o)
		} else {
			landscape = append(landscape, o)
		}
	}
	return animal, landscape
}

// ApplyToConfig writes clamped values into the species and landscape
// tables of cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)
	tables := map[string]*components.AnimalParams{
		"herbivore": &cfg.Species.Herbivore,
		"carnivore": &cfg.Species.Carnivore,
	}
	fodder := map[string]*config.FodderConfig{
		"lowland":  &cfg.Landscape.Lowland,
		"highland": &cfg.Landscape.Highland,
	}
	for i, spec := range pv.Specs {
		if f, ok := fodder[spec.Target]; ok {
			f.MaxFood = clamped[i]
			continue
		}
		table, ok := tables[spec.Target]
		if !ok {
			return fmt.Errorf("unknown target %q", spec.Target)
		}
		s, _ := components.ParseSpecies(spec.Target)
		if err := table.Override(s, map[string]float64{spec.Key: clamped[i]}); err != nil {
			return err
		}
	}
	return cfg.Validate()
}

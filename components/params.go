package components

import (
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// AnimalParams holds the per-species coefficients of the lifecycle model.
// The yaml and param keys keep the names used in the published model.
type AnimalParams struct {
	WBirth      float64 `yaml:"w_birth" param:"w_birth"`         // mean birth weight
	SigmaBirth  float64 `yaml:"sigma_birth" param:"sigma_birth"` // birth weight stddev
	Beta        float64 `yaml:"beta" param:"beta"`               // weight gained per unit eaten
	Eta         float64 `yaml:"eta" param:"eta"`                 // yearly weight loss fraction
	AHalf       float64 `yaml:"a_half" param:"a_half"`           // age fitness midpoint
	PhiAge      float64 `yaml:"phi_age" param:"phi_age"`         // age fitness steepness
	WHalf       float64 `yaml:"w_half" param:"w_half"`           // weight fitness midpoint
	PhiWeight   float64 `yaml:"phi_weight" param:"phi_weight"`   // weight fitness steepness
	Mu          float64 `yaml:"mu" param:"mu"`                   // migration probability scale
	Gamma       float64 `yaml:"gamma" param:"gamma"`             // birth probability scale
	Zeta        float64 `yaml:"zeta" param:"zeta"`               // birth weight threshold multiplier
	Xi          float64 `yaml:"xi" param:"xi"`                   // birth cost multiplier
	Omega       float64 `yaml:"omega" param:"omega"`             // death probability scale
	F           float64 `yaml:"F" param:"F"`                     // appetite per year
	DeltaPhiMax float64 `yaml:"DeltaPhiMax,omitempty" param:"DeltaPhiMax,carnivore"`
}

// DefaultAnimalParams returns the default table for a species.
func DefaultAnimalParams(s Species) AnimalParams {
	if s == Carnivore {
		return AnimalParams{
			WBirth: 6, SigmaBirth: 1, Beta: 0.75, Eta: 0.125,
			AHalf: 40, PhiAge: 0.3, WHalf: 4, PhiWeight: 0.4,
			Mu: 0.4, Gamma: 0.8, Zeta: 3.5, Xi: 1.1, Omega: 0.8,
			F: 50, DeltaPhiMax: 10,
		}
	}
	return AnimalParams{
		WBirth: 8, SigmaBirth: 1.5, Beta: 0.9, Eta: 0.05,
		AHalf: 40, PhiAge: 0.6, WHalf: 10, PhiWeight: 0.1,
		Mu: 0.25, Gamma: 0.2, Zeta: 3.5, Xi: 1.2, Omega: 0.4,
		F: 10,
	}
}

// Override applies named overrides to the table of species s. Nothing is
// changed unless every key is known for the species and the result is valid.
func (p *AnimalParams) Override(s Species, overrides map[string]float64) error {
	next := *p
	if err := applyOverrides(&next, s.String(), speciesScope(s), overrides); err != nil {
		return err
	}
	if err := next.Validate(s); err != nil {
		return err
	}
	*p = next
	return nil
}

// Validate checks that every coefficient is usable for species s.
func (p *AnimalParams) Validate(s Species) error {
	scope := s.String()
	v := reflect.ValueOf(p).Elem()
	for key, idx := range paramFields(v.Type(), speciesScope(s)) {
		if err := checkFinite(scope, key, v.Field(idx).Float()); err != nil {
			return err
		}
	}

	nonNegative := []struct {
		key string
		val float64
	}{
		{"a_half", p.AHalf},
		{"w_half", p.WHalf},
		{"sigma_birth", p.SigmaBirth},
		{"F", p.F},
	}
	for _, c := range nonNegative {
		if c.val < 0 {
			return &InvalidParameterError{Scope: scope, Key: c.key, Value: c.val, Reason: "must be non-negative"}
		}
	}
	if s == Carnivore && p.DeltaPhiMax <= 0 {
		return &InvalidParameterError{Scope: scope, Key: "DeltaPhiMax", Value: p.DeltaPhiMax, Reason: "must be positive"}
	}
	return nil
}

// ParamKeys lists the override keys accepted for species s, sorted.
func ParamKeys(s Species) []string {
	return sortedKeys(paramFields(reflect.TypeOf(AnimalParams{}), speciesScope(s)))
}

func speciesScope(s Species) string {
	if s == Carnivore {
		return "carnivore"
	}
	return ""
}

// paramFields maps each override key visible in scope to its field index.
// Tag format: `param:"key[,scope]"`; a scoped key is only visible in that scope.
func paramFields(t reflect.Type, scope string) map[string]int {
	fields := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("param")
		if tag == "" || sf.Type.Kind() != reflect.Float64 {
			continue
		}
		key, only, _ := strings.Cut(tag, ",")
		if only != "" && only != scope {
			continue
		}
		fields[key] = i
	}
	return fields
}

// applyOverrides writes overrides into the struct behind target. Keys are
// checked in sorted order so the reported error is deterministic.
func applyOverrides(target any, name, scope string, overrides map[string]float64) error {
	v := reflect.ValueOf(target).Elem()
	fields := paramFields(v.Type(), scope)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return &UnknownParameterError{Scope: name, Key: k, Suggestion: closestKey(k, fields)}
		}
	}
	for _, k := range keys {
		v.Field(fields[k]).SetFloat(overrides[k])
	}
	return nil
}

// closestKey suggests a known key within a small edit distance of key.
func closestKey(key string, fields map[string]int) string {
	best, bestDist := "", 3
	for _, cand := range sortedKeys(fields) {
		d := levenshtein.ComputeDistance(strings.ToLower(key), strings.ToLower(cand))
		if d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

func sortedKeys(fields map[string]int) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkFinite(scope, key string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &InvalidParameterError{Scope: scope, Key: key, Value: val, Reason: "must be finite"}
	}
	return nil
}

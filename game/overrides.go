package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

// Override sets one parameter of one species or terrain kind.
type Override struct {
	Target string // species name, or terrain name or code
	Key    string
	Value  float64
}

// ParseOverride parses "target.key=value", e.g. "herbivore.mu=0.3" or
// "L.f_max=500".
func ParseOverride(s string) (Override, error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("%w: override %q is not target.key=value", components.ErrConfiguration, s)
	}
	target, key, ok := strings.Cut(strings.TrimSpace(lhs), ".")
	if !ok || target == "" || key == "" {
		return Override{}, fmt.Errorf("%w: override %q is not target.key=value", components.ErrConfiguration, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rhs), 64)
	if err != nil {
		return Override{}, fmt.Errorf("%w: override %q: %v", components.ErrConfiguration, s, err)
	}
	return Override{Target: target, Key: key, Value: v}, nil
}

// ParseTerrain accepts a terrain name ("lowland") or code ("L").
func ParseTerrain(name string) (components.Terrain, error) {
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(strings.ToUpper(name))
		if kind, ok := components.ParseTerrainCode(r); ok {
			return kind, nil
		}
	}
	for _, kind := range components.AllTerrains {
		if strings.EqualFold(kind.String(), name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown terrain %q", components.ErrConfiguration, name)
}

// applyOverrides groups overrides per target and applies each group in one
// validated call, species first, in a fixed order.
func applyOverrides(is *systems.Island, animal, landscape []Override) error {
	bySpecies := make(map[components.Species]map[string]float64)
	for _, o := range animal {
		s, err := components.ParseSpecies(o.Target)
		if err != nil {
			return err
		}
		if bySpecies[s] == nil {
			bySpecies[s] = make(map[string]float64)
		}
		bySpecies[s][o.Key] = o.Value
	}
	for _, s := range components.AllSpecies {
		if m := bySpecies[s]; m != nil {
			if err := is.SetAnimalParameters(s, m); err != nil {
				return err
			}
		}
	}

	byTerrain := make(map[components.Terrain]map[string]float64)
	for _, o := range landscape {
		kind, err := ParseTerrain(o.Target)
		if err != nil {
			return err
		}
		if byTerrain[kind] == nil {
			byTerrain[kind] = make(map[string]float64)
		}
		byTerrain[kind][o.Key] = o.Value
	}
	kinds := make([]components.Terrain, 0, len(byTerrain))
	for kind := range byTerrain {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		if err := is.SetLandscapeParameters(kind, byTerrain[kind]); err != nil {
			return err
		}
	}
	return nil
}

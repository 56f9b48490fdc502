// Package components defines the plain data shared by the simulation:
// species and terrain tags, their parameter tables, and population input.
package components

import (
	"fmt"
	"strings"
)

// Species identifies one of the two animal populations.
type Species uint8

const (
	Herbivore Species = iota // prey, grazes fodder
	Carnivore                // predator, hunts herbivores
)

// NumSpecies is the number of species; Species values index per-species arrays.
const NumSpecies = 2

// AllSpecies lists every species in index order.
var AllSpecies = [NumSpecies]Species{Herbivore, Carnivore}

// String returns the species name.
func (s Species) String() string {
	switch s {
	case Herbivore:
		return "Herbivore"
	case Carnivore:
		return "Carnivore"
	default:
		return fmt.Sprintf("Species(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Species) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSpecies converts a species name, case-insensitively.
func ParseSpecies(name string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "herbivore":
		return Herbivore, nil
	case "carnivore":
		return Carnivore, nil
	}
	return 0, &UnknownSpeciesError{Name: name}
}

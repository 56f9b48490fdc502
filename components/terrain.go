package components

import "fmt"

// Terrain is the kind of landscape on one grid cell.
type Terrain uint8

const (
	Water    Terrain = iota // impassable, no food
	Lowland                 // rich fodder
	Highland                // sparse fodder
	Desert                  // crossable, no food
)

// NumTerrains is the number of terrain kinds.
const NumTerrains = 4

// AllTerrains lists every terrain kind in index order.
var AllTerrains = [NumTerrains]Terrain{Water, Lowland, Highland, Desert}

// ParseTerrainCode maps a layout character to its terrain kind.
func ParseTerrainCode(code rune) (Terrain, bool) {
	switch code {
	case 'W':
		return Water, true
	case 'L':
		return Lowland, true
	case 'H':
		return Highland, true
	case 'D':
		return Desert, true
	}
	return 0, false
}

// Code returns the layout character for the terrain.
func (t Terrain) Code() rune {
	switch t {
	case Water:
		return 'W'
	case Lowland:
		return 'L'
	case Highland:
		return 'H'
	case Desert:
		return 'D'
	}
	return '?'
}

// String returns the terrain name.
func (t Terrain) String() string {
	switch t {
	case Water:
		return "Water"
	case Lowland:
		return "Lowland"
	case Highland:
		return "Highland"
	case Desert:
		return "Desert"
	}
	return fmt.Sprintf("Terrain(%d)", uint8(t))
}

// TerrainType describes one terrain kind for a run. A single instance per
// kind is shared by every cell of that kind, so overrides reach all of them.
type TerrainType struct {
	Kind      Terrain
	MaxFood   float64 `param:"f_max,food"` // fodder available each year
	Crossable bool
	HasFood   bool
}

// Landscape holds the shared terrain table, indexed by Terrain.
type Landscape [NumTerrains]*TerrainType

// DefaultLandscape returns fresh terrain records with default fodder.
func DefaultLandscape() Landscape {
	return Landscape{
		Water:    {Kind: Water},
		Lowland:  {Kind: Lowland, MaxFood: 700, Crossable: true, HasFood: true},
		Highland: {Kind: Highland, MaxFood: 300, Crossable: true, HasFood: true},
		Desert:   {Kind: Desert, Crossable: true},
	}
}

// Override applies named overrides to the terrain record. Only food-bearing
// terrain accepts f_max; crossability and food availability are fixed per
// kind. Nothing is changed unless every key is known and valid.
func (t *TerrainType) Override(overrides map[string]float64) error {
	scope := ""
	if t.HasFood {
		scope = "food"
	}
	next := *t
	if err := applyOverrides(&next, t.Kind.String(), scope, overrides); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*t = next
	return nil
}

// Validate checks the terrain invariants.
func (t *TerrainType) Validate() error {
	if err := checkFinite(t.Kind.String(), "f_max", t.MaxFood); err != nil {
		return err
	}
	if t.MaxFood < 0 {
		return &InvalidParameterError{Scope: t.Kind.String(), Key: "f_max", Value: t.MaxFood, Reason: "must be non-negative"}
	}
	if t.Kind == Water && (t.Crossable || t.HasFood) {
		return fmt.Errorf("%w: water must be uncrossable and barren", ErrConfiguration)
	}
	if t.Kind == Desert && t.HasFood {
		return fmt.Errorf("%w: desert must be barren", ErrConfiguration)
	}
	return nil
}

package components

import (
	"errors"
	"fmt"
)

// Error classes. Every concrete error below unwraps to one of these.
var (
	// ErrConfiguration covers bad terrain layouts and bad parameters.
	// Such errors are raised before any state is mutated.
	ErrConfiguration = errors.New("configuration error")

	// ErrPlacement covers population input that cannot be admitted.
	ErrPlacement = errors.New("placement error")
)

// InvalidTerrainCodeError reports an unknown character in a terrain layout.
type InvalidTerrainCodeError struct {
	Row, Col int // 1-indexed
	Code     rune
}

func (e *InvalidTerrainCodeError) Error() string {
	return fmt.Sprintf("invalid terrain code %q at (%d, %d)", e.Code, e.Row, e.Col)
}

func (e *InvalidTerrainCodeError) Unwrap() error { return ErrConfiguration }

// InconsistentRowLengthError reports a ragged terrain layout.
type InconsistentRowLengthError struct {
	Row      int // 1-indexed
	Length   int
	Expected int
}

func (e *InconsistentRowLengthError) Error() string {
	return fmt.Sprintf("row %d has length %d, expected %d", e.Row, e.Length, e.Expected)
}

func (e *InconsistentRowLengthError) Unwrap() error { return ErrConfiguration }

// InvalidMapBoundaryError reports a non-Water cell on the outer ring.
type InvalidMapBoundaryError struct {
	Row, Col int // 1-indexed
	Code     rune
}

func (e *InvalidMapBoundaryError) Error() string {
	return fmt.Sprintf("map boundary must be water, found %q at (%d, %d)", e.Code, e.Row, e.Col)
}

func (e *InvalidMapBoundaryError) Unwrap() error { return ErrConfiguration }

// UnknownParameterError reports an override key outside the known set.
type UnknownParameterError struct {
	Scope      string // species or terrain name
	Key        string
	Suggestion string // closest known key, may be empty
}

func (e *UnknownParameterError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown parameter %q for %s (did you mean %q?)", e.Key, e.Scope, e.Suggestion)
	}
	return fmt.Sprintf("unknown parameter %q for %s", e.Key, e.Scope)
}

func (e *UnknownParameterError) Unwrap() error { return ErrConfiguration }

// InvalidParameterError reports a known key given an unusable value.
type InvalidParameterError struct {
	Scope  string
	Key    string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid value %v for %s parameter %q: %s", e.Value, e.Scope, e.Key, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrConfiguration }

// UnknownSpeciesError reports an unrecognised species name.
type UnknownSpeciesError struct {
	Name string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("unknown species %q", e.Name)
}

func (e *UnknownSpeciesError) Unwrap() error { return ErrConfiguration }

// UninhabitableLocationError reports population targeting a cell animals
// cannot occupy: uncrossable terrain or a location outside the grid.
type UninhabitableLocationError struct {
	Row, Col int
	Terrain  string // empty when the location is outside the grid
}

func (e *UninhabitableLocationError) Error() string {
	if e.Terrain == "" {
		return fmt.Sprintf("location (%d, %d) is outside the island", e.Row, e.Col)
	}
	return fmt.Sprintf("location (%d, %d) is uninhabitable %s", e.Row, e.Col, e.Terrain)
}

func (e *UninhabitableLocationError) Unwrap() error { return ErrPlacement }

// InvalidAnimalError reports an initial animal with impossible attributes.
type InvalidAnimalError struct {
	Row, Col int
	Reason   string
}

func (e *InvalidAnimalError) Error() string {
	return fmt.Sprintf("invalid animal at (%d, %d): %s", e.Row, e.Col, e.Reason)
}

func (e *InvalidAnimalError) Unwrap() error { return ErrPlacement }

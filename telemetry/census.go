package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

// CensusVersion is incremented when the format changes.
const CensusVersion = 1

// CensusDump is the per-year population snapshot handed to external
// visualisers: counts and per-cell density grids, row-major, 0-indexed.
type CensusDump struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id,omitempty"`
	Year    int    `json:"year"`
	Layout  string `json:"layout"`

	Herbivores int `json:"herbivores"`
	Carnivores int `json:"carnivores"`

	HerbivoreDensity [][]int `json:"herbivore_density"`
	CarnivoreDensity [][]int `json:"carnivore_density"`

	Bookmarks []Bookmark `json:"bookmarks,omitempty"`
}

// NewCensusDump builds a dump from an island census.
func NewCensusDump(runID string, year int, layout string, cen systems.Census) *CensusDump {
	return &CensusDump{
		Version:          CensusVersion,
		RunID:            runID,
		Year:             year,
		Layout:           layout,
		Herbivores:       cen.Counts[components.Herbivore],
		Carnivores:       cen.Counts[components.Carnivore],
		HerbivoreDensity: cen.Density[components.Herbivore],
		CarnivoreDensity: cen.Density[components.Carnivore],
	}
}

// SaveCensus writes a census dump to dir as census_<year>.json, zero-padded
// so files sort by year. Returns the path written.
func SaveCensus(dump *CensusDump, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create census dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("census_%05d.json", dump.Year))
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal census: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write census: %w", err)
	}
	return path, nil
}

// LoadCensus reads a census dump from disk.
func LoadCensus(path string) (*CensusDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read census: %w", err)
	}
	var dump CensusDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("unmarshal census: %w", err)
	}
	if dump.Version != CensusVersion {
		return nil, fmt.Errorf("census version %d, want %d", dump.Version, CensusVersion)
	}
	return &dump, nil
}

package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

func testIsland(t *testing.T) *systems.Island {
	t.Helper()
	is, err := systems.NewIsland("WWWW\nWLHW\nWWWW", systems.DefaultParameters(), systems.NewRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	pop := []components.Placement{
		{Loc: [2]int{2, 2}, Pop: []components.AnimalSpec{
			{Species: "Herbivore", Age: 3, Weight: 20},
			{Species: "Herbivore", Age: 4, Weight: 25},
		}},
		{Loc: [2]int{2, 3}, Pop: []components.AnimalSpec{
			{Species: "Carnivore", Age: 2, Weight: 15},
		}},
	}
	if err := is.AddPopulation(pop); err != nil {
		t.Fatal(err)
	}
	return is
}

func TestCensusSaveLoad(t *testing.T) {
	dir := t.TempDir()
	dump := NewCensusDump("run-1", 7, "WWWW\nWLHW\nWWWW", testIsland(t).Census())

	path, err := SaveCensus(dump, dir)
	if err != nil {
		t.Fatalf("SaveCensus: %v", err)
	}
	if filepath.Base(path) != "census_00007.json" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadCensus(path)
	if err != nil {
		t.Fatalf("LoadCensus: %v", err)
	}
	if loaded.Year != 7 || loaded.RunID != "run-1" {
		t.Errorf("header = %+v", loaded)
	}
	if loaded.Herbivores != 2 || loaded.Carnivores != 1 {
		t.Errorf("counts = %d / %d", loaded.Herbivores, loaded.Carnivores)
	}
	if loaded.HerbivoreDensity[1][1] != 2 || loaded.CarnivoreDensity[1][2] != 1 {
		t.Errorf("density = %v / %v", loaded.HerbivoreDensity, loaded.CarnivoreDensity)
	}
}

func TestLoadCensus_RejectsOtherVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "year": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCensus(path); err == nil {
		t.Error("expected version error")
	}
}

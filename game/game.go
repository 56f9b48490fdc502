// Package game drives a simulation run: it builds an island from config,
// applies parameter overrides, advances years and feeds telemetry sinks.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/mapgen"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
)

// Options configures a run beyond what the config file holds.
type Options struct {
	Seed        *uint64 // nil = use config seed
	LogStats    bool    // log YearStats, perf and bookmarks via slog
	OutputDir   string  // CSV output and config snapshot ("" = off)
	CensusDir   string  // census JSON dumps ("" = off)
	DBPath      string  // SQLite run store ("" = off)
	GenerateMap bool    // use mapgen even if the config has a map

	AnimalOverrides    []Override
	LandscapeOverrides []Override

	// YearCallback receives every flushed YearStats.
	YearCallback func(telemetry.YearStats)
}

// Game holds the complete run state.
type Game struct {
	cfg    *config.Config
	opts   Options
	island *systems.Island
	layout string
	seed   uint64
	runID  string
	year   int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	store            *telemetry.Store
}

// NewGame builds the island and its initial population from cfg. Any
// configuration or placement error is returned before the first year.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	g := &Game{
		cfg:              cfg,
		opts:             opts,
		seed:             cfg.Seed,
		collector:        telemetry.NewCollector(),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Bookmarks),
	}
	if opts.Seed != nil {
		g.seed = *opts.Seed
	}

	generated := opts.GenerateMap || cfg.Island.Generate
	g.layout = cfg.Derived.Layout
	if generated {
		g.layout = mapgen.Generate(cfg.MapGen, int64(g.seed))
	}

	params, err := parametersFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	island, err := systems.NewIsland(g.layout, params, systems.NewRNG(g.seed))
	if err != nil {
		return nil, fmt.Errorf("building island: %w", err)
	}
	g.island = island

	if err := applyOverrides(island, opts.AnimalOverrides, opts.LandscapeOverrides); err != nil {
		return nil, err
	}

	pop := cfg.Derived.Population
	if generated {
		grid, err := systems.ParseLayout(g.layout)
		if err != nil {
			return nil, err
		}
		pop = relocate(pop, grid)
	}
	if err := island.AddPopulation(pop); err != nil {
		return nil, fmt.Errorf("placing initial population: %w", err)
	}

	if err := g.openSinks(); err != nil {
		g.Close()
		return nil, err
	}

	slog.Info("island ready",
		"run_id", g.runID,
		"seed", g.seed,
		"generated_map", generated,
		"herbivores", island.Counts()[components.Herbivore],
		"carnivores", island.Counts()[components.Carnivore],
	)
	return g, nil
}

func parametersFromConfig(cfg *config.Config) (systems.Parameters, error) {
	var p systems.Parameters
	for _, s := range components.AllSpecies {
		params := cfg.AnimalParams(s)
		p.Animals[s] = &params
	}
	land, err := cfg.Landscape()
	if err != nil {
		return p, err
	}
	p.Landscape = land
	return p, nil
}

// openSinks opens the CSV output and the run store when requested.
func (g *Game) openSinks() error {
	om, err := telemetry.NewOutputManager(g.opts.OutputDir)
	if err != nil {
		return err
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		return err
	}

	if g.opts.DBPath == "" {
		g.runID = uuid.NewString()
		return nil
	}
	store, err := telemetry.OpenStore(g.opts.DBPath)
	if err != nil {
		return err
	}
	g.store = store
	g.runID, err = store.StartRun(g.seed, g.layout)
	return err
}

// Close finishes the run record and closes every sink.
func (g *Game) Close() error {
	var errs []error
	if g.store != nil && g.runID != "" {
		errs = append(errs, g.store.FinishRun(g.runID, g.year))
	}
	errs = append(errs, g.outputManager.Close(), g.store.Close())
	return errors.Join(errs...)
}

// Year returns the number of simulated years.
func (g *Game) Year() int { return g.year }

// Seed returns the seed of the run.
func (g *Game) Seed() uint64 { return g.seed }

// RunID returns the run identifier used in logs and the store.
func (g *Game) RunID() string { return g.runID }

// Layout returns the terrain layout in use.
func (g *Game) Layout() string { return g.layout }

// Island returns the simulated island.
func (g *Game) Island() *systems.Island { return g.island }

// NumAnimals returns the total number of live animals.
func (g *Game) NumAnimals() int { return g.island.NumAnimals() }

// NumAnimalsPerSpecies returns live animals keyed by species name.
func (g *Game) NumAnimalsPerSpecies() map[string]int {
	counts := g.island.Counts()
	out := make(map[string]int, components.NumSpecies)
	for _, s := range components.AllSpecies {
		out[s.String()] = counts[s]
	}
	return out
}

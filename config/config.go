// Package config provides configuration loading and access for the simulation.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/biosim/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Seed      uint64          `yaml:"seed"`
	Years     int             `yaml:"years"`
	Island    IslandConfig    `yaml:"island"`
	Species   SpeciesConfig   `yaml:"species"`
	Landscape LandscapeConfig `yaml:"landscape"`
	MapGen    MapGenConfig    `yaml:"mapgen"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// IslandConfig holds the terrain layout and the initial population.
type IslandConfig struct {
	Map        string                 `yaml:"map"`
	Generate   bool                   `yaml:"generate"` // use mapgen instead of Map
	Population []components.Placement `yaml:"population"`
	Herd       []HerdConfig           `yaml:"herd"`
}

// HerdConfig places Count identical animals on one cell.
type HerdConfig struct {
	Loc     [2]int  `yaml:"loc"`
	Species string  `yaml:"species"`
	Count   int     `yaml:"count"`
	Age     int     `yaml:"age"`
	Weight  float64 `yaml:"weight"`
}

// SpeciesConfig holds the two parameter tables.
type SpeciesConfig struct {
	Herbivore components.AnimalParams `yaml:"herbivore"`
	Carnivore components.AnimalParams `yaml:"carnivore"`
}

// LandscapeConfig holds fodder for the food-bearing terrain kinds.
type LandscapeConfig struct {
	Lowland  FodderConfig `yaml:"lowland"`
	Highland FodderConfig `yaml:"highland"`
}

// FodderConfig holds the yearly fodder of one terrain kind.
type FodderConfig struct {
	MaxFood float64 `yaml:"f_max"`
}

// MapGenConfig holds procedural layout parameters.
type MapGenConfig struct {
	Rows           int     `yaml:"rows"`
	Cols           int     `yaml:"cols"`
	Scale          float64 `yaml:"scale"`
	Octaves        int     `yaml:"octaves"`
	Persistence    float64 `yaml:"persistence"`
	Falloff        float64 `yaml:"falloff"`
	WaterLevel     float64 `yaml:"water_level"`
	HighlandLevel  float64 `yaml:"highland_level"`
	DesertMoisture float64 `yaml:"desert_moisture"`
}

// TelemetryConfig holds reporting cadence and histogram bins.
type TelemetryConfig struct {
	StatsEvery  int                 `yaml:"stats_every"`
	CensusEvery int                 `yaml:"census_every"` // 0 disables census dumps
	PerfWindow  int                 `yaml:"perf_window"`
	Histograms  map[string]HistSpec `yaml:"histograms"`
}

// HistSpec bins one attribute into [0, Max) with width Delta.
type HistSpec struct {
	Max   float64 `yaml:"max"`
	Delta float64 `yaml:"delta"`
}

// BookmarksConfig holds thresholds for notable-year detection.
type BookmarksConfig struct {
	HistorySize            int     `yaml:"history_size"`
	PreyCrashDrop          float64 `yaml:"prey_crash_drop"`
	PredatorRecoveryMin    int     `yaml:"predator_recovery_min"`
	PredatorRecoveryFactor float64 `yaml:"predator_recovery_factor"`
	StableCVMax            float64 `yaml:"stable_cv_max"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	Layout     string                 // Island.Map with common indentation removed
	Population []components.Placement // Island.Population followed by expanded herds
}

// HistogramAttributes lists the attributes a histogram can bin.
var HistogramAttributes = []string{"age", "fitness", "weight"}

// Global config instance
var global *Config

// Init loads configuration from the given path (or defaults if empty)
// and stores it in the global instance.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Cfg returns the global configuration.
func Cfg() *Config {
	if global == nil {
		panic("config: not initialized, call config.Init first")
	}
	return global
}

// Load reads the embedded defaults, then decodes the file at path over them.
// Keys the file does not know about are an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies a YAML document over the current values.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Layout = Dedent(c.Island.Map)

	pop := make([]components.Placement, 0, len(c.Island.Population)+len(c.Island.Herd))
	pop = append(pop, c.Island.Population...)
	for _, h := range c.Island.Herd {
		if h.Count <= 0 {
			continue
		}
		specs := make([]components.AnimalSpec, h.Count)
		for i := range specs {
			specs[i] = components.AnimalSpec{Species: h.Species, Age: h.Age, Weight: h.Weight}
		}
		pop = append(pop, components.Placement{Loc: h.Loc, Pop: specs})
	}
	c.Derived.Population = pop
}

// Dedent removes blank lines at either end and the indentation common to
// every non-blank line.
func Dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// AnimalParams returns a copy of the table for species s.
func (c *Config) AnimalParams(s components.Species) components.AnimalParams {
	if s == components.Carnivore {
		return c.Species.Carnivore
	}
	return c.Species.Herbivore
}

// Landscape builds fresh terrain records with the configured fodder.
func (c *Config) Landscape() (components.Landscape, error) {
	land := components.DefaultLandscape()
	if err := land[components.Lowland].Override(map[string]float64{"f_max": c.Landscape.Lowland.MaxFood}); err != nil {
		return land, err
	}
	if err := land[components.Highland].Override(map[string]float64{"f_max": c.Landscape.Highland.MaxFood}); err != nil {
		return land, err
	}
	return land, nil
}

// Validate checks values the engine would otherwise reject mid-run.
// Errors unwrap to components.ErrConfiguration.
func (c *Config) Validate() error {
	if c.Years < 0 {
		return configErr("years must be >= 0, got %d", c.Years)
	}
	for _, s := range components.AllSpecies {
		p := c.AnimalParams(s)
		if err := p.Validate(s); err != nil {
			return err
		}
	}
	if c.Species.Herbivore.DeltaPhiMax != 0 {
		return &components.UnknownParameterError{Scope: components.Herbivore.String(), Key: "DeltaPhiMax"}
	}
	if _, err := c.Landscape(); err != nil {
		return err
	}
	if !c.Island.Generate && strings.TrimSpace(c.Island.Map) == "" {
		return configErr("island.map is empty and island.generate is off")
	}
	for _, h := range c.Island.Herd {
		if h.Count < 0 {
			return configErr("herd at %v has negative count %d", h.Loc, h.Count)
		}
	}

	if c.MapGen.Rows < 3 || c.MapGen.Cols < 3 {
		return configErr("mapgen size %dx%d is below 3x3", c.MapGen.Rows, c.MapGen.Cols)
	}
	if c.MapGen.Octaves < 1 {
		return configErr("mapgen.octaves must be >= 1")
	}

	if c.Telemetry.StatsEvery < 1 {
		return configErr("telemetry.stats_every must be >= 1")
	}
	if c.Telemetry.CensusEvery < 0 {
		return configErr("telemetry.census_every must be >= 0")
	}
	if c.Telemetry.PerfWindow < 1 {
		return configErr("telemetry.perf_window must be >= 1")
	}
	for name, spec := range c.Telemetry.Histograms {
		if !isHistogramAttribute(name) {
			return configErr("unknown histogram attribute %q (want one of %s)", name, strings.Join(HistogramAttributes, ", "))
		}
		if !(spec.Max > 0) || !(spec.Delta > 0) || math.IsInf(spec.Max, 0) {
			return configErr("histogram %s needs max > 0 and delta > 0", name)
		}
	}

	if c.Bookmarks.HistorySize < 2 {
		return configErr("bookmarks.history_size must be >= 2")
	}
	return nil
}

func isHistogramAttribute(name string) bool {
	for _, a := range HistogramAttributes {
		if a == name {
			return true
		}
	}
	return false
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", components.ErrConfiguration, fmt.Sprintf(format, args...))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

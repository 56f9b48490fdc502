package telemetry

import (
	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
)

// Collector accumulates yearly events between flushes and produces YearStats.
type Collector struct {
	births     components.Counts
	deaths     components.Counts
	migrations components.Counts
	kills      int
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record adds one year's events to the current window.
func (c *Collector) Record(ev systems.YearEvents) {
	for s := range c.births {
		c.births[s] += ev.Births[s]
		c.deaths[s] += ev.Deaths[s]
		c.migrations[s] += ev.Migrations[s]
	}
	c.kills += ev.Kills
}

// Flush produces a YearStats from the events recorded since the last flush
// and the census taken at year end, then resets the counters.
func (c *Collector) Flush(year int, cen systems.Census) YearStats {
	herb, carn := components.Herbivore, components.Carnivore

	hw, cw := Summarize(cen.Weights[herb]), Summarize(cen.Weights[carn])
	hf, cf := Summarize(cen.Fitness[herb]), Summarize(cen.Fitness[carn])

	stats := YearStats{
		Year:       year,
		Herbivores: cen.Counts[herb],
		Carnivores: cen.Counts[carn],

		HerbBirths:     c.births[herb],
		CarnBirths:     c.births[carn],
		HerbDeaths:     c.deaths[herb],
		CarnDeaths:     c.deaths[carn],
		Kills:          c.kills,
		HerbMigrations: c.migrations[herb],
		CarnMigrations: c.migrations[carn],

		HerbWeightMean: hw.Mean,
		HerbWeightP10:  hw.P10,
		HerbWeightP50:  hw.P50,
		HerbWeightP90:  hw.P90,

		CarnWeightMean: cw.Mean,
		CarnWeightP10:  cw.P10,
		CarnWeightP50:  cw.P50,
		CarnWeightP90:  cw.P90,

		HerbFitnessMean: hf.Mean,
		HerbFitnessP10:  hf.P10,
		HerbFitnessP50:  hf.P50,
		HerbFitnessP90:  hf.P90,

		CarnFitnessMean: cf.Mean,
		CarnFitnessP10:  cf.P10,
		CarnFitnessP50:  cf.P50,
		CarnFitnessP90:  cf.P90,

		HerbAgeMean: Summarize(cen.Ages[herb]).Mean,
		CarnAgeMean: Summarize(cen.Ages[carn]).Mean,

		OccupiedCells: occupiedCells(cen),
	}

	*c = Collector{}
	return stats
}

func occupiedCells(cen systems.Census) int {
	herbs, carns := cen.Density[components.Herbivore], cen.Density[components.Carnivore]
	n := 0
	for r := range herbs {
		for col := range herbs[r] {
			if herbs[r][col]+carns[r][col] > 0 {
				n++
			}
		}
	}
	return n
}

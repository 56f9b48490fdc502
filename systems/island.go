package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/biosim/components"
)

// Parameters are the shared species and terrain tables of one island.
type Parameters struct {
	Animals   [components.NumSpecies]*components.AnimalParams
	Landscape components.Landscape
}

// DefaultParameters returns fresh default tables.
func DefaultParameters() Parameters {
	var p Parameters
	for _, s := range components.AllSpecies {
		params := components.DefaultAnimalParams(s)
		p.Animals[s] = &params
	}
	p.Landscape = components.DefaultLandscape()
	return p
}

// YearEvents counts what happened during one yearly cycle.
type YearEvents struct {
	Births     components.Counts
	Deaths     components.Counts // natural deaths in the death phase
	Kills      int               // herbivores taken by carnivores
	Migrations components.Counts // animals that moved to another cell
}

// PhaseTimer is notified as each phase of the yearly cycle starts.
type PhaseTimer interface {
	StartPhase(name string)
}

// Island owns the grid of cells and the live population counts.
type Island struct {
	params Parameters
	rng    *RNG
	cells  [][]*Cell
	counts components.Counts
}

// NewIsland parses the layout and builds the grid. Every cell of one terrain
// kind shares that kind's record from params.
func NewIsland(layout string, params Parameters, rng *RNG) (*Island, error) {
	grid, err := ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	for _, s := range components.AllSpecies {
		if params.Animals[s] == nil {
			return nil, fmt.Errorf("%w: missing %s parameters", components.ErrConfiguration, s)
		}
		if err := params.Animals[s].Validate(s); err != nil {
			return nil, err
		}
	}
	for _, kind := range components.AllTerrains {
		if params.Landscape[kind] == nil {
			return nil, fmt.Errorf("%w: missing %s terrain", components.ErrConfiguration, kind)
		}
		if err := params.Landscape[kind].Validate(); err != nil {
			return nil, err
		}
	}

	is := &Island{params: params, rng: rng}
	is.cells = make([][]*Cell, len(grid))
	for r, row := range grid {
		is.cells[r] = make([]*Cell, len(row))
		for c, kind := range row {
			is.cells[r][c] = newCell(r+1, c+1, params.Landscape[kind])
		}
	}
	return is, nil
}

// Size returns the number of rows and columns.
func (is *Island) Size() (rows, cols int) {
	return len(is.cells), len(is.cells[0])
}

// Cell returns the cell at (row, col), 1-indexed, or nil outside the grid.
func (is *Island) Cell(row, col int) *Cell {
	if row < 1 || row > len(is.cells) || col < 1 || col > len(is.cells[row-1]) {
		return nil
	}
	return is.cells[row-1][col-1]
}

// Cells returns the grid in row-major order. The caller must not modify it.
func (is *Island) Cells() [][]*Cell { return is.cells }

// Counts returns the live animals per species.
func (is *Island) Counts() components.Counts { return is.counts }

// NumAnimals returns the total number of live animals.
func (is *Island) NumAnimals() int { return is.counts.Total() }

// Parameters returns the island's shared tables.
func (is *Island) Parameters() Parameters { return is.params }

// SetAnimalParameters overrides species coefficients for every animal of
// the species. The override is all-or-nothing.
func (is *Island) SetAnimalParameters(s components.Species, overrides map[string]float64) error {
	return is.params.Animals[s].Override(s, overrides)
}

// SetLandscapeParameters overrides terrain values for every cell of that
// kind. The override is all-or-nothing.
func (is *Island) SetLandscapeParameters(kind components.Terrain, overrides map[string]float64) error {
	return is.params.Landscape[kind].Override(overrides)
}

// AddPopulation places animals on the island. Every entry is checked before
// any animal is admitted, so a failing call changes nothing.
func (is *Island) AddPopulation(entries []components.Placement) error {
	type pending struct {
		cell    *Cell
		species components.Species
		spec    components.AnimalSpec
	}
	var admit []pending

	for _, entry := range entries {
		row, col := entry.Loc[0], entry.Loc[1]
		cell := is.Cell(row, col)
		if cell == nil {
			return &components.UninhabitableLocationError{Row: row, Col: col}
		}
		if !cell.terrain.Crossable {
			return &components.UninhabitableLocationError{Row: row, Col: col, Terrain: cell.terrain.Kind.String()}
		}
		for _, spec := range entry.Pop {
			s, err := components.ParseSpecies(spec.Species)
			if err != nil {
				return err
			}
			if spec.Age < 0 {
				return &components.InvalidAnimalError{Row: row, Col: col, Reason: fmt.Sprintf("negative age %d", spec.Age)}
			}
			if math.IsNaN(spec.Weight) || math.IsInf(spec.Weight, 0) {
				return &components.InvalidAnimalError{Row: row, Col: col, Reason: fmt.Sprintf("non-finite weight %v", spec.Weight)}
			}
			admit = append(admit, pending{cell: cell, species: s, spec: spec})
		}
	}

	for _, p := range admit {
		p.cell.add(NewAnimal(p.species, is.params.Animals[p.species], p.spec.Age, p.spec.Weight))
		is.counts[p.species]++
	}
	return nil
}

// phase is one island-wide step of the yearly cycle.
type phase struct {
	name string
	run  func(is *Island, ev *YearEvents)
}

// cycle is the fixed order of the yearly phases. Each phase completes on
// every cell before the next one starts.
var cycle = []phase{
	{"feed", (*Island).feedPhase},
	{"breed", (*Island).breedPhase},
	{"migrate", (*Island).migratePhase},
	{"commit", (*Island).commitPhase},
	{"age", (*Island).agePhase},
	{"weight_loss", (*Island).weightLossPhase},
	{"death", (*Island).deathPhase},
}

// PhaseNames lists the yearly phases in execution order.
func PhaseNames() []string {
	names := make([]string, len(cycle))
	for i, p := range cycle {
		names[i] = p.name
	}
	return names
}

// YearlyCycle advances the island by one year.
func (is *Island) YearlyCycle() YearEvents {
	return is.YearlyCycleTimed(nil)
}

// YearlyCycleTimed advances the island by one year, reporting each phase
// start to timer when it is non-nil.
func (is *Island) YearlyCycleTimed(timer PhaseTimer) YearEvents {
	var ev YearEvents
	for _, p := range cycle {
		if timer != nil {
			timer.StartPhase(p.name)
		}
		p.run(is, &ev)
	}
	return ev
}

func (is *Island) eachCell(fn func(c *Cell)) {
	for _, row := range is.cells {
		for _, c := range row {
			fn(c)
		}
	}
}

func (is *Island) feedPhase(ev *YearEvents) {
	is.eachCell(func(c *Cell) {
		if len(c.residents[components.Herbivore]) == 0 && len(c.residents[components.Carnivore]) == 0 {
			return
		}
		ev.Kills += c.feed(is.rng)
	})
	is.counts[components.Herbivore] -= ev.Kills
}

func (is *Island) breedPhase(ev *YearEvents) {
	is.eachCell(func(c *Cell) {
		b := c.breed(is.rng)
		for s := range b {
			ev.Births[s] += b[s]
		}
	})
	for s := range ev.Births {
		is.counts[s] += ev.Births[s]
	}
}

func (is *Island) migratePhase(ev *YearEvents) {
	is.eachCell(func(c *Cell) {
		if !c.terrain.Crossable {
			return
		}
		m := c.stageMigration(is.Cell, is.rng)
		for s := range m {
			ev.Migrations[s] += m[s]
		}
	})
}

// commitPhase moves staged migrants in two island-wide passes, so no animal
// is both dropped from its origin and admitted before every origin is done.
func (is *Island) commitPhase(*YearEvents) {
	is.eachCell((*Cell).dropEmigrants)
	is.eachCell((*Cell).admitImmigrants)
}

func (is *Island) agePhase(*YearEvents) {
	is.eachCell((*Cell).ageAnimals)
}

func (is *Island) weightLossPhase(*YearEvents) {
	is.eachCell((*Cell).loseWeight)
}

func (is *Island) deathPhase(ev *YearEvents) {
	is.eachCell(func(c *Cell) {
		d := c.die(is.rng)
		for s := range d {
			ev.Deaths[s] += d[s]
		}
	})
	for s := range ev.Deaths {
		is.counts[s] -= ev.Deaths[s]
	}
}

// Census is a read-only view of the population at one point in time.
type Census struct {
	Counts  components.Counts
	Density [components.NumSpecies][][]int // per cell, row-major, 0-indexed
	Ages    [components.NumSpecies][]float64
	Weights [components.NumSpecies][]float64
	Fitness [components.NumSpecies][]float64
}

// Census collects per-cell densities and per-animal attributes.
func (is *Island) Census() Census {
	cen := Census{Counts: is.counts}
	for s := range cen.Density {
		cen.Density[s] = make([][]int, len(is.cells))
		cen.Ages[s] = make([]float64, 0, is.counts[s])
		cen.Weights[s] = make([]float64, 0, is.counts[s])
		cen.Fitness[s] = make([]float64, 0, is.counts[s])
	}
	for r, row := range is.cells {
		for s := range cen.Density {
			cen.Density[s][r] = make([]int, len(row))
		}
		for c, cell := range row {
			for s := range cell.residents {
				cen.Density[s][r][c] = len(cell.residents[s])
				for _, a := range cell.residents[s] {
					cen.Ages[s] = append(cen.Ages[s], float64(a.age))
					cen.Weights[s] = append(cen.Weights[s], a.weight)
					cen.Fitness[s] = append(cen.Fitness[s], a.Fitness())
				}
			}
		}
	}
	return cen
}

// countResidents recounts the resident lists. Used to check the running totals.
func (is *Island) countResidents() components.Counts {
	var n components.Counts
	is.eachCell(func(c *Cell) {
		for s := range c.residents {
			n[s] += len(c.residents[s])
		}
	})
	return n
}

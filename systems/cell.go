package systems

import "github.com/pthm-cable/biosim/components"

// Cell is one grid location and the animals resident on it.
type Cell struct {
	row, col int // 1-indexed
	terrain  *components.TerrainType

	residents [components.NumSpecies][]*Animal
	incoming  [components.NumSpecies][]*Animal
}

func newCell(row, col int, terrain *components.TerrainType) *Cell {
	return &Cell{row: row, col: col, terrain: terrain}
}

// Location returns the (row, col) position, 1-indexed.
func (c *Cell) Location() (row, col int) { return c.row, c.col }

// Terrain returns the shared terrain record of the cell.
func (c *Cell) Terrain() *components.TerrainType { return c.terrain }

// Residents returns the resident animals of one species. The slice is owned
// by the cell and must not be modified.
func (c *Cell) Residents(s components.Species) []*Animal { return c.residents[s] }

// Herbivores returns the resident herbivores.
func (c *Cell) Herbivores() []*Animal { return c.residents[components.Herbivore] }

// Carnivores returns the resident carnivores.
func (c *Cell) Carnivores() []*Animal { return c.residents[components.Carnivore] }

// Count returns the number of residents of one species.
func (c *Cell) Count(s components.Species) int { return len(c.residents[s]) }

func (c *Cell) add(a *Animal) {
	c.residents[a.species] = append(c.residents[a.species], a)
}

// stage puts a migrant into the incoming buffer. The animal stays out of
// every resident list until admitImmigrants runs.
func (c *Cell) stage(a *Animal) {
	a.staged = true
	c.incoming[a.species] = append(c.incoming[a.species], a)
}

// dropEmigrants removes residents that were staged into a neighbour.
// It must run on every cell before any cell admits its immigrants.
func (c *Cell) dropEmigrants() {
	for s := range c.residents {
		c.residents[s] = filterAnimals(c.residents[s], func(a *Animal) bool { return !a.staged })
	}
}

// admitImmigrants moves the incoming buffer into the resident lists.
func (c *Cell) admitImmigrants() {
	for s := range c.incoming {
		for _, a := range c.incoming[s] {
			a.staged = false
		}
		c.residents[s] = append(c.residents[s], c.incoming[s]...)
		c.incoming[s] = nil
	}
}

// ageAnimals ages every resident by one year.
func (c *Cell) ageAnimals() {
	for s := range c.residents {
		for _, a := range c.residents[s] {
			a.AgeOneYear()
		}
	}
}

// loseWeight applies metabolic weight loss to every resident.
func (c *Cell) loseWeight() {
	for s := range c.residents {
		for _, a := range c.residents[s] {
			a.LoseWeight()
		}
	}
}

// die evaluates death for every resident and drops the dead.
func (c *Cell) die(rng *RNG) components.Counts {
	var deaths components.Counts
	for s := range c.residents {
		for _, a := range c.residents[s] {
			a.UpdateFitness()
			if a.AttemptDeath(rng) {
				deaths[s]++
			}
		}
		if deaths[s] > 0 {
			c.residents[s] = filterAnimals(c.residents[s], (*Animal).Alive)
		}
	}
	return deaths
}

// filterAnimals keeps the animals for which keep is true, in order, reusing
// the backing array.
func filterAnimals(list []*Animal, keep func(*Animal) bool) []*Animal {
	out := list[:0]
	for _, a := range list {
		if keep(a) {
			out = append(out, a)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

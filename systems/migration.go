package systems

import "github.com/pthm-cable/biosim/components"

// Direction is one of the four orthogonal moves.
type Direction uint8

const (
	East Direction = iota
	West
	South
	North
)

// offset returns the (row, col) step of the direction.
func (d Direction) offset() (dr, dc int) {
	switch d {
	case East:
		return 0, 1
	case West:
		return 0, -1
	case South:
		return 1, 0
	default:
		return -1, 0
	}
}

// stageMigration lets every resident try to move once. A migrant picks a
// random direction; if that neighbour exists and is crossable it is staged
// into the neighbour's incoming buffer and flagged to leave this cell.
// Resident lists are not modified here. Returns emigrants per species.
func (c *Cell) stageMigration(lookup func(row, col int) *Cell, rng *RNG) components.Counts {
	var moved components.Counts
	for s := range c.residents {
		for _, a := range c.residents[s] {
			a.UpdateFitness()
			if !a.AttemptMigrate(rng) {
				continue
			}
			dr, dc := Direction(rng.IntN(4)).offset()
			target := lookup(c.row+dr, c.col+dc)
			if target == nil || !target.terrain.Crossable {
				continue
			}
			target.stage(a)
			moved[s]++
		}
	}
	return moved
}

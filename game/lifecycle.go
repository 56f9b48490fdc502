package game

import (
	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/mapgen"
)

// relocate moves placements that land on water or outside a generated grid
// to the nearest land cell (Manhattan distance, row-major tie-break). A grid
// with no land leaves the placements unchanged.
func relocate(pop []components.Placement, grid [][]components.Terrain) []components.Placement {
	land := mapgen.Habitable(grid)
	if len(land) == 0 {
		return pop
	}

	out := make([]components.Placement, len(pop))
	for i, p := range pop {
		out[i] = p
		if isLand(grid, p.Loc) {
			continue
		}
		best, bestDist := land[0], -1
		for _, loc := range land {
			d := abs(loc[0]-p.Loc[0]) + abs(loc[1]-p.Loc[1])
			if bestDist < 0 || d < bestDist {
				best, bestDist = loc, d
			}
		}
		out[i].Loc = best
	}
	return out
}

func isLand(grid [][]components.Terrain, loc [2]int) bool {
	r, c := loc[0]-1, loc[1]-1
	if r < 0 || r >= len(grid) || c < 0 || c >= len(grid[r]) {
		return false
	}
	return grid[r][c] != components.Water
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

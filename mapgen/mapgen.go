// Package mapgen generates island terrain layouts from simplex noise.
package mapgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/systems"
)

// Generate produces a layout of cfg.Rows x cfg.Cols cells. Elevation noise
// shaped by a radial falloff decides water, lowland and highland; a second
// moisture field turns dry lowland into desert. The outer ring is always
// water. The same seed always yields the same layout.
func Generate(cfg config.MapGenConfig, seed int64) string {
	return systems.FormatLayout(Grid(cfg, seed))
}

// Grid is Generate without the final formatting.
func Grid(cfg config.MapGenConfig, seed int64) [][]components.Terrain {
	rows, cols := max(cfg.Rows, 3), max(cfg.Cols, 3)
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)

	grid := make([][]components.Terrain, rows)
	for r := range grid {
		grid[r] = make([]components.Terrain, cols)
		for c := range grid[r] {
			if r == 0 || c == 0 || r == rows-1 || c == cols-1 {
				grid[r][c] = components.Water
				continue
			}
			x, y := float64(c), float64(r)
			elev := octaveNoise(elevNoise, x, y, cfg.Octaves, cfg.Scale, cfg.Persistence)
			elev *= 1 - falloff(r, c, rows, cols, cfg.Falloff)
			moist := octaveNoise(moistNoise, x, y, cfg.Octaves, cfg.Scale, cfg.Persistence)
			grid[r][c] = classify(elev, moist, cfg)
		}
	}
	return grid
}

func classify(elev, moist float64, cfg config.MapGenConfig) components.Terrain {
	switch {
	case elev < cfg.WaterLevel:
		return components.Water
	case elev >= cfg.HighlandLevel:
		return components.Highland
	case moist < cfg.DesertMoisture:
		return components.Desert
	default:
		return components.Lowland
	}
}

// falloff is 0 at the grid centre and approaches 1 at the edges.
func falloff(r, c, rows, cols int, exponent float64) float64 {
	dy := (float64(r) - float64(rows-1)/2) / (float64(rows-1) / 2)
	dx := (float64(c) - float64(cols-1)/2) / (float64(cols-1) / 2)
	d := math.Min(1, math.Hypot(dx, dy)/math.Sqrt2)
	if exponent <= 0 {
		exponent = 1
	}
	return math.Pow(d, exponent)
}

// octaveNoise sums several noise octaves, normalized to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < max(octaves, 1); i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// Habitable returns the crossable cells of a grid as 1-indexed (row, col)
// pairs in row-major order.
func Habitable(grid [][]components.Terrain) [][2]int {
	var out [][2]int
	for r, row := range grid {
		for c, kind := range row {
			if kind != components.Water {
				out = append(out, [2]int{r + 1, c + 1})
			}
		}
	}
	return out
}

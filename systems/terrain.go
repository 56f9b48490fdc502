package systems

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pthm-cable/biosim/components"
)

// ParseLayout reads a terrain layout: one line per row, one code per cell
// (W, L, H, D). Surrounding whitespace on each line is ignored, as are blank
// lines at either end. The layout must be rectangular and ringed by water.
func ParseLayout(text string) ([][]components.Terrain, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 && strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("%w: empty terrain layout", components.ErrConfiguration)
	}

	width := -1
	grid := make([][]components.Terrain, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if width < 0 {
			width = n
		} else if n != width {
			return nil, &components.InconsistentRowLengthError{Row: i + 1, Length: n, Expected: width}
		}

		row := make([]components.Terrain, 0, n)
		col := 0
		for _, code := range line {
			col++
			kind, ok := components.ParseTerrainCode(code)
			if !ok {
				return nil, &components.InvalidTerrainCodeError{Row: i + 1, Col: col, Code: code}
			}
			row = append(row, kind)
		}
		grid[i] = row
	}

	if err := checkBoundary(grid); err != nil {
		return nil, err
	}
	return grid, nil
}

// checkBoundary verifies that the full outer ring is water.
func checkBoundary(grid [][]components.Terrain) error {
	rows, cols := len(grid), len(grid[0])
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			onEdge := r == 0 || r == rows-1 || c == 0 || c == cols-1
			if onEdge && grid[r][c] != components.Water {
				return &components.InvalidMapBoundaryError{Row: r + 1, Col: c + 1, Code: grid[r][c].Code()}
			}
		}
	}
	return nil
}

// FormatLayout renders a terrain grid back to layout text.
func FormatLayout(grid [][]components.Terrain) string {
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, kind := range row {
			b.WriteRune(kind.Code())
		}
	}
	return b.String()
}

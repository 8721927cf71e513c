package plot

import (
	"math"

	"sbpconv/internal/model"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

// Terminal draws path into a width x height grid of characters, keeping the
// geometry undistorted for typical terminal fonts. The origin, start and end
// are marked with the model icons. An empty path, or one whose span
// overflows, yields nil.
func Terminal(path model.Path, width, height int) []string {
	if len(path) == 0 {
		return nil
	}
	width = max(width, 4)
	height = max(height, 4)

	minX, minY, maxX, maxY := Bounds(path)
	minX, minY = math.Min(minX, 0), math.Min(minY, 0)
	maxX, maxY = math.Max(maxX, 0), math.Max(maxY, 0)

	unit := math.Max((maxX-minX)/float64(width-1), (maxY-minY)/(cellAspect*float64(height-1)))
	if unit == 0 {
		unit = 1
	}
	if !finite(unit) {
		return nil
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	cell := func(p model.Position) (int, int) {
		c := int(math.Round((p.X - minX) / unit))
		r := height - 1 - int(math.Round((p.Y-minY)/(cellAspect*unit)))
		return clamp(c, 0, width-1), clamp(r, 0, height-1)
	}
	set := func(p model.Position, glyph string) {
		c, r := cell(p)
		grid[r][c] = []rune(glyph)[0]
	}

	set(model.Position{}, model.IconOrigin)

	for i := 1; i < len(path); i++ {
		c0, r0 := cell(path[i-1])
		c1, r1 := cell(path[i])
		steps := max(abs(c1-c0), abs(r1-r0), 1)
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			c := c0 + int(math.Round(t*float64(c1-c0)))
			r := r0 + int(math.Round(t*float64(r1-r0)))
			grid[r][c] = []rune(model.IconPath)[0]
		}
	}

	set(path[0], model.IconStart)
	set(path[len(path)-1], model.IconEnd)

	rows := make([]string, height)
	for i, row := range grid {
		rows[i] = string(row)
	}
	return rows
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

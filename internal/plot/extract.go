package plot

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"sbpconv/internal/model"
)

var (
	commentRe = regexp.MustCompile(`\([^)]*\)`)
	xRe       = regexp.MustCompile(`X([-+]?\d*\.?\d+)`)
	yRe       = regexp.MustCompile(`Y([-+]?\d*\.?\d+)`)
)

// ExtractPath walks a filtered program and records the XY position after
// every line that moves the tool. Axes not mentioned on a line keep their
// previous value. Lines that cannot be parsed are skipped.
func ExtractPath(program string) model.Path {
	var (
		path model.Path
		cur  model.Position
	)

	for _, line := range strings.Split(program, "\n") {
		line = commentRe.ReplaceAllString(line, "")
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "" || strings.HasPrefix(line, "'") {
			continue
		}

		if next, ok := scanLetterCoords(line, cur); ok {
			cur = next
			path = append(path, cur)
			continue
		}
		if next, ok := scanCommaCoords(line); ok {
			cur = next
			path = append(path, cur)
		}
	}
	return path
}

// scanLetterCoords handles G-code style words such as "G1 X10.5 Y-2".
func scanLetterCoords(line string, cur model.Position) (model.Position, bool) {
	updated := false
	if m := xRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseCoord(m[1]); ok {
			cur.X = v
			updated = true
		}
	}
	if m := yRe.FindStringSubmatch(line); m != nil {
		if v, ok := parseCoord(m[1]); ok {
			cur.Y = v
			updated = true
		}
	}
	return cur, updated
}

// scanCommaCoords handles ShopBot moves such as "J2, 10.5, 20.0".
func scanCommaCoords(line string) (model.Position, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return model.Position{}, false
	}
	x, ok := parseCoord(strings.TrimSpace(fields[1]))
	if !ok {
		return model.Position{}, false
	}
	y, ok := parseCoord(strings.TrimSpace(fields[2]))
	if !ok {
		return model.Position{}, false
	}
	return model.Position{X: x, Y: y}, true
}

// parseCoord rejects NaN and infinities along with malformed numbers.
func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Bounds returns the extent of path. It is all zeros for an empty path.
func Bounds(path model.Path) (minX, minY, maxX, maxY float64) {
	if len(path) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = path[0].X, path[0].Y
	maxX, maxY = minX, minY
	for _, p := range path[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

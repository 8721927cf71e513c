// Package plot turns a filtered program into a 2D toolpath preview.
//
// A Figure is built fresh for every call to Render; nothing is shared
// between renders. The same Figure can be written as SVG for browsers or
// rasterized to PNG.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"sbpconv/internal/model"
)

var (
	// ErrNoData is returned by Render when the path has no points.
	ErrNoData = errors.New("plot: no coordinates to plot")

	// ErrOutOfRange is returned by Render when the coordinates span more
	// than a float64 can hold.
	ErrOutOfRange = errors.New("plot: coordinates out of range")
)

// Options controls the size and labelling of a rendered figure.
type Options struct {
	Width  int    // Image width in pixels
	Height int    // Image height in pixels
	Title  string // Drawn above the plot area
}

// DefaultOptions returns the preview size used when nothing is configured.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Title: "Toolpath Preview"}
}

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorPath       = color.RGBA{0x00, 0x20, 0x60, 0xff} // team blue
	colorStart      = color.RGBA{0x74, 0xb4, 0x4c, 0xff} // team green
	colorEnd        = color.RGBA{0xd6, 0x27, 0x28, 0xff}
	colorAxisX      = color.RGBA{0xe6, 0x7e, 0x22, 0xff}
	colorAxisY      = color.RGBA{0x8e, 0x44, 0xad, 0xff}
	colorGrid       = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorFrame      = color.RGBA{0x99, 0x99, 0x99, 0xff}
	colorText       = color.RGBA{0x33, 0x33, 0x33, 0xff}
)

const (
	marginLeft   = 60
	marginRight  = 20
	marginTop    = 40
	marginBottom = 40

	markerRadius = 6.0
	minArrow     = 0.5
)

// Point is a position in pixel space, origin top-left.
type Point struct {
	X, Y float64
}

// Anchor positions a label relative to its point.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Label is a piece of text placed on the figure. The point is the baseline.
type Label struct {
	At     Point
	Text   string
	Color  color.RGBA
	Anchor Anchor
}

// Figure is a fully laid out preview.
type Figure struct {
	Width, Height int
	Title         string

	// Scale is pixels per machine unit, identical for both axes.
	Scale float64
	// ArrowLength is the origin arrow length in machine units.
	ArrowLength float64

	Start, End Point

	elements []element
	labels   []Label

	// data-space window mapped onto the plot area
	minX, minY float64
	offX, offY float64
}

// Labels returns the text placed on the figure.
func (f *Figure) Labels() []Label {
	return f.labels
}

// ToPixel maps a machine position into figure pixels.
func (f *Figure) ToPixel(p model.Position) Point {
	return Point{
		X: f.offX + (p.X-f.minX)*f.Scale,
		Y: f.offY - (p.Y-f.minY)*f.Scale,
	}
}

// Render lays out path as a figure. It returns ErrNoData for an empty path.
func Render(path model.Path, opts Options) (*Figure, error) {
	if len(path) == 0 {
		return nil, ErrNoData
	}
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Width < marginLeft+marginRight+20 || opts.Height < marginTop+marginBottom+20 {
		return nil, fmt.Errorf("plot: %dx%d is too small for a preview", opts.Width, opts.Height)
	}

	f := &Figure{Width: opts.Width, Height: opts.Height, Title: opts.Title}

	minX, minY, maxX, maxY := Bounds(path)
	f.ArrowLength = math.Max(0.1*(maxX-minX), minArrow)

	// The origin arrows are always in view.
	minX, minY = math.Min(minX, 0), math.Min(minY, 0)
	maxX = math.Max(maxX, f.ArrowLength)
	maxY = math.Max(maxY, f.ArrowLength)

	padX := 0.05 * (maxX - minX)
	padY := 0.05 * (maxY - minY)
	minX, maxX = minX-padX, maxX+padX
	minY, maxY = minY-padY, maxY+padY

	if !finite(maxX-minX) || !finite(maxY-minY) {
		return nil, ErrOutOfRange
	}

	plotW := float64(opts.Width - marginLeft - marginRight)
	plotH := float64(opts.Height - marginTop - marginBottom)
	f.Scale = math.Min(plotW/(maxX-minX), plotH/(maxY-minY))
	if !finite(f.Scale) || f.Scale <= 0 {
		return nil, ErrOutOfRange
	}

	// Center the data in the plot area; the slack axis gets extra room.
	usedW := (maxX - minX) * f.Scale
	usedH := (maxY - minY) * f.Scale
	f.minX, f.minY = minX, minY
	f.offX = marginLeft + (plotW-usedW)/2
	f.offY = marginTop + plotH - (plotH-usedH)/2

	f.addGrid(minX, minY, maxX, maxY)
	f.addPath(path)
	f.addAxes()
	f.addMarkers(path)
	f.addLegend()
	if opts.Title != "" {
		f.labels = append(f.labels, Label{
			At:     Point{float64(opts.Width) / 2, marginTop / 2},
			Text:   opts.Title,
			Color:  colorText,
			Anchor: AnchorMiddle,
		})
	}
	return f, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (f *Figure) addGrid(minX, minY, maxX, maxY float64) {
	step := niceStep(math.Max(maxX-minX, maxY-minY) / 8)

	for x := math.Ceil(minX/step) * step; x <= maxX; x += step {
		a := f.ToPixel(model.Position{X: x, Y: minY})
		b := f.ToPixel(model.Position{X: x, Y: maxY})
		f.elements = append(f.elements, &line{From: a, To: b, Stroke: colorGrid, Width: 1})
		f.labels = append(f.labels, Label{
			At: Point{a.X, a.Y + 16}, Text: formatTick(x), Color: colorText, Anchor: AnchorMiddle,
		})
	}
	for y := math.Ceil(minY/step) * step; y <= maxY; y += step {
		a := f.ToPixel(model.Position{X: minX, Y: y})
		b := f.ToPixel(model.Position{X: maxX, Y: y})
		f.elements = append(f.elements, &line{From: a, To: b, Stroke: colorGrid, Width: 1})
		f.labels = append(f.labels, Label{
			At: Point{a.X - 6, a.Y + 4}, Text: formatTick(y), Color: colorText, Anchor: AnchorEnd,
		})
	}

	tl := f.ToPixel(model.Position{X: minX, Y: maxY})
	br := f.ToPixel(model.Position{X: maxX, Y: minY})
	f.elements = append(f.elements, &rect{
		Min: tl, Max: br, Stroke: colorFrame, Width: 1,
	})
}

func (f *Figure) addPath(path model.Path) {
	pts := make([]Point, len(path))
	for i, p := range path {
		pts[i] = f.ToPixel(p)
	}
	f.elements = append(f.elements, &polyline{ID: "toolpath", Points: pts, Stroke: colorPath, Width: 2})
}

func (f *Figure) addAxes() {
	o := f.ToPixel(model.Position{})
	xTip := f.ToPixel(model.Position{X: f.ArrowLength})
	yTip := f.ToPixel(model.Position{Y: f.ArrowLength})

	f.elements = append(f.elements,
		&line{ID: "axis-x", From: o, To: xTip, Stroke: colorAxisX, Width: 2},
		arrowHead(o, xTip, colorAxisX),
		&line{ID: "axis-y", From: o, To: yTip, Stroke: colorAxisY, Width: 2},
		arrowHead(o, yTip, colorAxisY),
	)
	f.labels = append(f.labels,
		Label{At: Point{xTip.X + 6, xTip.Y + 4}, Text: "X", Color: colorAxisX, Anchor: AnchorStart},
		Label{At: Point{yTip.X, yTip.Y - 8}, Text: "Y", Color: colorAxisY, Anchor: AnchorMiddle},
	)
}

func (f *Figure) addMarkers(path model.Path) {
	f.Start = f.ToPixel(path[0])
	f.End = f.ToPixel(path[len(path)-1])
	f.elements = append(f.elements,
		&circle{ID: "start", Center: f.Start, R: markerRadius, Fill: colorStart},
		&rect{
			ID:   "end",
			Min:  Point{f.End.X - markerRadius, f.End.Y - markerRadius},
			Max:  Point{f.End.X + markerRadius, f.End.Y + markerRadius},
			Fill: colorEnd,
		},
	)
}

func (f *Figure) addLegend() {
	const (
		boxW   = 110.0
		rowH   = 18.0
		pad    = 8.0
		sample = 20.0
	)
	x0 := float64(f.Width-marginRight) - boxW - pad
	y0 := float64(marginTop) + pad

	f.elements = append(f.elements, &rect{
		ID:     "legend",
		Min:    Point{x0, y0},
		Max:    Point{x0 + boxW, y0 + 3*rowH + pad},
		Fill:   colorBackground,
		Stroke: colorFrame,
		Width:  1,
	})

	rows := []struct {
		text string
		el   func(cx, cy float64) element
	}{
		{"Toolpath", func(cx, cy float64) element {
			return &line{From: Point{cx - sample/2, cy}, To: Point{cx + sample/2, cy}, Stroke: colorPath, Width: 2}
		}},
		{"Start", func(cx, cy float64) element {
			return &circle{Center: Point{cx, cy}, R: 5, Fill: colorStart}
		}},
		{"End", func(cx, cy float64) element {
			return &rect{Min: Point{cx - 5, cy - 5}, Max: Point{cx + 5, cy + 5}, Fill: colorEnd}
		}},
	}
	for i, r := range rows {
		cy := y0 + pad + rowH*float64(i) + rowH/2 - 4
		cx := x0 + pad + sample/2
		f.elements = append(f.elements, r.el(cx, cy))
		f.labels = append(f.labels, Label{
			At: Point{cx + sample/2 + 8, cy + 4}, Text: r.text, Color: colorText, Anchor: AnchorStart,
		})
	}
}

// arrowHead returns a filled triangle at tip pointing away from tail.
func arrowHead(tail, tip Point, c color.RGBA) element {
	const size = 8.0
	dx, dy := tip.X-tail.X, tip.Y-tail.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return &polygon{Points: []Point{tip, tip, tip}, Fill: c}
	}
	ux, uy := dx/l, dy/l
	bx, by := tip.X-ux*size, tip.Y-uy*size
	return &polygon{
		Points: []Point{
			tip,
			{bx - uy*size/2, by + ux*size/2},
			{bx + uy*size/2, by - ux*size/2},
		},
		Fill: c,
	}
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	switch frac := raw / exp; {
	case frac <= 1:
		return exp
	case frac <= 2:
		return 2 * exp
	case frac <= 5:
		return 5 * exp
	default:
		return 10 * exp
	}
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	if math.Abs(v) >= 1e12 {
		return fmt.Sprintf("%.3g", v)
	}
	return fmt.Sprintf("%g", math.Round(v*1000)/1000)
}

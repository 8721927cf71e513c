package plot

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"
)

// element is a drawable shape in pixel space.
type element interface {
	writeSVG(sb *strings.Builder)
}

type line struct {
	ID       string
	From, To Point
	Stroke   color.RGBA
	Width    float64
}

type polyline struct {
	ID     string
	Points []Point
	Stroke color.RGBA
	Width  float64
}

type polygon struct {
	Points []Point
	Fill   color.RGBA
}

type circle struct {
	ID     string
	Center Point
	R      float64
	Fill   color.RGBA
}

type rect struct {
	ID       string
	Min, Max Point
	Fill     color.RGBA
	Stroke   color.RGBA
	Width    float64
}

func (l *line) writeSVG(sb *strings.Builder) {
	fmt.Fprintf(sb, `<line%s x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round"/>`,
		idAttr(l.ID), l.From.X, l.From.Y, l.To.X, l.To.Y, hex(l.Stroke), l.Width)
	sb.WriteByte('\n')
}

func (p *polyline) writeSVG(sb *strings.Builder) {
	pts := p.Points
	// A single point still has to show up as a stroke.
	if len(pts) == 1 {
		pts = []Point{pts[0], pts[0]}
	}
	fmt.Fprintf(sb, `<polyline%s points="%s" fill="none" stroke="%s" stroke-width="%g" stroke-linejoin="round" stroke-linecap="round"/>`,
		idAttr(p.ID), pointList(pts), hex(p.Stroke), p.Width)
	sb.WriteByte('\n')
}

func (p *polygon) writeSVG(sb *strings.Builder) {
	fmt.Fprintf(sb, `<polygon points="%s" fill="%s" stroke="none"/>`, pointList(p.Points), hex(p.Fill))
	sb.WriteByte('\n')
}

func (c *circle) writeSVG(sb *strings.Builder) {
	fmt.Fprintf(sb, `<circle%s cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="none"/>`,
		idAttr(c.ID), c.Center.X, c.Center.Y, c.R, hex(c.Fill))
	sb.WriteByte('\n')
}

func (r *rect) writeSVG(sb *strings.Builder) {
	stroke := ""
	if r.Stroke.A != 0 {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="%g"`, hex(r.Stroke), r.Width)
	}
	fmt.Fprintf(sb, `<rect%s x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`,
		idAttr(r.ID), r.Min.X, r.Min.Y, r.Max.X-r.Min.X, r.Max.Y-r.Min.Y, hex(r.Fill), stroke)
	sb.WriteByte('\n')
}

// svg renders the figure as a standalone SVG document. Labels are emitted
// after the shapes when withText is set.
func (f *Figure) svg(withText bool) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		f.Width, f.Height, f.Width, f.Height)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, f.Width, f.Height, hex(colorBackground))
	sb.WriteByte('\n')

	for _, el := range f.elements {
		el.writeSVG(&sb)
	}

	if withText {
		for _, l := range f.labels {
			fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="%s">`,
				l.At.X, l.At.Y, hex(l.Color), anchorName(l.Anchor))
			xml.EscapeText(&sb, []byte(l.Text))
			sb.WriteString("</text>\n")
		}
	}
	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

// SVG returns the figure as an SVG document for browsers.
func (f *Figure) SVG() []byte {
	return f.svg(true)
}

func idAttr(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(` id="%s"`, id)
}

func pointList(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func hex(c color.RGBA) string {
	if c.A == 0 {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func anchorName(a Anchor) string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

package plot

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sbpconv/internal/model"
)

func TestExtractPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  model.Path
	}{
		{
			name:  "comma moves",
			input: "J2, 1.0, 2.0\nJ2, 3.0, 4.0",
			want:  model.Path{{X: 1, Y: 2}, {X: 3, Y: 4}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "  \n\t\n",
			want:  nil,
		},
		{
			name:  "last write wins per axis",
			input: "G0 X1 Y2\nG1 X5\nG1 Y-3.5\ng1 x.5 y+2",
			want:  model.Path{{X: 1, Y: 2}, {X: 5, Y: 2}, {X: 5, Y: -3.5}, {X: 0.5, Y: 2}},
		},
		{
			name:  "comments and commented lines skipped",
			input: "(header X99 Y99)\n' S1000 X50\nG0 X1 (move X77) Y1\n' Redirected Y24 move to origin\nJ2, 0, 0",
			want:  model.Path{{X: 1, Y: 1}, {X: 0, Y: 0}},
		},
		{
			name:  "unparseable comma moves are swallowed",
			input: "J2, abc, 1\nJ2, 1\nMS, 1.5, oops\nJ3, 2, 3, 0.5",
			want:  model.Path{{X: 2, Y: 3}},
		},
		{
			name:  "non-finite values rejected",
			input: "J2, inf, 1\nJ2, NaN, NaN\nJ2, 1, 1",
			want:  model.Path{{X: 1, Y: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPath(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractPath mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY := Bounds(model.Path{{X: 1, Y: -2}, {X: -3, Y: 4}, {X: 0, Y: 0}})
	if minX != -3 || minY != -2 || maxX != 1 || maxY != 4 {
		t.Errorf("Bounds = %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestRenderNoData(t *testing.T) {
	if _, err := Render(nil, DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Errorf("Render(nil) error = %v, want ErrNoData", err)
	}
}

func TestRenderOutOfRange(t *testing.T) {
	tests := map[string]model.Path{
		"span overflows": ExtractPath("J2, 1e308, 1\nJ2, -1e308, 2"),
		"y only":         {{X: 0, Y: math.MaxFloat64}, {X: 0, Y: -math.MaxFloat64}},
		"padding":        {{X: 1.75e308, Y: 0}},
	}
	for name, path := range tests {
		if len(path) == 0 {
			t.Fatalf("%s: no points extracted", name)
		}
		if _, err := Render(path, DefaultOptions()); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: Render error = %v, want ErrOutOfRange", name, err)
		}
	}

	// Large but representable spans still render.
	f, err := Render(model.Path{{X: 1e300, Y: 0}, {X: -1e300, Y: 1}}, DefaultOptions())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f.Scale <= 0 || math.IsInf(f.Scale, 0) {
		t.Errorf("Scale = %v", f.Scale)
	}
}

func TestTerminalOutOfRange(t *testing.T) {
	if rows := Terminal(model.Path{{X: 1e308, Y: 0}, {X: -1e308, Y: 0}}, 20, 10); rows != nil {
		t.Errorf("Terminal = %v, want nil", rows)
	}
}

func TestRenderTooSmall(t *testing.T) {
	path := model.Path{{X: 1, Y: 1}}
	if _, err := Render(path, Options{Width: 50, Height: 50}); err == nil {
		t.Error("expected error for tiny figure")
	}
}

func TestRenderGeometry(t *testing.T) {
	path := model.Path{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}
	f, err := Render(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// 10% of the X range.
	if f.ArrowLength != 1 {
		t.Errorf("ArrowLength = %v, want 1", f.ArrowLength)
	}

	// Equal aspect: one unit is the same number of pixels on both axes.
	o := f.ToPixel(model.Position{})
	px := f.ToPixel(model.Position{X: 1})
	py := f.ToPixel(model.Position{Y: 1})
	if dx, dy := px.X-o.X, o.Y-py.Y; math.Abs(dx-dy) > 1e-9 {
		t.Errorf("unequal aspect: x unit %v px, y unit %v px", dx, dy)
	}

	if f.Start != f.ToPixel(path[0]) || f.End != f.ToPixel(path[2]) {
		t.Errorf("markers at %v/%v", f.Start, f.End)
	}

	// Everything lands inside the image.
	for _, p := range path {
		q := f.ToPixel(p)
		if q.X < 0 || q.Y < 0 || q.X > float64(f.Width) || q.Y > float64(f.Height) {
			t.Errorf("point %v maps outside image: %v", p, q)
		}
	}
}

func TestRenderMinimumArrow(t *testing.T) {
	f, err := Render(model.Path{{X: 2, Y: 0}, {X: 2, Y: 30}}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if f.ArrowLength != 0.5 {
		t.Errorf("ArrowLength = %v, want 0.5", f.ArrowLength)
	}
}

func TestRenderIsFreshPerCall(t *testing.T) {
	a, _ := Render(model.Path{{X: 0, Y: 0}, {X: 1, Y: 1}}, DefaultOptions())
	b, _ := Render(model.Path{{X: 5, Y: 5}}, DefaultOptions())
	if strings.Count(string(b.SVG()), `id="toolpath"`) != 1 {
		t.Error("second render carries more than one toolpath")
	}
	if bytes.Equal(a.SVG(), b.SVG()) {
		t.Error("different paths rendered identically")
	}
}

func TestSVG(t *testing.T) {
	f, err := Render(model.Path{{X: 1, Y: 2}, {X: 3, Y: 4}}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	svg := string(f.SVG())
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`id="toolpath"`,
		`id="start"`,
		`id="end"`,
		`id="axis-x"`,
		`id="axis-y"`,
		`id="legend"`,
		`>Toolpath Preview</text>`,
		`>Start</text>`,
		`>End</text>`,
		`>X</text>`,
		`>Y</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	f, err := Render(model.Path{{X: 0, Y: 0}, {X: 4, Y: 3}}, Options{Width: 320, Height: 240})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := f.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("png is %dx%d", b.Dx(), b.Dy())
	}

	// The start marker is filled with the start color.
	r, g, b, _ := img.At(int(f.Start.X), int(f.Start.Y)).RGBA()
	if uint8(r>>8) != colorStart.R || uint8(g>>8) != colorStart.G || uint8(b>>8) != colorStart.B {
		t.Errorf("start marker pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestTerminal(t *testing.T) {
	if rows := Terminal(nil, 20, 10); rows != nil {
		t.Errorf("Terminal(nil) = %v", rows)
	}

	rows := Terminal(model.Path{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}, 21, 6)
	if len(rows) != 6 {
		t.Fatalf("got %d rows", len(rows))
	}
	for i, r := range rows {
		if n := len([]rune(r)); n != 21 {
			t.Errorf("row %d has %d cells", i, n)
		}
	}
	all := strings.Join(rows, "\n")
	for _, glyph := range []string{model.IconStart, model.IconEnd, model.IconPath} {
		if !strings.Contains(all, glyph) {
			t.Errorf("terminal preview missing %q:\n%s", glyph, all)
		}
	}
	// Start is at the origin, bottom-left.
	if got := []rune(rows[5])[0]; string(got) != model.IconStart {
		t.Errorf("bottom-left cell = %q, want start", got)
	}
}

package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Image rasterizes the figure. Shapes go through oksvg; oksvg has no text
// support so labels are drawn afterwards with a bitmap font.
func (f *Figure) Image() (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(f.svg(false)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("plot: parse preview svg: %w", err)
	}

	w, h := f.Width, f.Height
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorBackground}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	face := basicfont.Face7x13
	for _, l := range f.labels {
		drawLabel(img, face, l)
	}
	return img, nil
}

// WritePNG rasterizes the figure and encodes it as PNG.
func (f *Figure) WritePNG(w io.Writer) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("plot: encode png: %w", err)
	}
	return nil
}

func drawLabel(dst draw.Image, face font.Face, l Label) {
	x := l.At.X
	switch l.Anchor {
	case AnchorMiddle:
		x -= float64(font.MeasureString(face, l.Text).Round()) / 2
	case AnchorEnd:
		x -= float64(font.MeasureString(face, l.Text).Round())
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(l.Color),
		Face: face,
		Dot:  fixed.P(int(x+0.5), int(l.At.Y+0.5)),
	}
	d.DrawString(l.Text)
}

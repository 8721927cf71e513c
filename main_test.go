package main

import (
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"sbpconv/internal/config"
	"sbpconv/internal/convert"
	"sbpconv/internal/plot"
)

func TestWritePreviews(t *testing.T) {
	dir := t.TempDir()
	opts := cliOptions{
		pngPath: filepath.Join(dir, "part1.png"),
		svgPath: filepath.Join(dir, "part1.svg"),
	}
	conv := convert.Convert("part1.nc", "J2, 1.0, 2.0\nJ2, 3.0, 4.0\n")

	ok, err := writePreviews(conv, opts, plot.Options{Width: 300, Height: 200})
	if err != nil || !ok {
		t.Fatalf("writePreviews = %v, %v", ok, err)
	}

	f, err := os.Open(opts.pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png is not complete: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("png is %dx%d", b.Dx(), b.Dy())
	}

	svg, err := os.ReadFile(opts.svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `id="toolpath"`) {
		t.Error("svg has no toolpath")
	}
}

func TestWritePreviewsErrors(t *testing.T) {
	dir := t.TempDir()
	opts := cliOptions{pngPath: filepath.Join(dir, "out.png")}

	ok, err := writePreviews(convert.Convert("setup.nc", "G20\nM5\n"), opts, plot.DefaultOptions())
	if ok || err != nil {
		t.Errorf("no coordinates: got %v, %v", ok, err)
	}

	huge := convert.Convert("huge.nc", "J2, 1e308, 1\nJ2, -1e308, 2\n")
	if _, err := writePreviews(huge, opts, plot.DefaultOptions()); !errors.Is(err, plot.ErrOutOfRange) {
		t.Errorf("out of range: err = %v", err)
	}
	if _, err := os.Stat(opts.pngPath); !os.IsNotExist(err) {
		t.Error("png written for an unplottable path")
	}

	bad := cliOptions{pngPath: filepath.Join(dir, "missing", "out.png")}
	if _, err := writePreviews(convert.Convert("a.nc", "J2, 1, 1\n"), bad, plot.DefaultOptions()); err == nil {
		t.Error("expected error for unwritable png path")
	}
}

func TestRunConvertModeOutOfRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "huge.nc")
	if err := os.WriteFile(in, []byte("J2, 1e308, 1\nJ2, -1e308, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Preview: plot.DefaultOptions()}
	opts := cliOptions{pngPath: filepath.Join(dir, "huge.png")}

	if err := runConvertMode(in, opts, cfg, log.New(io.Discard)); err != nil {
		t.Fatalf("runConvertMode: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "huge.SBP")); err != nil {
		t.Errorf("converted program not written: %v", err)
	}
}

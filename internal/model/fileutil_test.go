package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetLineContext(t *testing.T) {
	lines := []string{"G0 X0", "G1 X1", "G1 X2", "G1 X3", "G1 X4"}

	got := GetLineContext(lines, 3)
	want := LineContext{
		Before2: "G0 X0", Before1: "G1 X1", Target: "G1 X2", After1: "G1 X3", After2: "G1 X4",
		LineNumber: 3,
		HasBefore2: true, HasBefore1: true, HasAfter1: true, HasAfter2: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetLineContext mismatch (-want +got):\n%s", diff)
	}
}

func TestGetLineContextEdges(t *testing.T) {
	lines := []string{"first", "second"}

	got := GetLineContext(lines, 1)
	if got.HasBefore1 || got.HasBefore2 {
		t.Errorf("first line should have no predecessors: %+v", got)
	}
	if !got.HasAfter1 || got.HasAfter2 {
		t.Errorf("first line of two should have exactly one successor: %+v", got)
	}

	for _, n := range []int{0, 3} {
		if got := GetLineContext(lines, n); got.ErrorMsg == "" {
			t.Errorf("line %d: expected out of range error", n)
		}
	}
}

func TestReadProgram(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "part1.nc")
	if err := os.WriteFile(good, []byte("G0 X1 Y2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadProgram(good)
	if err != nil {
		t.Fatalf("ReadProgram: %v", err)
	}
	if got != "G0 X1 Y2\n" {
		t.Errorf("ReadProgram = %q", got)
	}

	bad := filepath.Join(dir, "bad.nc")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 'X'}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadProgram(bad); err == nil || !strings.Contains(err.Error(), "UTF-8") {
		t.Errorf("expected UTF-8 error, got %v", err)
	}

	if _, err := ReadProgram(filepath.Join(dir, "missing.nc")); err == nil {
		t.Error("expected error for missing file")
	}
}

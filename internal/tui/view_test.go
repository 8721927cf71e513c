package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncateKeepsEscapes(t *testing.T) {
	const orange = "\x1b[38;5;208m"
	styled := orange + "Why: this line is far too long for the panel" + "\x1b[0m"

	got := truncate(styled, 10)
	if !strings.HasPrefix(got, orange) {
		t.Errorf("escape sequence was cut: %q", got)
	}
	if plain := ansi.Strip(got); plain != "Why: th..." {
		t.Errorf("visible text = %q, want %q", plain, "Why: th...")
	}
	if w := ansi.StringWidth(got); w > 10 {
		t.Errorf("width = %d, want <= 10", w)
	}

	if got := truncate(styled, 100); got != styled {
		t.Errorf("short enough string changed: %q", got)
	}
}

func TestClipLines(t *testing.T) {
	content := "\x1b[1mtitle\x1b[0m\n" + strings.Repeat("x", 30) + "\nthird\n"
	got := clipLines(content, 2, 12)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "\x1b[1mtitle\x1b[0m" {
		t.Errorf("styled line changed: %q", lines[0])
	}
	if lines[1] != strings.Repeat("x", 9)+"..." {
		t.Errorf("long line = %q", lines[1])
	}
}

package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isLineBreak reports the line boundaries a CAM file may use: \n, \r,
// \v, \f, the file/group/record separators, NEL and the Unicode line and
// paragraph separators. \r\n counts as one break.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// SplitLines trims the whole document and splits it into lines.
// Individual lines keep their own leading and trailing whitespace.
func SplitLines(input string) []string {
	input = strings.TrimFunc(input, isSpace)
	if input == "" {
		return nil
	}

	var lines []string
	start := 0
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, input[start:i])
		i += size
		if r == '\r' && i < len(input) && input[i] == '\n' {
			i++
		}
		start = i
	}
	// Every break is also whitespace, so the trimmed input never ends on one.
	return append(lines, input[start:])
}

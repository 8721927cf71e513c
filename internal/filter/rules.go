package filter

import (
	"strings"

	"sbpconv/internal/model"
)

// Rule decides whether a line is unsupported on a 3-axis ShopBot.
type Rule interface {
	// Match reports whether the rule applies. upper is the trimmed, uppercased
	// line and fields is the comma split of the trimmed line.
	Match(upper string, fields []string) (detail string, ok bool)
	Reason() model.Reason
}

// AxisRule flags any line that mentions the rotary A or B axes.
type AxisRule struct{}

func (r *AxisRule) Match(upper string, fields []string) (string, bool) {
	if i := strings.IndexAny(upper, "AB"); i >= 0 {
		return upper[i : i+1], true
	}
	return "", false
}

func (r *AxisRule) Reason() model.Reason {
	return model.ReasonAxis
}

// PrefixRule flags lines that start with a command the controller rejects.
type PrefixRule struct {
	Prefixes []string
}

func (r *PrefixRule) Match(upper string, fields []string) (string, bool) {
	for _, p := range r.Prefixes {
		if strings.HasPrefix(upper, p) {
			return p, true
		}
	}
	return "", false
}

func (r *PrefixRule) Reason() model.Reason {
	return model.ReasonPrefix
}

// TokenRule flags comma separated moves with more fields than X, Y and Z allow.
type TokenRule struct {
	Max int
}

func (r *TokenRule) Match(upper string, fields []string) (string, bool) {
	if len(fields) > r.Max {
		return "", true
	}
	return "", false
}

func (r *TokenRule) Reason() model.Reason {
	return model.ReasonTokens
}

// Spindle, tool change and coolant commands, plus 4/5-axis jogs.
var unsupportedPrefixes = []string{"M4", "M5", "J4", "J5", "S", "T", "M7", "M8", "M9"}

// DefaultRules returns the offending-line rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		&AxisRule{},
		&PrefixRule{Prefixes: unsupportedPrefixes},
		&TokenRule{Max: 4},
	}
}

// parkPatterns match PenguinCAM's end-of-job park move.
var parkPatterns = []string{"Y24.0", "Y 24.0"}

func isParkMove(upper string) bool {
	for _, p := range parkPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

// Package filter rewrites PenguinCAM programs so a 3-axis ShopBot can run them.
//
// Every source line is classified independently. Unsupported lines are
// commented out with the SBP comment marker rather than deleted, so the
// output still lines up with the original program. PenguinCAM's park move
// is redirected to the machine origin.
package filter

import (
	"path/filepath"
	"strings"

	"sbpconv/internal/model"
)

const (
	// CommentMarker starts a comment in ShopBot part files.
	CommentMarker = "'"

	// ParkComment replaces the park move. It must not itself match any rule
	// so that the output stays stable when filtered again.
	ParkComment = "' Redirected Y24 move to origin"

	// OriginMove is the ShopBot 2-axis jog to X0 Y0.
	OriginMove = "J2, 0, 0"

	// OutputExt is appended to converted file names.
	OutputExt = ".SBP"
)

// Filter classifies lines against a set of rules.
type Filter struct {
	rules []Rule
}

// New returns a Filter using the default ShopBot rules.
func New() *Filter {
	return &Filter{rules: DefaultRules()}
}

// NewWithRules returns a Filter evaluating the given rules in order.
func NewWithRules(rules ...Rule) *Filter {
	return &Filter{rules: rules}
}

// Classify maps a single source line to its classification and output.
// Number is left at zero; ProcessLines fills it in.
func (f *Filter) Classify(line string) model.LineResult {
	trimmed := strings.TrimSpace(line)
	upper := strings.ToUpper(trimmed)
	fields := strings.Split(trimmed, ",")

	res := model.LineResult{Source: line}

	if isParkMove(upper) {
		res.Class = model.Redirected
		res.Reason = model.ReasonPark
		res.Output = []string{ParkComment, OriginMove}
		return res
	}

	for _, rule := range f.rules {
		detail, ok := rule.Match(upper, fields)
		if !ok {
			continue
		}
		res.Class = model.Offending
		res.Reason = rule.Reason()
		if res.Reason == model.ReasonPrefix {
			res.Prefix = detail
		}
		res.Output = []string{CommentMarker + " " + line}
		return res
	}

	res.Class = model.PassThrough
	res.Output = []string{line}
	return res
}

// ProcessLines runs the whole document through the filter, keeping per-line detail.
func (f *Filter) ProcessLines(input string) []model.LineResult {
	lines := SplitLines(input)
	results := make([]model.LineResult, 0, len(lines))
	for i, line := range lines {
		res := f.Classify(line)
		res.Number = i + 1
		results = append(results, res)
	}
	return results
}

// Process returns the filtered document.
func (f *Filter) Process(input string) string {
	return Join(f.ProcessLines(input))
}

// Join concatenates the output of every result, newline separated, with no
// trailing newline.
func Join(results []model.LineResult) string {
	var out []string
	for _, r := range results {
		out = append(out, r.Output...)
	}
	return strings.Join(out, "\n")
}

// Summarize counts the classifications in results.
func Summarize(results []model.LineResult) model.Summary {
	var s model.Summary
	s.InputLines = len(results)
	for _, r := range results {
		s.OutputLines += len(r.Output)
		switch r.Class {
		case model.Offending:
			s.Offending++
		case model.Redirected:
			s.Redirected++
		default:
			s.PassThrough++
		}
	}
	return s
}

var defaultFilter = New()

// Classify classifies a line with the default rules.
func Classify(line string) model.LineResult {
	return defaultFilter.Classify(line)
}

// ProcessLines filters input with the default rules.
func ProcessLines(input string) []model.LineResult {
	return defaultFilter.ProcessLines(input)
}

// Process filters input with the default rules.
func Process(input string) string {
	return defaultFilter.Process(input)
}

// OutputName replaces the last extension of name with .SBP, or appends it
// when there is none.
func OutputName(name string) string {
	base := filepath.Base(name)
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return base + OutputExt
}

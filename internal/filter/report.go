package filter

import (
	"fmt"
	"strings"

	"sbpconv/internal/model"
)

// GenerateReport renders a plain-text summary of a conversion. With verbose
// set, every rewritten line is listed with the rule that caught it.
func GenerateReport(conv model.Conversion, verbose bool) string {
	var sb strings.Builder
	s := conv.Summary

	sb.WriteString("=== sbpconv report ===\n")
	fmt.Fprintf(&sb, "Input:        %s\n", conv.InputName)
	fmt.Fprintf(&sb, "Output:       %s\n", conv.OutputName)
	fmt.Fprintf(&sb, "Lines in:     %d\n", s.InputLines)
	fmt.Fprintf(&sb, "Lines out:    %d\n", s.OutputLines)
	fmt.Fprintf(&sb, "Pass-through: %d\n", s.PassThrough)
	fmt.Fprintf(&sb, "Commented:    %d\n", s.Offending)
	fmt.Fprintf(&sb, "Redirected:   %d\n", s.Redirected)
	if len(conv.Path) == 0 {
		sb.WriteString("Toolpath:     no coordinates found\n")
	} else {
		fmt.Fprintf(&sb, "Toolpath:     %d points\n", len(conv.Path))
	}

	if !verbose {
		return sb.String()
	}

	sb.WriteString("\n--- Rewritten lines ---\n")
	listed := false
	for _, r := range conv.Lines {
		if r.Class == model.PassThrough {
			continue
		}
		listed = true
		fmt.Fprintf(&sb, "%s %5d  %-40s  %s\n", r.Class.Icon(), r.Number, r.Source, Describe(r))
	}
	if !listed {
		sb.WriteString("(none)\n")
	}
	return sb.String()
}

// Describe explains in words why a line was rewritten.
func Describe(r model.LineResult) string {
	switch r.Reason {
	case model.ReasonPark:
		return "park move redirected to " + OriginMove
	case model.ReasonAxis:
		return "uses the A/B rotary axis"
	case model.ReasonPrefix:
		return fmt.Sprintf("unsupported command %s", r.Prefix)
	case model.ReasonTokens:
		return "more than 4 comma separated fields"
	}
	return ""
}

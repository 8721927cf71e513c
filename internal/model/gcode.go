package model

import "fmt"

// Classification is the outcome of running a single source line through the filter.
type Classification int

const (
	PassThrough Classification = iota // Emitted unchanged
	Offending                          // Commented out with a leading '
	Redirected                         // Park move replaced by a move to origin
)

func (c Classification) String() string {
	switch c {
	case Offending:
		return "offending"
	case Redirected:
		return "redirected"
	default:
		return "pass"
	}
}

// MarshalText lets classifications show up by name in JSON output.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pass":
		*c = PassThrough
	case "offending":
		*c = Offending
	case "redirected":
		*c = Redirected
	default:
		return fmt.Errorf("unknown classification %q", text)
	}
	return nil
}

// Reason records which rule caused a line to be rewritten.
type Reason string

const (
	ReasonNone   Reason = ""
	ReasonPark   Reason = "park"   // Y24.0 park position
	ReasonAxis   Reason = "axis"   // A or B axis present
	ReasonPrefix Reason = "prefix" // Unsupported leading command
	ReasonTokens Reason = "tokens" // Too many comma separated fields
)

// LineResult is a single source line together with what the filter made of it.
type LineResult struct {
	Number int            // 1-based line number in the trimmed input
	Source string         // Original line, untrimmed
	Class  Classification // Which rule applied
	Reason Reason         // Why it was rewritten (empty for pass-through)
	Prefix string         // Matched command prefix when Reason is ReasonPrefix
	Output []string       // One line, or two for a redirect
}

// Summary counts what a conversion did.
type Summary struct {
	InputLines  int `json:"inputLines"`
	OutputLines int `json:"outputLines"`
	PassThrough int `json:"passThrough"`
	Offending   int `json:"offending"`
	Redirected  int `json:"redirected"`
}

// Position is a tool position in the XY plane.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is the ordered list of positions visited by the toolpath.
type Path []Position

// Conversion is everything produced for one input file.
type Conversion struct {
	InputName  string       // e.g. part1.nc
	OutputName string       // e.g. part1.SBP
	Output     string       // Filtered program text
	Lines      []LineResult // Per-line detail
	Summary    Summary
	Path       Path // Extracted toolpath (may be empty)
}

package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconPass       = " " // Space (pass-through - no icon to reduce noise)
	IconOffending  = "✗" // Thin X (commented out)
	IconRedirected = "→" // Right arrow (redirected to origin)
	IconStart      = "●" // Toolpath start marker
	IconEnd        = "■" // Toolpath end marker
	IconPath       = "·" // Toolpath trace
	IconOrigin     = "+" // Machine origin
)

// Icon returns the list icon for a classification.
func (c Classification) Icon() string {
	switch c {
	case Offending:
		return IconOffending
	case Redirected:
		return IconRedirected
	default:
		return IconPass
	}
}

package tui

import (
	"sbpconv/internal/model"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// RightPanel selects what the right-hand side shows.
type RightPanel int

const (
	PanelDetails RightPanel = iota
	PanelPreview
	PanelOutput
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	InputPath string
	Conv      model.Conversion
	Loading   bool
	Err       error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	Panel       RightPanel
	OnlyChanged bool   // Hide pass-through lines ('c')
	Status      string // One-line feedback after save/copy

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Conv.Lines to show
	SearchActive    bool

	// Components
	OutputViewport viewport.Model

	// Side effects, replaceable in tests
	CopyToClipboard func(string) error
	OutputDir       string
}

// InitialModel returns the initial state for converting path.
func InitialModel(path string) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Search lines..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		InputPath:       path,
		Loading:         true,
		InputBuffer:     ti,
		OutputViewport:  viewport.New(40, 10),
		CopyToClipboard: clipboard.WriteAll,
	}
}

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"sbpconv/internal/convert"
	"sbpconv/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgConverted indicates that the conversion has completed.
type MsgConverted model.Conversion

// MsgError indicates an error occurred.
type MsgError error

// MsgStatus reports the outcome of a save or copy.
type MsgStatus string

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.OutputViewport.Width = msg.Width / 2
		m.OutputViewport.Height = msg.Height - 8 // minus title, borders and footer
		return m, nil

	case MsgConverted:
		m.Loading = false
		m.Conv = model.Conversion(msg)
		m.OutputViewport.SetContent(m.Conv.Output)
		m.applyFilter()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case MsgStatus:
		m.Status = string(msg)
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		if m.Panel == PanelOutput {
			switch msg.String() {
			case "up", "k", "down", "j", "pgup", "pgdown":
				m.OutputViewport, cmd = m.OutputViewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.clearSearch()
				return m, nil
			}
			m.Panel = PanelDetails
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
		case "home", "g":
			m.SelectedIdx = 0
		case "end", "G":
			m.SelectedIdx = max(len(m.FilteredIndices)-1, 0)
		case "p":
			m.Panel = toggle(m.Panel, PanelPreview)
		case "o":
			m.Panel = toggle(m.Panel, PanelOutput)
		case "c":
			m.OnlyChanged = !m.OnlyChanged
			m.applyFilter()
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		case "y":
			return m, m.copyCmd()
		case "s":
			return m, m.saveCmd()
		}
	}

	return m, cmd
}

func toggle(cur, p RightPanel) RightPanel {
	if cur == p {
		return PanelDetails
	}
	return p
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.applyFilter()
}

// applyFilter rebuilds FilteredIndices from the search term and the
// changed-only toggle.
func (m *AppModel) applyFilter() {
	term := strings.ToLower(m.InputBuffer.Value())
	m.SearchActive = term != ""

	indices := []int{}
	for i, l := range m.Conv.Lines {
		if m.OnlyChanged && l.Class == model.PassThrough {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(l.Source), term) {
			continue
		}
		indices = append(indices, i)
	}
	m.FilteredIndices = indices

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

func (m AppModel) copyCmd() tea.Cmd {
	output, copyFn := m.Conv.Output, m.CopyToClipboard
	return func() tea.Msg {
		if copyFn == nil {
			return MsgStatus("Clipboard not available")
		}
		if err := copyFn(output); err != nil {
			return MsgStatus(fmt.Sprintf("Copy failed: %v", err))
		}
		return MsgStatus("Copied converted program to clipboard")
	}
}

func (m AppModel) saveCmd() tea.Cmd {
	conv := m.Conv
	dir := m.OutputDir
	if dir == "" {
		dir = filepath.Dir(m.InputPath)
	}
	return func() tea.Msg {
		dest, err := convert.WriteOutput(conv, dir)
		if err != nil {
			return MsgStatus(fmt.Sprintf("Save failed: %v", err))
		}
		return MsgStatus("Saved " + dest)
	}
}

// InitConvertCmd converts the input file in the background.
func InitConvertCmd(path string) tea.Cmd {
	return func() tea.Msg {
		conv, err := convert.ConvertFile(path)
		if err != nil {
			return MsgError(err)
		}
		return MsgConverted(conv)
	}
}

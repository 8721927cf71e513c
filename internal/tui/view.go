package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"sbpconv/internal/filter"
	"sbpconv/internal/model"
	"sbpconv/internal/plot"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	passStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	offendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Grey
	redirectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	adviceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	startStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#74B44C")).Bold(true)
	endStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D62728")).Bold(true)
	originStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	traceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

func classStyle(c model.Classification) lipgloss.Style {
	switch c {
	case model.Offending:
		return offendingStyle
	case model.Redirected:
		return redirectedStyle
	default:
		return passStyle
	}
}

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Converting " + m.InputPath + "... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	// Subtracting 6 for vertical margin (footer, borders + buffer)
	netWidth := max(m.WindowSize.Width-6, 20)
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth
	interiorHeight := max(m.WindowSize.Height-8, 4)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderLines(leftWidth, interiorHeight))

	var rightContent string
	switch m.Panel {
	case PanelPreview:
		rightContent = m.renderPreview(rightWidth, interiorHeight)
	case PanelOutput:
		rightContent = titleStyle.Render(m.Conv.OutputName) + "\n" + m.OutputViewport.View()
	default:
		rightContent = m.renderDetails(rightWidth)
	}
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(clipLines(rightContent, interiorHeight, rightWidth))

	// Footer
	help := "↑/↓: Navigate • p: Preview • o: Output • c: Changed only • /: Search • y: Copy • s: Save • q: Quit"
	footer := "\n" + help
	if m.InputMode {
		footer = fmt.Sprintf("\nSearch: %s", m.InputBuffer.View())
	} else if m.Status != "" {
		footer = "\n" + statusStyle.Render(m.Status) + "\n" + help
	}

	return m.renderSummary() + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) renderSummary() string {
	s := m.Conv.Summary
	return titleStyle.Render(fmt.Sprintf("%s → %s", m.Conv.InputName, m.Conv.OutputName)) +
		dimStyle.Render(fmt.Sprintf("   %d lines • %d commented • %d redirected • %d points",
			s.InputLines, s.Offending, s.Redirected, len(m.Conv.Path)))
}

func (m AppModel) renderLines(width, height int) string {
	var sb strings.Builder
	title := "Program"
	if m.OnlyChanged {
		title += " (changed only)"
	}
	if m.SearchActive {
		title += fmt.Sprintf(" [%q]", m.InputBuffer.Value())
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if len(m.FilteredIndices) == 0 {
		sb.WriteString(dimStyle.Render("No lines to show."))
		return sb.String()
	}

	// Windowing: keep the selection in the middle of the visible rows
	visible := max(height-2, 1)
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visible {
		startIdx = max(m.SelectedIdx-visible/2, 0)
		startIdx = min(startIdx, len(m.FilteredIndices)-visible)
		endIdx = startIdx + visible
	}

	for i := startIdx; i < endIdx; i++ {
		l := m.Conv.Lines[m.FilteredIndices[i]]
		line := fmt.Sprintf("%4d %s %s", l.Number, l.Class.Icon(), l.Source)
		line = truncate(line, width-2)

		style := classStyle(l.Class)
		if i == m.SelectedIdx {
			style = selectedStyle
		}
		sb.WriteString(style.Render(line))
		if i < endIdx-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m AppModel) renderDetails(width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Details"))
	sb.WriteString("\n")

	if len(m.FilteredIndices) == 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		sb.WriteString("\nNo line selected.")
		return sb.String()
	}
	l := m.Conv.Lines[m.FilteredIndices[m.SelectedIdx]]

	fmt.Fprintf(&sb, "\nLine:    %d", l.Number)
	fmt.Fprintf(&sb, "\nResult:  %s", classStyle(l.Class).Render(l.Class.String()))
	if why := filter.Describe(l); why != "" {
		sb.WriteString("\nWhy:     " + adviceStyle.Render(why))
	}

	sb.WriteString("\n\n--- Output ---")
	for _, out := range l.Output {
		sb.WriteString("\n  " + out)
	}

	// Source context around the selected line
	sources := make([]string, len(m.Conv.Lines))
	for i, src := range m.Conv.Lines {
		sources[i] = src.Source
	}
	ctx := model.GetLineContext(sources, l.Number)
	if ctx.ErrorMsg == "" {
		sb.WriteString("\n\n--- Source Line Context ---")
		if ctx.HasBefore2 {
			fmt.Fprintf(&sb, "\n  %4d  %s", ctx.LineNumber-2, ctx.Before2)
		}
		if ctx.HasBefore1 {
			fmt.Fprintf(&sb, "\n  %4d  %s", ctx.LineNumber-1, ctx.Before1)
		}
		fmt.Fprintf(&sb, "\n» %4d  %s", ctx.LineNumber, ctx.Target)
		if ctx.HasAfter1 {
			fmt.Fprintf(&sb, "\n  %4d  %s", ctx.LineNumber+1, ctx.After1)
		}
		if ctx.HasAfter2 {
			fmt.Fprintf(&sb, "\n  %4d  %s", ctx.LineNumber+2, ctx.After2)
		}
	}
	return sb.String()
}

func (m AppModel) renderPreview(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Toolpath Preview"))
	sb.WriteString("\n")

	rows := plot.Terminal(m.Conv.Path, width-2, height-3)
	switch {
	case len(m.Conv.Path) == 0:
		sb.WriteString("\n" + adviceStyle.Render("No coordinates found to plot."))
		return sb.String()
	case rows == nil:
		sb.WriteString("\n" + adviceStyle.Render("Coordinates are too large to plot."))
		return sb.String()
	}
	for _, row := range rows {
		sb.WriteString(colorizeRow(row))
		sb.WriteString("\n")
	}
	sb.WriteString(startStyle.Render(model.IconStart) + " start  " +
		endStyle.Render(model.IconEnd) + " end  " +
		originStyle.Render(model.IconOrigin) + " origin")
	return sb.String()
}

func colorizeRow(row string) string {
	var sb strings.Builder
	for _, r := range row {
		s := string(r)
		switch s {
		case model.IconStart:
			sb.WriteString(startStyle.Render(s))
		case model.IconEnd:
			sb.WriteString(endStyle.Render(s))
		case model.IconOrigin:
			sb.WriteString(originStyle.Render(s))
		case model.IconPath:
			sb.WriteString(traceStyle.Render(s))
		default:
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// clipLines keeps content within the panel so lipgloss does not grow it.
func clipLines(content string, height, width int) string {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to width cells without splitting escape sequences.
func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	return ansi.Truncate(s, width, "...")
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, InitConvertCmd(m.InputPath))
}

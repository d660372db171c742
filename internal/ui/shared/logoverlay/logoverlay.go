// Package logoverlay provides an in-app log viewer that shows recent log
// entries without leaving the TUI.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

const (
	maxHeight = 20
	minHeight = 5
)

// CloseMsg is sent when the overlay should be closed.
type CloseMsg struct{}

// Model is the log viewer state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// New creates a hidden log viewer.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Update handles messages while the viewer is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			log.ClearBuffer()
			m.refresh()
			return m, nil
		case "d":
			m.minLevel = log.LevelDebug
			m.refresh()
			return m, nil
		case "i":
			m.minLevel = log.LevelInfo
			m.refresh()
			return m, nil
		case "w":
			m.minLevel = log.LevelWarn
			m.refresh()
			return m, nil
		case "e":
			m.minLevel = log.LevelError
			m.refresh()
			return m, nil
		case "j", "down":
			if m.ready {
				m.viewport.ScrollDown(1)
			}
			return m, nil
		case "k", "up":
			if m.ready {
				m.viewport.ScrollUp(1)
			}
			return m, nil
		case "g":
			if m.ready {
				m.viewport.GotoTop()
			}
			return m, nil
		case "G":
			if m.ready {
				m.viewport.GotoBottom()
			}
			return m, nil
		case "ctrl+l", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.initViewport()
	}

	return m, nil
}

// View renders the viewer panel.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := max(min(m.width-4, 90), 40)
	divider := styles.Muted.Render(strings.Repeat("─", boxWidth))

	content := m.buildContent(boxWidth - 2)
	if m.ready {
		content = m.viewport.View()
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(" Logs"))
	sb.WriteString("\n")
	sb.WriteString(divider)
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(divider)
	sb.WriteString("\n")
	sb.WriteString(m.filterHint())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderColor).
		Width(boxWidth).
		Render(sb.String())
}

func (m Model) filteredLogs() []log.Entry {
	var filtered []log.Entry
	for _, entry := range log.GetRecentLogs(10000) {
		if entry.Level >= m.minLevel {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func (m Model) buildContent(width int) string {
	filtered := m.filteredLogs()
	if len(filtered) == 0 {
		return styles.Muted.Italic(true).Render("No logs to display")
	}
	lines := make([]string, 0, len(filtered))
	for _, entry := range filtered {
		lines = append(lines, colorize(entry, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) initViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	boxWidth := max(min(m.width-4, 90), 40)
	height := max(min(maxHeight, m.height-6), minHeight)
	m.viewport = viewport.New(boxWidth-2, height)
	m.viewport.SetContent(m.buildContent(boxWidth - 2))
	m.ready = true
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	boxWidth := max(min(m.width-4, 90), 40)
	m.viewport.SetContent(m.buildContent(boxWidth - 2))
}

// Visible reports whether the viewer is open.
func (m Model) Visible() bool { return m.visible }

// Toggle flips visibility, refreshing content on open.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		if !m.ready {
			m.initViewport()
		}
		m.refresh()
	}
}

// SetSize updates the available screen area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.initViewport()
}

func colorize(entry log.Entry, maxWidth int) string {
	line := entry.Line
	if ansi.StringWidth(line) > maxWidth {
		line = ansi.Truncate(line, maxWidth-3, "...")
	}

	switch entry.Level {
	case log.LevelError:
		return styles.ErrorText.Render(line)
	case log.LevelWarn:
		return styles.WarningText.Render(line)
	case log.LevelDebug:
		return styles.Muted.Render(line)
	default:
		return line
	}
}

func (m Model) filterHint() string {
	levels := []struct {
		key   string
		label string
		level log.Level
	}{
		{"d", "Debug", log.LevelDebug},
		{"i", "Info", log.LevelInfo},
		{"w", "Warn", log.LevelWarn},
		{"e", "Error", log.LevelError},
	}

	hints := []string{styles.Muted.Render("[c] Clear")}
	for _, l := range levels {
		hint := "[" + l.key + "] " + l.label
		if m.minLevel == l.level {
			hints = append(hints, styles.Selected.Render(hint))
		} else {
			hints = append(hints, styles.Muted.Render(hint))
		}
	}
	return strings.Join(hints, "  ")
}

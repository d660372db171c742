// Package resultpane renders the shared request-lifecycle surface every
// operation view ends with: an idle hint, a spinner while in flight, a
// classified error, or the success content.
package resultpane

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model wraps the spinner and sizing shared by result panes.
type Model struct {
	spinner spinner.Model
	width   int
}

// New creates a result pane.
func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected
	return Model{spinner: sp, width: 60}
}

// SetWidth adjusts the wrap width.
func (m Model) SetWidth(width int) Model {
	if width > 0 {
		m.width = width
	}
	return m
}

// Tick starts the spinner animation; return it alongside a submission cmd.
func (m Model) Tick() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the spinner on tick messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// Render draws the pane for the given lifecycle state. Content is only
// consulted in the success phase; idleHint only when idle.
func (m Model) Render(phase flow.Phase, errKind api.Kind, errMsg, content, idleHint string) string {
	inner := m.width - 4
	if inner < 10 {
		inner = 10
	}

	switch phase {
	case flow.PhaseInFlight, flow.PhaseValidating:
		return styles.Pane.Width(m.width).Render(m.spinner.View() + " Working...")
	case flow.PhaseError:
		return styles.Pane.Width(m.width).Render(
			styles.ErrorText.Render(errorLabel(errKind)) + "\n" +
				wordwrap.String(errMsg, inner))
	case flow.PhaseSuccess:
		return styles.Pane.Width(m.width).Render(wordwrap.String(content, inner))
	default:
		return styles.Pane.Width(m.width).Render(styles.Muted.Render(idleHint))
	}
}

func errorLabel(kind api.Kind) string {
	switch kind {
	case api.KindValidation:
		return "Input needed"
	case api.KindNetwork:
		return "Network unavailable"
	case api.KindServer:
		return "Server error"
	case api.KindUnrecognizedShape:
		return "Unexpected response"
	case api.KindAuthExpired:
		return "Session expired"
	default:
		return fmt.Sprintf("Error (%s)", kind)
	}
}

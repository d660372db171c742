// Package subjects implements the subject-line suggestion view.
package subjects

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model is the subject suggestion view.
type Model struct {
	svc *api.Service

	content  textarea.Model
	suggest  flow.Coordinator[[]string]
	result   resultpane.Model
	selected int
}

// New creates the view.
func New(svc *api.Service) Model {
	content := textarea.New()
	content.Placeholder = "Paste the email body to suggest subjects for..."
	content.SetHeight(8)
	content.Focus()

	return Model{
		svc:     svc,
		content: content,
		suggest: flow.New[[]string]("generate-subject"),
		result:  resultpane.New(),
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Subjects" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.content.SetWidth(min(width-4, 76))
	m.result = m.result.SetWidth(min(width-2, 78))
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		// A call left in flight while the page was inactive never resolves.
		if m.suggest.InFlight() {
			m.suggest = m.suggest.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "up", "down":
			if m.suggest.Phase() == flow.PhaseSuccess {
				n := len(m.suggest.Payload())
				if n > 0 {
					if msg.String() == "up" {
						m.selected = (m.selected - 1 + n) % n
					} else {
						m.selected = (m.selected + 1) % n
					}
				}
				return m, nil
			}
		}
	case flow.ResultMsg[[]string]:
		m.suggest = m.suggest.Apply(msg)
		m.selected = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	cmds := []tea.Cmd{cmd}
	m.content, cmd = m.content.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (page.Model, tea.Cmd) {
	content := m.content.Value()
	svc := m.svc

	validate := func() error {
		if strings.TrimSpace(content) == "" {
			return api.ValidationError("email content is required")
		}
		return nil
	}

	run := func(ctx context.Context) ([]string, error) {
		return svc.GenerateSubjects(ctx, content)
	}

	var cmd tea.Cmd
	m.suggest, cmd = m.suggest.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Suggest Subject Lines"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.FocusedPane.Render(m.content.View()))
	sb.WriteString("\n\n")

	content := ""
	if m.suggest.Phase() == flow.PhaseSuccess {
		lines := m.suggest.Payload()
		if len(lines) == 0 {
			content = styles.Muted.Render("No suggestions returned.")
		} else {
			var rows []string
			for i, line := range lines {
				row := fmt.Sprintf("%d. %s", i+1, line)
				if i == m.selected {
					row = styles.Selected.Render(row)
				}
				rows = append(rows, row)
			}
			content = strings.Join(rows, "\n")
		}
	}
	sb.WriteString(m.result.Render(m.suggest.Phase(), m.suggest.ErrKind(), m.suggest.ErrMessage(),
		content, "ctrl+s: suggest"))
	return sb.String()
}

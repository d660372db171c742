// Package intent implements the intent classification view.
package intent

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model is the intent detection view.
type Model struct {
	svc *api.Service

	content textarea.Model
	detect  flow.Coordinator[api.IntentResult]
	result  resultpane.Model
}

// New creates the view.
func New(svc *api.Service) Model {
	content := textarea.New()
	content.Placeholder = "Paste the email to classify..."
	content.SetHeight(8)
	content.Focus()

	return Model{
		svc:     svc,
		content: content,
		detect:  flow.New[api.IntentResult]("detect-intent"),
		result:  resultpane.New(),
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Intent" }

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
		if m.detect.InFlight() {
			m.detect = m.detect.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m.submit()
		}
	case flow.ResultMsg[api.IntentResult]:
		m.detect = m.detect.Apply(msg)
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

	run := func(ctx context.Context) (api.IntentResult, error) {
		return svc.DetectIntent(ctx, content)
	}

	var cmd tea.Cmd
	m.detect, cmd = m.detect.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Detect Intent"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.FocusedPane.Render(m.content.View()))
	sb.WriteString("\n\n")

	content := ""
	if m.detect.Phase() == flow.PhaseSuccess {
		res := m.detect.Payload()
		content = styles.Selected.Render(res.Intent)
		if res.Reason != "" {
			content += "\n\n" + res.Reason
		}
	}
	sb.WriteString(m.result.Render(m.detect.Phase(), m.detect.ErrKind(), m.detect.ErrMessage(),
		content, "ctrl+s: classify"))
	return sb.String()
}

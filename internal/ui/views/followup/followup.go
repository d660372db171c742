// Package followup implements the follow-up drafting view.
package followup

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/selector"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

const (
	focusContent = iota
	focusDays
	focusCount
)

// dayChoices are the waiting periods offered before following up.
var dayChoices = []string{"1", "3", "7"}

// Model is the follow-up view.
type Model struct {
	svc *api.Service

	content textarea.Model
	days    selector.Model

	focus  int
	draft  flow.Coordinator[string]
	result resultpane.Model
}

// New creates the view.
func New(svc *api.Service) Model {
	content := textarea.New()
	content.Placeholder = "Paste the email that went unanswered..."
	content.SetHeight(6)
	content.Focus()

	return Model{
		svc:     svc,
		content: content,
		days:    selector.New("Days waited", dayChoices).WithValue("3"),
		draft:   flow.New[string]("follow-up"),
		result:  resultpane.New(),
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Follow-up" }

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
		if m.draft.InFlight() {
			m.draft = m.draft.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.focus = (m.focus + 1) % focusCount
			if m.focus == focusContent {
				m.content.Focus()
				m.days = m.days.Blur()
			} else {
				m.content.Blur()
				m.days = m.days.Focus()
			}
			return m, nil
		case "left", "right":
			if m.focus == focusDays {
				if msg.String() == "left" {
					m.days = m.days.Prev()
				} else {
					m.days = m.days.Next()
				}
				return m, nil
			}
		case "ctrl+s":
			return m.submit()
		}
	case flow.ResultMsg[string]:
		m.draft = m.draft.Apply(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	cmds := []tea.Cmd{cmd}
	if m.focus == focusContent {
		m.content, cmd = m.content.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (page.Model, tea.Cmd) {
	content := m.content.Value()
	days := 0
	switch m.days.Value() {
	case "1":
		days = 1
	case "3":
		days = 3
	case "7":
		days = 7
	}
	svc := m.svc

	validate := func() error {
		if strings.TrimSpace(content) == "" {
			return api.ValidationError("email content is required")
		}
		return nil
	}

	run := func(ctx context.Context) (string, error) {
		return svc.FollowUp(ctx, content, days)
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Draft Follow-up"))
	sb.WriteString("\n\n")

	pane := styles.Pane
	if m.focus == focusContent {
		pane = styles.FocusedPane
	}
	sb.WriteString(pane.Render(m.content.View()))
	sb.WriteString("\n")
	sb.WriteString(m.days.View())
	sb.WriteString("\n\n")

	content := ""
	if m.draft.Phase() == flow.PhaseSuccess {
		content = m.draft.Payload()
	}
	sb.WriteString(m.result.Render(m.draft.Phase(), m.draft.ErrKind(), m.draft.ErrMessage(),
		content, "ctrl+s: draft follow-up • tab: switch field"))
	return sb.String()
}

// Package send implements the email delivery view.
package send

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

const (
	fieldTo = iota
	fieldSubject
	fieldBody
	fieldCount
)

// Model is the send view.
type Model struct {
	svc *api.Service

	to      textinput.Model
	subject textinput.Model
	body    textarea.Model

	focus  int
	send   flow.Coordinator[api.Acknowledgement]
	result resultpane.Model
}

// New creates the view.
func New(svc *api.Service) Model {
	to := textinput.New()
	to.Placeholder = "recipient@example.com"
	to.Focus()

	subject := textinput.New()
	subject.Placeholder = "subject"

	body := textarea.New()
	body.Placeholder = "email body"
	body.SetHeight(8)

	return Model{
		svc:     svc,
		to:      to,
		subject: subject,
		body:    body,
		send:    flow.New[api.Acknowledgement]("send-email"),
		result:  resultpane.New(),
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textinput.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Send" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.to.Width = min(width-16, 60)
	m.subject.Width = min(width-16, 60)
	m.body.SetWidth(min(width-4, 76))
	m.result = m.result.SetWidth(min(width-2, 78))
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		// A call left in flight while the page was inactive never resolves.
		if m.send.InFlight() {
			m.send = m.send.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			delta := 1
			if msg.String() == "shift+tab" {
				delta = fieldCount - 1
			}
			m = m.setFocus((m.focus + delta) % fieldCount)
			return m, nil
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.focus != fieldBody {
				m = m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}
		}
	case flow.ResultMsg[api.Acknowledgement]:
		m.send = m.send.Apply(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	cmds := []tea.Cmd{cmd}
	m.to, cmd = m.to.Update(msg)
	cmds = append(cmds, cmd)
	m.subject, cmd = m.subject.Update(msg)
	cmds = append(cmds, cmd)
	m.body, cmd = m.body.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) setFocus(field int) Model {
	m.focus = field
	m.to.Blur()
	m.subject.Blur()
	m.body.Blur()
	switch field {
	case fieldTo:
		m.to.Focus()
	case fieldSubject:
		m.subject.Focus()
	case fieldBody:
		m.body.Focus()
	}
	return m
}

func (m Model) submit() (page.Model, tea.Cmd) {
	req := api.SendEmailRequest{
		To:      strings.TrimSpace(m.to.Value()),
		Subject: strings.TrimSpace(m.subject.Value()),
		Body:    m.body.Value(),
	}
	svc := m.svc

	validate := func() error {
		if req.To == "" || req.Subject == "" || strings.TrimSpace(req.Body) == "" {
			return api.ValidationError("recipient, subject and body are all required")
		}
		return nil
	}

	run := func(ctx context.Context) (api.Acknowledgement, error) {
		return svc.SendEmail(ctx, req)
	}

	var cmd tea.Cmd
	m.send, cmd = m.send.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Send Email"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.Label.Render("To      ") + m.to.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Label.Render("Subject ") + m.subject.View())
	sb.WriteString("\n")
	pane := styles.Pane
	if m.focus == fieldBody {
		pane = styles.FocusedPane
	}
	sb.WriteString(pane.Render(m.body.View()))
	sb.WriteString("\n\n")

	content := ""
	if m.send.Phase() == flow.PhaseSuccess {
		content = styles.SuccessText.Render("Email sent.")
		if msg := m.send.Payload().Message; msg != "" {
			content += "\n" + msg
		}
	}
	sb.WriteString(m.result.Render(m.send.Phase(), m.send.ErrKind(), m.send.ErrMessage(),
		content, "ctrl+s: send • tab: next field"))
	return sb.String()
}

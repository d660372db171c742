// Package thread implements the thread-aware reply view. Earlier messages
// are accumulated one at a time and sent along with the message to answer.
package thread

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
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/selector"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

const (
	focusContent = iota
	focusTone
	focusCount
)

// Model is the thread reply view.
type Model struct {
	svc *api.Service

	content  textarea.Model
	tone     selector.Model
	previous []string

	focus  int
	reply  flow.Coordinator[string]
	result resultpane.Model
}

// New creates the view.
func New(svc *api.Service, defaultTone string) Model {
	content := textarea.New()
	content.Placeholder = "Paste the message to reply to..."
	content.SetHeight(5)
	content.Focus()

	return Model{
		svc:     svc,
		content: content,
		tone:    selector.New("Tone", api.Tones).WithValue(defaultTone),
		reply:   flow.New[string]("thread-reply"),
		result:  resultpane.New(),
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Thread Reply" }

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
		if m.reply.InFlight() {
			m.reply = m.reply.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.focus = (m.focus + 1) % focusCount
			if m.focus == focusContent {
				m.content.Focus()
				m.tone = m.tone.Blur()
			} else {
				m.content.Blur()
				m.tone = m.tone.Focus()
			}
			return m, nil
		case "left", "right":
			if m.focus == focusTone {
				if msg.String() == "left" {
					m.tone = m.tone.Prev()
				} else {
					m.tone = m.tone.Next()
				}
				return m, nil
			}
		case "ctrl+a":
			// Push the current textarea content onto the thread context.
			if text := strings.TrimSpace(m.content.Value()); text != "" {
				m.previous = append(m.previous, text)
				m.content.Reset()
			}
			return m, nil
		case "ctrl+x":
			if n := len(m.previous); n > 0 {
				m.previous = m.previous[:n-1]
			}
			return m, nil
		case "ctrl+s":
			return m.submit()
		}
	case flow.ResultMsg[string]:
		m.reply = m.reply.Apply(msg)
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
	req := api.ThreadReplyRequest{
		PreviousEmails: append([]string(nil), m.previous...),
		EmailContent:   m.content.Value(),
		Tone:           m.tone.Value(),
	}
	svc := m.svc

	validate := func() error {
		if strings.TrimSpace(req.EmailContent) == "" {
			return api.ValidationError("the message to reply to is required")
		}
		return nil
	}

	run := func(ctx context.Context) (string, error) {
		return svc.ThreadReply(ctx, req)
	}

	var cmd tea.Cmd
	m.reply, cmd = m.reply.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Reply in Thread"))
	sb.WriteString("\n\n")

	if len(m.previous) == 0 {
		sb.WriteString(styles.Muted.Render("No earlier messages. ctrl+a adds the textarea content as thread context."))
	} else {
		sb.WriteString(styles.Label.Render(fmt.Sprintf("Thread context (%d messages, oldest first):", len(m.previous))))
		for i, prev := range m.previous {
			line := prev
			if len(line) > 70 {
				line = line[:67] + "..."
			}
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, styles.Muted.Render(line)))
		}
	}
	sb.WriteString("\n\n")

	pane := styles.Pane
	if m.focus == focusContent {
		pane = styles.FocusedPane
	}
	sb.WriteString(pane.Render(m.content.View()))
	sb.WriteString("\n")
	sb.WriteString(m.tone.View())
	sb.WriteString("\n\n")

	content := ""
	if m.reply.Phase() == flow.PhaseSuccess {
		content = m.reply.Payload()
	}
	sb.WriteString(m.result.Render(m.reply.Phase(), m.reply.ErrKind(), m.reply.ErrMessage(),
		content, "ctrl+s: reply • ctrl+a: add to thread • ctrl+x: drop last"))
	return sb.String()
}

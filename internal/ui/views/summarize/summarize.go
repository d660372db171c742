// Package summarize implements the email summarization view. The result is
// rendered as markdown so the summary, action items and deadlines read as a
// small report.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model is the summarize view.
type Model struct {
	svc *api.Service

	content textarea.Model
	summ    flow.Coordinator[api.Summary]
	result  resultpane.Model
	width   int
}

// New creates the view.
func New(svc *api.Service) Model {
	content := textarea.New()
	content.Placeholder = "Paste the email to summarize..."
	content.SetHeight(8)
	content.Focus()

	return Model{
		svc:     svc,
		content: content,
		summ:    flow.New[api.Summary]("summarize"),
		result:  resultpane.New(),
		width:   80,
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Summarize" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.width = width
	m.content.SetWidth(min(width-4, 76))
	m.result = m.result.SetWidth(min(width-2, 78))
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		// A call left in flight while the page was inactive never resolves.
		if m.summ.InFlight() {
			m.summ = m.summ.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m.submit()
		}
	case flow.ResultMsg[api.Summary]:
		m.summ = m.summ.Apply(msg)
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

	run := func(ctx context.Context) (api.Summary, error) {
		return svc.Summarize(ctx, content)
	}

	var cmd tea.Cmd
	m.summ, cmd = m.summ.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// renderSummary turns the structured summary into markdown and renders it
// for the terminal. Falls back to the raw markdown if rendering fails.
func renderSummary(s api.Summary, width int) string {
	var md strings.Builder
	md.WriteString("## Summary\n\n")
	md.WriteString(s.Summary)
	md.WriteString("\n\n### Action items\n\n")
	if len(s.ActionItems) == 0 {
		md.WriteString("_none_\n")
	}
	for _, item := range s.ActionItems {
		fmt.Fprintf(&md, "- %s\n", item)
	}
	md.WriteString("\n### Deadlines\n\n")
	if len(s.Deadlines) == 0 {
		md.WriteString("_none_\n")
	}
	for _, d := range s.Deadlines {
		fmt.Fprintf(&md, "- %s\n", d)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width-6, 74)),
	)
	if err != nil {
		return md.String()
	}
	out, err := r.Render(md.String())
	if err != nil {
		log.Warn(log.CatUI, "markdown render failed", "error", err)
		return md.String()
	}
	return strings.TrimRight(out, "\n")
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Summarize Email"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.FocusedPane.Render(m.content.View()))
	sb.WriteString("\n\n")

	content := ""
	if m.summ.Phase() == flow.PhaseSuccess {
		content = renderSummary(m.summ.Payload(), m.width)
	}
	sb.WriteString(m.result.Render(m.summ.Phase(), m.summ.ErrKind(), m.summ.ErrMessage(),
		content, "ctrl+s: summarize"))
	return sb.String()
}

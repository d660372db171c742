// Package generate implements the main email generation view: content
// textarea plus tone, prompt version, provider and mode selectors. For the
// transforming modes (polish, shorten, expand, make formal) the result is
// shown alongside a diff against the input.
package generate

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

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
	focusPromptVersion
	focusProvider
	focusMode
	focusCount
)

// Defaults pre-select the option selectors from configuration.
type Defaults struct {
	Tone          string
	PromptVersion string
	Provider      string
}

// generated pairs the response text with the input it transformed, so the
// diff always compares against the content that produced it.
type generated struct {
	text  string
	input string
	mode  string
}

// Model is the generate view.
type Model struct {
	svc *api.Service

	content       textarea.Model
	tone          selector.Model
	promptVersion selector.Model
	provider      selector.Model
	mode          selector.Model

	focus  int
	gen    flow.Coordinator[generated]
	result resultpane.Model
	width  int
}

// New creates the view.
func New(svc *api.Service, defaults Defaults) Model {
	content := textarea.New()
	content.Placeholder = "Describe the email you want, or paste content to transform..."
	content.SetHeight(6)
	content.Focus()

	return Model{
		svc:           svc,
		content:       content,
		tone:          selector.New("Tone", api.Tones).WithValue(defaults.Tone),
		promptVersion: selector.New("Prompt", api.PromptVersions).WithValue(defaults.PromptVersion),
		provider:      selector.New("Provider", api.Providers).WithValue(defaults.Provider),
		mode:          selector.New("Mode", api.Modes),
		gen:           flow.New[generated]("generate"),
		result:        resultpane.New(),
		width:         80,
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Generate" }

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
		if m.gen.InFlight() {
			m.gen = m.gen.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m = m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab":
			m = m.setFocus((m.focus - 1 + focusCount) % focusCount)
			return m, nil
		case "ctrl+s":
			return m.submit()
		case "left", "right", "enter":
			if m.focus != focusContent {
				if msg.String() == "enter" {
					return m.submit()
				}
				m = m.cycleSelector(msg.String() == "left")
				return m, nil
			}
		}
	case flow.ResultMsg[generated]:
		m.gen = m.gen.Apply(msg)
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
	req := api.GenerateRequest{
		EmailContent:  m.content.Value(),
		Tone:          m.tone.Value(),
		PromptVersion: m.promptVersion.Value(),
		Provider:      m.provider.Value(),
		Mode:          m.mode.Value(),
	}
	svc := m.svc

	validate := func() error {
		if strings.TrimSpace(req.EmailContent) == "" {
			return api.ValidationError("email content is required")
		}
		return nil
	}

	run := func(ctx context.Context) (generated, error) {
		text, err := svc.Generate(ctx, req)
		if err != nil {
			return generated{}, err
		}
		return generated{text: text, input: req.EmailContent, mode: req.Mode}, nil
	}

	var cmd tea.Cmd
	m.gen, cmd = m.gen.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

func (m Model) cycleSelector(backwards bool) Model {
	cycle := func(s selector.Model) selector.Model {
		if backwards {
			return s.Prev()
		}
		return s.Next()
	}
	switch m.focus {
	case focusTone:
		m.tone = cycle(m.tone)
	case focusPromptVersion:
		m.promptVersion = cycle(m.promptVersion)
	case focusProvider:
		m.provider = cycle(m.provider)
	case focusMode:
		m.mode = cycle(m.mode)
	}
	return m
}

func (m Model) setFocus(focus int) Model {
	m.focus = focus
	m.content.Blur()
	m.tone = m.tone.Blur()
	m.promptVersion = m.promptVersion.Blur()
	m.provider = m.provider.Blur()
	m.mode = m.mode.Blur()
	switch focus {
	case focusContent:
		m.content.Focus()
	case focusTone:
		m.tone = m.tone.Focus()
	case focusPromptVersion:
		m.promptVersion = m.promptVersion.Focus()
	case focusProvider:
		m.provider = m.provider.Focus()
	case focusMode:
		m.mode = m.mode.Focus()
	}
	return m
}

// transformingMode reports whether the mode rewrites existing content, in
// which case a diff against the input is meaningful.
func transformingMode(mode string) bool {
	switch mode {
	case "POLISH", "SHORTEN", "EXPAND", "MAKE_FORMAL":
		return true
	default:
		return false
	}
}

// renderDiff shows insertions and deletions between the input and result.
func renderDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(styles.SuccessText.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			sb.WriteString(styles.ErrorText.Strikethrough(true).Render(d.Text))
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Generate Email"))
	sb.WriteString("\n\n")

	contentPane := styles.Pane
	if m.focus == focusContent {
		contentPane = styles.FocusedPane
	}
	sb.WriteString(contentPane.Render(m.content.View()))
	sb.WriteString("\n")

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.tone.View(), "   ", m.promptVersion.View()))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.provider.View(), "   ", m.mode.View()))
	sb.WriteString("\n\n")

	content := ""
	if m.gen.Phase() == flow.PhaseSuccess {
		res := m.gen.Payload()
		content = res.text
		if transformingMode(res.mode) {
			content += "\n\n" + styles.Muted.Render("Changes against your input:") + "\n" + renderDiff(res.input, res.text)
		}
	}
	sb.WriteString(m.result.Render(m.gen.Phase(), m.gen.ErrKind(), m.gen.ErrMessage(),
		content, "ctrl+s: generate • tab: next field"))
	return sb.String()
}

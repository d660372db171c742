// Package safety implements the pre-send safety view. Quality scoring and
// risk detection run as two independent calls so one failing does not take
// down the other's result.
package safety

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model is the safety check view.
type Model struct {
	svc *api.Service

	content textarea.Model

	quality flow.Coordinator[api.Quality]
	risk    flow.Coordinator[api.Risk]

	qualityPane resultpane.Model
	riskPane    resultpane.Model
	width       int
}

// New creates the view.
func New(svc *api.Service) Model {
	content := textarea.New()
	content.Placeholder = "Paste the email to check before sending..."
	content.SetHeight(6)
	content.Focus()

	return Model{
		svc:         svc,
		content:     content,
		quality:     flow.New[api.Quality]("score-quality"),
		risk:        flow.New[api.Risk]("detect-risk"),
		qualityPane: resultpane.New(),
		riskPane:    resultpane.New(),
		width:       80,
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textarea.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Safety Check" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.width = width
	m.content.SetWidth(min(width-4, 76))
	half := min((width-4)/2, 39)
	m.qualityPane = m.qualityPane.SetWidth(half)
	m.riskPane = m.riskPane.SetWidth(half)
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		// Calls left in flight while the page was inactive never resolve.
		if m.quality.InFlight() {
			m.quality = m.quality.Reset()
		}
		if m.risk.InFlight() {
			m.risk = m.risk.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m.submit()
		}
	case flow.ResultMsg[api.Quality]:
		m.quality = m.quality.Apply(msg)
		return m, nil
	case flow.ResultMsg[api.Risk]:
		m.risk = m.risk.Apply(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.qualityPane, cmd = m.qualityPane.Update(msg)
	cmds := []tea.Cmd{cmd}
	m.riskPane, cmd = m.riskPane.Update(msg)
	cmds = append(cmds, cmd)
	m.content, cmd = m.content.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit fires both checks at once. Each has its own coordinator, so the
// results land independently and a stale one is dropped on its own.
func (m Model) submit() (page.Model, tea.Cmd) {
	content := m.content.Value()
	svc := m.svc

	validate := func() error {
		if strings.TrimSpace(content) == "" {
			return api.ValidationError("email content is required")
		}
		return nil
	}

	var qualityCmd, riskCmd tea.Cmd
	m.quality, qualityCmd = m.quality.Submit(validate, func(ctx context.Context) (api.Quality, error) {
		return svc.ScoreQuality(ctx, content)
	})
	m.risk, riskCmd = m.risk.Submit(validate, func(ctx context.Context) (api.Risk, error) {
		return svc.DetectRisk(ctx, content)
	})
	if qualityCmd == nil && riskCmd == nil {
		return m, nil
	}
	return m, tea.Batch(qualityCmd, riskCmd, m.qualityPane.Tick(), m.riskPane.Tick())
}

func renderQuality(q api.Quality) string {
	return fmt.Sprintf("Politeness      %.1f/10\nProfessionalism %.1f/10\nSentiment       %s",
		q.PolitenessScore, q.ProfessionalismScore, q.Sentiment)
}

func renderRisk(r api.Risk) string {
	if !r.HasRisk {
		return styles.SuccessText.Render("No risk detected.")
	}
	var sb strings.Builder
	sb.WriteString(styles.WarningText.Render(fmt.Sprintf("%s (%.1f/10)", r.RiskType, r.RiskScore)))
	if r.Recommendation != "" {
		sb.WriteString("\n")
		sb.WriteString(r.Recommendation)
	}
	return sb.String()
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Safety Check"))
	sb.WriteString("\n\n")
	sb.WriteString(styles.FocusedPane.Render(m.content.View()))
	sb.WriteString("\n\n")

	qualityContent := ""
	if m.quality.Phase() == flow.PhaseSuccess {
		qualityContent = renderQuality(m.quality.Payload())
	}
	riskContent := ""
	if m.risk.Phase() == flow.PhaseSuccess {
		riskContent = renderRisk(m.risk.Payload())
	}

	left := styles.Label.Render("Quality") + "\n" +
		m.qualityPane.Render(m.quality.Phase(), m.quality.ErrKind(), m.quality.ErrMessage(),
			qualityContent, "ctrl+s: run checks")
	right := styles.Label.Render("Risk") + "\n" +
		m.riskPane.Render(m.risk.Phase(), m.risk.ErrKind(), m.risk.ErrMessage(),
			riskContent, "ctrl+s: run checks")

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	return sb.String()
}

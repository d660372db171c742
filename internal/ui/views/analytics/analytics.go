// Package analytics implements the usage analytics view: totals plus tone
// and intent distributions rendered as horizontal bars.
package analytics

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/stats"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

const barWidth = 24

// Model is the analytics view.
type Model struct {
	svc *api.Service

	load   flow.Coordinator[stats.AnalyticsSnapshot]
	result resultpane.Model
	width  int
}

// New creates the view.
func New(svc *api.Service) Model {
	return Model{
		svc:    svc,
		load:   flow.New[stats.AnalyticsSnapshot]("get-analytics"),
		result: resultpane.New(),
		width:  80,
	}
}

// Init implements page.Model. The snapshot loads on activation; the load
// starts in Update so the in-flight state lands on the stored model.
func (m Model) Init() tea.Cmd { return page.Activate() }

// Title implements page.Model.
func (m Model) Title() string { return "Analytics" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.width = width
	m.result = m.result.SetWidth(min(width-2, 90))
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		var cmd tea.Cmd
		m, cmd = m.reload()
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "r" {
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, cmd
		}
	case flow.ResultMsg[stats.AnalyticsSnapshot]:
		m.load = m.load.Apply(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m Model) reload() (Model, tea.Cmd) {
	svc := m.svc
	run := func(ctx context.Context) (stats.AnalyticsSnapshot, error) {
		raw, err := svc.Analytics(ctx)
		if err != nil {
			return stats.AnalyticsSnapshot{}, err
		}
		snap, err := stats.BuildAnalytics(raw)
		if err != nil {
			return stats.AnalyticsSnapshot{}, &api.Error{
				Kind: api.KindUnrecognizedShape, Message: "analytics payload did not decode",
			}
		}
		return snap, nil
	}

	var cmd tea.Cmd
	m.load, cmd = m.load.Submit(nil, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// renderDistribution draws one bar per category, widest bar for the top
// count. The order is the distribution's own: descending count, ties in
// backend order.
func renderDistribution(label string, dist stats.Distribution) string {
	var sb strings.Builder
	sb.WriteString(styles.Label.Render(label))
	sb.WriteString("\n")
	if len(dist) == 0 {
		sb.WriteString(styles.Muted.Render(stats.NoData))
		return sb.String()
	}

	top, _ := dist.Top()
	for _, c := range dist {
		filled := 0
		if top.Count > 0 {
			filled = int(c.Count * barWidth / top.Count)
		}
		if filled < 1 && c.Count > 0 {
			filled = 1
		}
		bar := styles.Selected.Render(strings.Repeat("█", filled)) +
			styles.Muted.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(&sb, "%-16s %s %d\n", c.Name, bar, c.Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Usage Analytics"))
	sb.WriteString("\n\n")

	if m.load.Phase() != flow.PhaseSuccess {
		sb.WriteString(m.result.Render(m.load.Phase(), m.load.ErrKind(), m.load.ErrMessage(),
			"", "r: load analytics"))
		return sb.String()
	}

	snap := m.load.Payload()
	totals := fmt.Sprintf("Total emails: %d    Average length: %.0f words",
		snap.TotalEmails, snap.AverageEmailLength)
	sb.WriteString(totals)
	sb.WriteString("\n\n")

	left := styles.Pane.Render(renderDistribution("Tones", snap.Tones))
	right := styles.Pane.Render(renderDistribution("Intents", snap.Intents))
	if m.width >= 100 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	} else {
		sb.WriteString(left)
		sb.WriteString("\n")
		sb.WriteString(right)
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render("r: refresh"))
	return sb.String()
}

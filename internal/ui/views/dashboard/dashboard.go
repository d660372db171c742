// Package dashboard implements the user dashboard view: a snapshot of usage
// figures plus the AI provider switch. Switching never patches the shown
// snapshot; it always re-fetches, so the view reflects what the server
// stored rather than what the client hoped for.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/stats"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/selector"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// Model is the dashboard view.
type Model struct {
	svc *api.Service

	provider selector.Model

	load       flow.Coordinator[stats.DashboardSnapshot]
	sw         flow.Coordinator[api.Acknowledgement]
	result     resultpane.Model
	switchPane resultpane.Model
	width      int
}

// New creates the view.
func New(svc *api.Service) Model {
	return Model{
		svc:        svc,
		provider:   selector.New("Switch provider to", api.Providers).Focus(),
		load:       flow.New[stats.DashboardSnapshot]("get-dashboard"),
		sw:         flow.New[api.Acknowledgement]("switch-provider"),
		result:     resultpane.New(),
		switchPane: resultpane.New(),
		width:      80,
	}
}

// Init implements page.Model. The snapshot loads on activation; the load
// starts in Update so the in-flight state lands on the stored model.
func (m Model) Init() tea.Cmd { return page.Activate() }

// Title implements page.Model.
func (m Model) Title() string { return "Dashboard" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.width = width
	m.result = m.result.SetWidth(min(width-2, 90))
	m.switchPane = m.switchPane.SetWidth(min(width-2, 90))
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		// A switch left in flight by a page change will never resolve here.
		if m.sw.InFlight() {
			m.sw = m.sw.Reset()
		}
		var cmd tea.Cmd
		m, cmd = m.reload()
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			m.provider = m.provider.Prev()
			return m, nil
		case "right":
			m.provider = m.provider.Next()
			return m, nil
		case "enter":
			return m.switchProvider()
		case "r":
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, cmd
		}
	case flow.ResultMsg[stats.DashboardSnapshot]:
		m.load = m.load.Apply(msg)
		return m, nil
	case flow.ResultMsg[api.Acknowledgement]:
		m.sw = m.sw.Apply(msg)
		if m.sw.Phase() == flow.PhaseSuccess {
			// Re-fetch unconditionally; the switch result is not trusted to
			// describe the resulting server state.
			var cmd tea.Cmd
			m, cmd = m.reload()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	cmds := []tea.Cmd{cmd}
	m.switchPane, cmd = m.switchPane.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) reload() (Model, tea.Cmd) {
	svc := m.svc
	run := func(ctx context.Context) (stats.DashboardSnapshot, error) {
		raw, err := svc.Dashboard(ctx)
		if err != nil {
			return stats.DashboardSnapshot{}, err
		}
		snap, err := stats.BuildDashboard(raw)
		if err != nil {
			return stats.DashboardSnapshot{}, &api.Error{
				Kind: api.KindUnrecognizedShape, Message: "dashboard payload did not decode",
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

func (m Model) switchProvider() (page.Model, tea.Cmd) {
	provider := m.provider.Value()
	svc := m.svc

	run := func(ctx context.Context) (api.Acknowledgement, error) {
		return svc.SwitchProvider(ctx, provider)
	}

	var cmd tea.Cmd
	m.sw, cmd = m.sw.Submit(nil, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.switchPane.Tick())
}

func renderSnapshot(snap stats.DashboardSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n", styles.Label.Render("User"), snap.Username)
	fmt.Fprintf(&sb, "Emails generated   %d\n", snap.TotalEmails)
	fmt.Fprintf(&sb, "Words generated    %d\n", snap.TotalWordsGenerated)
	fmt.Fprintf(&sb, "Avg email length   %.0f words\n", snap.AvgEmailLength)

	provider := snap.PreferredProvider
	if provider == "" {
		provider = stats.NoData
	}
	fmt.Fprintf(&sb, "Preferred provider %s\n", styles.Selected.Render(provider))

	if len(snap.TopTones) > 0 {
		fmt.Fprintf(&sb, "Top tones          %s\n", strings.Join(snap.TopTones, ", "))
	}
	if len(snap.RecentEmails) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Label.Render("Recent emails"))
		for _, email := range snap.RecentEmails {
			line := strings.Join(strings.Fields(email), " ")
			if len(line) > 70 {
				line = line[:67] + "..."
			}
			sb.WriteString("\n  • " + styles.Muted.Render(line))
		}
	}
	return sb.String()
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Dashboard"))
	sb.WriteString("\n\n")

	content := ""
	if m.load.Phase() == flow.PhaseSuccess {
		content = renderSnapshot(m.load.Payload())
	}
	sb.WriteString(m.result.Render(m.load.Phase(), m.load.ErrKind(), m.load.ErrMessage(),
		content, "r: load dashboard"))
	sb.WriteString("\n\n")

	sb.WriteString(m.provider.View())
	sb.WriteString("  ")
	sb.WriteString(styles.Muted.Render("enter: switch • r: refresh"))

	if m.sw.Phase() != flow.PhaseIdle {
		switchContent := ""
		if m.sw.Phase() == flow.PhaseSuccess {
			switchContent = styles.SuccessText.Render("Provider switched.")
			if msg := m.sw.Payload().Message; msg != "" {
				switchContent += " " + msg
			}
		}
		sb.WriteString("\n")
		sb.WriteString(m.switchPane.Render(m.sw.Phase(), m.sw.ErrKind(), m.sw.ErrMessage(),
			switchContent, ""))
	}
	return sb.String()
}

// Package history implements the generation history view: a table of past
// generations with an intent filter. The filter cycles from "all" through
// each known intent; filtered queries go back to the server rather than
// filtering the loaded rows, so the view always reflects stored state.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// filterAll is the sentinel position before the first intent.
const filterAll = -1

// Model is the history view.
type Model struct {
	svc *api.Service

	table   table.Model
	items   []api.HistoryItem
	filter  int
	load    flow.Coordinator[[]api.HistoryItem]
	result  resultpane.Model
	width   int
	height  int
	loaded  bool
	preview bool
}

// New creates the view.
func New(svc *api.Service) Model {
	t := table.New(
		table.WithColumns(historyColumns(76)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(styles.PrimaryColor)
	s.Selected = styles.Selected
	t.SetStyles(s)

	return Model{
		svc:    svc,
		table:  t,
		filter: filterAll,
		load:   flow.New[[]api.HistoryItem]("get-history"),
		result: resultpane.New(),
		width:  80,
		height: 24,
	}
}

func historyColumns(width int) []table.Column {
	content := (width - 30) / 2
	if content < 10 {
		content = 10
	}
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Intent", Width: 14},
		{Title: "Content", Width: content},
		{Title: "Response", Width: content},
	}
}

// Init implements page.Model. History loads as soon as the page activates;
// the load starts in Update so the in-flight state lands on the stored model.
func (m Model) Init() tea.Cmd { return page.Activate() }

// Title implements page.Model.
func (m Model) Title() string { return "History" }

// SetSize implements page.Model.
func (m Model) SetSize(width, height int) page.Model {
	m.width = width
	m.height = height
	m.table.SetColumns(historyColumns(min(width-4, 100)))
	m.table.SetHeight(max(height-10, 5))
	m.result = m.result.SetWidth(min(width-2, 102))
	return m
}

// filterName returns the active intent filter, or "" for all.
func (m Model) filterName() string {
	if m.filter == filterAll {
		return ""
	}
	return api.Intents[m.filter]
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		return m.reloadModel()
	case tea.KeyMsg:
		switch msg.String() {
		case "f":
			m.filter++
			if m.filter >= len(api.Intents) {
				m.filter = filterAll
			}
			return m.reloadModel()
		case "F":
			m.filter--
			if m.filter < filterAll {
				m.filter = len(api.Intents) - 1
			}
			return m.reloadModel()
		case "r":
			return m.reloadModel()
		case "enter":
			m.preview = !m.preview
			return m, nil
		}
	case flow.ResultMsg[[]api.HistoryItem]:
		m.load = m.load.Apply(msg)
		if m.load.Phase() == flow.PhaseSuccess {
			m.items = m.load.Payload()
			m.table.SetRows(historyRows(m.items))
			m.loaded = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	cmds := []tea.Cmd{cmd}
	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) reloadModel() (page.Model, tea.Cmd) {
	return m.reload()
}

func (m Model) reload() (Model, tea.Cmd) {
	intent := m.filterName()
	svc := m.svc

	run := func(ctx context.Context) ([]api.HistoryItem, error) {
		if intent == "" {
			return svc.History(ctx)
		}
		return svc.HistoryByIntent(ctx, intent)
	}

	var cmd tea.Cmd
	m.load, cmd = m.load.Submit(nil, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

func historyRows(items []api.HistoryItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, table.Row{
			formatTimestamp(item.Timestamp),
			item.Intent,
			collapse(item.EmailContent),
			collapse(item.GeneratedResponse),
		})
	}
	return rows
}

// collapse flattens newlines so a row stays one line tall.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatTimestamp trims an ISO timestamp to minute precision.
func formatTimestamp(ts string) string {
	ts = strings.ReplaceAll(ts, "T", " ")
	if len(ts) > 16 {
		ts = ts[:16]
	}
	return ts
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Generation History"))
	sb.WriteString("  ")
	filter := "all intents"
	if name := m.filterName(); name != "" {
		filter = name
	}
	sb.WriteString(styles.Muted.Render("filter: ") + styles.Selected.Render(filter))
	sb.WriteString("\n\n")

	switch m.load.Phase() {
	case flow.PhaseSuccess, flow.PhaseIdle:
		if !m.loaded {
			sb.WriteString(m.result.Render(m.load.Phase(), m.load.ErrKind(), m.load.ErrMessage(),
				"", "r: load history"))
			break
		}
		if len(m.items) == 0 {
			sb.WriteString(styles.Muted.Render("No history for this filter."))
			break
		}
		sb.WriteString(m.table.View())
		if m.preview {
			if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.items) {
				item := m.items[cursor]
				sb.WriteString("\n")
				sb.WriteString(styles.Pane.Width(min(m.width-2, 102)).Render(
					styles.Label.Render("Input") + "\n" + item.EmailContent + "\n\n" +
						styles.Label.Render("Generated") + "\n" + item.GeneratedResponse))
			}
		}
		sb.WriteString("\n")
		sb.WriteString(styles.Muted.Render(fmt.Sprintf(
			"%d entries • f: cycle filter • r: refresh • enter: toggle preview", len(m.items))))
	default:
		sb.WriteString(m.result.Render(m.load.Phase(), m.load.ErrKind(), m.load.ErrMessage(), "", ""))
	}
	return sb.String()
}

// Package app hosts the top-level TUI model: the page switcher, the global
// key handling, and the subscriptions that react to session expiry and to
// the session file changing on disk.
//
// Only the active page receives messages. A page swapped out mid-request
// never sees its late result, which together with the per-request sequence
// check keeps stale responses off the screen.
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/logoverlay"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/analytics"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/dashboard"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/followup"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/generate"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/history"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/intent"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/login"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/safety"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/send"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/subjects"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/summarize"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/views/thread"
)

const sidebarWidth = 16

// sessionExpiredMsg arrives when the dispatcher saw a 401.
type sessionExpiredMsg struct{}

// sessionFileChangedMsg arrives when the session file changed on disk,
// typically another process logging out or in.
type sessionFileChangedMsg struct{}

// Model is the application shell.
type Model struct {
	svc     *api.Service
	store   session.Store
	watcher *session.Watcher

	loginPage page.Model
	pages     []page.Model
	active    int

	authenticated bool
	username      string
	notice        string
	logs          logoverlay.Model

	width  int
	height int
}

// New builds the shell. watcher may be nil when the session directory
// cannot be watched; everything else still works.
func New(svc *api.Service, store session.Store, watcher *session.Watcher, defaults generate.Defaults) Model {
	m := Model{
		svc:       svc,
		store:     store,
		watcher:   watcher,
		loginPage: login.New(svc, store),
		pages: []page.Model{
			generate.New(svc, defaults),
			thread.New(svc, defaults.Tone),
			summarize.New(svc),
			intent.New(svc),
			subjects.New(svc),
			followup.New(svc),
			safety.New(svc),
			send.New(svc),
			history.New(svc),
			analytics.New(svc),
			dashboard.New(svc),
		},
		logs:   logoverlay.New(),
		width:  80,
		height: 24,
	}

	// A persisted session skips the login page. The token may be stale;
	// the first 401 sends the user back through login.
	if sess, ok := store.Load(); ok {
		m.authenticated = true
		m.username = sess.User.Username
		svc.Client().ResetExpiry()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForExpiry()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForSessionChange())
	}
	if m.authenticated {
		cmds = append(cmds, m.pages[m.active].Init())
	} else {
		cmds = append(cmds, m.loginPage.Init())
	}
	return tea.Batch(cmds...)
}

// waitForExpiry resolves when the dispatcher reports an expired session.
func (m Model) waitForExpiry() tea.Cmd {
	ch := m.svc.Client().Expiry()
	return func() tea.Msg {
		<-ch
		return sessionExpiredMsg{}
	}
}

func (m Model) waitForSessionChange() tea.Cmd {
	ch := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sessionFileChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logs.SetSize(msg.Width, msg.Height)
		content := msg.Width - sidebarWidth - 2
		m.loginPage = m.loginPage.SetSize(content, msg.Height-2)
		for i, p := range m.pages {
			m.pages[i] = p.SetSize(content, msg.Height-2)
		}
		return m, nil

	case sessionExpiredMsg:
		log.Info(log.CatAuth, "Session expired, returning to login")
		m.authenticated = false
		m.username = ""
		m.notice = "Session expired. Please sign in again."
		return m, tea.Batch(m.waitForExpiry(), m.loginPage.Init())

	case sessionFileChangedMsg:
		cmds := []tea.Cmd{m.waitForSessionChange()}
		sess, ok := m.store.Load()
		switch {
		case !ok && m.authenticated:
			log.Info(log.CatWatcher, "Session file removed, logging out")
			m.authenticated = false
			m.username = ""
			m.notice = "Signed out in another window."
			cmds = append(cmds, m.loginPage.Init())
		case ok:
			m.username = sess.User.Username
		}
		return m, tea.Batch(cmds...)

	case login.AuthenticatedMsg:
		m.authenticated = true
		m.username = msg.Session.User.Username
		m.notice = ""
		m.active = 0
		m.svc.Client().ResetExpiry()
		log.Info(log.CatAuth, "Signed in", "username", m.username)
		return m, m.pages[m.active].Init()

	case logoverlay.CloseMsg:
		return m, nil

	case tea.KeyMsg:
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			m.logs.Toggle()
			return m, nil
		case "ctrl+n":
			if m.authenticated {
				m.active = (m.active + 1) % len(m.pages)
				return m, m.pages[m.active].Init()
			}
		case "ctrl+p":
			if m.authenticated {
				m.active = (m.active - 1 + len(m.pages)) % len(m.pages)
				return m, m.pages[m.active].Init()
			}
		}
	}

	if !m.authenticated {
		var cmd tea.Cmd
		m.loginPage, cmd = m.loginPage.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.pages[m.active], cmd = m.pages[m.active].Update(msg)
	return m, cmd
}

func (m Model) sidebar() string {
	items := make([]string, 0, len(m.pages))
	for i, p := range m.pages {
		style := styles.SidebarItem
		if i == m.active {
			style = styles.SidebarActive
		}
		items = append(items, style.Render(p.Title()))
	}
	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m Model) statusbar() string {
	left := "not signed in"
	if m.authenticated {
		left = m.username
	}
	line := " " + left + "  •  ctrl+n/ctrl+p: pages • ctrl+l: logs • ctrl+c: quit"
	if m.notice != "" {
		line = " " + styles.WarningText.Render(m.notice) + " " + line
	}
	return styles.StatusBar.Render(ansi.Truncate(line, m.width, "..."))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.logs.Visible() {
		return m.logs.View()
	}

	var body string
	if !m.authenticated {
		body = m.loginPage.View()
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), " ", m.pages[m.active].View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusbar())
}

// Package login implements the unauthenticated entry view: signing in and
// registering a new account.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/shared/resultpane"
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/styles"
)

// AuthenticatedMsg tells the app shell a session was established.
type AuthenticatedMsg struct {
	Session session.Session
}

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// Model is the login/register view.
type Model struct {
	svc   *api.Service
	store session.Store

	username textinput.Model
	email    textinput.Model
	password textinput.Model

	registering bool
	focus       int
	auth        flow.Coordinator[api.AuthResponse]
	result      resultpane.Model
	width       int
}

// New creates the view.
func New(svc *api.Service, store session.Store) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return Model{
		svc:      svc,
		store:    store,
		username: username,
		email:    email,
		password: password,
		auth:     flow.New[api.AuthResponse]("auth"),
		result:   resultpane.New(),
		width:    60,
	}
}

// Init implements page.Model.
func (m Model) Init() tea.Cmd { return tea.Batch(textinput.Blink, page.Activate()) }

// Title implements page.Model.
func (m Model) Title() string { return "Login" }

// SetSize implements page.Model.
func (m Model) SetSize(width, _ int) page.Model {
	m.width = width
	m.result = m.result.SetWidth(min(width-2, 70))
	return m
}

// Update implements page.Model.
func (m Model) Update(msg tea.Msg) (page.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case page.ActivatedMsg:
		// A sign-in left in flight when the shell swapped back here (an
		// expiry mid-call) never resolves.
		if m.auth.InFlight() {
			m.auth = m.auth.Reset()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m = m.cycleFocus(msg.String() == "shift+tab" || msg.String() == "up")
			return m, nil
		case "ctrl+r":
			m.registering = !m.registering
			m.auth = m.auth.Reset()
			if !m.registering && m.focus == fieldEmail {
				m = m.setFocus(fieldUsername)
			}
			return m, nil
		case "enter":
			return m.submit()
		}
	case flow.ResultMsg[api.AuthResponse]:
		m.auth = m.auth.Apply(msg)
		if m.auth.Phase() == flow.PhaseSuccess {
			return m, m.establishSession(m.auth.Payload())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	cmds := []tea.Cmd{cmd}

	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (page.Model, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	registering := m.registering
	svc := m.svc

	validate := func() error {
		if username == "" || strings.TrimSpace(password) == "" {
			return api.ValidationError("username and password are required")
		}
		if registering && email == "" {
			return api.ValidationError("email is required to register")
		}
		return nil
	}

	run := func(ctx context.Context) (api.AuthResponse, error) {
		if registering {
			return svc.Register(ctx, api.RegisterRequest{Username: username, Email: email, Password: password})
		}
		return svc.Login(ctx, api.LoginRequest{Username: username, Password: password})
	}

	var cmd tea.Cmd
	m.auth, cmd = m.auth.Submit(validate, run)
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.result.Tick())
}

// establishSession persists the credential and announces it. The token is
// the only field the auth response is trusted for; identity details are
// best-effort.
func (m Model) establishSession(resp api.AuthResponse) tea.Cmd {
	sess := session.Session{
		Token:    resp.Token,
		IssuedAt: time.Now(),
	}
	sess.User.Username = resp.User.Username
	if sess.User.Username == "" {
		sess.User.Username = strings.TrimSpace(m.username.Value())
	}
	sess.User.Email = resp.User.Email

	store := m.store
	return func() tea.Msg {
		_ = store.Save(sess)
		return AuthenticatedMsg{Session: sess}
	}
}

func (m Model) cycleFocus(backwards bool) Model {
	next := m.focus
	for {
		if backwards {
			next = (next - 1 + fieldCount) % fieldCount
		} else {
			next = (next + 1) % fieldCount
		}
		if next != fieldEmail || m.registering {
			break
		}
	}
	return m.setFocus(next)
}

func (m Model) setFocus(field int) Model {
	m.focus = field
	m.username.Blur()
	m.email.Blur()
	m.password.Blur()
	switch field {
	case fieldUsername:
		m.username.Focus()
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	}
	return m
}

// View implements page.Model.
func (m Model) View() string {
	var sb strings.Builder

	heading := "Sign in to MailMind"
	action := "enter: sign in • ctrl+r: switch to register"
	if m.registering {
		heading = "Create a MailMind account"
		action = "enter: register • ctrl+r: switch to sign in"
	}
	sb.WriteString(styles.Title.Render(heading))
	sb.WriteString("\n\n")

	rows := []string{
		styles.Label.Render("Username ") + m.username.View(),
	}
	if m.registering {
		rows = append(rows, styles.Label.Render("Email    ")+m.email.View())
	}
	rows = append(rows, styles.Label.Render("Password ")+m.password.View())
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	sb.WriteString("\n\n")

	content := ""
	if m.auth.Phase() == flow.PhaseSuccess {
		content = "Signed in."
	}
	sb.WriteString(m.result.Render(m.auth.Phase(), m.auth.ErrKind(), m.auth.ErrMessage(), content, action))
	return sb.String()
}

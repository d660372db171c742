package login

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
)

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	page, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return page.(Model)
}

func pressKey(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.Msg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	page, cmd := m.Update(msg)
	return page.(Model), cmd
}

func TestLogin_EmptySubmitFailsValidation(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	store := session.NewMemStore()
	m := New(api.NewService(api.NewClient(srv.URL, store)), store)

	m, cmd := pressKey(t, m, "enter")
	assert.Nil(t, cmd, "validation failure must not dispatch")
	assert.Equal(t, flow.PhaseError, m.auth.Phase())
	assert.Equal(t, api.KindValidation, m.auth.ErrKind())
	assert.Equal(t, 0, calls, "no network call on validation failure")
}

func TestLogin_RegisterRequiresEmail(t *testing.T) {
	store := session.NewMemStore()
	m := New(api.NewService(api.NewClient("http://localhost:0", store)), store)

	m, _ = pressKey(t, m, "ctrl+r")
	require.True(t, m.registering)

	m = typeText(t, m, "geetha")
	m, _ = pressKey(t, m, "tab") // to email
	m, _ = pressKey(t, m, "tab") // to password
	m = typeText(t, m, "secret")

	m, cmd := pressKey(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, flow.PhaseError, m.auth.Phase())
	assert.Contains(t, m.auth.ErrMessage(), "email")
}

func TestLogin_SuccessSavesSessionAndAnnounces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"username":"geetha","email":"g@example.com"}}`))
	}))
	defer srv.Close()

	store := session.NewMemStore()
	m := New(api.NewService(api.NewClient(srv.URL, store)), store)

	m = typeText(t, m, "geetha")
	m, _ = pressKey(t, m, "tab")
	m = typeText(t, m, "secret")

	m, cmd := pressKey(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, flow.PhaseInFlight, m.auth.Phase())

	// Resolve the batched submit command to the flow result.
	msg := resolveResult(t, cmd)
	page, announce := m.Update(msg)
	m = page.(Model)
	require.Equal(t, flow.PhaseSuccess, m.auth.Phase())
	require.NotNil(t, announce)

	authed, ok := announce().(AuthenticatedMsg)
	require.True(t, ok)
	assert.Equal(t, "tok-1", authed.Session.Token)
	assert.Equal(t, "geetha", authed.Session.User.Username)

	saved, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-1", saved.Token)
}

func TestLogin_RegisterToggleResetsErrorState(t *testing.T) {
	store := session.NewMemStore()
	m := New(api.NewService(api.NewClient("http://localhost:0", store)), store)

	m, _ = pressKey(t, m, "enter")
	require.Equal(t, flow.PhaseError, m.auth.Phase())

	m, _ = pressKey(t, m, "ctrl+r")
	assert.Equal(t, flow.PhaseIdle, m.auth.Phase())
}

// resolveResult runs a (possibly batched) command tree until the auth flow
// result appears.
func resolveResult(t *testing.T, cmd tea.Cmd) flow.ResultMsg[api.AuthResponse] {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case flow.ResultMsg[api.AuthResponse]:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("auth result never produced")
	return flow.ResultMsg[api.AuthResponse]{}
}

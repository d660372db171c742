package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
	"github.com/MalayathiGeetha/MailMind-AI/internal/flow"
	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
	"github.com/MalayathiGeetha/MailMind-AI/internal/stats"
)

func newTestView(t *testing.T, handler http.Handler) Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemStore()
	require.NoError(t, store.Save(session.Session{Token: "tok", IssuedAt: time.Now()}))
	return New(api.NewService(api.NewClient(srv.URL, store)))
}

// resolveResult runs a (possibly batched) command tree until the load
// result appears.
func resolveResult(t *testing.T, cmd tea.Cmd) flow.ResultMsg[stats.DashboardSnapshot] {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case flow.ResultMsg[stats.DashboardSnapshot]:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("load result never produced")
	return flow.ResultMsg[stats.DashboardSnapshot]{}
}

func TestDashboard_ActivationLoadsSnapshot(t *testing.T) {
	m := newTestView(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/dashboard", r.URL.Path)
		_, _ = w.Write([]byte(`{"username":"geetha","totalEmails":12,
			"totalWordsGenerated":3400,"avgEmailLength":280,
			"preferredProvider":"GEMINI","topTones":["FORMAL","HR"],
			"recentEmails":["please review the attached draft"]}`))
	}))

	init := m.Init()
	require.NotNil(t, init)

	page, cmd := m.Update(init())
	m = page.(Model)
	require.Equal(t, flow.PhaseInFlight, m.load.Phase())
	require.NotNil(t, cmd)

	page, _ = m.Update(resolveResult(t, cmd))
	m = page.(Model)
	require.Equal(t, flow.PhaseSuccess, m.load.Phase())

	view := m.View()
	assert.Contains(t, view, "geetha")
	assert.Contains(t, view, "GEMINI")
	assert.Contains(t, view, "FORMAL, HR")
}

func TestDashboard_ActivationDropsStaleSwitch(t *testing.T) {
	m := newTestView(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"geetha","totalEmails":0}`))
	}))

	// Start a provider switch but never deliver its result, as happens when
	// the user changes pages mid-call.
	page, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = page.(Model)
	require.Equal(t, flow.PhaseInFlight, m.sw.Phase())

	page, cmd := m.Update(m.Init()())
	m = page.(Model)
	assert.Equal(t, flow.PhaseIdle, m.sw.Phase(), "stale switch spinner is dropped")
	assert.Equal(t, flow.PhaseInFlight, m.load.Phase(), "snapshot reloads")
	require.NotNil(t, cmd)
}

package intent

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
	"github.com/MalayathiGeetha/MailMind-AI/internal/ui/page"
)

func newTestView(t *testing.T, handler http.Handler) Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemStore()
	require.NoError(t, store.Save(session.Session{Token: "tok", IssuedAt: time.Now()}))
	return New(api.NewService(api.NewClient(srv.URL, store)))
}

func TestIntent_EmptySubmitFailsValidation(t *testing.T) {
	calls := 0
	m := newTestView(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	page, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = page.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, flow.PhaseError, m.detect.Phase())
	assert.Equal(t, api.KindValidation, m.detect.ErrKind())
	assert.Equal(t, 0, calls)
}

func TestIntent_ReactivationDropsStaleSpinner(t *testing.T) {
	m := newTestView(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	p, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("is the invoice overdue?")})
	m = p.(Model)

	// Submit but never deliver the result, as happens when the user changes
	// pages mid-call.
	p, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = p.(Model)
	require.NotNil(t, cmd)
	require.Equal(t, flow.PhaseInFlight, m.detect.Phase())

	p, _ = m.Update(page.ActivatedMsg{})
	m = p.(Model)
	assert.Equal(t, flow.PhaseIdle, m.detect.Phase())
}

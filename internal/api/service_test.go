package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemStore()
	require.NoError(t, store.Save(session.Session{Token: "tok", IssuedAt: time.Now()}))
	return NewService(NewClient(srv.URL, store))
}

func TestService_GenerateExtractsText(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/email/generate", r.URL.Path)
		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "FORMAL", req.Tone)
		_, _ = w.Write([]byte(`{"generatedEmail":"Dear Sir or Madam"}`))
	}))

	text, err := svc.Generate(context.Background(), GenerateRequest{EmailContent: "hi", Tone: "FORMAL"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Sir or Madam", text)
}

func TestService_HistoryByIntent_UnknownIntentIsEmpty(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	items, err := svc.HistoryByIntent(context.Background(), "NOT_A_REAL_INTENT")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestService_SummarizeTypedDecode(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":"pay the invoice","deadlines":["2026-09-01"]}`))
	}))

	sum, err := svc.Summarize(context.Background(), "long email")
	require.NoError(t, err)
	assert.Equal(t, "pay the invoice", sum.Summary)
	assert.Equal(t, []string{"2026-09-01"}, sum.Deadlines)
	assert.NotNil(t, sum.ActionItems, "defaulted list decodes as empty, not nil")
}

func TestService_SendEmailPlainTextAck(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Email sent successfully to bob@example.com"))
	}))

	ack, err := svc.SendEmail(context.Background(), SendEmailRequest{
		To: "bob@example.com", Subject: "s", Body: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully to bob@example.com", ack.Message)
}

// Switching the provider and then re-fetching the dashboard must reflect the
// server's stored state, not anything patched locally.
func TestService_SwitchProviderThenDashboard(t *testing.T) {
	var mu sync.Mutex
	provider := "GEMINI"

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/user/ai-provider":
			var req ProviderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			provider = req.Provider
			_, _ = w.Write([]byte("provider updated"))
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/dashboard":
			fmt.Fprintf(w, `{"username":"u","totalEmails":3,"preferredProvider":%q}`, provider)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	_, err := svc.SwitchProvider(ctx, "OLLAMA")
	require.NoError(t, err)

	raw, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	var dash struct {
		PreferredProvider string `json:"preferredProvider"`
	}
	require.NoError(t, json.Unmarshal(raw, &dash))
	assert.Equal(t, "OLLAMA", dash.PreferredProvider)
}

func TestService_AnalyticsKeepsRawKeyOrder(t *testing.T) {
	body := `{"totalEmails":9,"toneCounts":{"FRIENDLY":4,"HR":4,"FORMAL":1}}`
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))

	raw, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
	// Byte-level order is preserved so downstream tie-breaking can use it.
	assert.Equal(t, body, string(raw))
}

func TestService_DecodeFailureIsUnrecognizedShape(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"intent":{"nested":"object"}}`))
	}))

	_, err := svc.DetectIntent(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, KindUnrecognizedShape, KindOf(err))
}

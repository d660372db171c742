package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
	"github.com/MalayathiGeetha/MailMind-AI/internal/session"
)

const defaultTimeout = 60 * time.Second

// Client is the single outbound gateway to the backend. It attaches the
// current session credential to every call, classifies every failure into
// the Kind taxonomy, and intercepts authentication expiry centrally so no
// view handles 401s individually.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	tracer  oteltrace.Tracer

	// expired latches after the first 401 of a session. It guarantees the
	// store is cleared and the signal published exactly once even when
	// several in-flight calls fail with 401 together.
	expired atomic.Bool
	expiry  chan struct{}
}

// NewClient creates a dispatcher for the given backend base URL. The store
// is referenced, not owned: the client reads it per call and clears it on
// expiry, but session creation stays with the login flow.
func NewClient(baseURL string, store session.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		tracer:  otel.Tracer("mailmind/api"),
		expiry:  make(chan struct{}, 1),
	}
}

// Expiry delivers one signal per session expiry. The hosting application
// subscribes to it and performs the switch to the login view; the client
// itself never navigates.
func (c *Client) Expiry() <-chan struct{} {
	return c.expiry
}

// ResetExpiry re-arms expiry detection. Called after a new session is
// saved so a later 401 on the fresh credential is signalled again.
func (c *Client) ResetExpiry() {
	c.expired.Store(false)
}

// Invoke dispatches the named operation and normalizes its response.
// routeParam fills the {param} placeholder for operations that carry one;
// body is JSON-encoded when non-nil. Unknown names panic via MustLookup.
func (c *Client) Invoke(ctx context.Context, name, routeParam string, body any) (Payload, error) {
	desc := MustLookup(name)
	raw, err := c.do(ctx, desc, routeParam, body)
	if err != nil {
		return Payload{}, err
	}
	payload, err := Normalize(desc, raw)
	if err != nil {
		log.ErrorErr(log.CatAPI, "Normalization failed", err, "operation", desc.Name)
		return Payload{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, desc Descriptor, routeParam string, body any) ([]byte, error) {
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "api."+desc.Name,
		oteltrace.WithAttributes(
			attribute.String("mailmind.operation", desc.Name),
			attribute.String("mailmind.request_id", requestID),
			attribute.String("http.method", desc.Method),
		))
	defer span.End()

	route := desc.Route
	if routeParam != "" {
		route = strings.Replace(route, "{param}", routeParam, 1)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", desc.Name, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, c.baseURL+route, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", desc.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Attach the credential whenever a session exists. Login/register run
	// unauthenticated simply because no session is stored yet.
	if sess, ok := c.store.Load(); ok {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	log.Debug(log.CatAPI, "Dispatching", "operation", desc.Name, "requestID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "network failure")
		log.ErrorErr(log.CatAPI, "No response received", err, "operation", desc.Name, "requestID", requestID)
		return nil, &Error{
			Kind:    KindNetwork,
			Message: "could not reach the server",
			cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "read failure")
		return nil, &Error{Kind: KindNetwork, Message: "response was cut short", cause: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		span.SetStatus(codes.Error, "auth expired")
		c.handleExpiry(desc.Name)
		return nil, &Error{
			Kind:    KindAuthExpired,
			Status:  resp.StatusCode,
			Message: "session expired, please log in again",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "server error")
		msg := serverMessage(raw)
		log.Warn(log.CatAPI, "Server error", "operation", desc.Name, "status", resp.StatusCode, "message", msg)
		return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Message: msg}
	}

	log.Debug(log.CatAPI, "Response received", "operation", desc.Name, "requestID", requestID, "bytes", len(raw))
	return raw, nil
}

// handleExpiry clears the session and publishes the expiry signal. The
// compare-and-swap makes both happen exactly once per expired session no
// matter how many concurrent calls observe the 401.
func (c *Client) handleExpiry(operation string) {
	if !c.expired.CompareAndSwap(false, true) {
		return
	}
	if err := c.store.Clear(); err != nil {
		log.ErrorErr(log.CatAuth, "Failed to clear expired session", err)
	}
	log.Info(log.CatAuth, "Session expired", "operation", operation)
	select {
	case c.expiry <- struct{}{}:
	default:
	}
}

// serverMessage extracts the server-provided message from an error body,
// preferring the JSON message/error fields the backend uses, falling back
// to the raw text, then to a generic message.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 300 {
		return text
	}
	return "something went wrong, please try again"
}

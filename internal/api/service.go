package api

import (
	"context"
	"encoding/json"
)

// Service exposes every backend capability as a typed call. Views and CLI
// commands depend on Service; routes, methods, and payload shapes stay
// behind the catalog and the normalizer.
type Service struct {
	client *Client
}

// NewService wraps a dispatcher.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Client returns the underlying dispatcher, exposed for expiry subscription
// and re-arming after login.
func (s *Service) Client() *Client {
	return s.client
}

func decodeObject[T any](p Payload, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(p.Object, &out); err != nil {
		return out, &Error{Kind: KindUnrecognizedShape, Message: "object payload did not decode", cause: err}
	}
	return out, nil
}

func decodeList[T any](p Payload, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := json.Unmarshal(p.List, &out); err != nil {
		return nil, &Error{Kind: KindUnrecognizedShape, Message: "list payload did not decode", cause: err}
	}
	return out, nil
}

// Login authenticates and returns the bearer token plus identity details.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	return decodeObject[AuthResponse](s.client.Invoke(ctx, OpLogin, "", req))
}

// Register creates an account; the backend logs the new user in and
// returns a token like login does.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	return decodeObject[AuthResponse](s.client.Invoke(ctx, OpRegister, "", req))
}

// Generate produces email text for the given content and options.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	p, err := s.client.Invoke(ctx, OpGenerate, "", req)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// ThreadReply produces a reply aware of the earlier thread messages.
func (s *Service) ThreadReply(ctx context.Context, req ThreadReplyRequest) (string, error) {
	p, err := s.client.Invoke(ctx, OpThreadReply, "", req)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// History returns all recorded generations for the current user.
func (s *Service) History(ctx context.Context) ([]HistoryItem, error) {
	return decodeList[HistoryItem](s.client.Invoke(ctx, OpHistory, "", nil))
}

// HistoryByIntent returns the history filtered to one intent. An unknown
// intent yields an empty list, not an error.
func (s *Service) HistoryByIntent(ctx context.Context, intent string) ([]HistoryItem, error) {
	return decodeList[HistoryItem](s.client.Invoke(ctx, OpHistoryByIntent, intent, nil))
}

// Analytics returns the raw analytics object. It stays raw because the
// aggregation layer needs the backend's JSON key order for tie-breaking,
// which a decoded Go map would destroy.
func (s *Service) Analytics(ctx context.Context) (json.RawMessage, error) {
	p, err := s.client.Invoke(ctx, OpAnalytics, "", nil)
	if err != nil {
		return nil, err
	}
	return p.Object, nil
}

// ScoreQuality rates politeness, professionalism and sentiment.
func (s *Service) ScoreQuality(ctx context.Context, content string) (Quality, error) {
	return decodeObject[Quality](s.client.Invoke(ctx, OpScoreQuality, "", ContentRequest{EmailContent: content}))
}

// DetectRisk flags risky wording before sending.
func (s *Service) DetectRisk(ctx context.Context, content string) (Risk, error) {
	return decodeObject[Risk](s.client.Invoke(ctx, OpDetectRisk, "", ContentRequest{EmailContent: content}))
}

// DetectIntent classifies the purpose of an email.
func (s *Service) DetectIntent(ctx context.Context, content string) (IntentResult, error) {
	return decodeObject[IntentResult](s.client.Invoke(ctx, OpDetectIntent, "", ContentRequest{EmailContent: content}))
}

// GenerateSubjects proposes subject-line candidates. An empty list is a
// valid result.
func (s *Service) GenerateSubjects(ctx context.Context, content string) ([]string, error) {
	return decodeList[string](s.client.Invoke(ctx, OpGenerateSubject, "", ContentRequest{EmailContent: content}))
}

// Summarize extracts a summary with action items and deadlines.
func (s *Service) Summarize(ctx context.Context, content string) (Summary, error) {
	return decodeObject[Summary](s.client.Invoke(ctx, OpSummarize, "", ContentRequest{EmailContent: content}))
}

// FollowUp drafts a follow-up for an email after the given number of days.
func (s *Service) FollowUp(ctx context.Context, content string, days int) (string, error) {
	p, err := s.client.Invoke(ctx, OpFollowUp, "", FollowUpRequest{EmailContent: content, Days: days})
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// SendEmail delivers a finished email through the backend.
func (s *Service) SendEmail(ctx context.Context, req SendEmailRequest) (Acknowledgement, error) {
	return decodeObject[Acknowledgement](s.client.Invoke(ctx, OpSendEmail, "", req))
}

// Dashboard returns the raw dashboard object for snapshot building.
func (s *Service) Dashboard(ctx context.Context) (json.RawMessage, error) {
	p, err := s.client.Invoke(ctx, OpDashboard, "", nil)
	if err != nil {
		return nil, err
	}
	return p.Object, nil
}

// SwitchProvider changes the preferred AI provider. Callers must re-fetch
// the dashboard afterwards; the client never patches local state
// optimistically.
func (s *Service) SwitchProvider(ctx context.Context, provider string) (Acknowledgement, error) {
	return decodeObject[Acknowledgement](s.client.Invoke(ctx, OpSwitchProvider, "", ProviderRequest{Provider: provider}))
}

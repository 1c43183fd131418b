// Package client talks to the chat/session service and the auth backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"allai/models"
	"allai/services"
)

// TokenSource returns the current bearer token, or "" when signed out.
type TokenSource func() string

// ChatService is the HTTP client for the external chat/session service.
type ChatService struct {
	client *resty.Client
}

func NewChatService(baseURL string, timeout time.Duration, token TokenSource) *ChatService {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != nil {
		c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if tok := token(); tok != "" {
				r.SetAuthToken(tok)
			}
			return nil
		})
	}
	return &ChatService{client: c}
}

// CreateSession creates a session and returns its id.
func (s *ChatService) CreateSession(ctx context.Context, accountID, name string, now time.Time) (string, error) {
	ts := services.FormatLocalISO(now)
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(models.CreateSessionRequest{
			AccountID:    accountID,
			SessionName:  name,
			TimeStamp:    ts,
			LastActivity: ts,
		}).
		Post("/session/create")
	if err != nil {
		return "", fmt.Errorf("session create failed: %w", err)
	}
	if resp.IsError() {
		return "", statusError(resp)
	}

	var result models.CreateSessionResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil || result.SessionID == "" {
		return "", ErrNoSessionID
	}
	return result.SessionID, nil
}

// ListSessions returns the account's sessions as stored. A 404 means the
// account has no sessions yet and yields an empty list.
func (s *ChatService) ListSessions(ctx context.Context, accountID string) ([]models.SessionRecord, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("account_id", accountID).
		Get("/session/{account_id}")
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return []models.SessionRecord{}, nil
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}

	var result models.SessionListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return []models.SessionRecord{}, nil
	}
	if result.Sessions == nil {
		return []models.SessionRecord{}, nil
	}
	return result.Sessions, nil
}

func (s *ChatService) RenameSession(ctx context.Context, accountID, sessionID, title string) error {
	return s.updateSession(ctx, accountID, sessionID, "session_name", title)
}

func (s *ChatService) TouchSession(ctx context.Context, accountID, sessionID string, at time.Time) error {
	return s.updateSession(ctx, accountID, sessionID, "last_activity", services.FormatLocalISO(at))
}

func (s *ChatService) updateSession(ctx context.Context, accountID, sessionID, key, value string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"account_id": accountID,
			"session_id": sessionID,
		}).
		SetQueryParam(key, value).
		Put("/session/update/{account_id}/{session_id}")
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if resp.IsError() {
		return statusError(resp)
	}
	return nil
}

func (s *ChatService) DeleteSession(ctx context.Context, accountID, sessionID string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"account_id": accountID,
			"session_id": sessionID,
		}).
		Delete("/session/{account_id}/{session_id}")
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if resp.IsError() {
		return statusError(resp)
	}
	return nil
}

// History returns every stored turn of a session.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]models.HistoryTurn, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("session_id", sessionID).
		Get("/history/{session_id}")
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}

	var result models.HistoryResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return result.History, nil
}

// Chat posts one fan-out request and returns the raw response body.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}
	return resp.Body(), nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allai/chat"
	"allai/client"
	"allai/models"
	"allai/registry"
)

type stubSessions struct {
	created []string
}

func (s *stubSessions) CreateSession(ctx context.Context, accountID, name string, now time.Time) (string, error) {
	s.created = append(s.created, name)
	return "fresh", nil
}

func (s *stubSessions) ListSessions(ctx context.Context, accountID string) ([]models.SessionRecord, error) {
	return nil, nil
}

func (s *stubSessions) RenameSession(ctx context.Context, accountID, sessionID, title string) error {
	return nil
}

func (s *stubSessions) TouchSession(ctx context.Context, accountID, sessionID string, at time.Time) error {
	return nil
}

func (s *stubSessions) DeleteSession(ctx context.Context, accountID, sessionID string) error {
	return nil
}

func (s *stubSessions) History(ctx context.Context, sessionID string) ([]models.HistoryTurn, error) {
	return nil, nil
}

func newTestREPL(id *identity, onSignIn func()) (*repl, *stubSessions, *bytes.Buffer) {
	api := &stubSessions{}
	state := chat.NewState(registry.Default(), models.PlanBasic, map[string]bool{"gemini": true}, nil)
	dir := chat.NewDirectory(state, api, chat.NewHistoryLoader(state, api), id, onSignIn)
	out := &bytes.Buffer{}
	return &repl{state: state, dir: dir, out: out}, api, out
}

func TestCommandNew_SignedOut(t *testing.T) {
	prompted := false
	r, api, out := newTestREPL(&identity{}, func() { prompted = true })

	more, err := r.command(context.Background(), "/new")
	require.NoError(t, err)
	assert.True(t, more)
	assert.True(t, prompted)
	assert.Empty(t, api.created)
	assert.NotContains(t, out.String(), "Started a new chat")
	assert.Empty(t, r.state.ActiveSession())
}

func TestCommandNew_SignedIn(t *testing.T) {
	id := &identity{}
	id.set(client.Credentials{Token: "t", User: models.PublicUser{Email: "a@b.c"}})
	r, api, out := newTestREPL(id, nil)

	more, err := r.command(context.Background(), "/new")
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, []string{chat.DefaultTitle}, api.created)
	assert.Contains(t, out.String(), "Started a new chat")
	assert.Equal(t, "fresh", r.state.ActiveSession())
}

func TestResolveSession(t *testing.T) {
	convs := []models.Conversation{{ID: "a"}, {ID: "b"}}

	id, err := resolveSession(convs, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	id, err = resolveSession(convs, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", id)

	_, err = resolveSession(convs, "3")
	assert.Error(t, err)
	_, err = resolveSession(convs, "0")
	assert.Error(t, err)
	_, err = resolveSession(convs, "zzz")
	assert.Error(t, err)
}

func TestFirstUserMessage(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	transcripts := map[string][]models.Message{
		"gemini": {
			{Role: models.RoleUser, Content: "second", Timestamp: base.Add(time.Minute)},
		},
		"groq": {
			{Role: models.RoleAssistant, Content: "greeting", Timestamp: base.Add(-time.Minute)},
			{Role: models.RoleUser, Content: "first", Timestamp: base},
		},
	}
	assert.Equal(t, "first", firstUserMessage(transcripts))
	assert.Equal(t, "", firstUserMessage(nil))
}

func TestAuthError(t *testing.T) {
	err := authError(&client.StatusError{Code: 409, Body: `{"error": "Email already in use"}`})
	assert.EqualError(t, err, "Email already in use")

	plain := errors.New("dial tcp: refused")
	assert.Equal(t, plain, authError(plain))

	err = authError(&client.StatusError{Code: 500})
	assert.EqualError(t, err, "Request failed with status 500")
}

func TestIdentity(t *testing.T) {
	id := &identity{}
	assert.Empty(t, id.Token())
	id.set(client.Credentials{Token: "t", User: models.PublicUser{ID: "1", Email: "a@b.c"}})
	assert.Equal(t, "t", id.Token())
	assert.Equal(t, "a@b.c", id.AccountID())
}

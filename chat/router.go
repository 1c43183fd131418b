package chat

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"allai/models"
	"allai/services"
)

const NoResponseText = "No response received for this model."

// ChatAPI posts one fan-out request and returns the raw reply body.
type ChatAPI interface {
	Chat(ctx context.Context, req models.ChatRequest) ([]byte, error)
}

// Router fans one prompt out to every enabled model and files each
// provider's reply into that model's transcript.
type Router struct {
	state    *State
	api      ChatAPI
	identity Identity
	onSignIn func()
	now      func() time.Time
}

func NewRouter(state *State, api ChatAPI, identity Identity, onSignIn func()) *Router {
	return &Router{
		state:    state,
		api:      api,
		identity: identity,
		onSignIn: onSignIn,
		now:      time.Now,
	}
}

// turn is everything a send captured when it started. The reply is filed
// against these values, never against the live state.
type turn struct {
	sessionID string
	enabled   []string
	requested map[string]bool
	isEnabled map[string]bool
}

// Send broadcasts prompt in the active session. A blank prompt is ignored.
// Without a token the sign-in hook runs and ErrNotAuthenticated is returned.
//
// Transport and HTTP failures are not returned: they become an assistant
// message on each requested model. When Send returns, no model it marked as
// loading is still loading.
func (r *Router) Send(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}
	if r.identity.Token() == "" {
		if r.onSignIn != nil {
			r.onSignIn()
		}
		return ErrNotAuthenticated
	}

	now := r.now()
	t, payload := r.begin(prompt, now)

	body, err := r.api.Chat(ctx, models.ChatRequest{
		UserQuery:      prompt,
		SelectedModels: payload,
		SessionID:      t.sessionID,
		ClientTime:     services.FormatLocalISO(now),
	})
	if err != nil {
		log.Printf("Chat request for session %s failed: %v", t.sessionID, err)
		r.fail(t, err)
		return nil
	}
	r.distribute(t, providerResponses(body))
	return nil
}

// begin stamps the user message into every enabled transcript, raises the
// loading flags and builds the provider -> version payload.
func (r *Router) begin(prompt string, now time.Time) (turn, map[string]string) {
	s := r.state
	reg := s.Registry()

	s.mu.Lock()
	t := turn{
		sessionID: s.active,
		enabled:   s.enabledLocked(),
		requested: make(map[string]bool),
		isEnabled: s.enabled,
	}
	versions := s.versions
	plan := s.plan
	s.mu.Unlock()

	payload := make(map[string]string)
	for _, id := range t.enabled {
		m := reg.Resolve(id)
		if !m.Routable() || reg.Locked(id, plan) {
			continue
		}
		if v := versions[id]; v != "" {
			payload[m.ProviderKey] = v
			t.requested[id] = true
		}
	}

	base := newMessageID()
	userMsgs := make(map[string]models.Message, len(t.enabled))
	for _, id := range t.enabled {
		userMsgs[id] = models.Message{
			ID:        base + "-" + id,
			Content:   prompt,
			Role:      models.RoleUser,
			Timestamp: now,
		}
	}
	s.appendMessages(t.sessionID, userMsgs)
	s.setLoading(t.sessionID, t.enabled, true)

	return t, payload
}

// fail reports err on every requested model and clears all loading flags.
func (r *Router) fail(t turn, err error) {
	text := "Error contacting backend: " + err.Error()
	replies := make(map[string]models.Message, len(t.requested))
	for _, id := range t.enabled {
		if t.requested[id] {
			replies[id] = r.assistantMessage(id, text)
		}
	}
	r.state.appendMessages(t.sessionID, replies)
	r.state.setLoading(t.sessionID, t.enabled, false)
}

// distribute files each provider's text under its model, then fills gaps.
func (r *Router) distribute(t turn, responses map[string]string) {
	reg := r.state.Registry()

	providers := make([]string, 0, len(responses))
	for p := range responses {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	replies := make(map[string]models.Message)
	for _, provider := range providers {
		modelID, ok := reg.ModelForProvider(provider)
		if !ok || !t.isEnabled[modelID] {
			continue
		}
		replies[modelID] = r.assistantMessage(modelID, responses[provider])
	}

	for _, id := range t.enabled {
		if _, done := replies[id]; done {
			continue
		}
		if t.requested[id] {
			replies[id] = r.assistantMessage(id, NoResponseText)
		}
	}

	r.state.appendMessages(t.sessionID, replies)
	r.state.setLoading(t.sessionID, t.enabled, false)
}

func (r *Router) assistantMessage(modelID, content string) models.Message {
	return models.Message{
		ID:        newMessageID() + "-" + modelID,
		Content:   content,
		Role:      models.RoleAssistant,
		Timestamp: r.now(),
		Model:     modelID,
		Animate:   true,
	}
}

// newMessageID returns a time-ordered unique id.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

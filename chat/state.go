// Package chat is the client-side conversation engine: which conversation is
// active, which models are on, and one transcript per model per session.
package chat

import (
	"errors"
	"sync"

	"allai/models"
	"allai/registry"
)

var (
	ErrNotAuthenticated = errors.New("sign in required")
	ErrUpgradeRequired  = errors.New("model requires the premium plan")
	ErrUnknownModel     = errors.New("unknown model")
	ErrUnknownVersion   = errors.New("unknown model version")
)

// State is the shared UI state.
//
// Scoping is deliberately uneven: the enabled toggles, selected versions and
// plan are global across sessions, while transcripts and loading flags are
// keyed by session id. A model can be loading in one session and idle in
// another, but enabling it applies everywhere.
//
// Every mutation replaces the affected maps and slices instead of writing
// into them, so values handed out by the accessors never change underneath
// a reader.
type State struct {
	mu sync.Mutex

	reg *registry.Registry

	// global
	plan     string
	enabled  map[string]bool
	versions map[string]string

	// directory
	conversations []models.Conversation
	active        string

	// per session
	transcripts map[string]map[string][]models.Message
	loading     map[string]map[string]bool
}

// NewState seeds toggles and versions. Unknown model ids are dropped, locked
// models are forced off for the plan, and models without a selected version
// default to their first listed version.
func NewState(reg *registry.Registry, plan string, enabled map[string]bool, versions map[string]string) *State {
	s := &State{
		reg:         reg,
		plan:        plan,
		enabled:     make(map[string]bool),
		versions:    make(map[string]string),
		transcripts: make(map[string]map[string][]models.Message),
		loading:     make(map[string]map[string]bool),
	}
	for _, m := range reg.Models() {
		s.enabled[m.ID] = enabled[m.ID] && !reg.Locked(m.ID, plan)
		if v, ok := versions[m.ID]; ok && m.HasVersion(v) {
			s.versions[m.ID] = v
		} else if len(m.Versions) > 0 {
			s.versions[m.ID] = m.Versions[0]
		}
	}
	return s
}

// Registry returns the catalog the state was built from.
func (s *State) Registry() *registry.Registry {
	return s.reg
}

func (s *State) Plan() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// SetPlan switches the entitlement plan. Models locked on the new plan are
// turned off.
func (s *State) SetPlan(plan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = plan
	next := copyBools(s.enabled)
	for id := range next {
		if s.reg.Locked(id, plan) {
			next[id] = false
		}
	}
	s.enabled = next
}

// SetModelEnabled toggles a model. Enabling a model locked on the current
// plan fails with ErrUpgradeRequired and changes nothing.
func (s *State) SetModelEnabled(modelID string, on bool) error {
	if !s.reg.Known(modelID) {
		return ErrUnknownModel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if on && s.reg.Locked(modelID, s.plan) {
		return ErrUpgradeRequired
	}
	next := copyBools(s.enabled)
	next[modelID] = on
	s.enabled = next
	return nil
}

func (s *State) SelectVersion(modelID, version string) error {
	m := s.reg.Resolve(modelID)
	if !s.reg.Known(modelID) {
		return ErrUnknownModel
	}
	if !m.HasVersion(version) {
		return ErrUnknownVersion
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := copyStrings(s.versions)
	next[modelID] = version
	s.versions = next
	return nil
}

// Enabled returns the toggle map. The map must not be modified.
func (s *State) Enabled() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// EnabledModels lists enabled model ids in catalog order.
func (s *State) EnabledModels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabledLocked()
}

func (s *State) enabledLocked() []string {
	var ids []string
	for _, m := range s.reg.Models() {
		if s.enabled[m.ID] {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// SelectedVersions returns the version map. The map must not be modified.
func (s *State) SelectedVersions() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions
}

func (s *State) ActiveSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *State) setActive(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = sessionID
}

// Conversations returns the directory listing. The slice must not be modified.
func (s *State) Conversations() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversations
}

func (s *State) setConversations(convs []models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = convs
}

// Transcript returns one model's messages in a session.
func (s *State) Transcript(sessionID, modelID string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcripts[sessionID][modelID]
}

// Transcripts returns every model's messages in a session.
func (s *State) Transcripts(sessionID string) map[string][]models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcripts[sessionID]
}

// HasTranscripts reports whether anything has been loaded or sent for a
// session, including an empty history load.
func (s *State) HasTranscripts(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.transcripts[sessionID]
	return ok
}

func (s *State) Loading(sessionID string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[sessionID]
}

func (s *State) IsLoading(sessionID, modelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[sessionID][modelID]
}

// AnyLoading reports whether some model is still waiting in the session.
func (s *State) AnyLoading(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.loading[sessionID] {
		if v {
			return true
		}
	}
	return false
}

// appendMessages appends per-model messages to one session's transcripts.
func (s *State) appendMessages(sessionID string, msgs map[string]models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := make(map[string][]models.Message, len(s.transcripts[sessionID])+len(msgs))
	for id, list := range s.transcripts[sessionID] {
		session[id] = list
	}
	for modelID, msg := range msgs {
		prev := session[modelID]
		next := make([]models.Message, len(prev), len(prev)+1)
		copy(next, prev)
		session[modelID] = append(next, msg)
	}
	s.transcripts = withSession(s.transcripts, sessionID, session)
}

func (s *State) setLoading(sessionID string, modelIDs []string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := copyBools(s.loading[sessionID])
	for _, id := range modelIDs {
		session[id] = on
	}
	s.loading = withSession(s.loading, sessionID, session)
}

// replaceSession installs freshly loaded transcripts and resets loading.
func (s *State) replaceSession(sessionID string, perModel map[string][]models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts = withSession(s.transcripts, sessionID, perModel)
	s.loading = withSession(s.loading, sessionID, map[string]bool{})
}

// resetEnabled turns on exactly the given models, skipping locked ones.
func (s *State) resetEnabled(on map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]bool, len(s.enabled))
	for _, m := range s.reg.Models() {
		next[m.ID] = on[m.ID] && !s.reg.Locked(m.ID, s.plan)
	}
	s.enabled = next
}

// dropSession forgets a deleted session. If it was active, the first
// remaining conversation becomes active, or none.
func (s *State) dropSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs := make([]models.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		if c.ID != sessionID {
			convs = append(convs, c)
		}
	}
	s.conversations = convs

	s.transcripts = withoutSession(s.transcripts, sessionID)
	s.loading = withoutSession(s.loading, sessionID)

	if s.active == sessionID {
		s.active = ""
		if len(convs) > 0 {
			s.active = convs[0].ID
		}
	}
}

func withSession[V any](m map[string]V, sessionID string, v V) map[string]V {
	next := make(map[string]V, len(m)+1)
	for k, old := range m {
		next[k] = old
	}
	next[sessionID] = v
	return next
}

func withoutSession[V any](m map[string]V, sessionID string) map[string]V {
	next := make(map[string]V, len(m))
	for k, v := range m {
		if k != sessionID {
			next[k] = v
		}
	}
	return next
}

func copyBools(m map[string]bool) map[string]bool {
	next := make(map[string]bool, len(m))
	for k, v := range m {
		next[k] = v
	}
	return next
}

func copyStrings(m map[string]string) map[string]string {
	next := make(map[string]string, len(m))
	for k, v := range m {
		next[k] = v
	}
	return next
}

func (s *State) prependConversation(conv models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	convs := make([]models.Conversation, 0, len(s.conversations)+1)
	convs = append(convs, conv)
	s.conversations = append(convs, s.conversations...)
}

// renameConversation changes a title without reordering the list.
func (s *State) renameConversation(sessionID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	convs := make([]models.Conversation, len(s.conversations))
	copy(convs, s.conversations)
	for i := range convs {
		if convs[i].ID == sessionID {
			convs[i].Title = title
		}
	}
	s.conversations = convs
}

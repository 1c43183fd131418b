package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"allai/models"
	"allai/registry"
)

// HistoryAPI fetches stored turns for a session.
type HistoryAPI interface {
	History(ctx context.Context, sessionID string) ([]models.HistoryTurn, error)
}

// HistoryLoader rebuilds per-model transcripts from the chat service.
type HistoryLoader struct {
	state *State
	api   HistoryAPI
	now   func() time.Time
}

func NewHistoryLoader(state *State, api HistoryAPI) *HistoryLoader {
	return &HistoryLoader{state: state, api: api, now: time.Now}
}

// Load replaces the session's transcripts with its stored history.
//
// Only the first stored turn is read; later turns are ignored. Messages get
// synthetic timestamps one millisecond apart so they sort in load order.
// The enabled toggles are then reset to exactly the models that have
// messages, so an empty history leaves every model off.
func (h *HistoryLoader) Load(ctx context.Context, sessionID string) (map[string][]models.Message, error) {
	turns, err := h.api.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var first models.HistoryTurn
	if len(turns) > 0 {
		first = turns[0]
	}

	reg := h.state.Registry()
	perModel := make(map[string][]models.Message)
	base := h.now()
	idx := 0
	for _, field := range registry.HistoryFields() {
		modelID, ok := reg.ModelForProvider(field.Provider)
		if !ok {
			continue
		}
		var entries []models.HistoryEntry
		if raw, ok := first[field.Field]; !ok || json.Unmarshal(raw, &entries) != nil {
			continue
		}
		for _, e := range entries {
			role := normalizeRole(e.Role)
			perModel[modelID] = append(perModel[modelID], models.Message{
				ID:        fmt.Sprintf("%s-%s-%d-%s", sessionID, modelID, idx, role),
				Content:   rawText(e.Content),
				Role:      role,
				Timestamp: base.Add(time.Duration(idx) * time.Millisecond),
				Model:     modelID,
			})
			idx++
		}
	}

	h.state.replaceSession(sessionID, perModel)

	on := make(map[string]bool, len(perModel))
	for modelID, msgs := range perModel {
		on[modelID] = len(msgs) > 0
	}
	h.state.resetEnabled(on)
	return perModel, nil
}

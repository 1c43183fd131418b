// Package registry holds the static catalog of chat models and the
// provider keys the chat service routes them by.
package registry

import (
	"allai/models"
)

// Registry is an immutable model catalog. The zero value is empty.
type Registry struct {
	models     []models.Model
	byID       map[string]models.Model
	byProvider map[string]string
	locked     map[string]bool
}

// New builds a registry from the given models. basicLocked lists model ids
// that are unavailable on the basic plan.
func New(catalog []models.Model, basicLocked []string) *Registry {
	r := &Registry{
		models:     make([]models.Model, 0, len(catalog)),
		byID:       make(map[string]models.Model, len(catalog)),
		byProvider: make(map[string]string),
		locked:     make(map[string]bool, len(basicLocked)),
	}
	for _, m := range catalog {
		m = clone(m)
		r.models = append(r.models, m)
		r.byID[m.ID] = m
		if m.ProviderKey != "" {
			r.byProvider[m.ProviderKey] = m.ID
		}
	}
	for _, id := range basicLocked {
		r.locked[id] = true
	}
	return r
}

// Default returns the catalog the web client ships with.
func Default() *Registry {
	return New([]models.Model{
		{ID: "chatgpt", Name: "ChatGPT 5", Versions: []string{"gpt-4o", "gpt-4-turbo", "gpt-5"}, ProviderKey: "OpenAI"},
		{ID: "gemini", Name: "Gemini 2.5 Pro", Versions: []string{"gemini-2.0-flash", "gemini-2.5-pro", "gemini-1.5-pro", "gemini-1.5-flash"}, ProviderKey: "Google"},
		{ID: "deepseek", Name: "DeepSeek", Versions: []string{"deepseek-chat", "deepseek-coder"}},
		{ID: "groq", Name: "Groq", Versions: []string{"openai/gpt-oss-20b", "llama-3.1-8b-instant", "mixtral-8x7b"}, ProviderKey: "Groq"},
		{ID: "grok", Name: "Grok", Versions: []string{"grok-beta"}},
		{ID: "claude", Name: "Claude", Versions: []string{"claude-3-5-sonnet-latest"}},
	}, []string{"claude", "perplexity", "cohere", "grok"})
}

// Resolve looks up a model id. Unknown ids resolve to a model with only the
// id set, which is not routable.
func (r *Registry) Resolve(modelID string) models.Model {
	if m, ok := r.byID[modelID]; ok {
		return clone(m)
	}
	return models.Model{ID: modelID}
}

func (r *Registry) Known(modelID string) bool {
	_, ok := r.byID[modelID]
	return ok
}

// ModelForProvider maps a provider key back to its UI model id.
func (r *Registry) ModelForProvider(providerKey string) (string, bool) {
	id, ok := r.byProvider[providerKey]
	return id, ok
}

// Models returns the catalog in declaration order.
func (r *Registry) Models() []models.Model {
	out := make([]models.Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, clone(m))
	}
	return out
}

// Locked reports whether modelID is unavailable on the given plan.
func (r *Registry) Locked(modelID, plan string) bool {
	return plan != models.PlanPremium && r.locked[modelID]
}

func clone(m models.Model) models.Model {
	m.Versions = append([]string(nil), m.Versions...)
	return m
}

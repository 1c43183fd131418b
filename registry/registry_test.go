package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allai/models"
)

func TestDefault_ResolveRoutable(t *testing.T) {
	r := Default()

	m := r.Resolve("gemini")
	assert.Equal(t, "Google", m.ProviderKey)
	assert.True(t, m.Routable())
	assert.Equal(t, "gemini-2.0-flash", m.Versions[0])

	id, ok := r.ModelForProvider("Google")
	require.True(t, ok)
	assert.Equal(t, "gemini", id)
}

func TestResolve_UnknownIsNotRoutable(t *testing.T) {
	r := Default()

	m := r.Resolve("does-not-exist")
	assert.Equal(t, "does-not-exist", m.ID)
	assert.False(t, m.Routable())
	assert.False(t, r.Known("does-not-exist"))

	_, ok := r.ModelForProvider("Nobody")
	assert.False(t, ok)
}

func TestResolve_DeepseekHasNoProvider(t *testing.T) {
	r := Default()
	assert.True(t, r.Known("deepseek"))
	assert.False(t, r.Resolve("deepseek").Routable())
}

func TestLocked(t *testing.T) {
	r := Default()

	assert.True(t, r.Locked("claude", models.PlanBasic))
	assert.True(t, r.Locked("grok", ""))
	assert.False(t, r.Locked("claude", models.PlanPremium))
	assert.False(t, r.Locked("deepseek", models.PlanBasic))
}

func TestModels_ReturnsCopy(t *testing.T) {
	r := Default()
	list := r.Models()
	list[0].Versions[0] = "mutated"
	list[0].ID = "mutated"

	assert.Equal(t, "chatgpt", r.Models()[0].ID)
	assert.Equal(t, "gpt-4o", r.Models()[0].Versions[0])
}

func TestHistoryFields(t *testing.T) {
	fields := HistoryFields()
	require.Len(t, fields, 7)
	assert.Equal(t, HistoryField{Field: "openai_messages", Provider: "OpenAI"}, fields[0])
}

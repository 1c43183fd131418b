package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ALLAI_CHAT_BASE_URL", "")
	t.Setenv("ALLAI_API_BASE_URL", "")

	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.ChatBaseURL)
	assert.True(t, cfg.EnabledModels["gemini"])
	assert.Equal(t, 2*time.Minute, cfg.Timeout.Duration)
}

func TestLoadClientConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
chat_base_url = "https://chat.example.com/"
timeout = "30s"

[enabled_models]
chatgpt = true

[selected_versions]
chatgpt = "gpt-5"
`), 0600))
	t.Setenv("ALLAI_CHAT_BASE_URL", "")
	t.Setenv("ALLAI_API_BASE_URL", "https://api.example.com/")

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", cfg.ChatBaseURL)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Duration)
	assert.True(t, cfg.EnabledModels["chatgpt"])
	assert.Equal(t, "gpt-5", cfg.SelectedVersions["chatgpt"])
}

func TestSaveClientConfig_RoundTrip(t *testing.T) {
	t.Setenv("ALLAI_CHAT_BASE_URL", "")
	t.Setenv("ALLAI_API_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultClientConfig()
	cfg.ChatBaseURL = "http://chat:9000"
	require.NoError(t, SaveClientConfig(path, cfg))

	loaded, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://chat:9000", loaded.ChatBaseURL)
	assert.Equal(t, cfg.SelectedVersions, loaded.SelectedVersions)
}

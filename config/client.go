package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig configures the terminal chat client.
type ClientConfig struct {
	ChatBaseURL      string            `toml:"chat_base_url"`
	APIBaseURL       string            `toml:"api_base_url"`
	Timeout          Duration          `toml:"timeout"`
	EnabledModels    map[string]bool   `toml:"enabled_models"`
	SelectedVersions map[string]string `toml:"selected_versions"`
}

// Duration decodes TOML strings such as "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultClientConfig mirrors the web client's initial state.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		ChatBaseURL: "http://localhost:8000",
		APIBaseURL:  "http://localhost:4000",
		Timeout:     Duration{2 * time.Minute},
		EnabledModels: map[string]bool{
			"chatgpt":  false,
			"gemini":   true,
			"deepseek": false,
			"groq":     true,
			"grok":     false,
			"claude":   false,
		},
		SelectedVersions: map[string]string{
			"chatgpt":  "gpt-4o",
			"gemini":   "gemini-2.0-flash",
			"deepseek": "deepseek-chat",
			"groq":     "openai/gpt-oss-20b",
		},
	}
}

// ConfigDir returns ~/.allai.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".allai"), nil
}

// LoadClientConfig reads path over the defaults. A missing file is not an
// error. ALLAI_CHAT_BASE_URL and ALLAI_API_BASE_URL override the file.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("ALLAI_CHAT_BASE_URL"); v != "" {
		cfg.ChatBaseURL = v
	}
	if v := os.Getenv("ALLAI_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	cfg.ChatBaseURL = strings.TrimRight(cfg.ChatBaseURL, "/")
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.Timeout.Duration <= 0 {
		cfg.Timeout = Duration{2 * time.Minute}
	}
	return cfg, nil
}

// SaveClientConfig writes cfg to path, creating the directory if needed.
func SaveClientConfig(path string, cfg *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

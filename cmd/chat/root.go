package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"allai/client"
	"allai/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "chat",
	Short:         "Chat with several AI models side by side",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runREPL,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default ~/.allai/config.toml)")
}

// paths resolves the config and credentials files.
func paths() (cfgPath, credsPath string, err error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", "", err
	}
	cfgPath = configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, "config.toml")
	}
	return cfgPath, filepath.Join(dir, "credentials.toml"), nil
}

func loadEnv() (*config.ClientConfig, string, client.Credentials, error) {
	cfgPath, credsPath, err := paths()
	if err != nil {
		return nil, "", client.Credentials{}, err
	}
	cfg, err := config.LoadClientConfig(cfgPath)
	if err != nil {
		return nil, "", client.Credentials{}, err
	}
	creds, err := client.LoadCredentials(credsPath)
	if err != nil {
		return nil, "", client.Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	return cfg, credsPath, creds, nil
}

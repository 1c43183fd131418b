package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"allai/models"
)

// Credentials is the cached sign-in state.
type Credentials struct {
	Token string            `toml:"token"`
	User  models.PublicUser `toml:"user"`
}

// AccountID is the identifier the chat service keys sessions by.
func (c Credentials) AccountID() string {
	if c.User.Email != "" {
		return c.User.Email
	}
	return c.User.ID
}

func (c Credentials) Authenticated() bool {
	return c.Token != ""
}

// LoadCredentials returns empty credentials when path does not exist.
func LoadCredentials(path string) (Credentials, error) {
	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	return creds, nil
}

func SaveCredentials(path string, creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(creds)
}

func ClearCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

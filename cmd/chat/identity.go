package main

import (
	"sync"

	"allai/client"
)

// identity is the signed-in account as seen by the chat state engine.
type identity struct {
	mu    sync.RWMutex
	creds client.Credentials
}

func (i *identity) Token() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.creds.Token
}

func (i *identity) AccountID() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.creds.AccountID()
}

func (i *identity) set(creds client.Credentials) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.creds = creds
}

package services

import (
	"context"
	"sync"

	"allai/models"
)

// MemoryUserStore keeps users in process memory. Accounts are lost on restart.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (m *MemoryUserStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *MemoryUserStore) Create(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NormalizeEmail(user.Email)
	if _, ok := m.users[key]; ok {
		return ErrEmailTaken
	}
	m.users[key] = user
	return nil
}

func (m *MemoryUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[NormalizeEmail(email)]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// Package session provides the default in-process SessionStore: a mutex
// guarded map from username to the active opaque token. Sessions do not
// survive a restart.
package session

import (
	"context"
	"sync"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// MemoryStore implements ports.SessionStore over a process-wide map.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[username]
	if !ok {
		return "", domain.ErrSessionInvalid
	}
	return token, nil
}

// Set stores the token for username, replacing any previous one.
func (s *MemoryStore) Set(_ context.Context, username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[username] = token
	return nil
}

// Delete removes the entry. Deleting an absent username is a no-op.
func (s *MemoryStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, username)
	return nil
}

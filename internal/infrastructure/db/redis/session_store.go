package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore implements ports.SessionStore on Redis, for deployments
// where sessions should survive a process restart. Semantics match the
// in-memory store: one token per username, no TTL, SET replaces.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, username string) (string, error) {
	token, err := s.client.Get(ctx, s.key(username)).Result()
	if err == redis.Nil {
		return "", domain.ErrSessionInvalid
	}
	if err != nil {
		return "", fmt.Errorf("session get: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Set(ctx context.Context, username, token string) error {
	if err := s.client.Set(ctx, s.key(username), token, 0).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, s.key(username)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(username string) string {
	return sessionKeyPrefix + username
}

package ports

import (
	"context"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// LoginResult carries the outcome of a successful login: the
// authenticated user and the signed cookie value to hand to the client.
type LoginResult struct {
	User   *domain.User
	Cookie string
}

// AuthService implements login, logout, and current-user resolution.
// Login failures are reported as domain.ErrInvalidCredentials regardless
// of whether the username exists.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Logout clears the presented session. Idempotent: an absent or
	// already-cleared session is a no-op.
	Logout(ctx context.Context, cookieValue string)
	// CurrentUser resolves the authoritative user record behind the
	// presented cookie, or domain.ErrSessionInvalid.
	CurrentUser(ctx context.Context, cookieValue string) (*domain.User, error)
}

// SessionManager owns the per-login opaque token lifecycle: issuing,
// validating against the server-side store, and clearing.
type SessionManager interface {
	// Create issues a fresh token for user, replacing any previous one,
	// and returns the signed client cookie value.
	Create(ctx context.Context, user *domain.User) (string, error)
	// Validate verifies the cookie signature and the embedded token
	// against the store, then re-fetches the current user record.
	// Returns domain.ErrSessionInvalid for anything not provably live.
	Validate(ctx context.Context, cookieValue string) (*domain.User, error)
	// Clear removes the session behind cookieValue. Idempotent.
	Clear(ctx context.Context, cookieValue string)
}

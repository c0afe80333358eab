package ports

import "context"

// SessionStore holds the authoritative username -> token mapping for
// active sessions. At most one token is stored per username; Set replaces
// any previous entry, which lazily invalidates the older session on its
// next validation.
//
// Implementations must make each operation atomic: concurrent logins for
// the same username race last-writer-wins, but no call may observe a
// partially written entry.
type SessionStore interface {
	// Get returns the active token for username, or ErrSessionInvalid
	// when no session exists.
	Get(ctx context.Context, username string) (string, error)
	Set(ctx context.Context, username, token string) error
	// Delete removes the entry. Deleting an absent entry is a no-op.
	Delete(ctx context.Context, username string) error
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medivault/clinical-portal/internal/api/metrics"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// SessionManager implements ports.SessionManager.
//
// Each login mints a 32-byte random opaque token. The server-side store
// maps username -> token (one entry per username, replace-on-login); the
// client holds an HS256-signed JWT carrying {username, role, token}. The
// JWT only makes the client blob tamper-evident — authority always lies
// with the store, so replacing or deleting the stored token invalidates
// any cookie still in the wild.
type SessionManager struct {
	store  ports.SessionStore
	users  ports.UserRepository
	audit  ports.AuditSink
	secret []byte
}

func NewSessionManager(store ports.SessionStore, users ports.UserRepository, audit ports.AuditSink, secret string) *SessionManager {
	return &SessionManager{store: store, users: users, audit: audit, secret: []byte(secret)}
}

// Create issues a fresh token for user and returns the signed cookie
// value. Any previous token for the username is overwritten, which lazily
// invalidates the older session on its next validation.
func (m *SessionManager) Create(ctx context.Context, user *domain.User) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	// A replacing login keeps the session count where it is.
	_, getErr := m.store.Get(ctx, user.Username)
	replaced := getErr == nil

	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"token":    token,
	}
	cookie, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}

	// Signed first: if the store write fails here, no state was touched
	// and the cookie is never handed out.
	if err := m.store.Set(ctx, user.Username, token); err != nil {
		m.audit.Record(fmt.Sprintf("session store write failed for %s: %v", user.Username, err), domain.AuditError)
		return "", fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}
	if !replaced {
		metrics.ActiveSessions.Inc()
	}

	return cookie, nil
}

// Validate resolves the identity behind cookieValue.
//
// A missing, unparsable, or tampered cookie is anonymous. A parsable
// cookie whose token is absent from or different to the stored one is
// stale or hijacked: that case is audited at WARNING before being treated
// as anonymous. On success the user record is re-fetched from the
// repository; the role inside the cookie is never trusted.
func (m *SessionManager) Validate(ctx context.Context, cookieValue string) (*domain.User, error) {
	username, token, ok := m.parseCookie(cookieValue)
	if !ok {
		return nil, domain.ErrSessionInvalid
	}

	expected, err := m.store.Get(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			m.audit.Record(fmt.Sprintf("invalid or expired token for %s", username), domain.AuditWarning)
		} else {
			m.audit.Record(fmt.Sprintf("session store read failed for %s: %v", username, err), domain.AuditError)
		}
		return nil, domain.ErrSessionInvalid
	}
	if expected != token {
		m.audit.Record(fmt.Sprintf("invalid or expired token for %s", username), domain.AuditWarning)
		return nil, domain.ErrSessionInvalid
	}

	user, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			m.audit.Record(fmt.Sprintf("user lookup failed during session validation for %s: %v", username, err), domain.AuditError)
		}
		return nil, domain.ErrSessionInvalid
	}
	return user, nil
}

// Clear removes the session behind cookieValue from the store. Only the
// cookie holding the live token clears anything: an unparsable, stale, or
// already-cleared cookie is a no-op, so logging out with an old cookie
// cannot kill a newer session or drift the session gauge.
func (m *SessionManager) Clear(ctx context.Context, cookieValue string) {
	username, token, ok := m.parseCookie(cookieValue)
	if !ok {
		return
	}

	stored, err := m.store.Get(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionInvalid) {
			m.audit.Record(fmt.Sprintf("session store read failed for %s: %v", username, err), domain.AuditError)
		}
		return
	}
	if stored != token {
		return
	}

	if err := m.store.Delete(ctx, username); err != nil {
		m.audit.Record(fmt.Sprintf("session store delete failed for %s: %v", username, err), domain.AuditError)
		return
	}
	metrics.ActiveSessions.Dec()
}

// parseCookie verifies the signature and extracts {username, token}.
func (m *SessionManager) parseCookie(cookieValue string) (username, token string, ok bool) {
	if cookieValue == "" {
		return "", "", false
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", false
	}

	username, _ = claims["username"].(string)
	token, _ = claims["token"].(string)
	if username == "" || token == "" {
		return "", "", false
	}
	return username, token, true
}

// newSessionToken returns 32 bytes of crypto/rand entropy, URL-safe.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

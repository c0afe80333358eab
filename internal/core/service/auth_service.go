package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// AuthService implements login, logout, and current-user resolution.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionManager
	audit    ports.AuditSink
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionManager, audit ports.AuditSink) *AuthService {
	return &AuthService{users: users, sessions: sessions, audit: audit}
}

// Login verifies the credentials and establishes a session. A wrong
// password and an unknown username both yield ErrInvalidCredentials, so
// the response never reveals whether the username exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit.Record(fmt.Sprintf("failed login for username=%s", username), domain.AuditWarning)
			return nil, domain.ErrInvalidCredentials
		}
		s.audit.Record(fmt.Sprintf("user lookup failed during login for %s: %v", username, err), domain.AuditError)
		return nil, fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.audit.Record(fmt.Sprintf("failed login for username=%s", username), domain.AuditWarning)
		return nil, domain.ErrInvalidCredentials
	}

	cookie, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(fmt.Sprintf("user %s logged in", user.Username), domain.AuditInfo)
	return &ports.LoginResult{User: user, Cookie: cookie}, nil
}

// Logout clears the presented session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) {
	if user, err := s.sessions.Validate(ctx, cookieValue); err == nil {
		s.audit.Record(fmt.Sprintf("user %s logged out", user.Username), domain.AuditInfo)
	}
	s.sessions.Clear(ctx, cookieValue)
}

// CurrentUser resolves the authoritative user behind the cookie.
func (s *AuthService) CurrentUser(ctx context.Context, cookieValue string) (*domain.User, error) {
	return s.sessions.Validate(ctx, cookieValue)
}

// HashPassword is the single place a plaintext password is turned into
// its stored form.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

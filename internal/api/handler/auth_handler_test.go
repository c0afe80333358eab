package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/api/middleware"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

type stubAuthService struct {
	result     *ports.LoginResult
	err        error
	loggedOut  []string
	currentErr error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAuthService) Logout(ctx context.Context, cookieValue string) {
	s.loggedOut = append(s.loggedOut, cookieValue)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, cookieValue string) (*domain.User, error) {
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return s.result.User, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_LoginSetsSessionCookie(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{result: &ports.LoginResult{
		User:   &domain.User{ID: "u1", Username: "alice_patient", Role: domain.RolePatient},
		Cookie: "signed-session-blob",
	}}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice_patient","password":"patient123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var sessionCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatalf("session cookie not set")
	}
	if sessionCookie.Value != "signed-session-blob" {
		t.Fatalf("unexpected cookie value %q", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	if !strings.Contains(rec.Body.String(), `"username":"alice_patient"`) {
		t.Fatalf("response missing user: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "full_name") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks sensitive fields: %s", rec.Body.String())
	}
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice_patient","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials to propagate, got %v", err)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName && ck.Value != "" {
			t.Fatalf("failed login must not set a session cookie")
		}
	}
}

func TestAuthHandler_LoginMissingFields(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice_patient"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %v", err)
	}
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "signed-session-blob"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "signed-session-blob" {
		t.Fatalf("logout not forwarded: %v", svc.loggedOut)
	}

	var sessionCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil || sessionCookie.MaxAge >= 0 || sessionCookie.Value != "" {
		t.Fatalf("cookie not expired: %+v", sessionCookie)
	}
}

func TestAuthHandler_LogoutWithoutCookie(t *testing.T) {
	e := newEcho()
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout should be idempotent, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.loggedOut) != 0 {
		t.Fatalf("no session to forward, got %v", svc.loggedOut)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserContextKey, &domain.User{ID: "u1", Username: "alice_patient", Role: domain.RolePatient})

	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"role":"patient"`) {
		t.Fatalf("response missing role: %s", rec.Body.String())
	}
}

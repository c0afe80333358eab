package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client)
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.Get(ctx, "dr_bob"); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}

	if err := store.Set(ctx, "dr_bob", "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	token, err := store.Get(ctx, "dr_bob")
	if err != nil || token != "tok-1" {
		t.Fatalf("Get: %q %v", token, err)
	}

	// Replacement invalidates the previous token.
	_ = store.Set(ctx, "dr_bob", "tok-2")
	token, _ = store.Get(ctx, "dr_bob")
	if token != "tok-2" {
		t.Fatalf("expected tok-2, got %q", token)
	}

	if err := store.Delete(ctx, "dr_bob"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "dr_bob"); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after delete, got %v", err)
	}
	if err := store.Delete(ctx, "dr_bob"); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}

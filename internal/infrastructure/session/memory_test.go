package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "alice"); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid for missing entry, got %v", err)
	}

	if err := store.Set(ctx, "alice", "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	token, err := store.Get(ctx, "alice")
	if err != nil || token != "tok-1" {
		t.Fatalf("Get: %q %v", token, err)
	}

	// A second Set replaces the first token.
	_ = store.Set(ctx, "alice", "tok-2")
	token, _ = store.Get(ctx, "alice")
	if token != "tok-2" {
		t.Fatalf("expected tok-2, got %q", token)
	}

	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "alice"); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryStore_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			_ = store.Set(ctx, user, fmt.Sprintf("tok-%d", i))
			if _, err := store.Get(ctx, user); err != nil {
				t.Errorf("Get(%s): %v", user, err)
			}
		}(i)
	}
	wg.Wait()
}

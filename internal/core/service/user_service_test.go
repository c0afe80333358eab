package service

import (
	"context"
	"errors"
	"testing"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

func TestUserService_CreateEncryptsAtRest(t *testing.T) {
	cipher := testCipher(t)
	repo := &stubUserRepo{}
	sink := &recorderSink{}
	svc := NewUserService(repo, cipher, sink)

	view, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "bob_x",
		Password: "longenough1",
		FullName: "Bob X",
		Email:    "bob@example.com",
		Role:     domain.RolePatient,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored := repo.users[0]
	if stored.FullName == "Bob X" || stored.Email == "bob@example.com" {
		t.Fatalf("PII stored in plaintext: %+v", stored)
	}
	if stored.PasswordHash == "longenough1" || stored.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}

	name, err := cipher.Decrypt(stored.FullName)
	if err != nil || name != "Bob X" {
		t.Fatalf("stored ciphertext does not round-trip: %q %v", name, err)
	}

	if view.Personal.FullName != "Bob X" || view.Personal.Email != "bob@example.com" {
		t.Fatalf("view should carry plaintext: %+v", view.Personal)
	}
	if got := sink.count(domain.AuditInfo, "admin created user bob_x (role=patient)"); got != 1 {
		t.Fatalf("expected one creation entry, got %d", got)
	}
}

func TestUserService_CreateRejectsBadRole(t *testing.T) {
	svc := NewUserService(&stubUserRepo{}, testCipher(t), &recorderSink{})

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "x", Password: "p", FullName: "X", Email: "x@example.com", Role: "superuser",
	})
	if err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestUserService_ListDecryptsWithFallback(t *testing.T) {
	cipher := testCipher(t)
	repo := &stubUserRepo{users: []*domain.User{
		{
			ID: "u1", Username: "alice_patient", Role: domain.RolePatient,
			FullName: encryptField(t, cipher, "Alice Anderson"),
			Email:    encryptField(t, cipher, "alice@example.com"),
		},
		{
			ID: "u2", Username: "corrupt_user", Role: domain.RolePatient,
			FullName: "not-real-ciphertext",
			Email:    encryptField(t, cipher, "ok@example.com"),
		},
	}}
	sink := &recorderSink{}
	svc := NewUserService(repo, cipher, sink)

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Personal.FullName != "Alice Anderson" {
		t.Fatalf("good field should decrypt, got %q", views[0].Personal.FullName)
	}
	if views[1].Personal.FullName != "[Decryption Error]" {
		t.Fatalf("bad field should fall back, got %q", views[1].Personal.FullName)
	}
	if views[1].Personal.Email != "ok@example.com" {
		t.Fatalf("one bad field must not poison its neighbours, got %q", views[1].Personal.Email)
	}
	if got := sink.count(domain.AuditWarning, "failed to decrypt user_pii for user corrupt_user"); got != 1 {
		t.Fatalf("expected one decrypt warning, got %d", got)
	}
}

func TestUserService_MutationDatastoreFailure(t *testing.T) {
	repo := &stubUserRepo{err: errors.New("connection refused")}
	sink := &recorderSink{}
	svc := NewUserService(repo, testCipher(t), sink)
	ctx := context.Background()

	_, err := svc.Create(ctx, ports.CreateUserInput{
		Username: "bob_x", Password: "longenough1",
		FullName: "Bob X", Email: "bob@example.com", Role: domain.RolePatient,
	})
	if !errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("create: expected datastore error, got %v", err)
	}
	if err := svc.Update(ctx, "u1", ports.UpdateUserInput{FullName: "Bob Y"}); !errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("update: expected datastore error, got %v", err)
	}
	if err := svc.Delete(ctx, "admin", "u1"); !errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("delete: expected datastore error, got %v", err)
	}

	errorEntries := 0
	for _, e := range sink.entries {
		if e.level == domain.AuditError {
			errorEntries++
		}
	}
	if errorEntries != 3 {
		t.Fatalf("expected one ERROR entry per failed mutation, got %d: %v", errorEntries, sink.entries)
	}
}

func TestUserService_CreateDuplicateStaysConflict(t *testing.T) {
	repo := &stubUserRepo{users: []*domain.User{
		{ID: "u1", Username: "bob_x", Role: domain.RolePatient},
	}}
	sink := &recorderSink{}
	svc := NewUserService(repo, testCipher(t), sink)

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "bob_x", Password: "longenough1",
		FullName: "Bob X", Email: "bob@example.com", Role: domain.RolePatient,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("conflict must not be reported as an outage: %v", err)
	}
	if got := sink.count(domain.AuditError, ""); got != 0 {
		t.Fatalf("conflict must not be audited as ERROR, got %v", sink.entries)
	}
}

func TestUserService_ListDatastoreFailure(t *testing.T) {
	repo := &stubUserRepo{err: errors.New("no reachable servers")}
	sink := &recorderSink{}
	svc := NewUserService(repo, testCipher(t), sink)

	_, err := svc.List(context.Background())
	if !errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("expected datastore error, got %v", err)
	}
	if got := sink.count(domain.AuditError, "error fetching users"); got != 1 {
		t.Fatalf("expected one error entry, got %d", got)
	}
}

func TestUserService_UpdateKeepsOmittedFields(t *testing.T) {
	cipher := testCipher(t)
	origEmail := encryptField(t, cipher, "alice@example.com")
	repo := &stubUserRepo{users: []*domain.User{
		{
			ID: "u1", Username: "alice_patient", Role: domain.RolePatient,
			FullName: encryptField(t, cipher, "Alice Anderson"),
			Email:    origEmail,
		},
	}}
	svc := NewUserService(repo, cipher, &recorderSink{})

	err := svc.Update(context.Background(), "u1", ports.UpdateUserInput{FullName: "Alice B. Anderson"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	updated := repo.users[0]
	name, err := cipher.Decrypt(updated.FullName)
	if err != nil || name != "Alice B. Anderson" {
		t.Fatalf("full name not updated: %q %v", name, err)
	}
	if updated.Email != origEmail {
		t.Fatalf("omitted email should be untouched")
	}
	if updated.Role != domain.RolePatient {
		t.Fatalf("omitted role should be untouched, got %q", updated.Role)
	}
}

func TestUserService_DeleteSelfRefused(t *testing.T) {
	repo := &stubUserRepo{users: []*domain.User{
		{ID: "u1", Username: "carol_admin", Role: domain.RoleAdmin},
	}}
	svc := NewUserService(repo, testCipher(t), &recorderSink{})

	err := svc.Delete(context.Background(), "u1", "u1")
	if !errors.Is(err, domain.ErrSelfDelete) {
		t.Fatalf("expected self-delete refusal, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("nothing should be deleted, got %v", repo.deleted)
	}
}

func TestUserService_DeleteOther(t *testing.T) {
	repo := &stubUserRepo{users: []*domain.User{
		{ID: "u1", Username: "carol_admin", Role: domain.RoleAdmin},
		{ID: "u2", Username: "alice_patient", Role: domain.RolePatient},
	}}
	sink := &recorderSink{}
	svc := NewUserService(repo, testCipher(t), sink)

	if err := svc.Delete(context.Background(), "u1", "u2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "u2" {
		t.Fatalf("unexpected deletions: %v", repo.deleted)
	}
	if got := sink.count(domain.AuditInfo, "admin deleted user id=u2"); got != 1 {
		t.Fatalf("expected one deletion entry, got %d", got)
	}
}

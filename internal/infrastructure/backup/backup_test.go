package backup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

type fixedUserRepo struct {
	users []*domain.User
	err   error
}

func (r *fixedUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *fixedUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.users, r.err
}
func (r *fixedUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}
func (r *fixedUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }
func (r *fixedUserRepo) Delete(ctx context.Context, id string) error         { return nil }

type fixedApptRepo struct {
	appts []*domain.Appointment
	err   error
}

func (r *fixedApptRepo) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return nil, domain.ErrAppointmentNotFound
}
func (r *fixedApptRepo) ByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error) {
	return nil, nil
}
func (r *fixedApptRepo) ByMedic(ctx context.Context, medicID string, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return nil, nil
}
func (r *fixedApptRepo) All(ctx context.Context) ([]*domain.Appointment, error) {
	return r.appts, r.err
}
func (r *fixedApptRepo) Create(ctx context.Context, appt *domain.Appointment) error  { return nil }
func (r *fixedApptRepo) Update(ctx context.Context, appt *domain.Appointment) error  { return nil }
func (r *fixedApptRepo) Delete(ctx context.Context, id string) error                 { return nil }
func (r *fixedApptRepo) CountByMonth(ctx context.Context) (map[string]int, error)    { return nil, nil }

type captureSink struct {
	messages []string
}

func (s *captureSink) Record(message string, level domain.AuditLevel) {
	s.messages = append(s.messages, message)
}

func TestBackup_WritesCiphertextAsIs(t *testing.T) {
	users := &fixedUserRepo{users: []*domain.User{
		{
			ID: "u1", Username: "alice_patient", Role: domain.RolePatient,
			PasswordHash: "$2a$10$hash",
			FullName:     "opaque-ciphertext-name",
			Email:        "opaque-ciphertext-email",
		},
	}}
	appts := &fixedApptRepo{appts: []*domain.Appointment{
		{ID: "a1", PatientID: "u1", MedicID: "m1", Date: "2026-09-15",
			Status: domain.StatusScheduled, Details: "opaque-ciphertext-details"},
	}}
	sink := &captureSink{}

	svc := NewService(users, appts, sink, t.TempDir())
	path, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var snap struct {
		Users []struct {
			Username     string `json:"username"`
			PasswordHash string `json:"password_hash"`
			FullName     string `json:"full_name"`
		} `json:"users"`
		Appointments []struct {
			ID      string `json:"id"`
			Details string `json:"details"`
		} `json:"appointments"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	if len(snap.Users) != 1 || len(snap.Appointments) != 1 {
		t.Fatalf("unexpected snapshot contents: %s", raw)
	}
	if snap.Users[0].FullName != "opaque-ciphertext-name" {
		t.Fatalf("PII must be dumped as ciphertext, got %q", snap.Users[0].FullName)
	}
	if snap.Users[0].PasswordHash != "$2a$10$hash" {
		t.Fatalf("password hash must be preserved, got %q", snap.Users[0].PasswordHash)
	}
	if snap.Appointments[0].Details != "opaque-ciphertext-details" {
		t.Fatalf("details must be dumped as ciphertext, got %q", snap.Appointments[0].Details)
	}

	if len(sink.messages) != 1 || !strings.Contains(sink.messages[0], "backup created at ") {
		t.Fatalf("expected one audit entry, got %v", sink.messages)
	}
}

func TestBackup_DatastoreFailure(t *testing.T) {
	users := &fixedUserRepo{err: errors.New("no reachable servers")}
	svc := NewService(users, &fixedApptRepo{}, &captureSink{}, t.TempDir())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrDatastore) {
		t.Fatalf("expected datastore error, got %v", err)
	}
}

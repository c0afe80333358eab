package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/crypto/fieldcipher"
)

// stubUserRepo is an in-memory ports.UserRepository. A non-nil err makes
// every call fail with it, simulating a datastore outage.
type stubUserRepo struct {
	users   []*domain.User
	err     error
	nextID  int
	deleted []string
}

func (r *stubUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users, nil
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	created := *user
	r.nextID++
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.users = append(r.users, &created)
	clone := created
	return &clone, nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	for i, u := range r.users {
		if u.ID == user.ID {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// stubApptRepo is an in-memory ports.AppointmentRepository.
type stubApptRepo struct {
	appts []*domain.Appointment
	err   error
}

func (r *stubApptRepo) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.appts {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *stubApptRepo) ByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubApptRepo) ByMedic(ctx context.Context, medicID string, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.MedicID != medicID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *stubApptRepo) All(ctx context.Context) ([]*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.appts, nil
}

func (r *stubApptRepo) Create(ctx context.Context, appt *domain.Appointment) error {
	if r.err != nil {
		return r.err
	}
	clone := *appt
	r.appts = append(r.appts, &clone)
	return nil
}

func (r *stubApptRepo) Update(ctx context.Context, appt *domain.Appointment) error {
	if r.err != nil {
		return r.err
	}
	for i, a := range r.appts {
		if a.ID == appt.ID {
			clone := *appt
			r.appts[i] = &clone
			return nil
		}
	}
	return domain.ErrAppointmentNotFound
}

func (r *stubApptRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	for i, a := range r.appts {
		if a.ID == id {
			r.appts = append(r.appts[:i], r.appts[i+1:]...)
			return nil
		}
	}
	return domain.ErrAppointmentNotFound
}

func (r *stubApptRepo) CountByMonth(ctx context.Context) (map[string]int, error) {
	if r.err != nil {
		return nil, r.err
	}
	report := make(map[string]int)
	for _, a := range r.appts {
		if len(a.Date) >= 7 {
			report[a.Date[:7]]++
		}
	}
	return report, nil
}

// stubSessionStore is an in-memory ports.SessionStore with optional
// failure injection.
type stubSessionStore struct {
	tokens map[string]string
	err    error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{tokens: make(map[string]string)}
}

func (s *stubSessionStore) Get(ctx context.Context, username string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	token, ok := s.tokens[username]
	if !ok {
		return "", domain.ErrSessionInvalid
	}
	return token, nil
}

func (s *stubSessionStore) Set(ctx context.Context, username, token string) error {
	if s.err != nil {
		return s.err
	}
	s.tokens[username] = token
	return nil
}

func (s *stubSessionStore) Delete(ctx context.Context, username string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.tokens, username)
	return nil
}

// recorderSink captures audit events for assertions.
type auditEntry struct {
	message string
	level   domain.AuditLevel
}

type recorderSink struct {
	entries []auditEntry
}

func (r *recorderSink) Record(message string, level domain.AuditLevel) {
	r.entries = append(r.entries, auditEntry{message: message, level: level})
}

func (r *recorderSink) count(level domain.AuditLevel, substr string) int {
	n := 0
	for _, e := range r.entries {
		if e.level == level && strings.Contains(e.message, substr) {
			n++
		}
	}
	return n
}

func testCipher(t *testing.T) *fieldcipher.Cipher {
	t.Helper()
	c, err := fieldcipher.New(bytes.Repeat([]byte{0x42}, fieldcipher.KeySize))
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return c
}

func encryptField(t *testing.T, c *fieldcipher.Cipher, plaintext string) string {
	t.Helper()
	ct, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt %q: %v", plaintext, err)
	}
	return ct
}

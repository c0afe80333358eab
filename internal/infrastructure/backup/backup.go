// Package backup dumps the stored records to timestamped JSON files.
// Records are written exactly as persisted: PII stays ciphertext and
// passwords stay hashed, so a backup file leaks nothing the database
// does not.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// Service implements ports.BackupService.
type Service struct {
	users ports.UserRepository
	appts ports.AppointmentRepository
	audit ports.AuditSink
	dir   string
}

func NewService(users ports.UserRepository, appts ports.AppointmentRepository, audit ports.AuditSink, dir string) *Service {
	return &Service{users: users, appts: appts, audit: audit, dir: dir}
}

type userRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	FullName     string `json:"full_name"` // ciphertext
	Email        string `json:"email"`     // ciphertext
}

type appointmentRecord struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	MedicID   string `json:"medic_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Details   string `json:"details,omitempty"` // ciphertext
}

type snapshot struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	Users        []userRecord        `json:"users"`
	Appointments []appointmentRecord `json:"appointments"`
}

// Run writes a snapshot file and returns its path.
func (s *Service) Run(ctx context.Context) (string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}
	appts, err := s.appts.All(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}

	snap := snapshot{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Users:        make([]userRecord, 0, len(users)),
		Appointments: make([]appointmentRecord, 0, len(appts)),
	}
	for _, u := range users {
		snap.Users = append(snap.Users, userRecord{
			ID:           u.ID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			FullName:     u.FullName,
			Email:        u.Email,
		})
	}
	for _, a := range appts {
		snap.Appointments = append(snap.Appointments, appointmentRecord{
			ID:        a.ID,
			PatientID: a.PatientID,
			MedicID:   a.MedicID,
			Date:      a.Date,
			Status:    string(a.Status),
			Details:   a.Details,
		})
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("backup dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("backup_%s.json", snap.CreatedAt.Format("20060102_150405")))

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	s.audit.Record(fmt.Sprintf("backup created at %s", path), domain.AuditInfo)
	return path, nil
}

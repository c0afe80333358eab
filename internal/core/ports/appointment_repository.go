package ports

import (
	"context"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// AppointmentRepository defines persistence operations for appointments.
// The Details field is stored as ciphertext; status and date are plain.
type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// ByPatient returns all appointments for the given patient.
	ByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error)
	// ByMedic returns the medic's appointments, optionally filtered by
	// status (empty = all).
	ByMedic(ctx context.Context, medicID string, status domain.AppointmentStatus) ([]*domain.Appointment, error)
	All(ctx context.Context) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) error
	Update(ctx context.Context, appt *domain.Appointment) error
	Delete(ctx context.Context, id string) error
	// CountByMonth aggregates appointment counts keyed by "YYYY-MM".
	CountByMonth(ctx context.Context) (map[string]int, error)
}

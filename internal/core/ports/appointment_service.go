package ports

import (
	"context"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// AppointmentView is the decrypted-for-display representation of an
// appointment. PatientName is resolved and decrypted for medic views and
// empty elsewhere.
type AppointmentView struct {
	ID          string `json:"id"`
	PatientID   string `json:"patient_id"`
	MedicID     string `json:"medic_id"`
	PatientName string `json:"patient_name,omitempty"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Details     string `json:"details,omitempty"`
}

// PatientSummary is a medic's view of an assigned patient.
type PatientSummary struct {
	ID       string              `json:"id"`
	Username string              `json:"username"`
	Personal domain.PersonalData `json:"personal"`
}

// PatientDashboard is everything the patient page shows: the patient's
// own decrypted personal data plus their appointment history.
type PatientDashboard struct {
	Personal     domain.PersonalData `json:"personal"`
	Appointments []AppointmentView   `json:"appointments"`
}

// MedicDashboard is everything the medic page shows: assigned patients
// and upcoming (scheduled) appointments.
type MedicDashboard struct {
	Patients     []PatientSummary  `json:"patients"`
	Appointments []AppointmentView `json:"appointments"`
}

// CreateAppointmentInput carries the plaintext fields for a new
// appointment; Details is encrypted by the service before persistence.
type CreateAppointmentInput struct {
	PatientID string
	Date      string
	Details   string
}

// UpdateAppointmentInput carries the mutable appointment fields.
type UpdateAppointmentInput struct {
	Status  string
	Details string
}

// AppointmentService defines the role-scoped appointment use cases.
// Mutations are permitted only to the medic owning the appointment.
type AppointmentService interface {
	PatientDashboard(ctx context.Context, patient *domain.User) (*PatientDashboard, error)
	MedicDashboard(ctx context.Context, medic *domain.User) (*MedicDashboard, error)
	Create(ctx context.Context, medic *domain.User, input CreateAppointmentInput) (*AppointmentView, error)
	Update(ctx context.Context, medic *domain.User, id string, input UpdateAppointmentInput) error
	Delete(ctx context.Context, medic *domain.User, id string) error
	// MonthlyReport aggregates appointment counts by "YYYY-MM" for the
	// admin dashboard.
	MonthlyReport(ctx context.Context) (map[string]int, error)
}

// BackupService dumps the stored (still encrypted/hashed) records to a
// timestamped file and returns its path.
type BackupService interface {
	Run(ctx context.Context) (string, error)
}

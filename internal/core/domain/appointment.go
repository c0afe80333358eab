package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var ErrAppointmentNotFound = errors.New("appointment not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidStatus = errors.New("invalid appointment status")

// ValidStatus reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment links a patient to a medic on a date. Details holds
// ciphertext produced by the field cipher. Mutation rights belong to the
// medic whose ID matches MedicID.
type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	MedicID   string            `json:"medic_id"`
	Date      string            `json:"date"` // YYYY-MM-DD
	Status    AppointmentStatus `json:"status"`
	Details   string            `json:"-"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

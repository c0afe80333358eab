package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// AppointmentService implements the role-scoped appointment use cases.
// Details are encrypted before writes; mutation rights belong to the
// medic whose ID matches the appointment's MedicID.
type AppointmentService struct {
	appts  ports.AppointmentRepository
	users  ports.UserRepository
	cipher ports.FieldCipher
	audit  ports.AuditSink
}

func NewAppointmentService(appts ports.AppointmentRepository, users ports.UserRepository, cipher ports.FieldCipher, audit ports.AuditSink) *AppointmentService {
	return &AppointmentService{appts: appts, users: users, cipher: cipher, audit: audit}
}

// PatientDashboard returns the patient's decrypted personal data and
// their full appointment history. Appointment details stay hidden on the
// patient view.
func (s *AppointmentService) PatientDashboard(ctx context.Context, patient *domain.User) (*ports.PatientDashboard, error) {
	appts, err := s.appts.ByPatient(ctx, patient.ID)
	if err != nil {
		s.audit.Record(fmt.Sprintf("error fetching appointments for patient %s: %v", patient.Username, err), domain.AuditError)
		return nil, fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}

	views := make([]ports.AppointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, ports.AppointmentView{
			ID:        a.ID,
			PatientID: a.PatientID,
			MedicID:   a.MedicID,
			Date:      a.Date,
			Status:    string(a.Status),
		})
	}

	s.audit.Record(fmt.Sprintf("patient %s accessed their dashboard", patient.Username), domain.AuditInfo)
	return &ports.PatientDashboard{
		Personal:     decryptPersonal(s.cipher, s.audit, patient),
		Appointments: views,
	}, nil
}

// MedicDashboard returns the medic's assigned patients (everyone they
// have an appointment with) and their scheduled appointments, with
// patient names and details decrypted per field.
func (s *AppointmentService) MedicDashboard(ctx context.Context, medic *domain.User) (*ports.MedicDashboard, error) {
	all, err := s.appts.ByMedic(ctx, medic.ID, "")
	if err != nil {
		s.audit.Record(fmt.Sprintf("error fetching appointments for medic %s: %v", medic.Username, err), domain.AuditError)
		return nil, fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}

	patients := make([]ports.PatientSummary, 0)
	names := make(map[string]string) // patient ID -> decrypted name
	seen := make(map[string]bool)
	for _, a := range all {
		if seen[a.PatientID] {
			continue
		}
		seen[a.PatientID] = true

		patient, err := s.users.FindByID(ctx, a.PatientID)
		if err != nil {
			s.audit.Record(fmt.Sprintf("error fetching patient %s: %v", a.PatientID, err), domain.AuditError)
			continue
		}
		personal := decryptPersonal(s.cipher, s.audit, patient)
		names[patient.ID] = personal.FullName
		patients = append(patients, ports.PatientSummary{
			ID:       patient.ID,
			Username: patient.Username,
			Personal: personal,
		})
	}

	scheduled := make([]ports.AppointmentView, 0)
	for _, a := range all {
		if a.Status != domain.StatusScheduled {
			continue
		}
		scheduled = append(scheduled, s.view(a, names[a.PatientID]))
	}

	s.audit.Record(fmt.Sprintf("medic %s accessed medic dashboard", medic.Username), domain.AuditInfo)
	return &ports.MedicDashboard{Patients: patients, Appointments: scheduled}, nil
}

// Create schedules a new appointment owned by the calling medic.
func (s *AppointmentService) Create(ctx context.Context, medic *domain.User, input ports.CreateAppointmentInput) (*ports.AppointmentView, error) {
	patient, err := s.users.FindByID(ctx, input.PatientID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, failDatastore(s.audit, "fetching patient id="+input.PatientID, err)
	}
	if patient.Role != domain.RolePatient {
		return nil, fmt.Errorf("%w: %s is not a patient", domain.ErrUserNotFound, input.PatientID)
	}

	encDetails, err := s.cipher.Encrypt(input.Details)
	if err != nil {
		return nil, fmt.Errorf("encrypt details: %w", err)
	}

	now := time.Now().UTC()
	appt := &domain.Appointment{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		MedicID:   medic.ID,
		Date:      input.Date,
		Status:    domain.StatusScheduled,
		Details:   encDetails,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.appts.Create(ctx, appt); err != nil {
		return nil, failDatastore(s.audit, "creating appointment for patient id="+patient.ID, err)
	}

	s.audit.Record(fmt.Sprintf("medic %s created appointment for patient id=%s", medic.Username, patient.ID), domain.AuditInfo)
	view := s.view(appt, "")
	view.Details = input.Details
	return &view, nil
}

// Update changes status and details of a medic-owned appointment.
func (s *AppointmentService) Update(ctx context.Context, medic *domain.User, id string, input ports.UpdateAppointmentInput) error {
	appt, err := s.owned(ctx, medic, id)
	if err != nil {
		return err
	}

	if input.Status != "" {
		status := domain.AppointmentStatus(input.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, input.Status)
		}
		appt.Status = status
	}
	if input.Details != "" {
		encDetails, err := s.cipher.Encrypt(input.Details)
		if err != nil {
			return fmt.Errorf("encrypt details: %w", err)
		}
		appt.Details = encDetails
	}
	appt.UpdatedAt = time.Now().UTC()
	if err := s.appts.Update(ctx, appt); err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return err
		}
		return failDatastore(s.audit, "updating appointment id="+id, err)
	}

	s.audit.Record(fmt.Sprintf("medic %s updated appointment id=%s", medic.Username, id), domain.AuditInfo)
	return nil
}

// Delete removes a medic-owned appointment.
func (s *AppointmentService) Delete(ctx context.Context, medic *domain.User, id string) error {
	if _, err := s.owned(ctx, medic, id); err != nil {
		return err
	}
	if err := s.appts.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return err
		}
		return failDatastore(s.audit, "deleting appointment id="+id, err)
	}
	s.audit.Record(fmt.Sprintf("medic %s deleted appointment id=%s", medic.Username, id), domain.AuditInfo)
	return nil
}

// MonthlyReport aggregates appointment counts keyed by "YYYY-MM".
func (s *AppointmentService) MonthlyReport(ctx context.Context) (map[string]int, error) {
	report, err := s.appts.CountByMonth(ctx)
	if err != nil {
		s.audit.Record(fmt.Sprintf("error building monthly report: %v", err), domain.AuditError)
		return nil, fmt.Errorf("%w: %v", domain.ErrDatastore, err)
	}
	return report, nil
}

// owned fetches the appointment and enforces medic ownership.
func (s *AppointmentService) owned(ctx context.Context, medic *domain.User, id string) (*domain.Appointment, error) {
	appt, err := s.appts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, failDatastore(s.audit, "fetching appointment id="+id, err)
	}
	if appt.MedicID != medic.ID {
		s.audit.Record(fmt.Sprintf("medic %s denied mutation of appointment id=%s owned by medic id=%s", medic.Username, id, appt.MedicID), domain.AuditWarning)
		return nil, domain.ErrForbidden
	}
	return appt, nil
}

// view renders an appointment for a medic, decrypting details per field.
func (s *AppointmentService) view(a *domain.Appointment, patientName string) ports.AppointmentView {
	return ports.AppointmentView{
		ID:          a.ID,
		PatientID:   a.PatientID,
		MedicID:     a.MedicID,
		PatientName: patientName,
		Date:        a.Date,
		Status:      string(a.Status),
		Details:     safeDecrypt(s.cipher, s.audit, fieldApptDetails, "appointment "+a.ID, a.Details, detailsFallback),
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

type MedicHandler struct {
	appointments ports.AppointmentService
}

func NewMedicHandler(appointments ports.AppointmentService) *MedicHandler {
	return &MedicHandler{appointments: appointments}
}

type createAppointmentRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	Details   string `json:"details"`
}

type updateAppointmentRequest struct {
	Status  string `json:"status"  validate:"omitempty,oneof=scheduled completed cancelled"`
	Details string `json:"details"`
}

// Dashboard returns the medic's assigned patients and their scheduled
// appointments. A datastore outage degrades to an empty dashboard.
//
// @Summary      Medic dashboard
// @Tags         medic
// @Produce      json
// @Success      200  {object}  ports.MedicDashboard
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /medic/dashboard [get]
func (h *MedicHandler) Dashboard(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	dash, err := h.appointments.MedicDashboard(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrDatastore) {
			return c.JSON(http.StatusOK, ports.MedicDashboard{
				Patients:     []ports.PatientSummary{},
				Appointments: []ports.AppointmentView{},
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// CreateAppointment schedules a new appointment owned by the calling
// medic.
//
// @Summary      Create appointment
// @Tags         medic
// @Accept       json
// @Produce      json
// @Param        body  body      createAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  ports.AppointmentView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /medic/appointments [post]
func (h *MedicHandler) CreateAppointment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.appointments.Create(c.Request().Context(), user, ports.CreateAppointmentInput{
		PatientID: req.PatientID,
		Date:      req.Date,
		Details:   req.Details,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// UpdateAppointment changes the status or details of an appointment the
// calling medic owns.
//
// @Summary      Update appointment
// @Tags         medic
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Appointment ID"
// @Param        body  body      updateAppointmentRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /medic/appointments/{id} [put]
func (h *MedicHandler) UpdateAppointment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.appointments.Update(c.Request().Context(), user, c.Param("id"), ports.UpdateAppointmentInput{
		Status:  req.Status,
		Details: req.Details,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAppointment removes an appointment the calling medic owns.
//
// @Summary      Delete appointment
// @Tags         medic
// @Param        id  path  string  true  "Appointment ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /medic/appointments/{id} [delete]
func (h *MedicHandler) DeleteAppointment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.appointments.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

type PatientHandler struct {
	appointments ports.AppointmentService
}

func NewPatientHandler(appointments ports.AppointmentService) *PatientHandler {
	return &PatientHandler{appointments: appointments}
}

// Dashboard returns the patient's decrypted personal data and their
// appointment history. A datastore outage degrades to an empty dashboard
// with 200 rather than failing the page.
//
// @Summary      Patient dashboard
// @Tags         patient
// @Produce      json
// @Success      200  {object}  ports.PatientDashboard
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /patient/dashboard [get]
func (h *PatientHandler) Dashboard(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	dash, err := h.appointments.PatientDashboard(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrDatastore) {
			return c.JSON(http.StatusOK, ports.PatientDashboard{
				Appointments: []ports.AppointmentView{},
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

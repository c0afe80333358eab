package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medivault/clinical-portal/internal/api/metrics"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

type AdminHandler struct {
	users        ports.UserService
	appointments ports.AppointmentService
	backup       ports.BackupService
}

func NewAdminHandler(users ports.UserService, appointments ports.AppointmentService, backup ports.BackupService) *AdminHandler {
	return &AdminHandler{users: users, appointments: appointments, backup: backup}
}

type createUserRequest struct {
	Username string `json:"username"  validate:"required,min=3"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Role     string `json:"role"      validate:"required,oneof=patient medic admin"`
}

type updateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role"  validate:"omitempty,oneof=patient medic admin"`
}

type adminDashboard struct {
	Users  []ports.UserView `json:"users"`
	Report map[string]int   `json:"monthly_report"`
}

// Dashboard returns the full user list and the monthly appointment
// report. Either half degrades to empty on a datastore outage so the
// page still renders.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminDashboard
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	dash := adminDashboard{Users: []ports.UserView{}, Report: map[string]int{}}

	users, err := h.users.List(ctx)
	if err != nil && !errors.Is(err, domain.ErrDatastore) {
		return err
	}
	if users != nil {
		dash.Users = users
	}

	report, err := h.appointments.MonthlyReport(ctx)
	if err != nil && !errors.Is(err, domain.ErrDatastore) {
		return err
	}
	if report != nil {
		dash.Report = report
	}

	return c.JSON(http.StatusOK, dash)
}

// CreateUser registers a new portal account.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user details"
// @Success      201   {object}  ports.UserView
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// UpdateUser changes a user's personal data or role.
//
// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.users.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteUser removes a user account. Admins cannot delete themselves.
//
// @Summary      Delete user
// @Tags         admin
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Backup writes a snapshot of the stored (still encrypted) records and
// returns the file path.
//
// @Summary      Run backup
// @Tags         admin
// @Produce      json
// @Success      201  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /admin/backup [post]
func (h *AdminHandler) Backup(c echo.Context) error {
	path, err := h.backup.Run(c.Request().Context())
	if err != nil {
		metrics.BackupsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.BackupsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, map[string]string{"path": path})
}

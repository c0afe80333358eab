package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medivault/clinical-portal/internal/api/handler"
	"github.com/medivault/clinical-portal/internal/api/middleware"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers. Redis
// is nil when sessions run on the in-memory store.
type Dependencies struct {
	Log          zerolog.Logger
	Mongo        *mongo.Database
	Redis        *redis.Client
	Sessions     ports.SessionManager
	Auth         ports.AuthService
	Users        ports.UserService
	Appointments ports.AppointmentService
	Backup       ports.BackupService
	Audit        ports.AuditSink
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	authMiddleware := middleware.Auth(deps.Sessions)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	patientHandler := handler.NewPatientHandler(deps.Appointments)
	medicHandler := handler.NewMedicHandler(deps.Appointments)
	adminHandler := handler.NewAdminHandler(deps.Users, deps.Appointments, deps.Backup)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Role-scoped routes ---
	patient := e.Group("/patient", authMiddleware, middleware.RBAC(deps.Audit, domain.RolePatient))
	patient.GET("/dashboard", patientHandler.Dashboard)

	medic := e.Group("/medic", authMiddleware, middleware.RBAC(deps.Audit, domain.RoleMedic))
	medic.GET("/dashboard", medicHandler.Dashboard)
	medic.POST("/appointments", medicHandler.CreateAppointment)
	medic.PUT("/appointments/:id", medicHandler.UpdateAppointment)
	medic.DELETE("/appointments/:id", medicHandler.DeleteAppointment)

	admin := e.Group("/admin", authMiddleware, middleware.RBAC(deps.Audit, domain.RoleAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/backup", adminHandler.Backup)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

// Package handlers implements the HTTP handlers of the JalSetu API.
//
// Handlers bind and authorize, then delegate workflow logic to the usecase
// layer. Errors are attached with c.Error and rendered by the centralized
// error handler middleware; handlers never write error JSON themselves.
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/api/middleware"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/pkg/worker"
	"jalsetu.io/jalsetu/internal/service"
	"jalsetu.io/jalsetu/internal/usecase"
)

// Server holds all API handlers.
type Server struct {
	db        *gorm.DB
	jwtCfg    middleware.JWTConfig
	pools     *worker.Pools
	locations *service.LocationService

	applications *usecase.ApplicationUseCase
	assessments  *usecase.AssessmentUseCase
	payments     *usecase.PaymentUseCase
	summaries    *usecase.SummaryUseCase
	dashboards   *usecase.DashboardUseCase
}

// ServerDeps holds all dependencies for creating a Server. Manual DI; no
// wire.
type ServerDeps struct {
	DB        *gorm.DB
	JWTCfg    middleware.JWTConfig
	Pools     *worker.Pools
	Locations *service.LocationService

	Applications *usecase.ApplicationUseCase
	Assessments  *usecase.AssessmentUseCase
	Payments     *usecase.PaymentUseCase
	Summaries    *usecase.SummaryUseCase
	Dashboards   *usecase.DashboardUseCase
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		db:           deps.DB,
		jwtCfg:       deps.JWTCfg,
		pools:        deps.Pools,
		locations:    deps.Locations,
		applications: deps.Applications,
		assessments:  deps.Assessments,
		payments:     deps.Payments,
		summaries:    deps.Summaries,
		dashboards:   deps.Dashboards,
	}
}

// fail attaches the error for the centralized error handler.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// failBinding converts a gin binding failure into the standard validation
// error shape.
func failBinding(c *gin.Context, err error) {
	fail(c, apperrors.Wrap(err, apperrors.CodeValidationFailed, "request body is invalid", 400))
}

// currentUserID returns the authenticated caller's user ID.
func currentUserID(c *gin.Context) string {
	return middleware.GetUserID(c.Request.Context())
}

// isUniqueViolation detects unique-index failures across the Postgres and
// SQLite drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

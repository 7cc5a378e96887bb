package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/metrics"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/target"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, user.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrSetupCompleted):
		Conflict(w, "An admin account already exists")

	// User domain errors
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User is inactive")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrNotAManager), errors.Is(err, user.ErrNotAnAgent), errors.Is(err, user.ErrSelfManager):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrInvalidPasswordLength), errors.Is(err, user.ErrPasswordTooLong), errors.Is(err, user.ErrInvalidEmailFormat):
		BadRequest(w, err.Error(), nil)

	// Upload domain errors
	case errors.Is(err, upload.ErrUnsupportedFormat):
		UnsupportedMediaType(w, err.Error())
	case errors.Is(err, upload.ErrFileTooLarge):
		RequestEntityTooLarge(w, err.Error())
	case errors.Is(err, upload.ErrUploadForbidden):
		Forbidden(w, "Only managers and admins can upload data")

	// Tracking and metrics errors
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, target.ErrTargetNotFound):
		NotFound(w, "Target not found")
	case errors.Is(err, metrics.ErrInvalidDate), errors.Is(err, metrics.ErrDepartmentMissing):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/report"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/validator"
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
	// User domain errors
	case errors.Is(err, user.ErrIdentityMissing):
		Unauthorized(w, "User data not loaded. Please try logging in again.")
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrLocationPermissionDenied),
		errors.Is(err, attendance.ErrLocationUnavailable),
		errors.Is(err, attendance.ErrLocationTimeout):
		LocationError(w, err.Error())
	case errors.Is(err, attendance.ErrHistoryUnavailable):
		BadGateway(w, attendance.ErrHistoryUnavailable.Error())

	// Report domain errors
	case errors.Is(err, report.ErrNoDataToExport):
		NotFound(w, report.ErrNoDataToExport.Error())
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("Report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package response

import (
	"errors"
	"net/http"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/auth"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
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
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrSupervisorRequired):
		Forbidden(w, "Supervisor role required")

	// Attendance conflicts
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "An active attendance record already exists for today")
	case errors.Is(err, attendance.ErrRestoreConflict):
		Conflict(w, "An active record already occupies this employee-day")

	// Attendance invalid transitions
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		Conflict(w, "Attendance record is already completed")
	case errors.Is(err, attendance.ErrAlreadyDeleted):
		Conflict(w, "Attendance record is already deleted")
	case errors.Is(err, attendance.ErrNotDeleted):
		Conflict(w, "Attendance record is not deleted")

	// Not found
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

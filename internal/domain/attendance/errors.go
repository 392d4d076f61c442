package attendance

import "errors"

// Attendance domain errors. Validation failures (blank justifications,
// malformed timestamps) are reported as validator.ValidationErrors; the
// sentinels below cover the remaining error kinds.
var (
	// Conflict errors
	ErrAlreadyClockedIn = errors.New("you have already clocked in today")
	ErrRestoreConflict  = errors.New("an active record already exists for this employee and day")

	// Invalid state errors
	ErrAlreadyClockedOut = errors.New("attendance record is already completed")
	ErrAlreadyDeleted    = errors.New("attendance record is already deleted")
	ErrNotDeleted        = errors.New("attendance record is not deleted")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

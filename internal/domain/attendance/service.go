package attendance

import (
	"context"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/auth"
)

// AttendanceService is the record lifecycle engine: it decides what a clock
// event means for an employee-day, guards the legal transitions, and keeps
// corrections auditable through soft delete/restore.
type AttendanceService interface {
	// ClockIn opens the day's record. Fails with ErrAlreadyClockedIn when
	// an active record exists; a flagged-late arrival without justification
	// is a validation error.
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut completes the day's record. With no prior clock-in it
	// records an incident instead, which requires a reason.
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// Delete soft-deletes a record (supervisor action), keeping it for
	// audit and freeing the employee-day slot.
	Delete(ctx context.Context, req DeleteRequest) error

	// Restore brings a soft-deleted record back, unless the slot has been
	// taken by a new active record.
	Restore(ctx context.Context, req RestoreRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single record by ID.
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves records with filters (supervisor).
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetMyAttendance retrieves records for the authenticated employee.
	GetMyAttendance(ctx context.Context, session auth.Session, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// TodayStatus reports the caller's state for the given day; deleted
	// records are invisible here.
	TodayStatus(ctx context.Context, session auth.Session, now time.Time) (TodayStatusResponse, error)
}

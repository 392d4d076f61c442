package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// "Active" always means deleted = false; soft-deleted rows stay queryable
// through List with IncludeDeleted for audit trails.
type AttendanceRepository interface {
	// Create inserts a new record. A concurrent insert for the same
	// employee-day trips the partial unique index and is returned as
	// ErrAlreadyClockedIn.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// Update persists clock times, flags and the derived total of an
	// existing record.
	Update(ctx context.Context, att Attendance) error

	// GetByID retrieves a record regardless of deletion state.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetActiveByEmployeeAndDate retrieves the single non-deleted record
	// for an employee-day, or nil when the employee is still absent.
	GetActiveByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// List retrieves records with filters and pagination.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployee retrieves one employee's records.
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// ListActiveBetween retrieves all non-deleted records whose date falls
	// in [from, to]. An empty employeeIDs slice means all employees.
	ListActiveBetween(ctx context.Context, from, to time.Time, employeeIDs []string) ([]Attendance, error)

	// GetStaleOpenSessions retrieves non-deleted records dated before the
	// given day that still have no clock-out.
	GetStaleOpenSessions(ctx context.Context, before time.Time) ([]Attendance, error)

	// MarkDeleted soft-deletes a record, capturing reason, actor and the
	// time of the action.
	MarkDeleted(ctx context.Context, id, reason, actorID string, at time.Time) error

	// Restore clears the deletion tag and metadata. Restoring into an
	// employee-day that already has an active record trips the partial
	// unique index and is returned as ErrRestoreConflict.
	Restore(ctx context.Context, id string) error
}

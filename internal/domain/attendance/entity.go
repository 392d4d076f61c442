package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the primary lifecycle position of a record. Absence of a record
// for an employee-day is the implicit initial state; deletion is an
// orthogonal tag carried by the Deleted fields, not a state of its own.
type State string

const (
	StateClockedIn State = "clocked_in"
	StateCompleted State = "completed"
)

// Attendance is the daily record for one employee. At most one non-deleted
// record may exist per (EmployeeID, Date); soft-deleted rows are kept for
// audit and do not count against that constraint.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // calendar day, midnight, no time component
	ClockIn    *time.Time
	ClockOut   *time.Time
	TotalHours decimal.Decimal // derived, two decimals, never negative

	IsLate     bool
	LateReason *string

	IsEarlyExit     bool
	EarlyExitReason *string

	HasIncident    bool
	IncidentReason *string

	Deleted       bool
	DeletedReason *string
	DeletedBy     *string
	DeletedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// State derives the lifecycle state from which clock endpoints are set.
func (a *Attendance) State() State {
	if a.ClockOut != nil {
		return StateCompleted
	}
	return StateClockedIn
}

var minutesPerHour = decimal.NewFromInt(60)

// RecomputeTotalHours rederives TotalHours from the clock endpoints. Must
// be called whenever either endpoint changes. While clock-out is absent the
// total stays zero; a negative span also yields zero.
func (a *Attendance) RecomputeTotalHours() {
	if a.ClockIn == nil || a.ClockOut == nil {
		a.TotalHours = decimal.Zero
		return
	}

	minutes := a.ClockOut.Sub(*a.ClockIn).Minutes()
	if minutes < 0 {
		a.TotalHours = decimal.Zero
		return
	}

	a.TotalHours = decimal.NewFromFloat(minutes).DivRound(minutesPerHour, 2)
}

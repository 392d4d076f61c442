package attendance

import (
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/auth"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	Session   auth.Session `json:"-"`
	Timestamp string       `json:"timestamp"` // RFC3339; handler defaults to now
	// LateJustification is mandatory when the arrival is flagged late.
	LateJustification *string `json:"late_justification,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Session.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a valid RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Time returns the parsed clock timestamp. Validate must have passed.
func (r *ClockInRequest) Time() time.Time {
	t, _ := validator.IsValidDateTime(r.Timestamp)
	return t
}

type ClockOutRequest struct {
	Session   auth.Session `json:"-"`
	Timestamp string       `json:"timestamp"` // RFC3339; handler defaults to now
	// EarlyExitJustification is mandatory when the departure is flagged.
	EarlyExitJustification *string `json:"early_exit_justification,omitempty"`
	// IncidentReason is mandatory when there is no clock-in for the day.
	IncidentReason *string `json:"incident_reason,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Session.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a valid RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Time returns the parsed clock timestamp. Validate must have passed.
func (r *ClockOutRequest) Time() time.Time {
	t, _ := validator.IsValidDateTime(r.Timestamp)
	return t
}

type DeleteRequest struct {
	Session auth.Session `json:"-"`
	ID      string       `json:"-"`
	Reason  string       `json:"reason"`
}

func (r *DeleteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "record id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "a deletion reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RestoreRequest struct {
	Session auth.Session `json:"-"`
	ID      string       `json:"-"`
}

func (r *RestoreRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "record id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Date          string  `json:"date"`
	ClockInTime   *string `json:"clock_in_time,omitempty"`
	ClockOutTime  *string `json:"clock_out_time,omitempty"`
	TotalHours    string  `json:"total_hours"` // two decimals
	State         string  `json:"state"`
	IsLate        bool    `json:"is_late"`
	LateReason    *string `json:"late_reason,omitempty"`
	IsEarlyExit   bool    `json:"is_early_exit"`
	EarlyExitRsn  *string `json:"early_exit_reason,omitempty"`
	HasIncident   bool    `json:"has_incident"`
	IncidentRsn   *string `json:"incident_reason,omitempty"`
	Deleted       bool    `json:"deleted"`
	DeletedReason *string `json:"deleted_reason,omitempty"`
	DeletedBy     *string `json:"deleted_by,omitempty"`
	DeletedAt     *string `json:"deleted_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type TodayStatusResponse struct {
	// State is "absent", "clocked_in" or "completed".
	State  string              `json:"state"`
	Record *AttendanceResponse `json:"record,omitempty"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	// IncludeDeleted widens the result to soft-deleted rows for audit.
	IncludeDeleted bool `json:"include_deleted"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, clock_in_time, clock_out_time
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateDateFilters(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, normalizePagination(&f.Page, &f.Limit)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceFilter struct {
	Date      *string `json:"date,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validateDateFilters(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, normalizePagination(&f.Page, &f.Limit)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func validateDateFilters(dates ...*string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	names := []string{"date", "start_date", "end_date"}
	for i, d := range dates {
		if d == nil || *d == "" {
			continue
		}
		if _, ok := validator.IsValidDate(*d); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   names[i],
				Message: "must be a valid YYYY-MM-DD date",
			})
		}
	}
	return errs
}

func normalizePagination(page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1
	}

	if *limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		*limit = 100
	}

	return errs
}

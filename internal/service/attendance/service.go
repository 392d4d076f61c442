package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/auth"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/schedule"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

// TxRunner executes fn atomically when the storage layer supports it. The
// PostgreSQL wiring passes postgresql.WithTransaction here.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	runTx TxRunner
}

func NewAttendanceService(
	txRunner TxRunner,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) attendance.AttendanceService {
	if txRunner == nil {
		txRunner = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		runTx:                txRunner,
	}
}

// DateOf reduces a timestamp to its wall-clock calendar day, the key of the
// one-active-record-per-day constraint.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func requireJustification(field string, justification *string) error {
	if justification == nil || validator.IsEmpty(*justification) {
		return validator.ValidationErrors{{
			Field:   field,
			Message: field + " is required",
		}}
	}
	return nil
}

func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate record id: %w", err)
	}
	return id.String(), nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := req.Time()
	day := DateOf(ts)

	emp, err := a.EmployeeRepository.GetByID(ctx, req.Session.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	existing, err := a.AttendanceRepository.GetActiveByEmployeeAndDate(ctx, emp.ID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's record: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	scheduledIn, err := schedule.At(ts, emp.ScheduleStart)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve scheduled start: %w", err)
	}

	cls := schedule.Classify(scheduledIn, ts, schedule.KindArrival)
	if cls.Flagged {
		if err := requireJustification("late_justification", req.LateJustification); err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	id, err := newRecordID()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.Attendance{
		ID:         id,
		EmployeeID: emp.ID,
		Date:       day,
		ClockIn:    &ts,
		IsLate:     cls.Flagged,
	}
	if cls.Flagged {
		record.LateReason = req.LateJustification
	}
	record.RecomputeTotalHours()

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		// A concurrent clock-in resolves here: the storage backstop lets
		// exactly one insert through.
		return attendance.AttendanceResponse{}, err
	}
	created.EmployeeName = &emp.FullName

	return mapAttendanceToResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := req.Time()
	day := DateOf(ts)

	emp, err := a.EmployeeRepository.GetByID(ctx, req.Session.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	active, err := a.AttendanceRepository.GetActiveByEmployeeAndDate(ctx, emp.ID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's record: %w", err)
	}

	if active == nil {
		// No clock-in today: this clock-out is an incident, not a failure.
		return a.recordIncident(ctx, emp, ts, req.IncidentReason)
	}

	if active.State() == attendance.StateCompleted {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	scheduledOut, err := schedule.At(ts, emp.ScheduleEnd)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve scheduled end: %w", err)
	}

	cls := schedule.Classify(scheduledOut, ts, schedule.KindDeparture)
	if cls.Flagged {
		if err := requireJustification("early_exit_justification", req.EarlyExitJustification); err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	active.ClockOut = &ts
	active.IsEarlyExit = cls.Flagged
	if cls.Flagged {
		active.EarlyExitReason = req.EarlyExitJustification
	}
	active.RecomputeTotalHours()

	if err := a.AttendanceRepository.Update(ctx, *active); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	active.EmployeeName = &emp.FullName

	return mapAttendanceToResponse(*active), nil
}

// recordIncident creates the "forgot to clock in" record: both endpoints
// collapse onto the clock-out timestamp and the total stays zero.
func (a *AttendanceServiceImpl) recordIncident(ctx context.Context, emp employee.Employee, ts time.Time, reason *string) (attendance.AttendanceResponse, error) {
	if err := requireJustification("incident_reason", reason); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	id, err := newRecordID()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.Attendance{
		ID:             id,
		EmployeeID:     emp.ID,
		Date:           DateOf(ts),
		ClockIn:        &ts,
		ClockOut:       &ts,
		HasIncident:    true,
		IncidentReason: reason,
	}
	record.RecomputeTotalHours()

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	created.EmployeeName = &emp.FullName

	return mapAttendanceToResponse(created), nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, req attendance.DeleteRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if !req.Session.IsSupervisor() {
		return auth.ErrSupervisorRequired
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if record.Deleted {
		return attendance.ErrAlreadyDeleted
	}

	if err := a.AttendanceRepository.MarkDeleted(ctx, record.ID, req.Reason, req.Session.EmployeeID, time.Now()); err != nil {
		return fmt.Errorf("failed to soft-delete attendance record: %w", err)
	}

	return nil
}

// Restore implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Restore(ctx context.Context, req attendance.RestoreRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !req.Session.IsSupervisor() {
		return attendance.AttendanceResponse{}, auth.ErrSupervisorRequired
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !record.Deleted {
		return attendance.AttendanceResponse{}, attendance.ErrNotDeleted
	}

	var restored attendance.Attendance
	err = a.runTx(ctx, func(ctx context.Context) error {
		// The slot may have been refilled since the delete; the caller must
		// resolve that conflict first.
		active, err := a.AttendanceRepository.GetActiveByEmployeeAndDate(ctx, record.EmployeeID, record.Date)
		if err != nil {
			return fmt.Errorf("failed to check employee-day slot: %w", err)
		}
		if active != nil {
			return attendance.ErrRestoreConflict
		}

		if err := a.AttendanceRepository.Restore(ctx, record.ID); err != nil {
			return err
		}

		restored, err = a.AttendanceRepository.GetByID(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to reload restored record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(restored), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(record), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, session auth.Session, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByEmployee(ctx, session.EmployeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// TodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TodayStatus(ctx context.Context, session auth.Session, now time.Time) (attendance.TodayStatusResponse, error) {
	active, err := a.AttendanceRepository.GetActiveByEmployeeAndDate(ctx, session.EmployeeID, DateOf(now))
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to check today's record: %w", err)
	}

	if active == nil {
		return attendance.TodayStatusResponse{State: "absent"}, nil
	}

	resp := mapAttendanceToResponse(*active)
	return attendance.TodayStatusResponse{
		State:  string(active.State()),
		Record: &resp,
	}, nil
}

func buildListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapAttendanceToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		Attendances: responses,
	}
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:            att.ID,
		EmployeeID:    att.EmployeeID,
		EmployeeName:  att.EmployeeName,
		Date:          att.Date.Format("2006-01-02"),
		ClockInTime:   timePtrToString(att.ClockIn),
		ClockOutTime:  timePtrToString(att.ClockOut),
		TotalHours:    att.TotalHours.StringFixed(2),
		State:         string(att.State()),
		IsLate:        att.IsLate,
		LateReason:    att.LateReason,
		IsEarlyExit:   att.IsEarlyExit,
		EarlyExitRsn:  att.EarlyExitReason,
		HasIncident:   att.HasIncident,
		IncidentRsn:   att.IncidentReason,
		Deleted:       att.Deleted,
		DeletedReason: att.DeletedReason,
		DeletedBy:     att.DeletedBy,
		DeletedAt:     timePtrToString(att.DeletedAt),
		CreatedAt:     att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/schedule"
)

const staleCloseReason = "Auto-closed: no clock-out detected by end of day. Please contact your supervisor if this is incorrect."

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", 1*time.Hour, j.AutoCloseStaleAttendances)
}

// AutoCloseStaleAttendances closes yesterday's (and older) records that were
// never clocked out. The record is closed at the employee's scheduled end
// time and tagged as an incident so it shows up in review.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting auto-close stale attendances job")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	staleSessions, err := j.attendanceRepo.GetStaleOpenSessions(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to get stale sessions: %w", err)
	}

	if len(staleSessions) == 0 {
		slog.Info("Cron: No stale attendances found")
		return nil
	}

	closedCount := 0
	for _, session := range staleSessions {
		if err := j.closeStaleSession(ctx, session); err != nil {
			slog.Error("Cron: Failed to auto-close attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: Auto-closed stale attendances", "count", closedCount)
	return nil
}

func (j *AttendanceJobs) closeStaleSession(ctx context.Context, session attendance.Attendance) error {
	emp, err := j.employeeRepo.GetByID(ctx, session.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}

	scheduledOut, err := schedule.At(session.Date, emp.ScheduleEnd)
	if err != nil {
		return fmt.Errorf("failed to resolve scheduled end: %w", err)
	}

	// A clock-in after the scheduled end would otherwise produce a negative
	// span; close at the clock-in instead so the total stays zero.
	if scheduledOut.Before(*session.ClockIn) {
		scheduledOut = *session.ClockIn
	}

	reason := staleCloseReason
	session.ClockOut = &scheduledOut
	session.HasIncident = true
	session.IncidentReason = &reason
	session.RecomputeTotalHours()

	return j.attendanceRepo.Update(ctx, session)
}

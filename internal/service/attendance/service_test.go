package attendance

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/auth"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAttendanceRepo is an in-memory AttendanceRepository mirroring the
// behavior of the PostgreSQL implementation, including the partial unique
// index on (employee_id, date) WHERE NOT deleted.
type memAttendanceRepo struct {
	records map[string]attendance.Attendance
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (m *memAttendanceRepo) activeFor(employeeID string, date time.Time) *attendance.Attendance {
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) && !rec.Deleted {
			found := rec
			return &found
		}
	}
	return nil
}

func (m *memAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if m.activeFor(att.EmployeeID, att.Date) != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	m.records[att.ID] = att
	return att, nil
}

func (m *memAttendanceRepo) Update(_ context.Context, att attendance.Attendance) error {
	if _, ok := m.records[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	att.UpdatedAt = time.Now()
	m.records[att.ID] = att
	return nil
}

func (m *memAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	rec, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (m *memAttendanceRepo) GetActiveByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return m.activeFor(employeeID, date), nil
}

func (m *memAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, rec := range m.records {
		if rec.Deleted && !filter.IncludeDeleted {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, _ attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return m.List(ctx, attendance.AttendanceFilter{EmployeeID: &employeeID})
}

func (m *memAttendanceRepo) ListActiveBetween(_ context.Context, from, to time.Time, _ []string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range m.records {
		if rec.Deleted || rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memAttendanceRepo) GetStaleOpenSessions(_ context.Context, before time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range m.records {
		if rec.Deleted || rec.ClockIn == nil || rec.ClockOut != nil || !rec.Date.Before(before) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memAttendanceRepo) MarkDeleted(_ context.Context, id, reason, actorID string, at time.Time) error {
	rec, ok := m.records[id]
	if !ok || rec.Deleted {
		return attendance.ErrAttendanceNotFound
	}
	rec.Deleted = true
	rec.DeletedReason = &reason
	rec.DeletedBy = &actorID
	rec.DeletedAt = &at
	m.records[id] = rec
	return nil
}

func (m *memAttendanceRepo) Restore(_ context.Context, id string) error {
	rec, ok := m.records[id]
	if !ok || !rec.Deleted {
		return attendance.ErrAttendanceNotFound
	}
	if m.activeFor(rec.EmployeeID, rec.Date) != nil {
		return attendance.ErrRestoreConflict
	}
	rec.Deleted = false
	rec.DeletedReason = nil
	rec.DeletedBy = nil
	rec.DeletedAt = nil
	m.records[id] = rec
	return nil
}

type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (m *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *memEmployeeRepo) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, emp := range m.employees {
		if strings.EqualFold(emp.Email, email) {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var out []employee.Employee
	for _, emp := range m.employees {
		out = append(out, emp)
	}
	return out, int64(len(out)), nil
}

func fixtureEmployee() employee.Employee {
	return employee.Employee{
		ID:             "0195b2f0-0000-7000-8000-000000000001",
		FullName:       "Ayu Lestari",
		Email:          "ayu@presensia.io",
		Department:     "Engineering",
		EmploymentType: employee.EmploymentTypeFullTime,
		ScheduleStart:  "09:00",
		ScheduleEnd:    "17:00",
		Role:           employee.RoleEmployee,
	}
}

func newTestService(emp employee.Employee) (attendance.AttendanceService, *memAttendanceRepo) {
	attRepo := newMemAttendanceRepo()
	empRepo := &memEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}}
	return NewAttendanceService(nil, attRepo, empRepo), attRepo
}

func sessionFor(emp employee.Employee) auth.Session {
	return auth.Session{EmployeeID: emp.ID, Role: emp.Role}
}

func supervisorSession() auth.Session {
	return auth.Session{EmployeeID: "0195b2f0-0000-7000-8000-0000000000ff", Role: employee.RoleSupervisor}
}

func TestClockIn(t *testing.T) {
	emp := fixtureEmployee()

	tests := []struct {
		name          string
		timestamp     string
		justification *string
		wantErr       error
		wantValidErr  bool
		wantLate      bool
	}{
		{
			name:      "on time",
			timestamp: "2026-03-02T09:00:00Z",
			wantLate:  false,
		},
		{
			name:      "within grace at exactly fifteen minutes",
			timestamp: "2026-03-02T09:15:00Z",
			wantLate:  false,
		},
		{
			name:         "late without justification",
			timestamp:    "2026-03-02T09:16:00Z",
			wantValidErr: true,
		},
		{
			name:          "late with justification",
			timestamp:     "2026-03-02T09:16:00Z",
			justification: strPtr("train breakdown"),
			wantLate:      true,
		},
		{
			name:      "early arrival is never late",
			timestamp: "2026-03-02T08:30:00Z",
			wantLate:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(emp)

			resp, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{
				Session:           sessionFor(emp),
				Timestamp:         tt.timestamp,
				LateJustification: tt.justification,
			})

			if tt.wantValidErr {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Contains(t, verrs.ToMap(), "late_justification")
				return
			}
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(attendance.StateClockedIn), resp.State)
			assert.Equal(t, tt.wantLate, resp.IsLate)
			assert.Equal(t, "0.00", resp.TotalHours)
		})
	}
}

func TestClockInTwiceSameDay(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)

	req := attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:00:00Z",
	}

	_, err := svc.ClockIn(context.Background(), req)
	require.NoError(t, err)

	req.Timestamp = "2026-03-02T09:05:00Z"
	_, err = svc.ClockIn(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockOut(t *testing.T) {
	emp := fixtureEmployee()

	tests := []struct {
		name          string
		outTimestamp  string
		justification *string
		wantValidErr  bool
		wantEarlyExit bool
		wantHours     string
	}{
		{
			name:          "exactly on schedule",
			outTimestamp:  "2026-03-02T17:00:00Z",
			wantEarlyExit: false,
			wantHours:     "7.83",
		},
		{
			name:         "one minute early without justification",
			outTimestamp: "2026-03-02T16:59:00Z",
			wantValidErr: true,
		},
		{
			name:          "early with justification",
			outTimestamp:  "2026-03-02T16:45:00Z",
			justification: strPtr("doctor appointment"),
			wantEarlyExit: true,
			wantHours:     "7.58",
		},
		{
			name:          "overtime is not early",
			outTimestamp:  "2026-03-02T18:30:00Z",
			wantEarlyExit: false,
			wantHours:     "9.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(emp)

			_, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{
				Session:   sessionFor(emp),
				Timestamp: "2026-03-02T09:10:00Z",
			})
			require.NoError(t, err)

			resp, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
				Session:                sessionFor(emp),
				Timestamp:              tt.outTimestamp,
				EarlyExitJustification: tt.justification,
			})

			if tt.wantValidErr {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Contains(t, verrs.ToMap(), "early_exit_justification")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(attendance.StateCompleted), resp.State)
			assert.Equal(t, tt.wantEarlyExit, resp.IsEarlyExit)
			assert.Equal(t, tt.wantHours, resp.TotalHours)
		})
	}
}

func TestClockOutTwice(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)

	_, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:00:00Z",
	})
	require.NoError(t, err)

	_, err = svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T17:00:00Z",
	})
	require.NoError(t, err)

	_, err = svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T17:30:00Z",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestClockOutWithoutClockInRecordsIncident(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)

	// Without a reason the incident is rejected.
	_, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T17:00:00Z",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "incident_reason")

	resp, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		Session:        sessionFor(emp),
		Timestamp:      "2026-03-02T17:00:00Z",
		IncidentReason: strPtr("forgot to clock in after the offsite"),
	})
	require.NoError(t, err)

	assert.True(t, resp.HasIncident)
	assert.Equal(t, "0.00", resp.TotalHours)
	assert.Equal(t, string(attendance.StateCompleted), resp.State)
	assert.Equal(t, resp.ClockInTime, resp.ClockOutTime)
}

func TestDeleteAndRestore(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)
	ctx := context.Background()

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:00:00Z",
	})
	require.NoError(t, err)

	// Reason is mandatory.
	err = svc.Delete(ctx, attendance.DeleteRequest{
		Session: supervisorSession(),
		ID:      created.ID,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "reason")

	// Employees may not delete at all.
	err = svc.Delete(ctx, attendance.DeleteRequest{
		Session: sessionFor(emp),
		ID:      created.ID,
		Reason:  "duplicate entry",
	})
	assert.ErrorIs(t, err, auth.ErrSupervisorRequired)

	err = svc.Delete(ctx, attendance.DeleteRequest{
		Session: supervisorSession(),
		ID:      created.ID,
		Reason:  "duplicate entry",
	})
	require.NoError(t, err)

	// Deleted records stay readable for audit, with metadata attached.
	got, err := svc.GetAttendance(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	require.NotNil(t, got.DeletedReason)
	assert.Equal(t, "duplicate entry", *got.DeletedReason)
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, supervisorSession().EmployeeID, *got.DeletedBy)
	assert.NotNil(t, got.DeletedAt)

	// Deleting twice is an invalid transition.
	err = svc.Delete(ctx, attendance.DeleteRequest{
		Session: supervisorSession(),
		ID:      created.ID,
		Reason:  "again",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyDeleted)

	restored, err := svc.Restore(ctx, attendance.RestoreRequest{
		Session: supervisorSession(),
		ID:      created.ID,
	})
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedReason)
	assert.Nil(t, restored.DeletedBy)
	assert.Nil(t, restored.DeletedAt)

	// Restoring an active record is an invalid transition.
	_, err = svc.Restore(ctx, attendance.RestoreRequest{
		Session: supervisorSession(),
		ID:      created.ID,
	})
	assert.ErrorIs(t, err, attendance.ErrNotDeleted)
}

func TestRestoreConflictWhenSlotRefilled(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)
	ctx := context.Background()

	first, err := svc.ClockIn(ctx, attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:00:00Z",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, attendance.DeleteRequest{
		Session: supervisorSession(),
		ID:      first.ID,
		Reason:  "entered against the wrong day",
	})
	require.NoError(t, err)

	// Soft delete frees the slot for the same day.
	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:05:00Z",
	})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, attendance.RestoreRequest{
		Session: supervisorSession(),
		ID:      first.ID,
	})
	assert.ErrorIs(t, err, attendance.ErrRestoreConflict)
}

func TestTodayStatus(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)
	ctx := context.Background()
	now, _ := time.Parse(time.RFC3339, "2026-03-02T10:00:00Z")

	status, err := svc.TodayStatus(ctx, sessionFor(emp), now)
	require.NoError(t, err)
	assert.Equal(t, "absent", status.State)
	assert.Nil(t, status.Record)

	_, err = svc.ClockIn(ctx, attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:00:00Z",
	})
	require.NoError(t, err)

	status, err = svc.TodayStatus(ctx, sessionFor(emp), now)
	require.NoError(t, err)
	assert.Equal(t, "clocked_in", status.State)
	require.NotNil(t, status.Record)

	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T17:00:00Z",
	})
	require.NoError(t, err)

	status, err = svc.TodayStatus(ctx, sessionFor(emp), now)
	require.NoError(t, err)
	assert.Equal(t, "completed", status.State)
}

func TestListAttendanceExcludesDeletedByDefault(t *testing.T) {
	emp := fixtureEmployee()
	svc, _ := newTestService(emp)
	ctx := context.Background()

	created, err := svc.ClockIn(ctx, attendance.ClockInRequest{
		Session:   sessionFor(emp),
		Timestamp: "2026-03-02T09:00:00Z",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, attendance.DeleteRequest{
		Session: supervisorSession(),
		ID:      created.ID,
		Reason:  "test entry",
	})
	require.NoError(t, err)

	list, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Attendances)

	list, err = svc.ListAttendance(ctx, attendance.AttendanceFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, list.Attendances, 1)
	assert.True(t, list.Attendances[0].Deleted)
}

func strPtr(s string) *string {
	return &s
}

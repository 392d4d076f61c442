package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTargets = config.AttendanceConfig{
	FullTimeWeekHours:  48,
	FullTimeMonthHours: 192,
	PartTimeWeekHours:  24,
	PartTimeMonthHours: 96,
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func record(employeeID, date string, hours float64, deleted bool) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID: employeeID,
		Date:       day(date),
		TotalHours: decimal.NewFromFloat(hours),
		Deleted:    deleted,
	}
}

func fullTimer(id, name string) employee.Employee {
	return employee.Employee{ID: id, FullName: name, EmploymentType: employee.EmploymentTypeFullTime}
}

func partTimer(id, name string) employee.Employee {
	return employee.Employee{ID: id, FullName: name, EmploymentType: employee.EmploymentTypePartTime}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		wantStart string
		wantEnd   string
	}{
		{"monday maps to itself", "2026-03-02", "2026-03-02", "2026-03-08"},
		{"midweek", "2026-03-05", "2026-03-02", "2026-03-08"},
		{"sunday closes the week", "2026-03-08", "2026-03-02", "2026-03-08"},
		{"week straddles month edge", "2026-03-01", "2026-02-23", "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(day(tt.reference))
			assert.Equal(t, day(tt.wantStart), start)
			assert.Equal(t, day(tt.wantEnd), end)
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(day("2026-02-15"))
	assert.Equal(t, day("2026-02-01"), start)
	assert.Equal(t, day("2026-02-28"), end)

	start, end = MonthBounds(day("2026-03-31"))
	assert.Equal(t, day("2026-03-01"), start)
	assert.Equal(t, day("2026-03-31"), end)
}

func TestAggregateSumsOnlyWindowedRecords(t *testing.T) {
	emp := fullTimer("e1", "Ayu Lestari")

	records := []attendance.Attendance{
		record("e1", "2026-03-02", 8, false), // in week and month
		record("e1", "2026-03-09", 8, false), // next week, same month
		record("e1", "2026-02-27", 8, false), // previous month entirely
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(records, []employee.Employee{emp}, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 1)
	assert.Equal(t, 8.0, got[0].WeekHours)
	assert.Equal(t, 16.0, got[0].MonthHours)
}

func TestAggregateExcludesDeletedRecords(t *testing.T) {
	emp := fullTimer("e1", "Ayu Lestari")

	records := []attendance.Attendance{
		record("e1", "2026-03-02", 8, false),
		record("e1", "2026-03-03", 8, true), // soft-deleted, must not count
		record("e1", "2026-03-04", 8, false),
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(records, []employee.Employee{emp}, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 1)
	assert.Equal(t, 16.0, got[0].WeekHours)
	assert.Equal(t, 16.0, got[0].MonthHours)
}

func TestAggregateTargetsPerEmploymentType(t *testing.T) {
	employees := []employee.Employee{
		fullTimer("e1", "Ayu Lestari"),
		partTimer("e2", "Budi Santoso"),
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(nil, employees, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 2)
	byID := map[string]int{got[0].EmployeeID: 0, got[1].EmployeeID: 1}

	ft := got[byID["e1"]]
	assert.Equal(t, 48.0, ft.WeekTarget)
	assert.Equal(t, 192.0, ft.MonthTarget)

	pt := got[byID["e2"]]
	assert.Equal(t, 24.0, pt.WeekTarget)
	assert.Equal(t, 96.0, pt.MonthTarget)
}

func TestAggregateRanksByMonthHoursDescending(t *testing.T) {
	employees := []employee.Employee{
		fullTimer("e1", "Ayu Lestari"),
		fullTimer("e2", "Budi Santoso"),
		fullTimer("e3", "Citra Dewi"),
	}

	records := []attendance.Attendance{
		record("e1", "2026-03-02", 8, false),
		record("e2", "2026-03-02", 9, false),
		record("e3", "2026-03-02", 7, false),
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(records, employees, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 3)
	assert.Equal(t, "e2", got[0].EmployeeID)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "e1", got[1].EmployeeID)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, "e3", got[2].EmployeeID)
	assert.Equal(t, 3, got[2].Rank)
}

func TestAggregateTiesKeepInputOrder(t *testing.T) {
	employees := []employee.Employee{
		fullTimer("e1", "Ayu Lestari"),
		fullTimer("e2", "Budi Santoso"),
	}

	records := []attendance.Attendance{
		record("e1", "2026-03-02", 8, false),
		record("e2", "2026-03-03", 8, false),
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(records, employees, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].EmployeeID)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "e2", got[1].EmployeeID)
	assert.Equal(t, 2, got[1].Rank)
}

func TestAggregateRanksOnExactTotalsNotDisplayRounding(t *testing.T) {
	employees := []employee.Employee{
		fullTimer("e1", "Ayu Lestari"),
		fullTimer("e2", "Budi Santoso"),
	}

	// 15.16 and 15.24 both display as 15.2, but e2 worked more and must
	// rank first even though e1 comes first in the input.
	records := []attendance.Attendance{
		record("e1", "2026-03-02", 7.58, false),
		record("e1", "2026-03-03", 7.58, false),
		record("e2", "2026-03-02", 7.62, false),
		record("e2", "2026-03-03", 7.62, false),
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(records, employees, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].EmployeeID)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 15.2, got[0].MonthHours)
	assert.Equal(t, "e1", got[1].EmployeeID)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, 15.2, got[1].MonthHours)
}

func TestAggregateRoundsDisplayToOneDecimal(t *testing.T) {
	emp := fullTimer("e1", "Ayu Lestari")

	records := []attendance.Attendance{
		record("e1", "2026-03-02", 7.58, false),
		record("e1", "2026-03-03", 7.58, false),
	}

	weekStart, weekEnd := WeekBounds(day("2026-03-04"))
	monthStart, monthEnd := MonthBounds(day("2026-03-04"))
	got := Aggregate(records, []employee.Employee{emp}, weekStart, weekEnd, monthStart, monthEnd, testTargets)

	require.Len(t, got, 1)
	// 15.16 rounds to 15.2 for display.
	assert.Equal(t, 15.2, got[0].WeekHours)
}

// pagedEmployeeRepo serves a fixed roster one page at a time, the way the
// real directory repository does.
type pagedEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (r *pagedEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	start := (filter.Page - 1) * filter.Limit
	if start > len(r.employees) {
		start = len(r.employees)
	}
	end := start + filter.Limit
	if end > len(r.employees) {
		end = len(r.employees)
	}
	return r.employees[start:end], int64(len(r.employees)), nil
}

type emptyAttendanceRepo struct {
	attendance.AttendanceRepository
}

func (r *emptyAttendanceRepo) ListActiveBetween(context.Context, time.Time, time.Time, []string) ([]attendance.Attendance, error) {
	return nil, nil
}

func TestSummarizeCoversRostersBeyondOnePage(t *testing.T) {
	roster := make([]employee.Employee, 0, 450)
	for i := 0; i < 450; i++ {
		roster = append(roster, fullTimer(fmt.Sprintf("e%03d", i), fmt.Sprintf("Employee %03d", i)))
	}

	svc := NewReportService(&emptyAttendanceRepo{}, &pagedEmployeeRepo{employees: roster}, testTargets)

	got, err := svc.Summarize(context.Background(), report.SummaryRequest{ReferenceDate: "2026-03-04"})
	require.NoError(t, err)
	assert.Len(t, got.Summaries, 450)
}

package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	targets        config.AttendanceConfig
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	targets config.AttendanceConfig,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		targets:        targets,
	}
}

// WeekBounds returns the Monday and Sunday of the ISO week containing day.
func WeekBounds(day time.Time) (time.Time, time.Time) {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week, it does not open it
	}
	monday := day.AddDate(0, 0, -(weekday - 1))
	return monday, monday.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the calendar month
// containing day.
func MonthBounds(day time.Time) (time.Time, time.Time) {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return first, first.AddDate(0, 1, -1)
}

// Summarize implements report.ReportService.
func (s *ReportServiceImpl) Summarize(ctx context.Context, req report.SummaryRequest) (report.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.SummaryResponse{}, err
	}

	refDate, _ := time.Parse("2006-01-02", req.ReferenceDate)
	weekStart, weekEnd := WeekBounds(refDate)
	monthStart, monthEnd := MonthBounds(refDate)

	employees, err := s.resolveEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return report.SummaryResponse{}, err
	}

	// One fetch covers both windows; the week can spill over month edges.
	from := weekStart
	if monthStart.Before(from) {
		from = monthStart
	}
	to := weekEnd
	if monthEnd.After(to) {
		to = monthEnd
	}

	records, err := s.attendanceRepo.ListActiveBetween(ctx, from, to, req.EmployeeIDs)
	if err != nil {
		return report.SummaryResponse{}, fmt.Errorf("failed to load attendance records: %w", err)
	}

	summaries := Aggregate(records, employees, weekStart, weekEnd, monthStart, monthEnd, s.targets)

	return report.SummaryResponse{
		ReferenceDate: req.ReferenceDate,
		WeekStart:     weekStart.Format("2006-01-02"),
		WeekEnd:       weekEnd.Format("2006-01-02"),
		Summaries:     summaries,
	}, nil
}

func (s *ReportServiceImpl) resolveEmployees(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return s.listAllEmployees(ctx)
	}

	employees := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// listAllEmployees walks the directory page by page so a roster larger than
// one page still gets a complete summary.
func (s *ReportServiceImpl) listAllEmployees(ctx context.Context) ([]employee.Employee, error) {
	const pageSize = 200

	var employees []employee.Employee
	for page := 1; ; page++ {
		batch, total, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{Page: page, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		employees = append(employees, batch...)
		if len(batch) < pageSize || int64(len(employees)) >= total {
			return employees, nil
		}
	}
}

// Aggregate sums active records into per-employee week and month totals and
// ranks employees by month hours, highest first. Employees with equal totals
// keep their input order, so the caller controls tie order.
func Aggregate(
	records []attendance.Attendance,
	employees []employee.Employee,
	weekStart, weekEnd, monthStart, monthEnd time.Time,
	targets config.AttendanceConfig,
) []report.Summary {
	type totals struct {
		week  decimal.Decimal
		month decimal.Decimal
	}

	byEmployee := make(map[string]*totals, len(employees))
	for _, emp := range employees {
		byEmployee[emp.ID] = &totals{}
	}

	for _, rec := range records {
		if rec.Deleted {
			continue
		}
		t, ok := byEmployee[rec.EmployeeID]
		if !ok {
			continue
		}
		if !rec.Date.Before(weekStart) && !rec.Date.After(weekEnd) {
			t.week = t.week.Add(rec.TotalHours)
		}
		if !rec.Date.Before(monthStart) && !rec.Date.After(monthEnd) {
			t.month = t.month.Add(rec.TotalHours)
		}
	}

	type entry struct {
		summary report.Summary
		month   decimal.Decimal
	}

	entries := make([]entry, 0, len(employees))
	for _, emp := range employees {
		t := byEmployee[emp.ID]

		weekTarget := targets.FullTimeWeekHours
		monthTarget := targets.FullTimeMonthHours
		if emp.EmploymentType == employee.EmploymentTypePartTime {
			weekTarget = targets.PartTimeWeekHours
			monthTarget = targets.PartTimeMonthHours
		}

		entries = append(entries, entry{
			summary: report.Summary{
				EmployeeID:     emp.ID,
				EmployeeName:   emp.FullName,
				EmploymentType: string(emp.EmploymentType),
				WeekHours:      displayHours(t.week),
				MonthHours:     displayHours(t.month),
				WeekTarget:     weekTarget,
				MonthTarget:    monthTarget,
			},
			month: t.month,
		})
	}

	// Rank on the exact totals; display rounding must never reorder two
	// employees whose hours round to the same figure.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].month.GreaterThan(entries[j].month)
	})

	summaries := make([]report.Summary, 0, len(entries))
	for i, e := range entries {
		e.summary.Rank = i + 1
		summaries = append(summaries, e.summary)
	}

	return summaries
}

func displayHours(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

package report

import (
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

type SummaryRequest struct {
	ReferenceDate string   `json:"reference_date"` // YYYY-MM-DD
	EmployeeIDs   []string `json:"employee_ids,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReferenceDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "reference_date",
			Message: "reference_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.ReferenceDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "reference_date",
			Message: "reference_date must be a valid YYYY-MM-DD date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Summary is one employee's aggregated hours against their targets. Hour
// figures are rounded to one decimal for display; the underlying totals
// keep two decimals.
type Summary struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	EmploymentType string  `json:"employment_type"`
	WeekHours      float64 `json:"week_hours"`
	MonthHours     float64 `json:"month_hours"`
	WeekTarget     float64 `json:"week_target"`
	MonthTarget    float64 `json:"month_target"`
	Rank           int     `json:"rank"`
}

type SummaryResponse struct {
	ReferenceDate string    `json:"reference_date"`
	WeekStart     string    `json:"week_start"`
	WeekEnd       string    `json:"week_end"`
	Summaries     []Summary `json:"summaries"`
}

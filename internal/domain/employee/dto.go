package employee

import (
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

type EmployeeFilter struct {
	Department *string `json:"department,omitempty"`
	Name       *string `json:"name,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	EmploymentType string `json:"employment_type"`
	ScheduleStart  string `json:"schedule_start"`
	ScheduleEnd    string `json:"schedule_end"`
	Role           string `json:"role"`
}

type ListEmployeesResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		FullName:       e.FullName,
		Email:          e.Email,
		Department:     e.Department,
		EmploymentType: string(e.EmploymentType),
		ScheduleStart:  e.ScheduleStart,
		ScheduleEnd:    e.ScheduleEnd,
		Role:           string(e.Role),
	}
}

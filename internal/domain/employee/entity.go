package employee

import "time"

type Role string

const (
	RoleSupervisor Role = "supervisor" // Can correct, delete and restore records
	RoleEmployee   Role = "employee"   // Regular employee
)

type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
)

// Employee is read-only reference data for the attendance engine: who the
// person is, when they are scheduled to work, and which hour targets apply.
type Employee struct {
	ID             string
	FullName       string
	Email          string
	PasswordHash   string
	Department     string
	EmploymentType EmploymentType
	ScheduleStart  string // "HH:MM"
	ScheduleEnd    string // "HH:MM"
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsSupervisor checks if the employee may delete/restore records
func (e *Employee) IsSupervisor() bool {
	return e.Role == RoleSupervisor
}

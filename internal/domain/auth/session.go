package auth

import "github.com/presensia/attendance-backend-go/internal/domain/employee"

// Session identifies the authenticated caller of an engine operation. It is
// built by the HTTP layer from verified token claims and passed explicitly;
// services never read claims out of the ambient context.
type Session struct {
	EmployeeID string
	Role       employee.Role
}

// IsSupervisor checks if the session may delete/restore records
func (s Session) IsSupervisor() bool {
	return s.Role == employee.RoleSupervisor
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/auth"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
)

// sessionFromRequest builds the caller's session from the verified JWT
// claims. The verifier middleware has already checked the signature, so a
// failure here means a malformed token that slipped past it.
func sessionFromRequest(r *http.Request) (auth.Session, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return auth.Session{}, auth.ErrInvalidToken
	}

	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return auth.Session{}, auth.ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return auth.Session{
		EmployeeID: employeeID,
		Role:       employee.Role(role),
	}, nil
}

// defaultTimestamp fills a blank clock timestamp with the current time.
func defaultTimestamp(ts string) string {
	if ts != "" {
		return ts
	}
	return time.Now().Format(time.RFC3339)
}

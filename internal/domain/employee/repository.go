package employee

import "context"

// EmployeeRepository defines data access for the employee directory. The
// attendance engine only reads from it; writes happen through personnel
// administration, which is out of scope here.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
}

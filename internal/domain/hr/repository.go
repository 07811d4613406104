package hr

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines persistence for employees
type EmployeeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, e *Employee) error
}

// AttendanceFilter narrows attendance listings
type AttendanceFilter struct {
	EmployeeID *uuid.UUID
	Status     AttendanceStatus
}

// AttendanceRepository defines persistence for attendance records
type AttendanceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Attendance, error)
	FindByEmployeeAndDate(ctx context.Context, tenantID, employeeID uuid.UUID, date time.Time) (*Attendance, error)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter AttendanceFilter) ([]Attendance, error)
	CountPresentOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	Save(ctx context.Context, a *Attendance) error
}

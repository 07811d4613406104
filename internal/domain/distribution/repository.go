package distribution

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SchoolRepository defines persistence for schools
type SchoolRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*School, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]School, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNPSN(ctx context.Context, tenantID uuid.UUID, npsn string) (bool, error)
	Save(ctx context.Context, s *School) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// Repository defines persistence for distributions
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Distribution, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Distribution, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	CountActive(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	SumDeliveredPortions(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	CountBySchool(ctx context.Context, tenantID, schoolID uuid.UUID) (int64, error)
	Save(ctx context.Context, d *Distribution) error
}

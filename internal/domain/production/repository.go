package production

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for production batches
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Production, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Production, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	// SumCompletedPortions totals actual portions of batches completed on date
	SumCompletedPortions(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	Save(ctx context.Context, p *Production) error
	// SaveWithLock saves only if the stored version is one below p's version
	SaveWithLock(ctx context.Context, p *Production) error
}

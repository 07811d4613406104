package feedback

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for feedback
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Feedback, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Feedback, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Stats(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (Stats, error)
	Save(ctx context.Context, f *Feedback) error
}

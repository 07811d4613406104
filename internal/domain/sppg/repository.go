package sppg

import (
	"context"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists SPPGs. SPPGs are not tenant-scoped; only platform
// users reach this repository.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SPPG, error)
	FindByCode(ctx context.Context, code string) (*SPPG, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SPPG, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, s *SPPG) error
}

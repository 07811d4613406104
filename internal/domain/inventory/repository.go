package inventory

import (
	"context"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemRepository defines persistence for inventory items
type ItemRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]InventoryItem, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]InventoryItem, error)
	CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, item *InventoryItem) error
	// SaveWithLock saves only if the stored version is one below item's version
	SaveWithLock(ctx context.Context, item *InventoryItem) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MovementRepository defines persistence for the stock movement ledger
type MovementRepository interface {
	Create(ctx context.Context, m *StockMovement) error
	FindForTenant(ctx context.Context, tenantID uuid.UUID, mf MovementFilter, filter shared.Filter) ([]StockMovement, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, mf MovementFilter) (int64, error)
}

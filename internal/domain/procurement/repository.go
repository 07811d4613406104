package procurement

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, s *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrderRepository defines persistence for procurement orders
type OrderRepository interface {
	// FindByIDForTenant loads the order with its lines
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProcurementOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProcurementOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// CountOnDate counts orders dated on the given day, used for numbering
	CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)
	// Save upserts the order and replaces its lines
	Save(ctx context.Context, o *ProcurementOrder) error
}

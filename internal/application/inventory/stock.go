package inventory

import (
	"context"
	"fmt"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockChange is one stock operation on an item
type StockChange struct {
	ItemID   uuid.UUID
	Type     inventory.MovementType
	Quantity decimal.Decimal // absolute counted stock for adjustments
	Ref      inventory.MovementReference
}

// ApplyStockChange loads the item inside the transaction, applies the
// change, saves it with optimistic locking and appends the ledger row.
// The returned item still carries its domain events; callers publish them
// after the transaction commits.
func ApplyStockChange(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, change StockChange) (*inventory.InventoryItem, *inventory.StockMovement, error) {
	item, err := repos.ItemRepo().FindByIDForTenant(ctx, tenantID, change.ItemID)
	if err != nil {
		return nil, nil, err
	}

	var movement *inventory.StockMovement
	switch change.Type {
	case inventory.MovementIn:
		movement, err = item.StockIn(change.Quantity, change.Ref)
	case inventory.MovementOut:
		movement, err = item.StockOut(change.Quantity, change.Ref)
	case inventory.MovementAdjustment:
		movement, err = item.Adjust(change.Quantity, change.Ref)
	default:
		err = shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if err != nil {
		return nil, nil, err
	}

	if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, nil, fmt.Errorf("record stock movement: %w", err)
	}
	return item, movement, nil
}

// PublishItemEvents publishes and clears the pending events of items
func PublishItemEvents(ctx context.Context, publisher shared.EventPublisher, items ...*inventory.InventoryItem) {
	if publisher == nil {
		return
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if events := item.GetDomainEvents(); len(events) > 0 {
			_ = publisher.Publish(ctx, events...)
			item.ClearDomainEvents()
		}
	}
}

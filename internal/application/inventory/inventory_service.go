package inventory

import (
	"context"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService handles inventory items and their stock ledger
type InventoryService struct {
	itemRepo       inventory.ItemRepository
	movementRepo   inventory.MovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.ItemRepository,
	movementRepo inventory.MovementRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new inventory item
func (s *InventoryService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	exists, err := s.itemRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item code already exists")
	}

	unit, err := valueobject.ParseUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	item, err := inventory.NewInventoryItem(tenantID, req.Code, req.Name, inventory.Category(req.Category), unit)
	if err != nil {
		return nil, err
	}
	if err := applyItemDetails(item, req.MinStock, req.CostPerUnit, req.Nutrition, req.Density, req.UnitWeight); err != nil {
		return nil, err
	}
	if actorID != nil {
		item.SetCreatedBy(*actorID)
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID retrieves an inventory item by ID
func (s *InventoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List retrieves inventory items with filtering and pagination
func (s *InventoryService) List(ctx context.Context, tenantID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Category != "" {
		f.Filters["category"] = filter.Category
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	if filter.LowStock {
		f.Filters["low_stock"] = true
	}

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// ListLowStock returns active items below their minimum stock
func (s *InventoryService) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// Update changes an item's descriptive fields and thresholds. Stock is only
// changed through movements.
func (s *InventoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	unit, err := valueobject.ParseUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	if unit != item.Unit && !item.CurrentStock.IsZero() {
		return nil, shared.NewDomainError("UNIT_CHANGE_NOT_ALLOWED", "Unit can only change while stock is zero")
	}
	if err := item.Update(req.Name, inventory.Category(req.Category), unit); err != nil {
		return nil, err
	}
	if err := applyItemDetails(item, req.MinStock, req.CostPerUnit, req.Nutrition, req.Density, req.UnitWeight); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			item.Activate()
		} else {
			item.Deactivate()
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item that has no stock left
func (s *InventoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if item.CurrentStock.IsPositive() {
		return shared.NewDomainError("ITEM_HAS_STOCK", "Items with stock cannot be deleted")
	}
	return s.itemRepo.DeleteForTenant(ctx, tenantID, id)
}

// StockIn books a manual receipt of stock
func (s *InventoryService) StockIn(ctx context.Context, tenantID, itemID uuid.UUID, actorID *uuid.UUID, req StockRequest) (*MovementResponse, error) {
	return s.change(ctx, tenantID, StockChange{
		ItemID:   itemID,
		Type:     inventory.MovementIn,
		Quantity: req.Quantity,
		Ref:      reference(req.ReferenceType, req.ReferenceID, req.Notes, actorID),
	})
}

// StockOut books a manual issue of stock
func (s *InventoryService) StockOut(ctx context.Context, tenantID, itemID uuid.UUID, actorID *uuid.UUID, req StockRequest) (*MovementResponse, error) {
	return s.change(ctx, tenantID, StockChange{
		ItemID:   itemID,
		Type:     inventory.MovementOut,
		Quantity: req.Quantity,
		Ref:      reference(req.ReferenceType, req.ReferenceID, req.Notes, actorID),
	})
}

// Adjust sets the stock of an item to a counted value
func (s *InventoryService) Adjust(ctx context.Context, tenantID, itemID uuid.UUID, actorID *uuid.UUID, req AdjustRequest) (*MovementResponse, error) {
	return s.change(ctx, tenantID, StockChange{
		ItemID:   itemID,
		Type:     inventory.MovementAdjustment,
		Quantity: req.CountedStock,
		Ref:      reference(inventory.ReferenceStockCount, nil, req.Notes, actorID),
	})
}

// ListMovements lists the stock ledger
func (s *InventoryService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, "", "", "")
	mf := inventory.MovementFilter{
		ItemID: filter.ItemID,
		Type:   inventory.MovementType(filter.Type),
		From:   filter.From,
		To:     filter.To,
	}
	movements, err := s.movementRepo.FindForTenant(ctx, tenantID, mf, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountForTenant(ctx, tenantID, mf)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out, total, nil
}

func (s *InventoryService) change(ctx context.Context, tenantID uuid.UUID, change StockChange) (*MovementResponse, error) {
	var (
		item     *inventory.InventoryItem
		movement *inventory.StockMovement
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, movement, err = ApplyStockChange(ctx, repos, tenantID, change)
		return err
	})
	if err != nil {
		return nil, err
	}

	PublishItemEvents(ctx, s.eventPublisher, item)
	resp := ToMovementResponse(movement)
	return &resp, nil
}

func applyItemDetails(item *inventory.InventoryItem, minStock, cost decimal.Decimal, nutrition *valueobject.Nutrients, density, unitWeight decimal.Decimal) error {
	if err := item.SetMinStock(minStock); err != nil {
		return err
	}
	if err := item.SetCostPerUnit(cost); err != nil {
		return err
	}
	if nutrition != nil {
		if err := item.SetNutrition(*nutrition); err != nil {
			return err
		}
	}
	return item.SetConversion(density, unitWeight)
}

func reference(refType string, refID *uuid.UUID, notes string, actorID *uuid.UUID) inventory.MovementReference {
	if refType == "" {
		refType = inventory.ReferenceManual
	}
	return inventory.MovementReference{Type: refType, ID: refID, Notes: notes, ActorID: actorID}
}

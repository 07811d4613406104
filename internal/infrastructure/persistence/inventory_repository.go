package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements inventory.ItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

var inventoryList = listOptions{
	sortFields:   InventorySortFields,
	defaultOrder: "name ASC",
	searchCols:   []string{"code", "name"},
}

const lowStockCondition = "min_stock > 0 AND current_stock < min_stock"

// FindByIDForTenant finds an inventory item by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds multiple items by their IDs
func (r *GormInventoryItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	if len(ids) == 0 {
		return []inventory.InventoryItem{}, nil
	}
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAllForTenant lists inventory items
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, inventoryList).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountForTenant counts inventory items
func (r *GormInventoryItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindLowStock lists active items below their minimum stock
func (r *GormInventoryItemRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ? AND "+lowStockCondition, tenantID, true).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountLowStock counts active items below their minimum stock
func (r *GormInventoryItemRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND is_active = ? AND "+lowStockCondition, tenantID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an item code is taken in the tenant
func (r *GormInventoryItemRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock writes back stock fields only if nobody else moved the item since it was loaded
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("tenant_id = ? AND id = ? AND version = ?", item.TenantID, item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"current_stock": item.CurrentStock,
			"cost_per_unit": item.CostPerUnit,
			"version":       item.Version,
			"updated_at":    item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes an inventory item within a tenant
func (r *GormInventoryItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryItem{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInventoryItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, inventoryList.searchCols)
	if v, ok := filterString(filter, "category"); ok {
		query = query.Where("category = ?", v)
	}
	if v, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", v)
	}
	if v, ok := filter.Filters["low_stock"].(bool); ok && v {
		query = query.Where(lowStockCondition)
	}
	return query
}

// GormStockMovementRepository implements inventory.MovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

var movementList = listOptions{
	sortFields:   StockMovementSortFields,
	defaultOrder: "created_at DESC",
}

// Create appends a movement to the ledger
func (r *GormStockMovementRepository) Create(ctx context.Context, m *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindForTenant lists ledger entries, newest first by default
func (r *GormStockMovementRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, mf inventory.MovementFilter, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := applyPage(r.movementQuery(ctx, tenantID, mf), filter, movementList)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountForTenant counts ledger entries
func (r *GormStockMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, mf inventory.MovementFilter) (int64, error) {
	var count int64
	if err := r.movementQuery(ctx, tenantID, mf).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockMovementRepository) movementQuery(ctx context.Context, tenantID uuid.UUID, mf inventory.MovementFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).Where("tenant_id = ?", tenantID)
	if mf.ItemID != nil {
		query = query.Where("item_id = ?", *mf.ItemID)
	}
	if mf.Type != "" {
		query = query.Where("type = ?", mf.Type)
	}
	if mf.From != nil {
		query = query.Where("created_at >= ?", *mf.From)
	}
	if mf.To != nil {
		query = query.Where("created_at <= ?", *mf.To)
	}
	return query
}

var (
	_ inventory.ItemRepository     = (*GormInventoryItemRepository)(nil)
	_ inventory.MovementRepository = (*GormStockMovementRepository)(nil)
)

package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements procurement.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

var supplierList = listOptions{
	sortFields:   SupplierSortFields,
	defaultOrder: "name ASC",
	searchCols:   []string{"code", "name", "contact_name", "phone"},
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Supplier, error) {
	var supplier procurement.Supplier
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForTenant lists suppliers for a tenant
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Supplier, error) {
	var suppliers []procurement.Supplier
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&procurement.Supplier{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, supplierList).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CountForTenant counts suppliers for a tenant
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&procurement.Supplier{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a supplier with the given code exists in the tenant
func (r *GormSupplierRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.Supplier{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *procurement.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// DeleteForTenant deletes a supplier within a tenant
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&procurement.Supplier{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSupplierRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, supplierList.searchCols)
	if v, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", v)
	}
	return query
}

// GormProcurementOrderRepository implements procurement.OrderRepository using GORM
type GormProcurementOrderRepository struct {
	db *gorm.DB
}

// NewGormProcurementOrderRepository creates a new GormProcurementOrderRepository
func NewGormProcurementOrderRepository(db *gorm.DB) *GormProcurementOrderRepository {
	return &GormProcurementOrderRepository{db: db}
}

var procurementList = listOptions{
	sortFields:   ProcurementSortFields,
	defaultOrder: "order_date DESC, order_number DESC",
	searchCols:   []string{"order_number", "notes"},
}

// FindByIDForTenant loads an order with its lines
func (r *GormProcurementOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.ProcurementOrder, error) {
	var order procurement.ProcurementOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant lists orders without their lines
func (r *GormProcurementOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.ProcurementOrder, error) {
	var orders []procurement.ProcurementOrder
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&procurement.ProcurementOrder{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, procurementList).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountForTenant counts orders for a tenant
func (r *GormProcurementOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&procurement.ProcurementOrder{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOnDate counts orders dated on the given day
func (r *GormProcurementOrderRepository) CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&procurement.ProcurementOrder{}).
		Where("tenant_id = ? AND order_date = ?", tenantID, dayOf(date)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySupplier counts orders placed with a supplier
func (r *GormProcurementOrderRepository) CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&procurement.ProcurementOrder{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the order and replaces its lines in one transaction
func (r *GormProcurementOrderRepository) Save(ctx context.Context, order *procurement.ProcurementOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&procurement.OrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		return tx.Create(&order.Items).Error
	})
}

func (r *GormProcurementOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, procurementList.searchCols)
	if v, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := filterString(filter, "supplier_id"); ok {
		query = query.Where("supplier_id = ?", v)
	}
	if v, ok := filter.Filters["from"].(time.Time); ok {
		query = query.Where("order_date >= ?", dayOf(v))
	}
	if v, ok := filter.Filters["to"].(time.Time); ok {
		query = query.Where("order_date <= ?", dayOf(v))
	}
	return query
}

var (
	_ procurement.SupplierRepository = (*GormSupplierRepository)(nil)
	_ procurement.OrderRepository    = (*GormProcurementOrderRepository)(nil)
)

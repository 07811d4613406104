package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionRepository implements production.Repository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

var productionList = listOptions{
	sortFields:   ProductionSortFields,
	defaultOrder: "production_date DESC, batch_number DESC",
	searchCols:   []string{"batch_number", "head_cook"},
}

// FindByIDForTenant finds a production batch by ID within a tenant
func (r *GormProductionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Production, error) {
	var p production.Production
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForTenant lists production batches
func (r *GormProductionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.Production, error) {
	var list []production.Production
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&production.Production{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, productionList).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountForTenant counts production batches
func (r *GormProductionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&production.Production{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOnDate counts batches scheduled on the given day
func (r *GormProductionRepository) CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&production.Production{}).
		Where("tenant_id = ? AND production_date = ?", tenantID, dayOf(date)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumCompletedPortions totals actual portions of batches completed for the day
func (r *GormProductionRepository) SumCompletedPortions(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&production.Production{}).
		Where("tenant_id = ? AND production_date = ? AND status = ?", tenantID, dayOf(date), production.StatusCompleted).
		Select("COALESCE(SUM(actual_portions), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates a production batch
func (r *GormProductionRepository) Save(ctx context.Context, p *production.Production) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveWithLock updates the batch only if its stored version is one below p's
func (r *GormProductionRepository) SaveWithLock(ctx context.Context, p *production.Production) error {
	result := r.db.WithContext(ctx).
		Model(p).
		Where("tenant_id = ? AND version = ?", p.TenantID, p.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormProductionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, productionList.searchCols)
	if v, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := filterString(filter, "menu_id"); ok {
		query = query.Where("menu_id = ?", v)
	}
	if v, ok := filter.Filters["date"].(time.Time); ok {
		query = query.Where("production_date = ?", dayOf(v))
	}
	return query
}

var _ production.Repository = (*GormProductionRepository)(nil)

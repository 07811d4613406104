package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuRepository implements menu.MenuRepository using GORM
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GormMenuRepository
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

var menuList = listOptions{
	sortFields:   MenuSortFields,
	defaultOrder: "name ASC",
	searchCols:   []string{"code", "name"},
}

// FindByIDForTenant loads a menu with its ingredients in recipe order
func (r *GormMenuRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*menu.Menu, error) {
	var m menu.Menu
	if err := r.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAllForTenant lists menus without their ingredients
func (r *GormMenuRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]menu.Menu, error) {
	var menus []menu.Menu
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&menu.Menu{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, menuList).Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// CountForTenant counts menus for a tenant
func (r *GormMenuRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&menu.Menu{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a menu code is taken in the tenant
func (r *GormMenuRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&menu.Menu{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the menu and replaces its ingredient lines in one transaction
func (r *GormMenuRepository) Save(ctx context.Context, m *menu.Menu) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients").Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", m.ID).Delete(&menu.MenuIngredient{}).Error; err != nil {
			return err
		}
		if len(m.Ingredients) == 0 {
			return nil
		}
		return tx.Create(&m.Ingredients).Error
	})
}

// DeleteForTenant deletes a menu and its ingredients
func (r *GormMenuRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&menu.Menu{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("menu_id = ?", id).Delete(&menu.MenuIngredient{}).Error
	})
}

func (r *GormMenuRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, menuList.searchCols)
	if v, ok := filterString(filter, "meal_type"); ok {
		query = query.Where("meal_type = ?", v)
	}
	if v, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", v)
	}
	return query
}

// GormMenuPlanRepository implements menu.PlanRepository using GORM
type GormMenuPlanRepository struct {
	db *gorm.DB
}

// NewGormMenuPlanRepository creates a new GormMenuPlanRepository
func NewGormMenuPlanRepository(db *gorm.DB) *GormMenuPlanRepository {
	return &GormMenuPlanRepository{db: db}
}

var menuPlanList = listOptions{
	sortFields:   MenuPlanSortFields,
	defaultOrder: "plan_date ASC, created_at ASC",
}

// FindByIDForTenant finds a menu plan by ID within a tenant
func (r *GormMenuPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*menu.MenuPlan, error) {
	var p menu.MenuPlan
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

// FindByDateRange lists plans whose date falls in [from, to]
func (r *GormMenuPlanRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]menu.MenuPlan, error) {
	var plans []menu.MenuPlan
	query := r.rangeQuery(ctx, tenantID, from, to, filter)
	if err := applyPage(query, filter, menuPlanList).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// CountByDateRange counts plans whose date falls in [from, to]
func (r *GormMenuPlanRepository) CountByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.rangeQuery(ctx, tenantID, from, to, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForDateAndMenu checks the one-plan-per-date-and-menu rule
func (r *GormMenuPlanRepository) ExistsForDateAndMenu(ctx context.Context, tenantID uuid.UUID, date time.Time, menuID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&menu.MenuPlan{}).
		Where("tenant_id = ? AND plan_date = ? AND menu_id = ?", tenantID, dayOf(date), menuID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumPortionsOnDate totals planned portions for a day
func (r *GormMenuPlanRepository) SumPortionsOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&menu.MenuPlan{}).
		Where("tenant_id = ? AND plan_date = ?", tenantID, dayOf(date)).
		Select("COALESCE(SUM(planned_portions), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Save creates or updates a menu plan
func (r *GormMenuPlanRepository) Save(ctx context.Context, p *menu.MenuPlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeleteForTenant deletes a menu plan within a tenant
func (r *GormMenuPlanRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&menu.MenuPlan{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormMenuPlanRepository) rangeQuery(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&menu.MenuPlan{}).
		Where("tenant_id = ? AND plan_date >= ? AND plan_date <= ?", tenantID, dayOf(from), dayOf(to))
	if v, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := filterString(filter, "menu_id"); ok {
		query = query.Where("menu_id = ?", v)
	}
	if v, ok := filterString(filter, "school_id"); ok {
		query = query.Where("school_id = ?", v)
	}
	return query
}

// dayOf truncates t to UTC midnight of its calendar date, matching how dates are stored
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	_ menu.MenuRepository = (*GormMenuRepository)(nil)
	_ menu.PlanRepository = (*GormMenuPlanRepository)(nil)
)

package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSchoolRepository implements distribution.SchoolRepository using GORM
type GormSchoolRepository struct {
	db *gorm.DB
}

// NewGormSchoolRepository creates a new GormSchoolRepository
func NewGormSchoolRepository(db *gorm.DB) *GormSchoolRepository {
	return &GormSchoolRepository{db: db}
}

var schoolList = listOptions{
	sortFields:   SchoolSortFields,
	defaultOrder: "name ASC",
	searchCols:   []string{"npsn", "name", "address"},
}

// FindByIDForTenant finds a school by ID within a tenant
func (r *GormSchoolRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*distribution.School, error) {
	var s distribution.School
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAllForTenant lists schools served by a tenant
func (r *GormSchoolRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]distribution.School, error) {
	var schools []distribution.School
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&distribution.School{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, schoolList).Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

// CountForTenant counts schools served by a tenant
func (r *GormSchoolRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&distribution.School{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNPSN checks if a school with the NPSN is registered in the tenant
func (r *GormSchoolRepository) ExistsByNPSN(ctx context.Context, tenantID uuid.UUID, npsn string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&distribution.School{}).
		Where("tenant_id = ? AND npsn = ?", tenantID, strings.TrimSpace(npsn)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a school
func (r *GormSchoolRepository) Save(ctx context.Context, s *distribution.School) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteForTenant deletes a school within a tenant
func (r *GormSchoolRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&distribution.School{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSchoolRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, schoolList.searchCols)
	if v, ok := filterString(filter, "level"); ok {
		query = query.Where("level = ?", v)
	}
	if v, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", v)
	}
	return query
}

// GormDistributionRepository implements distribution.Repository using GORM
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

var distributionList = listOptions{
	sortFields:   DistributionSortFields,
	defaultOrder: "scheduled_date DESC, distribution_number DESC",
	searchCols:   []string{"distribution_number", "driver_name", "vehicle_plate"},
}

var activeDistributionStatuses = []distribution.Status{
	distribution.StatusScheduled,
	distribution.StatusPreparing,
	distribution.StatusInTransit,
}

// FindByIDForTenant finds a distribution by ID within a tenant
func (r *GormDistributionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*distribution.Distribution, error) {
	var d distribution.Distribution
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAllForTenant lists distributions
func (r *GormDistributionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]distribution.Distribution, error) {
	var list []distribution.Distribution
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&distribution.Distribution{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, distributionList).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountForTenant counts distributions
func (r *GormDistributionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&distribution.Distribution{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOnDate counts distributions scheduled for the day, used for numbering
func (r *GormDistributionRepository) CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&distribution.Distribution{}).
		Where("tenant_id = ? AND scheduled_date = ?", tenantID, dayOf(date)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts the day's deliveries that are not yet delivered or cancelled
func (r *GormDistributionRepository) CountActive(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&distribution.Distribution{}).
		Where("tenant_id = ? AND scheduled_date = ? AND status IN ?", tenantID, dayOf(date), activeDistributionStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumDeliveredPortions totals portions delivered for the day
func (r *GormDistributionRepository) SumDeliveredPortions(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&distribution.Distribution{}).
		Where("tenant_id = ? AND scheduled_date = ? AND status = ?", tenantID, dayOf(date), distribution.StatusDelivered).
		Select("COALESCE(SUM(portions), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountBySchool counts distributions to a school
func (r *GormDistributionRepository) CountBySchool(ctx context.Context, tenantID, schoolID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&distribution.Distribution{}).
		Where("tenant_id = ? AND school_id = ?", tenantID, schoolID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a distribution
func (r *GormDistributionRepository) Save(ctx context.Context, d *distribution.Distribution) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *GormDistributionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, distributionList.searchCols)
	if v, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := filterString(filter, "school_id"); ok {
		query = query.Where("school_id = ?", v)
	}
	if v, ok := filterString(filter, "production_id"); ok {
		query = query.Where("production_id = ?", v)
	}
	if v, ok := filter.Filters["date"].(time.Time); ok {
		query = query.Where("scheduled_date = ?", dayOf(v))
	}
	return query
}

var (
	_ distribution.SchoolRepository = (*GormSchoolRepository)(nil)
	_ distribution.Repository       = (*GormDistributionRepository)(nil)
)

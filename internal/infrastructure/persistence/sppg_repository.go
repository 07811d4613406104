package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSPPGRepository implements sppg.Repository using GORM
type GormSPPGRepository struct {
	db *gorm.DB
}

// NewGormSPPGRepository creates a new GormSPPGRepository
func NewGormSPPGRepository(db *gorm.DB) *GormSPPGRepository {
	return &GormSPPGRepository{db: db}
}

var sppgList = listOptions{
	sortFields:   SPPGSortFields,
	defaultOrder: "name ASC",
	searchCols:   []string{"code", "name", "regency"},
}

// FindByID finds an SPPG by its ID
func (r *GormSPPGRepository) FindByID(ctx context.Context, id uuid.UUID) (*sppg.SPPG, error) {
	var s sppg.SPPG
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCode finds an SPPG by its code
func (r *GormSPPGRepository) FindByCode(ctx context.Context, code string) (*sppg.SPPG, error) {
	var s sppg.SPPG
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists SPPGs matching the filter
func (r *GormSPPGRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sppg.SPPG, error) {
	var list []sppg.SPPG
	query := applyPage(r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sppg.SPPG{}), filter), filter, sppgList)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Count counts SPPGs matching the filter
func (r *GormSPPGRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sppg.SPPG{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts SPPGs grouped by status
func (r *GormSPPGRepository) CountByStatus(ctx context.Context) (map[sppg.Status]int64, error) {
	var rows []struct {
		Status sppg.Status
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&sppg.SPPG{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[sppg.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

// ExistsByCode checks if an SPPG with the given code exists
func (r *GormSPPGRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sppg.SPPG{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an SPPG
func (r *GormSPPGRepository) Save(ctx context.Context, s *sppg.SPPG) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *GormSPPGRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, sppgList.searchCols)
	if v, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", v)
	}
	if v, ok := filterString(filter, "plan"); ok {
		query = query.Where("plan = ?", v)
	}
	if v, ok := filterString(filter, "province"); ok {
		query = query.Where("province = ?", v)
	}
	return query
}

var _ sppg.Repository = (*GormSPPGRepository)(nil)

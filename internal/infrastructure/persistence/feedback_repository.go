package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeedbackRepository implements feedback.Repository using GORM
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new GormFeedbackRepository
func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

var feedbackList = listOptions{
	sortFields:   FeedbackSortFields,
	defaultOrder: "created_at DESC",
	searchCols:   []string{"comment"},
}

// FindByIDForTenant finds feedback by ID within a tenant
func (r *GormFeedbackRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*feedback.Feedback, error) {
	var f feedback.Feedback
	if err := withTenant(ctx, r.db, tenantID).
		Where("id = ?", id).
		First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FindAllForTenant lists feedback, newest first by default
func (r *GormFeedbackRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]feedback.Feedback, error) {
	var list []feedback.Feedback
	query := r.applyFilterWithoutPagination(withTenant(ctx, r.db, tenantID).Model(&feedback.Feedback{}), filter)
	if err := applyPage(query, filter, feedbackList).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountForTenant counts feedback
func (r *GormFeedbackRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(withTenant(ctx, r.db, tenantID).Model(&feedback.Feedback{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Stats aggregates ratings, categories and statuses, optionally within [from, to)
func (r *GormFeedbackRepository) Stats(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (feedback.Stats, error) {
	stats := feedback.NewStats()
	base := func() *gorm.DB {
		q := withTenant(ctx, r.db, tenantID).Model(&feedback.Feedback{})
		if from != nil {
			q = q.Where("created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("created_at < ?", *to)
		}
		return q
	}

	var totals struct {
		Total   int64
		Average float64
	}
	if err := base().Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average").Scan(&totals).Error; err != nil {
		return stats, err
	}
	stats.Total = totals.Total
	stats.AverageRating = totals.Average

	var byCategory []struct {
		Category feedback.Category
		Total    int64
	}
	if err := base().Select("category, COUNT(*) AS total").Group("category").Scan(&byCategory).Error; err != nil {
		return stats, err
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Category] = row.Total
	}

	var byStatus []struct {
		Status feedback.Status
		Total  int64
	}
	if err := base().Select("status, COUNT(*) AS total").Group("status").Scan(&byStatus).Error; err != nil {
		return stats, err
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Total
	}
	return stats, nil
}

// Save creates or updates feedback
func (r *GormFeedbackRepository) Save(ctx context.Context, f *feedback.Feedback) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *GormFeedbackRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, feedbackList.searchCols)
	for _, key := range []string{"status", "category", "source", "school_id"} {
		if v, ok := filterString(filter, key); ok {
			query = query.Where(key+" = ?", v)
		}
	}
	if v, ok := filter.Filters["rating"].(int); ok {
		query = query.Where("rating = ?", v)
	}
	return query
}

var _ feedback.Repository = (*GormFeedbackRepository)(nil)

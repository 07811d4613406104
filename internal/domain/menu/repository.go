package menu

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MenuRepository defines persistence for menus and their ingredients
type MenuRepository interface {
	// FindByIDForTenant loads the menu with its ingredients
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Menu, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Menu, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// Save upserts the menu and replaces its ingredient lines
	Save(ctx context.Context, m *Menu) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PlanRepository defines persistence for menu plans
type PlanRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MenuPlan, error)
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]MenuPlan, error)
	CountByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) (int64, error)
	ExistsForDateAndMenu(ctx context.Context, tenantID uuid.UUID, date time.Time, menuID uuid.UUID, excludeID *uuid.UUID) (bool, error)
	SumPortionsOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)
	Save(ctx context.Context, p *MenuPlan) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

package menu

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// maxPlanRange bounds ListPlans so a calendar view cannot scan years of data
const maxPlanRange = 92 * 24 * time.Hour

// CreatePlan schedules an active menu on a date
func (s *MenuService) CreatePlan(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req PlanRequest) (*PlanResponse, error) {
	date, err := parseDate(req.PlanDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlannable(ctx, tenantID, date, req.MenuID, nil); err != nil {
		return nil, err
	}

	plan, err := menu.NewMenuPlan(tenantID, date, req.MenuID, req.SchoolID, req.PlannedPortions)
	if err != nil {
		return nil, err
	}
	plan.Notes = req.Notes
	if actorID != nil {
		plan.SetCreatedBy(*actorID)
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// GetPlan retrieves a plan
func (s *MenuService) GetPlan(ctx context.Context, tenantID, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// UpdatePlan changes a draft plan
func (s *MenuService) UpdatePlan(ctx context.Context, tenantID, id uuid.UUID, req PlanRequest) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.PlanDate)
	if err != nil {
		return nil, err
	}
	if !plan.PlanDate.Equal(date) || plan.MenuID != req.MenuID {
		if err := s.checkPlannable(ctx, tenantID, date, req.MenuID, &plan.ID); err != nil {
			return nil, err
		}
	}
	if err := plan.Update(date, req.MenuID, req.SchoolID, req.PlannedPortions, req.Notes); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// ApprovePlan locks a plan for production
func (s *MenuService) ApprovePlan(ctx context.Context, tenantID, id, approverID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Approve(approverID, s.now()); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// DeletePlan removes a draft plan
func (s *MenuService) DeletePlan(ctx context.Context, tenantID, id uuid.UUID) error {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if plan.IsApproved() {
		return shared.NewDomainError("INVALID_STATE", "Approved plans cannot be deleted")
	}
	return s.planRepo.DeleteForTenant(ctx, tenantID, id)
}

// ListPlans lists plans between two dates, inclusive
func (s *MenuService) ListPlans(ctx context.Context, tenantID uuid.UUID, filter PlanListFilter) ([]PlanResponse, int64, error) {
	from, err := parseDate(filter.From)
	if err != nil {
		return nil, 0, err
	}
	to, err := parseDate(filter.To)
	if err != nil {
		return nil, 0, err
	}
	if to.Before(from) {
		return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "End date must not be before start date")
	}
	if to.Sub(from) > maxPlanRange {
		return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "Date range cannot exceed 92 days")
	}

	f := shared.NewFilter(filter.Page, filter.PageSize, "", "", "")
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.MenuID != nil {
		f.Filters["menu_id"] = *filter.MenuID
	}
	if filter.SchoolID != nil {
		f.Filters["school_id"] = *filter.SchoolID
	}

	plans, err := s.planRepo.FindByDateRange(ctx, tenantID, from, to, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.planRepo.CountByDateRange(ctx, tenantID, from, to, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PlanResponse, len(plans))
	for i := range plans {
		out[i] = ToPlanResponse(&plans[i])
	}
	return out, total, nil
}

func (s *MenuService) checkPlannable(ctx context.Context, tenantID uuid.UUID, date time.Time, menuID uuid.UUID, excludeID *uuid.UUID) error {
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, menuID)
	if err != nil {
		return err
	}
	if !m.IsActive {
		return shared.NewDomainError("MENU_INACTIVE", "Inactive menus cannot be planned")
	}
	exists, err := s.planRepo.ExistsForDateAndMenu(ctx, tenantID, date, menuID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Menu is already planned on this date")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be YYYY-MM-DD")
	}
	return t, nil
}

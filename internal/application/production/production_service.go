package production

import (
	"context"
	"fmt"
	"time"

	appinventory "github.com/bergizi/backend/internal/application/inventory"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductionService runs kitchen batches from plan to completion
type ProductionService struct {
	productionRepo production.Repository
	menuRepo       menu.MenuRepository
	planRepo       menu.PlanRepository
	txScope        appinventory.TransactionScope
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	productionRepo production.Repository,
	menuRepo menu.MenuRepository,
	planRepo menu.PlanRepository,
	txScope appinventory.TransactionScope,
) *ProductionService {
	return &ProductionService{
		productionRepo: productionRepo,
		menuRepo:       menuRepo,
		planRepo:       planRepo,
		txScope:        txScope,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create plans a batch numbered PRD-YYYYMMDD-NNN
func (s *ProductionService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateProductionRequest) (*ProductionResponse, error) {
	date, err := time.Parse(time.DateOnly, req.ProductionDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Production date must be YYYY-MM-DD")
	}
	menuID, portions := req.MenuID, req.PlannedPortions

	if req.MenuPlanID != nil {
		plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, *req.MenuPlanID)
		if err != nil {
			return nil, err
		}
		if !plan.IsApproved() {
			return nil, shared.NewDomainError("PLAN_NOT_APPROVED", "Menu plan must be approved before production")
		}
		if menuID != uuid.Nil && menuID != plan.MenuID {
			return nil, shared.NewDomainError("INVALID_MENU", "Menu does not match the menu plan")
		}
		menuID = plan.MenuID
		if portions == 0 {
			portions = plan.PlannedPortions
		}
	}
	if menuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MENU", "Menu is required")
	}

	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, menuID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, shared.NewDomainError("MENU_INACTIVE", "Inactive menus cannot be produced")
	}

	count, err := s.productionRepo.CountOnDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	number := fmt.Sprintf("PRD-%s-%03d", date.Format("20060102"), count+1)

	p, err := production.NewProduction(tenantID, number, date, menuID, portions)
	if err != nil {
		return nil, err
	}
	p.MenuPlanID = req.MenuPlanID
	p.Notes = req.Notes
	if actorID != nil {
		p.SetCreatedBy(*actorID)
	}
	if err := s.productionRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProductionResponse(p)
	return &resp, nil
}

// GetByID retrieves a batch
func (s *ProductionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductionResponse, error) {
	p, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductionResponse(p)
	return &resp, nil
}

// List retrieves batches with filtering and pagination
func (s *ProductionService) List(ctx context.Context, tenantID uuid.UUID, filter ProductionListFilter) ([]ProductionResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.MenuID != nil {
		f.Filters["menu_id"] = *filter.MenuID
	}
	if filter.Date != nil {
		f.Filters["date"] = *filter.Date
	}

	batches, err := s.productionRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productionRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductionResponse, len(batches))
	for i := range batches {
		out[i] = ToProductionResponse(&batches[i])
	}
	return out, total, nil
}

// Start moves a planned batch into preparation and takes the scaled recipe
// out of inventory. Stock and batch commit together; any shortage aborts
// the start.
func (s *ProductionService) Start(ctx context.Context, tenantID, id uuid.UUID, actorID *uuid.UUID, req StartRequest) (*ProductionResponse, error) {
	var (
		p     *production.Production
		items []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		p, err = repos.ProductionRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := p.StartPreparation(req.HeadCook, s.now()); err != nil {
			return err
		}
		m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, p.MenuID)
		if err != nil {
			return err
		}
		if len(m.Ingredients) == 0 {
			return shared.NewDomainError("MENU_WITHOUT_INGREDIENTS", "Menu "+m.Name+" has no ingredients")
		}

		found, err := repos.ItemRepo().FindByIDs(ctx, tenantID, m.IngredientItemIDs())
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*inventory.InventoryItem, len(found))
		for i := range found {
			byID[found[i].ID] = &found[i]
		}
		consumption, err := production.PlanConsumption(m, p.PlannedPortions, byID)
		if err != nil {
			return err
		}

		items = items[:0]
		for _, c := range consumption {
			if !c.Quantity.IsPositive() {
				continue
			}
			item, _, err := appinventory.ApplyStockChange(ctx, repos, tenantID, appinventory.StockChange{
				ItemID:   c.Item.ID,
				Type:     inventory.MovementOut,
				Quantity: c.Quantity,
				Ref: inventory.MovementReference{
					Type:    inventory.ReferenceProduction,
					ID:      &p.ID,
					Notes:   p.BatchNumber,
					ActorID: actorID,
				},
			})
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return repos.ProductionRepo().SaveWithLock(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	appinventory.PublishItemEvents(ctx, s.eventPublisher, items...)
	s.publish(ctx, p)
	resp := ToProductionResponse(p)
	return &resp, nil
}

// AdvanceToCooking moves a preparing batch onto the stove
func (s *ProductionService) AdvanceToCooking(ctx context.Context, tenantID, id uuid.UUID) (*ProductionResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *production.Production) error {
		return p.StartCooking(s.now())
	})
}

// SubmitQualityCheck records a QC result. A failed check keeps the batch cooking.
func (s *ProductionService) SubmitQualityCheck(ctx context.Context, tenantID, id, checkerID uuid.UUID, req QualityCheckRequest) (*ProductionResponse, error) {
	if req.Passed == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "QC result is required")
	}
	return s.transition(ctx, tenantID, id, func(p *production.Production) error {
		return p.SubmitQualityCheck(*req.Passed, req.Temperature, req.Notes, checkerID, s.now())
	})
}

// Complete finishes a batch that passed QC
func (s *ProductionService) Complete(ctx context.Context, tenantID, id uuid.UUID, req CompleteRequest) (*ProductionResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *production.Production) error {
		return p.Complete(req.ActualPortions, s.now())
	})
}

// Cancel stops a batch. Ingredients already taken out stay consumed.
func (s *ProductionService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*ProductionResponse, error) {
	return s.transition(ctx, tenantID, id, func(p *production.Production) error {
		return p.Cancel(req.Reason, s.now())
	})
}

func (s *ProductionService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*production.Production) error) (*ProductionResponse, error) {
	p, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.productionRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, p)
	resp := ToProductionResponse(p)
	return &resp, nil
}

func (s *ProductionService) publish(ctx context.Context, p *production.Production) {
	if s.eventPublisher == nil {
		return
	}
	if events := p.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		p.ClearDomainEvents()
	}
}

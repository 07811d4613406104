package menu

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuService handles menus, their recipes, nutrition and plans
type MenuService struct {
	menuRepo   menu.MenuRepository
	planRepo   menu.PlanRepository
	itemRepo   inventory.ItemRepository
	calculator *menu.NutritionCalculator
	printer    MenuCardPrinter
	now        func() time.Time
}

// NewMenuService creates a new MenuService
func NewMenuService(
	menuRepo menu.MenuRepository,
	planRepo menu.PlanRepository,
	itemRepo inventory.ItemRepository,
	calculator *menu.NutritionCalculator,
) *MenuService {
	if calculator == nil {
		calculator = menu.NewNutritionCalculator()
	}
	return &MenuService{
		menuRepo:   menuRepo,
		planRepo:   planRepo,
		itemRepo:   itemRepo,
		calculator: calculator,
		now:        time.Now,
	}
}

// Create creates a menu without ingredients
func (s *MenuService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateMenuRequest) (*MenuResponse, error) {
	exists, err := s.menuRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Menu code already exists")
	}

	m, err := menu.NewMenu(tenantID, req.Code, req.Name, menu.MealType(req.MealType), req.ServingSizeGrams)
	if err != nil {
		return nil, err
	}
	if err := m.Update(req.Name, req.Description, m.MealType, m.ServingSizeGrams); err != nil {
		return nil, err
	}
	if err := m.SetCostPerServing(req.CostPerServing); err != nil {
		return nil, err
	}
	if actorID != nil {
		m.SetCreatedBy(*actorID)
	}

	if err := s.menuRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMenuResponse(m)
	return &resp, nil
}

// GetByID retrieves a menu with its ingredients
func (s *MenuService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MenuResponse, error) {
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMenuResponse(m)
	return &resp, nil
}

// List retrieves menus with filtering and pagination
func (s *MenuService) List(ctx context.Context, tenantID uuid.UUID, filter MenuListFilter) ([]MenuResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.MealType != "" {
		f.Filters["meal_type"] = filter.MealType
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	menus, err := s.menuRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.menuRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MenuResponse, len(menus))
	for i := range menus {
		out[i] = ToMenuResponse(&menus[i])
	}
	return out, total, nil
}

// Update changes a menu's descriptive fields
func (s *MenuService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateMenuRequest) (*MenuResponse, error) {
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := m.Update(req.Name, req.Description, menu.MealType(req.MealType), req.ServingSizeGrams); err != nil {
		return nil, err
	}
	if err := m.SetCostPerServing(req.CostPerServing); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			m.Activate()
		} else {
			m.Deactivate()
		}
	}
	if err := s.menuRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMenuResponse(m)
	return &resp, nil
}

// Delete removes a menu
func (s *MenuService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.menuRepo.DeleteForTenant(ctx, tenantID, id)
}

// SetIngredients replaces the recipe. Every line must reference an active
// inventory item of the tenant; missing names and units are taken from it.
func (s *MenuService) SetIngredients(ctx context.Context, tenantID, id uuid.UUID, req SetIngredientsRequest) (*MenuResponse, error) {
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(req.Ingredients))
	for i, line := range req.Ingredients {
		ids[i] = line.InventoryItemID
	}
	items, err := s.loadItems(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	inputs := make([]menu.IngredientInput, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		item, ok := items[line.InventoryItemID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_INGREDIENT", "Inventory item not found")
		}
		if !item.IsActive {
			return nil, shared.NewDomainError("INVALID_INGREDIENT", "Inventory item "+item.Name+" is inactive")
		}
		in := menu.IngredientInput{
			InventoryItemID: item.ID,
			Name:            line.Name,
			Quantity:        line.Quantity,
			Unit:            item.Unit,
		}
		if in.Name == "" {
			in.Name = item.Name
		}
		if line.Unit != "" {
			unit, err := valueobject.ParseUnit(line.Unit)
			if err != nil {
				return nil, err
			}
			// reject lines the calculator could never convert
			if _, err := unit.ToGrams(decimal.NewFromInt(1), item.Conversion()); err != nil {
				return nil, err
			}
			in.Unit = unit
		}
		inputs = append(inputs, in)
	}

	if err := m.SetIngredients(inputs); err != nil {
		return nil, err
	}
	if err := s.menuRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMenuResponse(m)
	return &resp, nil
}

// CalculateNutrition computes the nutrition of a menu for the given number
// of portions from the current inventory item values. With a level, the
// per-portion values are also checked against that level's AKG.
func (s *MenuService) CalculateNutrition(ctx context.Context, tenantID, id uuid.UUID, req NutritionRequest) (*menu.NutritionResult, error) {
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	portions := req.Portions
	if portions == 0 {
		portions = 1
	}

	items, err := s.loadItems(ctx, tenantID, m.IngredientItemIDs())
	if err != nil {
		return nil, err
	}

	// recipes are per portion, so a batch of N portions uses N times each line
	scale := decimal.NewFromInt(int64(portions))
	ingredients := make([]menu.IngredientNutrition, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		item, ok := items[ing.InventoryItemID]
		if !ok {
			return nil, shared.NewDomainError("INGREDIENT_ITEM_MISSING", "Inventory item for ingredient "+ing.Name+" not found")
		}
		ingredients = append(ingredients, menu.IngredientNutrition{
			Name:       ing.Name,
			Quantity:   ing.Quantity.Mul(scale),
			Unit:       ing.Unit,
			Per100g:    item.Nutrition,
			Conversion: item.Conversion(),
		})
	}

	if req.Level == "" {
		return s.calculator.Calculate(ingredients, portions)
	}
	return s.calculator.Analyze(ingredients, portions, menu.SchoolLevel(req.Level))
}

func (s *MenuService) loadItems(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*inventory.InventoryItem, error) {
	out := make(map[uuid.UUID]*inventory.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	items, err := s.itemRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

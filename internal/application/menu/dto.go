package menu

import (
	"time"

	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuResponse represents a menu in API responses
type MenuResponse struct {
	ID               uuid.UUID            `json:"id"`
	Code             string               `json:"code"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	MealType         string               `json:"meal_type"`
	ServingSizeGrams int                  `json:"serving_size_grams"`
	CostPerServing   decimal.Decimal      `json:"cost_per_serving"`
	IsActive         bool                 `json:"is_active"`
	Ingredients      []IngredientResponse `json:"ingredients"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int                  `json:"version"`
}

// IngredientResponse is one line of a menu's recipe
type IngredientResponse struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
}

// CreateMenuRequest represents a request to create a menu
type CreateMenuRequest struct {
	Code             string          `json:"code" binding:"required,max=50"`
	Name             string          `json:"name" binding:"required,max=200"`
	Description      string          `json:"description"`
	MealType         string          `json:"meal_type" binding:"required,oneof=breakfast lunch snack"`
	ServingSizeGrams int             `json:"serving_size_grams" binding:"required,min=1"`
	CostPerServing   decimal.Decimal `json:"cost_per_serving"`
}

// UpdateMenuRequest represents a request to update a menu
type UpdateMenuRequest struct {
	Name             string          `json:"name" binding:"required,max=200"`
	Description      string          `json:"description"`
	MealType         string          `json:"meal_type" binding:"required,oneof=breakfast lunch snack"`
	ServingSizeGrams int             `json:"serving_size_grams" binding:"required,min=1"`
	CostPerServing   decimal.Decimal `json:"cost_per_serving"`
	IsActive         *bool           `json:"is_active"`
}

// SetIngredientsRequest replaces a menu's recipe. Quantities are per portion.
type SetIngredientsRequest struct {
	Ingredients []IngredientRequest `json:"ingredients" binding:"dive"`
}

// IngredientRequest is one recipe line. Name and unit default to the
// inventory item's.
type IngredientRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	Name            string          `json:"name" binding:"max=200"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Unit            string          `json:"unit" binding:"omitempty,oneof=g kg mg ml l pcs"`
}

// NutritionRequest asks for the nutrition of a number of portions
type NutritionRequest struct {
	Portions int    `form:"portions" binding:"omitempty,min=1"`
	Level    string `form:"level" binding:"omitempty,oneof=PAUD SD SMP SMA"`
}

// MenuListFilter represents filter options for the menu list
type MenuListFilter struct {
	Search   string `form:"search"`
	MealType string `form:"meal_type" binding:"omitempty,oneof=breakfast lunch snack"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PlanResponse represents a menu plan in API responses
type PlanResponse struct {
	ID              uuid.UUID  `json:"id"`
	PlanDate        string     `json:"plan_date"`
	MenuID          uuid.UUID  `json:"menu_id"`
	SchoolID        *uuid.UUID `json:"school_id,omitempty"`
	PlannedPortions int        `json:"planned_portions"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Version         int        `json:"version"`
}

// PlanRequest creates or updates a menu plan
type PlanRequest struct {
	PlanDate        string     `json:"plan_date" binding:"required,datetime=2006-01-02"`
	MenuID          uuid.UUID  `json:"menu_id" binding:"required"`
	SchoolID        *uuid.UUID `json:"school_id"`
	PlannedPortions int        `json:"planned_portions" binding:"required,min=1"`
	Notes           string     `json:"notes" binding:"max=500"`
}

// PlanListFilter lists plans in a date range
type PlanListFilter struct {
	From     string     `form:"from" binding:"required,datetime=2006-01-02"`
	To       string     `form:"to" binding:"required,datetime=2006-01-02"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft approved"`
	MenuID   *uuid.UUID `form:"menu_id"`
	SchoolID *uuid.UUID `form:"school_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToMenuResponse converts a domain menu to a response
func ToMenuResponse(m *menu.Menu) MenuResponse {
	ingredients := make([]IngredientResponse, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		ingredients[i] = IngredientResponse{
			InventoryItemID: ing.InventoryItemID,
			Name:            ing.Name,
			Quantity:        ing.Quantity,
			Unit:            ing.Unit.String(),
		}
	}
	return MenuResponse{
		ID:               m.ID,
		Code:             m.Code,
		Name:             m.Name,
		Description:      m.Description,
		MealType:         string(m.MealType),
		ServingSizeGrams: m.ServingSizeGrams,
		CostPerServing:   m.CostPerServing,
		IsActive:         m.IsActive,
		Ingredients:      ingredients,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Version:          m.Version,
	}
}

// ToPlanResponse converts a domain plan to a response
func ToPlanResponse(p *menu.MenuPlan) PlanResponse {
	return PlanResponse{
		ID:              p.ID,
		PlanDate:        p.PlanDate.Format(time.DateOnly),
		MenuID:          p.MenuID,
		SchoolID:        p.SchoolID,
		PlannedPortions: p.PlannedPortions,
		Status:          string(p.Status),
		Notes:           p.Notes,
		ApprovedBy:      p.ApprovedBy,
		ApprovedAt:      p.ApprovedAt,
		CreatedAt:       p.CreatedAt,
		Version:         p.Version,
	}
}

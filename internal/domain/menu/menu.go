package menu

import (
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MealType is the meal a menu is served as
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnack     MealType = "snack"
)

// IsValid reports whether m is a known meal type
func (m MealType) IsValid() bool {
	return m == MealBreakfast || m == MealLunch || m == MealSnack
}

// Menu is a dish served to beneficiaries. Ingredient quantities describe
// a single portion.
type Menu struct {
	shared.TenantAggregateRoot
	Code             string           `gorm:"type:varchar(50);not null;index"`
	Name             string           `gorm:"type:varchar(200);not null"`
	Description      string           `gorm:"type:text"`
	MealType         MealType         `gorm:"type:varchar(20);not null"`
	ServingSizeGrams int              `gorm:"not null"`
	CostPerServing   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	IsActive         bool             `gorm:"not null;default:true"`
	Ingredients      []MenuIngredient `gorm:"foreignKey:MenuID;references:ID"`
}

// TableName returns the table name for GORM
func (Menu) TableName() string {
	return "menus"
}

// MenuIngredient is one line of a menu's recipe
type MenuIngredient struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MenuID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID        `gorm:"type:uuid;not null"`
	Name            string           `gorm:"type:varchar(200);not null"`
	Quantity        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Unit            valueobject.Unit `gorm:"type:varchar(10);not null"`
	SortOrder       int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (MenuIngredient) TableName() string {
	return "menu_ingredients"
}

// IngredientInput describes an ingredient to put on a menu
type IngredientInput struct {
	InventoryItemID uuid.UUID
	Name            string
	Quantity        decimal.Decimal
	Unit            valueobject.Unit
}

// NewMenu creates an active menu without ingredients
func NewMenu(tenantID uuid.UUID, code, name string, mealType MealType, servingSizeGrams int) (*Menu, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Menu code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Menu code cannot exceed 50 characters")
	}
	m := &Menu{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		CostPerServing:      decimal.Zero,
		IsActive:            true,
		Ingredients:         make([]MenuIngredient, 0),
	}
	if err := m.Update(name, "", mealType, servingSizeGrams); err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the descriptive fields
func (m *Menu) Update(name, description string, mealType MealType, servingSizeGrams int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Menu name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Menu name cannot exceed 200 characters")
	}
	if !mealType.IsValid() {
		return shared.NewDomainError("INVALID_MEAL_TYPE", "Meal type must be breakfast, lunch or snack")
	}
	if servingSizeGrams <= 0 {
		return shared.NewDomainError("INVALID_SERVING_SIZE", "Serving size must be positive")
	}
	m.Name = name
	m.Description = strings.TrimSpace(description)
	m.MealType = mealType
	m.ServingSizeGrams = servingSizeGrams
	m.Touch()
	m.IncrementVersion()
	return nil
}

// SetCostPerServing sets the estimated cost of one portion
func (m *Menu) SetCostPerServing(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per serving cannot be negative")
	}
	m.CostPerServing = cost
	m.Touch()
	m.IncrementVersion()
	return nil
}

// SetIngredients replaces the recipe. Each inventory item may appear once.
func (m *Menu) SetIngredients(inputs []IngredientInput) error {
	seen := make(map[uuid.UUID]bool, len(inputs))
	lines := make([]MenuIngredient, 0, len(inputs))
	for idx, in := range inputs {
		if in.InventoryItemID == uuid.Nil {
			return shared.NewDomainError("INVALID_INGREDIENT", "Ingredient must reference an inventory item")
		}
		if seen[in.InventoryItemID] {
			return shared.NewDomainError("DUPLICATE_INGREDIENT", "Inventory item appears more than once")
		}
		seen[in.InventoryItemID] = true
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Ingredient quantity must be positive")
		}
		if !in.Unit.IsValid() {
			return valueobject.ErrUnsupportedUnit
		}
		lines = append(lines, MenuIngredient{
			ID:              uuid.New(),
			MenuID:          m.ID,
			InventoryItemID: in.InventoryItemID,
			Name:            strings.TrimSpace(in.Name),
			Quantity:        in.Quantity,
			Unit:            in.Unit,
			SortOrder:       idx,
		})
	}
	m.Ingredients = lines
	m.Touch()
	m.IncrementVersion()
	return nil
}

// IngredientItemIDs returns the inventory items used by the menu
func (m *Menu) IngredientItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		ids = append(ids, ing.InventoryItemID)
	}
	return ids
}

// Activate makes the menu plannable
func (m *Menu) Activate() {
	m.IsActive = true
	m.Touch()
	m.IncrementVersion()
}

// Deactivate retires the menu
func (m *Menu) Deactivate() {
	m.IsActive = false
	m.Touch()
	m.IncrementVersion()
}

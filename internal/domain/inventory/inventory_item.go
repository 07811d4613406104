package inventory

import (
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups ingredients the way the kitchen stores them
type Category string

const (
	CategoryProtein      Category = "protein"
	CategoryCarbohydrate Category = "carbohydrate"
	CategoryVegetable    Category = "vegetable"
	CategoryFruit        Category = "fruit"
	CategoryDairy        Category = "dairy"
	CategorySpice        Category = "spice"
	CategoryOil          Category = "oil"
	CategoryOther        Category = "other"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryProtein, CategoryCarbohydrate, CategoryVegetable, CategoryFruit,
		CategoryDairy, CategorySpice, CategoryOil, CategoryOther:
		return true
	}
	return false
}

// InventoryItem is a stocked ingredient of one SPPG kitchen.
// It is the aggregate root for stock movements.
type InventoryItem struct {
	shared.TenantAggregateRoot
	Code         string                `gorm:"type:varchar(50);not null;index"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Category     Category              `gorm:"type:varchar(30);not null;index"`
	Unit         valueobject.Unit      `gorm:"type:varchar(10);not null"`
	CurrentStock decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerUnit  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Nutrition    valueobject.Nutrients `gorm:"embedded;embeddedPrefix:nutrition_"`    // per 100 g edible portion
	Density      decimal.Decimal       `gorm:"type:decimal(10,4);not null;default:0"` // g/ml, liquids only
	UnitWeight   decimal.Decimal       `gorm:"type:decimal(10,4);not null;default:0"` // g per piece
	IsActive     bool                  `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates an active item with zero stock
func NewInventoryItem(tenantID uuid.UUID, code, name string, category Category, unit valueobject.Unit) (*InventoryItem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot exceed 50 characters")
	}
	item := &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		CurrentStock:        decimal.Zero,
		MinStock:            decimal.Zero,
		CostPerUnit:         decimal.Zero,
		Density:             decimal.Zero,
		UnitWeight:          decimal.Zero,
		IsActive:            true,
	}
	if err := item.Update(name, category, unit); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the descriptive fields
func (i *InventoryItem) Update(name string, category Category, unit valueobject.Unit) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown item category")
	}
	if !unit.IsValid() {
		return valueobject.ErrUnsupportedUnit
	}
	i.Name = name
	i.Category = category
	i.Unit = unit
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetNutrition sets the nutrient content per 100 g
func (i *InventoryItem) SetNutrition(n valueobject.Nutrients) error {
	if err := n.Validate(); err != nil {
		return err
	}
	i.Nutrition = n
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetConversion sets the density (g/ml) and per-piece weight (g)
func (i *InventoryItem) SetConversion(density, unitWeight decimal.Decimal) error {
	if density.IsNegative() || unitWeight.IsNegative() {
		return shared.NewDomainError("INVALID_CONVERSION", "Density and unit weight cannot be negative")
	}
	i.Density = density
	i.UnitWeight = unitWeight
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Conversion returns the factors for converting quantities of this item to grams
func (i *InventoryItem) Conversion() valueobject.Conversion {
	return valueobject.Conversion{Density: i.Density, PieceWeight: i.UnitWeight}
}

// SetMinStock sets the low-stock threshold
func (i *InventoryItem) SetMinStock(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	i.MinStock = min
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetCostPerUnit sets the purchase cost per stock unit
func (i *InventoryItem) SetCostPerUnit(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}
	i.CostPerUnit = cost
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Activate makes the item usable again
func (i *InventoryItem) Activate() {
	i.IsActive = true
	i.Touch()
	i.IncrementVersion()
}

// Deactivate hides the item from menus and procurement
func (i *InventoryItem) Deactivate() {
	i.IsActive = false
	i.Touch()
	i.IncrementVersion()
}

// IsLowStock reports whether stock is below the threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.MinStock.IsPositive() && i.CurrentStock.LessThan(i.MinStock)
}

// StockIn adds quantity to the stock
func (i *InventoryItem) StockIn(quantity decimal.Decimal, ref MovementReference) (*StockMovement, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return i.move(MovementIn, quantity, i.CurrentStock.Add(quantity), ref), nil
}

// StockOut removes quantity from the stock. It fails with INSUFFICIENT_STOCK
// when quantity exceeds the current stock.
func (i *InventoryItem) StockOut(quantity decimal.Decimal, ref MovementReference) (*StockMovement, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(i.CurrentStock) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Insufficient stock for "+i.Name+": available "+i.CurrentStock.String()+", requested "+quantity.String())
	}
	return i.move(MovementOut, quantity, i.CurrentStock.Sub(quantity), ref), nil
}

// Adjust sets the stock to an absolute counted value
func (i *InventoryItem) Adjust(counted decimal.Decimal, ref MovementReference) (*StockMovement, error) {
	if counted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted stock cannot be negative")
	}
	if counted.Equal(i.CurrentStock) {
		return nil, shared.NewDomainError("NO_CHANGE", "Counted stock equals current stock")
	}
	return i.move(MovementAdjustment, counted.Sub(i.CurrentStock).Abs(), counted, ref), nil
}

func (i *InventoryItem) move(typ MovementType, quantity, after decimal.Decimal, ref MovementReference) *StockMovement {
	before := i.CurrentStock
	wasLow := i.IsLowStock()

	i.CurrentStock = after
	i.Touch()
	i.IncrementVersion()

	m := newStockMovement(i, typ, quantity, before, after, ref)
	i.AddDomainEvent(NewStockMovementRecordedEvent(i, m))
	if !wasLow && i.IsLowStock() {
		i.AddDomainEvent(NewLowStockDetectedEvent(i))
	}
	return m
}

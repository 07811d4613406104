package production

import (
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Consumption is the stock to take out of one inventory item for a batch
type Consumption struct {
	Item     *inventory.InventoryItem
	Quantity decimal.Decimal // in the item's stock unit
}

// PlanConsumption scales the per-portion recipe of m to portions and
// expresses each line in the stock unit of its inventory item. Every
// ingredient must have its item in items.
func PlanConsumption(m *menu.Menu, portions int, items map[uuid.UUID]*inventory.InventoryItem) ([]Consumption, error) {
	if portions <= 0 {
		return nil, shared.NewDomainError("INVALID_PORTIONS", "Portions must be positive")
	}
	scale := decimal.NewFromInt(int64(portions))

	out := make([]Consumption, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		item, ok := items[ing.InventoryItemID]
		if !ok {
			return nil, shared.NewDomainError("INGREDIENT_ITEM_MISSING", "Inventory item for ingredient "+ing.Name+" not found")
		}
		qty := ing.Quantity.Mul(scale)
		if ing.Unit != item.Unit {
			converted, err := convertToStockUnit(qty, ing, item)
			if err != nil {
				return nil, err
			}
			qty = converted
		}
		out = append(out, Consumption{Item: item, Quantity: qty.Round(4)})
	}
	return out, nil
}

func convertToStockUnit(qty decimal.Decimal, ing menu.MenuIngredient, item *inventory.InventoryItem) (decimal.Decimal, error) {
	conv := item.Conversion()
	grams, err := ing.Unit.ToGrams(qty, conv)
	if err != nil {
		return decimal.Zero, err
	}
	gramsPerStockUnit, err := item.Unit.ToGrams(decimal.NewFromInt(1), conv)
	if err != nil {
		return decimal.Zero, err
	}
	if gramsPerStockUnit.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_CONVERSION", "Cannot convert into stock unit of "+item.Name)
	}
	return grams.Div(gramsPerStockUnit), nil
}

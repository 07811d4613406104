package menu

import (
	"context"

	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuCardPrinter renders menu card PDFs
type MenuCardPrinter interface {
	RenderMenuCard(ctx context.Context, data printing.MenuCardData) (*printing.Document, error)
}

// SetPrinter enables menu card printing
func (s *MenuService) SetPrinter(printer MenuCardPrinter) {
	s.printer = printer
}

// PrintMenuCard renders a one-portion menu card. With a level in req the
// card also shows how the portion compares with that level's AKG.
func (s *MenuService) PrintMenuCard(ctx context.Context, tenantID, id uuid.UUID, req NutritionRequest) (*printing.Document, error) {
	if s.printer == nil {
		return nil, shared.NewDomainError("PRINTING_DISABLED", "PDF printing is not enabled")
	}
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	req.Portions = 1
	result, err := s.CalculateNutrition(ctx, tenantID, id, req)
	if err != nil {
		return nil, err
	}

	data := printing.MenuCardData{
		Code:             m.Code,
		Name:             m.Name,
		Description:      m.Description,
		MealType:         string(m.MealType),
		Level:            req.Level,
		ServingSizeGrams: m.ServingSizeGrams,
		CostPerServing:   m.CostPerServing,
		Ingredients:      make([]printing.MenuCardIngredient, 0, len(m.Ingredients)),
	}
	for _, ing := range m.Ingredients {
		data.Ingredients = append(data.Ingredients, printing.MenuCardIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     string(ing.Unit),
		})
	}
	data.Nutrients = menuCardNutrients(result)

	return s.printer.RenderMenuCard(ctx, data)
}

var nutrientLabels = []struct{ key, label, unit string }{
	{"energy_kcal", "Energi", "kkal"},
	{"protein_g", "Protein", "g"},
	{"fat_g", "Lemak", "g"},
	{"carbohydrate_g", "Karbohidrat", "g"},
	{"fiber_g", "Serat", "g"},
	{"calcium_mg", "Kalsium", "mg"},
	{"iron_mg", "Zat Besi", "mg"},
}

func menuCardNutrients(result *menu.NutritionResult) []printing.MenuCardNutrient {
	p := result.PerPortion
	amounts := map[string]decimal.Decimal{
		"energy_kcal":    p.EnergyKcal,
		"protein_g":      p.ProteinG,
		"fat_g":          p.FatG,
		"carbohydrate_g": p.CarbohydrateG,
		"fiber_g":        p.FiberG,
		"calcium_mg":     p.CalciumMg,
		"iron_mg":        p.IronMg,
	}

	compliance := make(map[string]int)
	if result.Compliance != nil {
		for i, n := range result.Compliance.Nutrients {
			compliance[n.Nutrient] = i
		}
	}

	out := make([]printing.MenuCardNutrient, 0, len(nutrientLabels))
	for _, l := range nutrientLabels {
		row := printing.MenuCardNutrient{Label: l.label, Unit: l.unit, Amount: amounts[l.key]}
		if idx, ok := compliance[l.key]; ok {
			c := result.Compliance.Nutrients[idx]
			row.Target = c.DailyTarget
			row.HasTarget = true
			row.Met = c.Met
		}
		out = append(out, row)
	}
	return out
}

package menu

import (
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedUnit is returned when an ingredient unit cannot be converted to grams
var ErrUnsupportedUnit = valueobject.ErrUnsupportedUnit

// DefaultComplianceThreshold is the share of the daily reference, in percent,
// one portion must provide in energy and protein
var DefaultComplianceThreshold = decimal.NewFromInt(30)

var hundred = decimal.NewFromInt(100)

// IngredientNutrition is the input for one ingredient: how much of it goes
// into the batch and what 100 g of it contains
type IngredientNutrition struct {
	Name       string
	Quantity   decimal.Decimal
	Unit       valueobject.Unit
	Per100g    valueobject.Nutrients
	Conversion valueobject.Conversion
}

// IngredientContribution is what a single ingredient adds to the batch
type IngredientContribution struct {
	Name      string                `json:"name"`
	Grams     decimal.Decimal       `json:"grams"`
	Nutrients valueobject.Nutrients `json:"nutrients"`
}

// NutrientCompliance compares one nutrient against the daily reference
type NutrientCompliance struct {
	Nutrient       string          `json:"nutrient"`
	PerPortion     decimal.Decimal `json:"per_portion"`
	DailyTarget    decimal.Decimal `json:"daily_target"`
	PercentOfDaily decimal.Decimal `json:"percent_of_daily"`
	Met            bool            `json:"met"`
}

// Compliance is the result of checking a portion against a school level's AKG
type Compliance struct {
	Level         SchoolLevel          `json:"level"`
	Threshold     decimal.Decimal      `json:"threshold_percent"`
	Nutrients     []NutrientCompliance `json:"nutrients"`
	MeetsStandard bool                 `json:"meets_standard"`
}

// NutritionResult is the outcome of a calculation. Values are rounded to
// two decimals.
type NutritionResult struct {
	Portions    int                      `json:"portions"`
	TotalGrams  decimal.Decimal          `json:"total_grams"`
	Total       valueobject.Nutrients    `json:"total"`
	PerPortion  valueobject.Nutrients    `json:"per_portion"`
	Ingredients []IngredientContribution `json:"ingredients"`
	Compliance  *Compliance              `json:"compliance,omitempty"`
}

// NutritionCalculator aggregates ingredient nutrition into batch and
// per-portion totals and checks them against AKG references
type NutritionCalculator struct {
	threshold decimal.Decimal
	targets   map[SchoolLevel]valueobject.Nutrients
}

// CalculatorOption configures a NutritionCalculator
type CalculatorOption func(*NutritionCalculator)

// WithThreshold sets the compliance threshold in percent of the daily reference
func WithThreshold(percent decimal.Decimal) CalculatorOption {
	return func(c *NutritionCalculator) {
		if percent.IsPositive() {
			c.threshold = percent
		}
	}
}

// WithTarget overrides the daily reference for a level
func WithTarget(level SchoolLevel, daily valueobject.Nutrients) CalculatorOption {
	return func(c *NutritionCalculator) {
		c.targets[level] = daily
	}
}

// NewNutritionCalculator creates a calculator using the built-in AKG table
func NewNutritionCalculator(opts ...CalculatorOption) *NutritionCalculator {
	c := &NutritionCalculator{
		threshold: DefaultComplianceThreshold,
		targets:   make(map[SchoolLevel]valueobject.Nutrients, len(dailyAKG)),
	}
	for level, n := range dailyAKG {
		c.targets[level] = n
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the compliance threshold in percent
func (c *NutritionCalculator) Threshold() decimal.Decimal {
	return c.threshold
}

// Calculate sums nutrient_per_100g * grams / 100 over the ingredients of a
// batch that yields batchPortions portions
func (c *NutritionCalculator) Calculate(ingredients []IngredientNutrition, batchPortions int) (*NutritionResult, error) {
	return c.calculate(ingredients, batchPortions, "")
}

// Analyze calculates like Calculate and adds a compliance check for level
func (c *NutritionCalculator) Analyze(ingredients []IngredientNutrition, batchPortions int, level SchoolLevel) (*NutritionResult, error) {
	if _, ok := c.targets[level]; !ok {
		return nil, shared.NewDomainError("INVALID_LEVEL", "No nutrient reference for school level "+string(level))
	}
	return c.calculate(ingredients, batchPortions, level)
}

func (c *NutritionCalculator) calculate(ingredients []IngredientNutrition, batchPortions int, level SchoolLevel) (*NutritionResult, error) {
	if batchPortions < 1 {
		return nil, shared.NewDomainError("INVALID_PORTIONS", "Batch portions must be at least 1")
	}

	var total valueobject.Nutrients
	totalGrams := decimal.Zero
	contributions := make([]IngredientContribution, 0, len(ingredients))
	for _, ing := range ingredients {
		grams, err := ing.Unit.ToGrams(ing.Quantity, ing.Conversion)
		if err != nil {
			return nil, err
		}
		n := ing.Per100g.ForGrams(grams)
		total = total.Add(n)
		totalGrams = totalGrams.Add(grams)
		contributions = append(contributions, IngredientContribution{Name: ing.Name, Grams: grams, Nutrients: n})
	}
	perPortion := total.Div(decimal.NewFromInt(int64(batchPortions)))

	result := &NutritionResult{
		Portions:    batchPortions,
		TotalGrams:  totalGrams.Round(2),
		Total:       total.Round(2),
		PerPortion:  perPortion.Round(2),
		Ingredients: contributions,
	}
	for i := range result.Ingredients {
		result.Ingredients[i].Grams = result.Ingredients[i].Grams.Round(2)
		result.Ingredients[i].Nutrients = result.Ingredients[i].Nutrients.Round(2)
	}
	if level != "" {
		result.Compliance = c.compliance(perPortion, level)
	}
	return result, nil
}

func (c *NutritionCalculator) compliance(perPortion valueobject.Nutrients, level SchoolLevel) *Compliance {
	daily := c.targets[level]
	rows := []struct {
		name     string
		value    decimal.Decimal
		target   decimal.Decimal
		required bool
	}{
		{"energy_kcal", perPortion.EnergyKcal, daily.EnergyKcal, true},
		{"protein_g", perPortion.ProteinG, daily.ProteinG, true},
		{"fat_g", perPortion.FatG, daily.FatG, false},
		{"carbohydrate_g", perPortion.CarbohydrateG, daily.CarbohydrateG, false},
		{"fiber_g", perPortion.FiberG, daily.FiberG, false},
		{"calcium_mg", perPortion.CalciumMg, daily.CalciumMg, false},
		{"iron_mg", perPortion.IronMg, daily.IronMg, false},
	}

	out := &Compliance{
		Level:         level,
		Threshold:     c.threshold,
		Nutrients:     make([]NutrientCompliance, 0, len(rows)),
		MeetsStandard: true,
	}
	for _, r := range rows {
		pct := decimal.Zero
		if r.target.IsPositive() {
			pct = r.value.Mul(hundred).Div(r.target)
		}
		met := pct.GreaterThanOrEqual(c.threshold)
		if r.required && !met {
			out.MeetsStandard = false
		}
		out.Nutrients = append(out.Nutrients, NutrientCompliance{
			Nutrient:       r.name,
			PerPortion:     r.value.Round(2),
			DailyTarget:    r.target,
			PercentOfDaily: pct.Round(2),
			Met:            met,
		})
	}
	return out
}

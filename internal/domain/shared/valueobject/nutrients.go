package valueobject

import (
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Nutrients is a set of nutrient amounts. On inventory items it is the
// content per 100 g of edible portion; in calculation results it is an
// absolute amount.
type Nutrients struct {
	EnergyKcal    decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"energy_kcal"`
	ProteinG      decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"protein_g"`
	FatG          decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"fat_g"`
	CarbohydrateG decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"carbohydrate_g"`
	FiberG        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"fiber_g"`
	CalciumMg     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"calcium_mg"`
	IronMg        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"iron_mg"`
}

// Validate rejects negative amounts
func (n Nutrients) Validate() error {
	for _, v := range n.values() {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_NUTRITION", "Nutrient values cannot be negative")
		}
	}
	return nil
}

// Add returns the element-wise sum
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		EnergyKcal:    n.EnergyKcal.Add(o.EnergyKcal),
		ProteinG:      n.ProteinG.Add(o.ProteinG),
		FatG:          n.FatG.Add(o.FatG),
		CarbohydrateG: n.CarbohydrateG.Add(o.CarbohydrateG),
		FiberG:        n.FiberG.Add(o.FiberG),
		CalciumMg:     n.CalciumMg.Add(o.CalciumMg),
		IronMg:        n.IronMg.Add(o.IronMg),
	}
}

// Mul scales every amount by f
func (n Nutrients) Mul(f decimal.Decimal) Nutrients {
	return n.apply(func(v decimal.Decimal) decimal.Decimal { return v.Mul(f) })
}

// Div divides every amount by d. d must be non-zero.
func (n Nutrients) Div(d decimal.Decimal) Nutrients {
	return n.apply(func(v decimal.Decimal) decimal.Decimal { return v.Div(d) })
}

// Round rounds every amount to places decimals
func (n Nutrients) Round(places int32) Nutrients {
	return n.apply(func(v decimal.Decimal) decimal.Decimal { return v.Round(places) })
}

// ForGrams returns the amounts contained in grams of a food whose content
// per 100 g is n
func (n Nutrients) ForGrams(grams decimal.Decimal) Nutrients {
	return n.Mul(grams).Div(decimal.NewFromInt(100))
}

// IsZero reports whether every amount is zero
func (n Nutrients) IsZero() bool {
	for _, v := range n.values() {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func (n Nutrients) values() []decimal.Decimal {
	return []decimal.Decimal{n.EnergyKcal, n.ProteinG, n.FatG, n.CarbohydrateG, n.FiberG, n.CalciumMg, n.IronMg}
}

func (n Nutrients) apply(fn func(decimal.Decimal) decimal.Decimal) Nutrients {
	return Nutrients{
		EnergyKcal:    fn(n.EnergyKcal),
		ProteinG:      fn(n.ProteinG),
		FatG:          fn(n.FatG),
		CarbohydrateG: fn(n.CarbohydrateG),
		FiberG:        fn(n.FiberG),
		CalciumMg:     fn(n.CalciumMg),
		IronMg:        fn(n.IronMg),
	}
}

// Equal reports whether both sets hold the same amounts
func (n Nutrients) Equal(o Nutrients) bool {
	a, b := n.values(), o.values()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

package menu

import (
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SchoolLevel selects the daily nutrient reference (AKG) used for compliance
type SchoolLevel string

const (
	LevelPAUD SchoolLevel = "PAUD"
	LevelSD   SchoolLevel = "SD"
	LevelSMP  SchoolLevel = "SMP"
	LevelSMA  SchoolLevel = "SMA"
)

// IsValid reports whether l has a reference
func (l SchoolLevel) IsValid() bool {
	_, ok := dailyAKG[l]
	return ok
}

func akg(energy, protein, fat, carb, fiber, calcium, iron int64) valueobject.Nutrients {
	return valueobject.Nutrients{
		EnergyKcal:    decimal.NewFromInt(energy),
		ProteinG:      decimal.NewFromInt(protein),
		FatG:          decimal.NewFromInt(fat),
		CarbohydrateG: decimal.NewFromInt(carb),
		FiberG:        decimal.NewFromInt(fiber),
		CalciumMg:     decimal.NewFromInt(calcium),
		IronMg:        decimal.NewFromInt(iron),
	}
}

// dailyAKG holds daily recommended intakes (Permenkes 28/2019) for the
// youngest age band of each school level
var dailyAKG = map[SchoolLevel]valueobject.Nutrients{
	LevelPAUD: akg(1400, 25, 50, 220, 20, 1000, 10),
	LevelSD:   akg(1650, 40, 55, 250, 23, 1000, 10),
	LevelSMP:  akg(2000, 50, 65, 300, 28, 1200, 8),
	LevelSMA:  akg(2400, 70, 80, 350, 34, 1200, 11),
}

// DailyAKG returns the daily reference for a level
func DailyAKG(level SchoolLevel) (valueobject.Nutrients, bool) {
	n, ok := dailyAKG[level]
	return n, ok
}

package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNutrients_ForGrams(t *testing.T) {
	rice := Nutrients{EnergyKcal: d("180"), ProteinG: d("3"), CarbohydrateG: d("39.8"), IronMg: d("0.4")}

	got := rice.ForGrams(d("250"))

	assert.True(t, d("450").Equal(got.EnergyKcal))
	assert.True(t, d("7.5").Equal(got.ProteinG))
	assert.True(t, d("99.5").Equal(got.CarbohydrateG))
	assert.True(t, d("1").Equal(got.IronMg))
	assert.True(t, got.FatG.IsZero())
}

func TestNutrients_Arithmetic(t *testing.T) {
	a := Nutrients{EnergyKcal: d("100"), ProteinG: d("10")}
	b := Nutrients{EnergyKcal: d("50"), FatG: d("2")}

	sum := a.Add(b)
	assert.True(t, d("150").Equal(sum.EnergyKcal))
	assert.True(t, d("2").Equal(sum.FatG))

	third := sum.Div(d("3")).Round(2)
	assert.True(t, d("50").Equal(third.EnergyKcal))
	assert.True(t, d("3.33").Equal(third.ProteinG))

	assert.True(t, Nutrients{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestNutrients_Validate(t *testing.T) {
	assert.NoError(t, Nutrients{ProteinG: d("1")}.Validate())
	assert.Error(t, Nutrients{FiberG: d("-0.1")}.Validate())
}

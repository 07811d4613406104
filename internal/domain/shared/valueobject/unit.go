package valueobject

import (
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Unit is a unit of measurement for ingredients and stock.
// Mass units convert to grams directly, volume units through a density
// and pieces through a per-piece weight.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilligram  Unit = "mg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPiece      Unit = "pcs"
)

// ErrUnsupportedUnit is returned for unit codes outside the known set
var ErrUnsupportedUnit = shared.NewDomainError("UNSUPPORTED_UNIT", "Unsupported unit of measurement")

var (
	gramsPerKilogram    = decimal.NewFromInt(1000)
	gramsPerMilligram   = decimal.New(1, -3)
	millilitersPerLiter = decimal.NewFromInt(1000)
)

// DefaultDensity is the density assumed for liquids without one, in g/ml
var DefaultDensity = decimal.NewFromInt(1)

// ParseUnit normalizes a unit code
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if !u.IsValid() {
		return "", ErrUnsupportedUnit
	}
	return u, nil
}

// IsValid reports whether u is a known unit
func (u Unit) IsValid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilligram, UnitMilliliter, UnitLiter, UnitPiece:
		return true
	}
	return false
}

// IsMass reports whether u measures mass
func (u Unit) IsMass() bool {
	return u == UnitGram || u == UnitKilogram || u == UnitMilligram
}

// IsVolume reports whether u measures volume
func (u Unit) IsVolume() bool {
	return u == UnitMilliliter || u == UnitLiter
}

// String returns the unit code
func (u Unit) String() string {
	return string(u)
}

// Conversion carries the item-specific factors needed to turn volume and
// piece quantities into grams. Zero values mean "not known".
type Conversion struct {
	Density     decimal.Decimal // g per ml; zero falls back to DefaultDensity
	PieceWeight decimal.Decimal // g per piece; required for pcs
}

// ToGrams converts quantity in unit u to grams
func (u Unit) ToGrams(quantity decimal.Decimal, c Conversion) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	switch u {
	case UnitGram:
		return quantity, nil
	case UnitKilogram:
		return quantity.Mul(gramsPerKilogram), nil
	case UnitMilligram:
		return quantity.Mul(gramsPerMilligram), nil
	case UnitMilliliter, UnitLiter:
		density := c.Density
		if density.IsNegative() {
			return decimal.Zero, shared.NewDomainError("INVALID_DENSITY", "Density cannot be negative")
		}
		if density.IsZero() {
			density = DefaultDensity
		}
		ml := quantity
		if u == UnitLiter {
			ml = quantity.Mul(millilitersPerLiter)
		}
		return ml.Mul(density), nil
	case UnitPiece:
		if !c.PieceWeight.IsPositive() {
			return decimal.Zero, shared.NewDomainError("MISSING_PIECE_WEIGHT", "Piece weight in grams is required to convert pcs")
		}
		return quantity.Mul(c.PieceWeight), nil
	}
	return decimal.Zero, ErrUnsupportedUnit
}

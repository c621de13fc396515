package asset

import (
	"math"
	"time"

	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// daysPerYear converts elapsed calendar days to fractional years.
const daysPerYear = 365.25

// SalvagePolicy defines the floor below which depreciation may not reduce
// book value, as a fraction of purchase price. The zero value means assets
// depreciate to nothing.
type SalvagePolicy struct {
	Fraction decimal.Decimal
}

// SalvageFor returns the salvage floor for the given purchase price
func (p SalvagePolicy) SalvageFor(purchasePrice decimal.Decimal) decimal.Decimal {
	if !p.Fraction.IsPositive() {
		return decimal.Zero
	}
	return purchasePrice.Mul(p.Fraction)
}

// BookValue computes the asset's depreciated worth at asOf under its
// depreciation method and the category's rate parameters. It is a pure
// function of its inputs and cheap enough to recompute on every read.
func BookValue(a *Asset, category *registry.AssetCategory, policy SalvagePolicy, asOf time.Time) (decimal.Decimal, error) {
	if !a.PurchasePrice.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Purchase price must be positive")
	}
	elapsed := asOf.Sub(a.PurchaseDate)
	if elapsed < 0 {
		return decimal.Zero, shared.NewDomainError("FUTURE_PURCHASE", "Asset purchase date is in the future")
	}

	if a.DepreciationMethod == DepreciationNone {
		return a.PurchasePrice, nil
	}

	elapsedYears := decimal.NewFromFloat(elapsed.Hours() / 24 / daysPerYear)
	salvage := policy.SalvageFor(a.PurchasePrice)
	rate := category.AnnualRate()

	var value decimal.Decimal
	switch a.DepreciationMethod {
	case DepreciationStraightLine:
		value = a.PurchasePrice.Sub(a.PurchasePrice.Mul(rate).Mul(elapsedYears))
	case DepreciationDecliningBalance:
		// Fractional-year exponent; decimal has no Pow for non-integers.
		factor := math.Pow(1-rate.InexactFloat64(), elapsedYears.InexactFloat64())
		value = a.PurchasePrice.Mul(decimal.NewFromFloat(factor))
	default:
		return decimal.Zero, shared.NewDomainError("INVALID_METHOD", "Depreciation method is not valid")
	}

	if value.LessThan(salvage) {
		return salvage, nil
	}
	return value, nil
}

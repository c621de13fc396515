package registry

import (
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AssetCategory represents a fixed-asset category aggregate root.
// It carries the depreciation parameters applied to assets tagged with it.
type AssetCategory struct {
	shared.BaseAggregateRoot
	Name             string          `json:"name"`
	DepreciationRate decimal.Decimal `json:"depreciation_rate"` // annual percentage, 0-100
	UsefulLifeYears  int             `json:"useful_life_years"`
	Description      string          `json:"description"`
}

// NewAssetCategory creates a new asset category
func NewAssetCategory(name string, depreciationRate decimal.Decimal, usefulLifeYears int, description string) (*AssetCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset category name cannot be empty")
	}
	if depreciationRate.IsNegative() || depreciationRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Depreciation rate must be between 0 and 100 percent")
	}
	if usefulLifeYears < 0 {
		return nil, shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life years cannot be negative")
	}

	category := &AssetCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DepreciationRate:  depreciationRate,
		UsefulLifeYears:   usefulLifeYears,
		Description:       description,
	}

	category.AddDomainEvent(NewAssetCategoryCreatedEvent(category))

	return category, nil
}

// AnnualRate returns the annual depreciation fraction. An explicit
// depreciation rate takes precedence; otherwise 1/useful_life is used.
func (c *AssetCategory) AnnualRate() decimal.Decimal {
	if c.DepreciationRate.IsPositive() {
		return c.DepreciationRate.Div(decimal.NewFromInt(100))
	}
	if c.UsefulLifeYears > 0 {
		return decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(c.UsefulLifeYears)))
	}
	return decimal.Zero
}

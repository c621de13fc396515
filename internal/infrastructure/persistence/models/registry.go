package models

import (
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/shopspring/decimal"
)

// CategoryModel is the GORM model for transaction categories
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind        string `gorm:"type:varchar(20);not null;index"`
	Description string `gorm:"type:text"`
}

// TableName specifies the table name
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *registry.Category {
	return &registry.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Kind:              registry.CategoryKind(m.Kind),
		Description:       m.Description,
	}
}

// CategoryModelFromDomain creates a model from a domain Category
func CategoryModelFromDomain(c *registry.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Kind:        c.Kind.String(),
		Description: c.Description,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// AssetCategoryModel is the GORM model for asset categories
type AssetCategoryModel struct {
	AggregateModel
	Name             string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	DepreciationRate decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	UsefulLifeYears  int             `gorm:"not null;default:0"`
	Description      string          `gorm:"type:text"`
}

// TableName specifies the table name
func (AssetCategoryModel) TableName() string {
	return "asset_categories"
}

// ToDomain converts the model to a domain AssetCategory
func (m *AssetCategoryModel) ToDomain() *registry.AssetCategory {
	return &registry.AssetCategory{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		DepreciationRate:  m.DepreciationRate,
		UsefulLifeYears:   m.UsefulLifeYears,
		Description:       m.Description,
	}
}

// AssetCategoryModelFromDomain creates a model from a domain AssetCategory
func AssetCategoryModelFromDomain(c *registry.AssetCategory) *AssetCategoryModel {
	m := &AssetCategoryModel{
		Name:             c.Name,
		DepreciationRate: c.DepreciationRate,
		UsefulLifeYears:  c.UsefulLifeYears,
		Description:      c.Description,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

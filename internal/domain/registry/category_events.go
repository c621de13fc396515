package registry

import (
	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CategoryCreatedEvent is raised when a new transaction category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID    `json:"category_id"`
	Name       string       `json:"name"`
	Kind       CategoryKind `json:"kind"`
}

// EventType returns the event type name
func (e *CategoryCreatedEvent) EventType() string {
	return "CategoryCreated"
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CategoryCreated", "Category", category.ID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Kind:            category.Kind,
	}
}

// AssetCategoryCreatedEvent is raised when a new asset category is created
type AssetCategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID       uuid.UUID       `json:"category_id"`
	Name             string          `json:"name"`
	DepreciationRate decimal.Decimal `json:"depreciation_rate"`
	UsefulLifeYears  int             `json:"useful_life_years"`
}

// EventType returns the event type name
func (e *AssetCategoryCreatedEvent) EventType() string {
	return "AssetCategoryCreated"
}

// NewAssetCategoryCreatedEvent creates a new AssetCategoryCreatedEvent
func NewAssetCategoryCreatedEvent(category *AssetCategory) *AssetCategoryCreatedEvent {
	return &AssetCategoryCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("AssetCategoryCreated", "AssetCategory", category.ID),
		CategoryID:       category.ID,
		Name:             category.Name,
		DepreciationRate: category.DepreciationRate,
		UsefulLifeYears:  category.UsefulLifeYears,
	}
}

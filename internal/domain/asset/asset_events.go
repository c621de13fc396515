package asset

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AssetRegisteredEvent is raised when a new asset enters the books
type AssetRegisteredEvent struct {
	shared.BaseDomainEvent
	AssetID       uuid.UUID          `json:"asset_id"`
	Tag           string             `json:"tag"`
	Name          string             `json:"name"`
	CategoryID    uuid.UUID          `json:"category_id"`
	PurchaseDate  time.Time          `json:"purchase_date"`
	PurchasePrice decimal.Decimal    `json:"purchase_price"`
	Method        DepreciationMethod `json:"method"`
	CreatedBy     string             `json:"created_by"`
}

// EventType returns the event type name
func (e *AssetRegisteredEvent) EventType() string {
	return "AssetRegistered"
}

// NewAssetRegisteredEvent creates a new AssetRegisteredEvent
func NewAssetRegisteredEvent(a *Asset) *AssetRegisteredEvent {
	return &AssetRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AssetRegistered", "Asset", a.ID),
		AssetID:         a.ID,
		Tag:             a.Tag,
		Name:            a.Name,
		CategoryID:      a.CategoryID,
		PurchaseDate:    a.PurchaseDate,
		PurchasePrice:   a.PurchasePrice,
		Method:          a.DepreciationMethod,
		CreatedBy:       a.CreatedBy,
	}
}

// AssetStatusChangedEvent is raised when an asset's operational state changes
type AssetStatusChangedEvent struct {
	shared.BaseDomainEvent
	AssetID   uuid.UUID   `json:"asset_id"`
	Tag       string      `json:"tag"`
	OldStatus AssetStatus `json:"old_status"`
	NewStatus AssetStatus `json:"new_status"`
}

// EventType returns the event type name
func (e *AssetStatusChangedEvent) EventType() string {
	return "AssetStatusChanged"
}

// NewAssetStatusChangedEvent creates a new AssetStatusChangedEvent
func NewAssetStatusChangedEvent(a *Asset, old AssetStatus) *AssetStatusChangedEvent {
	return &AssetStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AssetStatusChanged", "Asset", a.ID),
		AssetID:         a.ID,
		Tag:             a.Tag,
		OldStatus:       old,
		NewStatus:       a.Status,
	}
}

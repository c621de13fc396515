package asset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DepreciationMethod represents how an asset loses book value over time
type DepreciationMethod string

const (
	DepreciationStraightLine     DepreciationMethod = "straight_line"
	DepreciationDecliningBalance DepreciationMethod = "declining_balance"
	DepreciationNone             DepreciationMethod = "none"
)

// IsValid checks if the method is a valid DepreciationMethod
func (m DepreciationMethod) IsValid() bool {
	switch m {
	case DepreciationStraightLine, DepreciationDecliningBalance, DepreciationNone:
		return true
	}
	return false
}

// String returns the string representation of DepreciationMethod
func (m DepreciationMethod) String() string {
	return string(m)
}

// AssetStatus represents the operational state of an asset
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
	AssetStatusDisposed    AssetStatus = "disposed"
)

// IsValid checks if the status is a valid AssetStatus
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusRetired, AssetStatusDisposed:
		return true
	}
	return false
}

// Asset represents a fixed asset aggregate root.
// The current book value is never stored as ground truth: it is recomputed
// from purchase price, method and elapsed time on every read.
type Asset struct {
	shared.BaseAggregateRoot
	Tag                string             `json:"tag"`
	Name               string             `json:"name"`
	CategoryID         uuid.UUID          `json:"category_id"`
	Description        string             `json:"description"`
	PurchaseDate       time.Time          `json:"purchase_date"`
	PurchasePrice      decimal.Decimal    `json:"purchase_price"`
	DepreciationMethod DepreciationMethod `json:"depreciation_method"`
	Status             AssetStatus        `json:"status"`
	Location           string             `json:"location"`
	Condition          string             `json:"condition"`
	CreatedBy          string             `json:"created_by"`
}

// NewAsset registers a new fixed asset
func NewAsset(
	tag string,
	name string,
	categoryID uuid.UUID,
	purchaseDate time.Time,
	purchasePrice valueobject.Money,
	method DepreciationMethod,
	location string,
	condition string,
	createdBy string,
) (*Asset, error) {
	if tag == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Asset tag cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Asset category is required")
	}
	if purchaseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Purchase date is required")
	}
	if !purchasePrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Purchase price must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Depreciation method is not valid")
	}
	if createdBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Creating actor cannot be empty")
	}

	a := &Asset{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Tag:                tag,
		Name:               name,
		CategoryID:         categoryID,
		PurchaseDate:       purchaseDate,
		PurchasePrice:      purchasePrice.Amount(),
		DepreciationMethod: method,
		Status:             AssetStatusActive,
		Location:           location,
		Condition:          condition,
		CreatedBy:          createdBy,
	}

	a.AddDomainEvent(NewAssetRegisteredEvent(a))

	return a, nil
}

// SetStatus transitions the asset's operational state. Disposed is terminal.
func (a *Asset) SetStatus(status AssetStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Asset status is not valid")
	}
	if a.Status == AssetStatusDisposed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change status of a disposed asset to %s", status))
	}
	old := a.Status
	a.Status = status
	a.UpdatedAt = time.Now()
	a.AddDomainEvent(NewAssetStatusChangedEvent(a, old))
	return nil
}

// IsDisposed reports whether the asset has left the books
func (a *Asset) IsDisposed() bool {
	return a.Status == AssetStatusDisposed
}

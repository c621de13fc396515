package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/asset"
	"github.com/shopspring/decimal"
)

// AssetModel is the GORM model for fixed assets
type AssetModel struct {
	AggregateModel
	Tag                string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string          `gorm:"type:varchar(200);not null"`
	CategoryID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description        string          `gorm:"type:text"`
	PurchaseDate       time.Time       `gorm:"not null"`
	PurchasePrice      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DepreciationMethod string          `gorm:"type:varchar(30);not null"`
	Status             string          `gorm:"type:varchar(20);not null;index"`
	Location           string          `gorm:"type:varchar(200)"`
	Condition          string          `gorm:"type:varchar(100)"`
	CreatedBy          string          `gorm:"type:varchar(100);not null"`
}

// TableName specifies the table name
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the model to a domain Asset
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Tag:                m.Tag,
		Name:               m.Name,
		CategoryID:         m.CategoryID,
		Description:        m.Description,
		PurchaseDate:       m.PurchaseDate,
		PurchasePrice:      m.PurchasePrice,
		DepreciationMethod: asset.DepreciationMethod(m.DepreciationMethod),
		Status:             asset.AssetStatus(m.Status),
		Location:           m.Location,
		Condition:          m.Condition,
		CreatedBy:          m.CreatedBy,
	}
}

// AssetModelFromDomain creates a model from a domain Asset
func AssetModelFromDomain(a *asset.Asset) *AssetModel {
	m := &AssetModel{
		Tag:                a.Tag,
		Name:               a.Name,
		CategoryID:         a.CategoryID,
		Description:        a.Description,
		PurchaseDate:       a.PurchaseDate,
		PurchasePrice:      a.PurchasePrice,
		DepreciationMethod: a.DepreciationMethod.String(),
		Status:             string(a.Status),
		Location:           a.Location,
		Condition:          a.Condition,
		CreatedBy:          a.CreatedBy,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

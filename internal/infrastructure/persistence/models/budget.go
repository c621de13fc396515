package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// BudgetModel is the GORM model for budgets
type BudgetModel struct {
	AggregateModel
	Name        string            `gorm:"type:varchar(200);not null"`
	Description string            `gorm:"type:text"`
	FiscalYear  int               `gorm:"not null;index"`
	StartDate   time.Time         `gorm:"not null;index"`
	EndDate     time.Time         `gorm:"not null;index"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(20,4);not null"`
	Status      string            `gorm:"type:varchar(20);not null;index"`
	CreatedBy   string            `gorm:"type:varchar(100);not null"`
	Items       []BudgetItemModel `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (BudgetModel) TableName() string {
	return "budgets"
}

// BudgetItemModel is the GORM model for per-category budget allocations
type BudgetItemModel struct {
	BaseModel
	BudgetID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_budget_category"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_budget_category"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	SpentAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Notes           string          `gorm:"type:text"`
}

// TableName specifies the table name
func (BudgetItemModel) TableName() string {
	return "budget_items"
}

// ToDomain converts the model to a domain Budget with its items
func (m *BudgetModel) ToDomain() *budget.Budget {
	items := make([]budget.BudgetItem, len(m.Items))
	for i, im := range m.Items {
		items[i] = budget.BudgetItem{
			BaseEntity:      im.BaseModel.ToDomain(),
			BudgetID:        im.BudgetID,
			CategoryID:      im.CategoryID,
			AllocatedAmount: im.AllocatedAmount,
			SpentAmount:     im.SpentAmount,
			Notes:           im.Notes,
		}
	}
	return &budget.Budget{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		FiscalYear:        m.FiscalYear,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		TotalAmount:       m.TotalAmount,
		Status:            budget.BudgetStatus(m.Status),
		CreatedBy:         m.CreatedBy,
		Items:             items,
	}
}

// BudgetModelFromDomain creates a model from a domain Budget
func BudgetModelFromDomain(b *budget.Budget) *BudgetModel {
	items := make([]BudgetItemModel, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		im := BudgetItemModel{
			BudgetID:        item.BudgetID,
			CategoryID:      item.CategoryID,
			AllocatedAmount: item.AllocatedAmount,
			SpentAmount:     item.SpentAmount,
			Notes:           item.Notes,
		}
		im.FromDomainBaseEntity(item.BaseEntity)
		items[i] = im
	}
	m := &BudgetModel{
		Name:        b.Name,
		Description: b.Description,
		FiscalYear:  b.FiscalYear,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		TotalAmount: b.TotalAmount,
		Status:      b.Status.String(),
		CreatedBy:   b.CreatedBy,
		Items:       items,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

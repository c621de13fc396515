package models

import (
	"time"

	"github.com/openledger/backend/internal/domain/cashflow"
	"github.com/shopspring/decimal"
)

// SnapshotModel is the GORM model for cashflow snapshots.
// Rows are append-only.
type SnapshotModel struct {
	BaseModel
	Date             time.Time       `gorm:"not null;uniqueIndex"`
	OpeningBalance   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalIncome      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	TotalExpenses    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ClosingBalance   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PeriodDays       int             `gorm:"not null"`
	BurnRate         decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Projection30Days decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName specifies the table name
func (SnapshotModel) TableName() string {
	return "cashflow_snapshots"
}

// ToDomain converts the model to a domain Snapshot
func (m *SnapshotModel) ToDomain() *cashflow.Snapshot {
	return &cashflow.Snapshot{
		BaseEntity:       m.BaseModel.ToDomain(),
		Date:             m.Date,
		OpeningBalance:   m.OpeningBalance,
		TotalIncome:      m.TotalIncome,
		TotalExpenses:    m.TotalExpenses,
		ClosingBalance:   m.ClosingBalance,
		PeriodDays:       m.PeriodDays,
		BurnRate:         m.BurnRate,
		Projection30Days: m.Projection30Days,
	}
}

// SnapshotModelFromDomain creates a model from a domain Snapshot
func SnapshotModelFromDomain(s *cashflow.Snapshot) *SnapshotModel {
	m := &SnapshotModel{
		Date:             s.Date,
		OpeningBalance:   s.OpeningBalance,
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		ClosingBalance:   s.ClosingBalance,
		PeriodDays:       s.PeriodDays,
		BurnRate:         s.BurnRate,
		Projection30Days: s.Projection30Days,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

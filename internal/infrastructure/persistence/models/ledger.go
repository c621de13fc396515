package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// TransactionModel is the GORM model for ledger transactions
type TransactionModel struct {
	AggregateModel
	Kind        string          `gorm:"type:varchar(20);not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Reference   string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Date        time.Time       `gorm:"not null;index"`
	ProjectID   *uuid.UUID      `gorm:"type:uuid;index"`
	Recurrence  *string         `gorm:"type:varchar(20)"`
	ReversalOf  *uuid.UUID      `gorm:"type:uuid;index"`
	RecordedBy  string          `gorm:"type:varchar(100);not null"`
	Notes       string          `gorm:"type:text"`
}

// TableName specifies the table name
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain Transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	var recurrence *ledger.RecurrenceFrequency
	if m.Recurrence != nil {
		f := ledger.RecurrenceFrequency(*m.Recurrence)
		recurrence = &f
	}
	return &ledger.Transaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              ledger.TransactionKind(m.Kind),
		CategoryID:        m.CategoryID,
		Amount:            m.Amount,
		Description:       m.Description,
		Reference:         m.Reference,
		Date:              m.Date,
		ProjectID:         m.ProjectID,
		Recurrence:        recurrence,
		ReversalOf:        m.ReversalOf,
		RecordedBy:        m.RecordedBy,
		Notes:             m.Notes,
	}
}

// TransactionModelFromDomain creates a model from a domain Transaction
func TransactionModelFromDomain(tx *ledger.Transaction) *TransactionModel {
	var recurrence *string
	if tx.Recurrence != nil {
		s := string(*tx.Recurrence)
		recurrence = &s
	}
	m := &TransactionModel{
		Kind:        tx.Kind.String(),
		CategoryID:  tx.CategoryID,
		Amount:      tx.Amount,
		Description: tx.Description,
		Reference:   tx.Reference,
		Date:        tx.Date,
		ProjectID:   tx.ProjectID,
		Recurrence:  recurrence,
		ReversalOf:  tx.ReversalOf,
		RecordedBy:  tx.RecordedBy,
		Notes:       tx.Notes,
	}
	m.FromDomainAggregateRoot(tx.BaseAggregateRoot)
	return m
}

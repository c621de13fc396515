package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionRecordedEvent is raised when a new transaction enters the ledger
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Kind          TransactionKind `json:"kind"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	ProjectID     *uuid.UUID      `json:"project_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	Date          time.Time       `json:"date"`
	RecordedBy    string          `json:"recorded_by"`
}

// EventType returns the event type name
func (e *TransactionRecordedEvent) EventType() string {
	return "TransactionRecorded"
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(tx *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionRecorded", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		Kind:            tx.Kind,
		CategoryID:      tx.CategoryID,
		ProjectID:       tx.ProjectID,
		Amount:          tx.Amount,
		Reference:       tx.Reference,
		Date:            tx.Date,
		RecordedBy:      tx.RecordedBy,
	}
}

// TransactionReversedEvent is raised when a compensating reversal is recorded
type TransactionReversedEvent struct {
	shared.BaseDomainEvent
	ReversalID    uuid.UUID       `json:"reversal_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Kind          TransactionKind `json:"kind"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	RecordedBy    string          `json:"recorded_by"`
}

// EventType returns the event type name
func (e *TransactionReversedEvent) EventType() string {
	return "TransactionReversed"
}

// NewTransactionReversedEvent creates a new TransactionReversedEvent
func NewTransactionReversedEvent(reversal, original *Transaction) *TransactionReversedEvent {
	return &TransactionReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionReversed", "Transaction", reversal.ID),
		ReversalID:      reversal.ID,
		TransactionID:   original.ID,
		Kind:            reversal.Kind,
		CategoryID:      reversal.CategoryID,
		Amount:          reversal.Amount,
		Reference:       reversal.Reference,
		RecordedBy:      reversal.RecordedBy,
	}
}

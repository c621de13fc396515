package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of a ledger transaction
type TransactionKind string

const (
	TransactionKindIncome       TransactionKind = "income"
	TransactionKindExpense      TransactionKind = "expense"
	TransactionKindDisbursement TransactionKind = "disbursement"
	TransactionKindTransfer     TransactionKind = "transfer"
)

// IsValid checks if the kind is a valid TransactionKind
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindIncome, TransactionKindExpense, TransactionKindDisbursement, TransactionKindTransfer:
		return true
	}
	return false
}

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// IsOutflow reports whether the kind moves money out of the organization.
// Disbursements are project payouts and count as expenses everywhere.
func (k TransactionKind) IsOutflow() bool {
	return k == TransactionKindExpense || k == TransactionKindDisbursement
}

// IsInflow reports whether the kind moves money into the organization
func (k TransactionKind) IsInflow() bool {
	return k == TransactionKindIncome
}

// CompatibleWith reports whether a category of the given kind may tag a
// transaction of this kind.
func (k TransactionKind) CompatibleWith(categoryKind registry.CategoryKind) bool {
	switch k {
	case TransactionKindIncome:
		return categoryKind == registry.CategoryKindIncome
	case TransactionKindExpense, TransactionKindDisbursement:
		return categoryKind == registry.CategoryKindExpense
	case TransactionKindTransfer:
		return categoryKind == registry.CategoryKindTransfer
	}
	return false
}

// RecurrenceFrequency represents how often a recurring transaction repeats
type RecurrenceFrequency string

const (
	RecurrenceDaily     RecurrenceFrequency = "daily"
	RecurrenceWeekly    RecurrenceFrequency = "weekly"
	RecurrenceMonthly   RecurrenceFrequency = "monthly"
	RecurrenceQuarterly RecurrenceFrequency = "quarterly"
	RecurrenceYearly    RecurrenceFrequency = "yearly"
)

// IsValid checks if the frequency is a valid RecurrenceFrequency
func (f RecurrenceFrequency) IsValid() bool {
	switch f {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// Transaction represents a monetary event aggregate root.
// Transactions are append-only: once recorded they are never edited or
// deleted, only compensated through a reversal transaction.
type Transaction struct {
	shared.BaseAggregateRoot
	Kind        TransactionKind      `json:"kind"`
	CategoryID  *uuid.UUID           `json:"category_id,omitempty"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	Reference   string               `json:"reference"`
	Date        time.Time            `json:"date"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	Recurrence  *RecurrenceFrequency `json:"recurrence,omitempty"`
	ReversalOf  *uuid.UUID           `json:"reversal_of,omitempty"`
	RecordedBy  string               `json:"recorded_by"`
	Notes       string               `json:"notes"`
}

// NewTransaction creates a new ledger transaction
func NewTransaction(
	kind TransactionKind,
	categoryID *uuid.UUID,
	amount valueobject.Money,
	description string,
	reference string,
	date time.Time,
	projectID *uuid.UUID,
	recurrence *RecurrenceFrequency,
	recordedBy string,
) (*Transaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Transaction kind is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if recurrence != nil && !recurrence.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECURRENCE", "Recurrence frequency is not valid")
	}
	if recordedBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Recording actor cannot be empty")
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		CategoryID:        categoryID,
		Amount:            amount.Amount(),
		Description:       description,
		Reference:         reference,
		Date:              date,
		ProjectID:         projectID,
		Recurrence:        recurrence,
		RecordedBy:        recordedBy,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// NewReversal creates a compensating transaction for the original.
// The reversal keeps the original's kind, category, project and date so it
// lands in the same budget period, and contributes with inverted sign to
// every derived aggregate. The original is never modified.
func NewReversal(original *Transaction, recordedBy string) (*Transaction, error) {
	if original.IsReversal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot reverse a reversal transaction")
	}
	if recordedBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Recording actor cannot be empty")
	}

	originalID := original.ID
	rev := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              original.Kind,
		CategoryID:        original.CategoryID,
		Amount:            original.Amount,
		Description:       fmt.Sprintf("Reversal of %s", original.Reference),
		Reference:         fmt.Sprintf("REV-%s", original.Reference),
		Date:              original.Date,
		ProjectID:         original.ProjectID,
		ReversalOf:        &originalID,
		RecordedBy:        recordedBy,
	}

	rev.AddDomainEvent(NewTransactionReversedEvent(rev, original))

	return rev, nil
}

// IsReversal reports whether this transaction compensates another one
func (t *Transaction) IsReversal() bool {
	return t.ReversalOf != nil
}

// SignedAmount returns the amount this transaction contributes to derived
// aggregates: the recorded amount, negated for reversals.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsReversal() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// AmountMoney returns the amount as Money
func (t *Transaction) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(t.Amount)
}

// SetNotes sets free-form notes on the transaction
func (t *Transaction) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
}

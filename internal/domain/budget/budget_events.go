package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BudgetCreatedEvent is raised when a new budget is created
type BudgetCreatedEvent struct {
	shared.BaseDomainEvent
	BudgetID    uuid.UUID       `json:"budget_id"`
	Name        string          `json:"name"`
	FiscalYear  int             `json:"fiscal_year"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedBy   string          `json:"created_by"`
}

// EventType returns the event type name
func (e *BudgetCreatedEvent) EventType() string {
	return "BudgetCreated"
}

// NewBudgetCreatedEvent creates a new BudgetCreatedEvent
func NewBudgetCreatedEvent(b *Budget) *BudgetCreatedEvent {
	return &BudgetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetCreated", "Budget", b.ID),
		BudgetID:        b.ID,
		Name:            b.Name,
		FiscalYear:      b.FiscalYear,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		TotalAmount:     b.TotalAmount,
		CreatedBy:       b.CreatedBy,
	}
}

// BudgetActivatedEvent is raised when a budget starts tracking spending
type BudgetActivatedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID `json:"budget_id"`
	Name       string    `json:"name"`
	FiscalYear int       `json:"fiscal_year"`
}

// EventType returns the event type name
func (e *BudgetActivatedEvent) EventType() string {
	return "BudgetActivated"
}

// NewBudgetActivatedEvent creates a new BudgetActivatedEvent
func NewBudgetActivatedEvent(b *Budget) *BudgetActivatedEvent {
	return &BudgetActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetActivated", "Budget", b.ID),
		BudgetID:        b.ID,
		Name:            b.Name,
		FiscalYear:      b.FiscalYear,
	}
}

// BudgetClosedEvent is raised when a budget is closed and its spent amounts
// are frozen
type BudgetClosedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID `json:"budget_id"`
	Name       string    `json:"name"`
	FiscalYear int       `json:"fiscal_year"`
}

// EventType returns the event type name
func (e *BudgetClosedEvent) EventType() string {
	return "BudgetClosed"
}

// NewBudgetClosedEvent creates a new BudgetClosedEvent
func NewBudgetClosedEvent(b *Budget) *BudgetClosedEvent {
	return &BudgetClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetClosed", "Budget", b.ID),
		BudgetID:        b.ID,
		Name:            b.Name,
		FiscalYear:      b.FiscalYear,
	}
}

// BudgetItemAddedEvent is raised when a per-category allocation is added
type BudgetItemAddedEvent struct {
	shared.BaseDomainEvent
	BudgetID        uuid.UUID       `json:"budget_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	CategoryID      uuid.UUID       `json:"category_id"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// EventType returns the event type name
func (e *BudgetItemAddedEvent) EventType() string {
	return "BudgetItemAdded"
}

// NewBudgetItemAddedEvent creates a new BudgetItemAddedEvent
func NewBudgetItemAddedEvent(b *Budget, item *BudgetItem) *BudgetItemAddedEvent {
	return &BudgetItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetItemAdded", "Budget", b.ID),
		BudgetID:        b.ID,
		ItemID:          item.ID,
		CategoryID:      item.CategoryID,
		AllocatedAmount: item.AllocatedAmount,
	}
}

// BudgetItemSpentRefreshedEvent is raised when an item's cached spent amount
// is refreshed from the authoritative ledger sum
type BudgetItemSpentRefreshedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID       `json:"budget_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	CategoryID uuid.UUID       `json:"category_id"`
	OldSpent   decimal.Decimal `json:"old_spent"`
	NewSpent   decimal.Decimal `json:"new_spent"`
}

// EventType returns the event type name
func (e *BudgetItemSpentRefreshedEvent) EventType() string {
	return "BudgetItemSpentRefreshed"
}

// NewBudgetItemSpentRefreshedEvent creates a new BudgetItemSpentRefreshedEvent
func NewBudgetItemSpentRefreshedEvent(b *Budget, item *BudgetItem, oldSpent decimal.Decimal) *BudgetItemSpentRefreshedEvent {
	return &BudgetItemSpentRefreshedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetItemSpentRefreshed", "Budget", b.ID),
		BudgetID:        b.ID,
		ItemID:          item.ID,
		CategoryID:      item.CategoryID,
		OldSpent:        oldSpent,
		NewSpent:        item.SpentAmount,
	}
}

package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BudgetStatus represents the lifecycle state of a budget
type BudgetStatus string

const (
	BudgetStatusDraft  BudgetStatus = "draft"
	BudgetStatusActive BudgetStatus = "active"
	BudgetStatusClosed BudgetStatus = "closed"
)

// IsValid checks if the status is a valid BudgetStatus
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusActive, BudgetStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of BudgetStatus
func (s BudgetStatus) String() string {
	return string(s)
}

// BudgetItem is a per-category allocation owned by a Budget.
// SpentAmount is a persisted cache of the authoritative sum of ledger
// transactions for the item's category within the budget period; it is
// refreshed inside the same storage transaction as the triggering insert.
type BudgetItem struct {
	shared.BaseEntity
	BudgetID        uuid.UUID       `json:"budget_id"`
	CategoryID      uuid.UUID       `json:"category_id"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	Notes           string          `json:"notes"`
}

// Variance returns spent minus allocated; positive means overspend.
func (i *BudgetItem) Variance() decimal.Decimal {
	return i.SpentAmount.Sub(i.AllocatedAmount)
}

// IsOverspent reports whether spending exceeds the allocation.
// Budgets are advisory: overspend is flagged, never blocked.
func (i *BudgetItem) IsOverspent() bool {
	return i.SpentAmount.GreaterThan(i.AllocatedAmount)
}

// UtilizationPercent returns spent as a percentage of allocated, rounded to
// two decimal places.
func (i *BudgetItem) UtilizationPercent() decimal.Decimal {
	if !i.AllocatedAmount.IsPositive() {
		return decimal.Zero
	}
	return i.SpentAmount.Mul(decimal.NewFromInt(100)).Div(i.AllocatedAmount).Round(2)
}

// Budget represents a fiscal-period budget aggregate root.
// It exclusively owns its BudgetItems.
type Budget struct {
	shared.BaseAggregateRoot
	Name        string       `json:"name"`
	Description string       `json:"description"`
	FiscalYear  int          `json:"fiscal_year"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      BudgetStatus `json:"status"`
	CreatedBy   string       `json:"created_by"`
	Items       []BudgetItem `json:"items"`
}

// NewBudget creates a new budget in draft status
func NewBudget(
	name string,
	description string,
	fiscalYear int,
	startDate, endDate time.Time,
	totalAmount valueobject.Money,
	createdBy string,
) (*Budget, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget name cannot be empty")
	}
	if fiscalYear < 1900 || fiscalYear > 3000 {
		return nil, shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year is out of range")
	}
	if startDate.IsZero() || endDate.IsZero() || !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Budget period end must be after start")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if createdBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Creating actor cannot be empty")
	}

	b := &Budget{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		FiscalYear:        fiscalYear,
		StartDate:         startDate,
		EndDate:           endDate,
		TotalAmount:       totalAmount.Amount(),
		Status:            BudgetStatusDraft,
		CreatedBy:         createdBy,
		Items:             make([]BudgetItem, 0),
	}

	b.AddDomainEvent(NewBudgetCreatedEvent(b))

	return b, nil
}

// AddItem adds a per-category allocation. Each category may appear at most
// once per budget.
func (b *Budget) AddItem(categoryID uuid.UUID, allocated valueobject.Money, notes string) (*BudgetItem, error) {
	if b.Status == BudgetStatusClosed {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a closed budget")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Budget item category is required")
	}
	if !allocated.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocated amount must be positive")
	}
	if b.ItemFor(categoryID) != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Budget already has an item for this category")
	}

	item := BudgetItem{
		BaseEntity:      shared.NewBaseEntity(),
		BudgetID:        b.ID,
		CategoryID:      categoryID,
		AllocatedAmount: allocated.Amount(),
		SpentAmount:     decimal.Zero,
		Notes:           notes,
	}
	b.Items = append(b.Items, item)
	b.UpdatedAt = time.Now()

	b.AddDomainEvent(NewBudgetItemAddedEvent(b, &item))

	return &b.Items[len(b.Items)-1], nil
}

// Activate moves the budget from draft to active
func (b *Budget) Activate() error {
	if b.Status != BudgetStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot activate budget in %s status", b.Status))
	}
	b.Status = BudgetStatusActive
	b.UpdatedAt = time.Now()
	b.AddDomainEvent(NewBudgetActivatedEvent(b))
	return nil
}

// Close freezes the budget: spent amounts stop tracking the ledger.
func (b *Budget) Close() error {
	if b.Status != BudgetStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close budget in %s status", b.Status))
	}
	b.Status = BudgetStatusClosed
	b.UpdatedAt = time.Now()
	b.AddDomainEvent(NewBudgetClosedEvent(b))
	return nil
}

// IsActive reports whether the budget currently tracks spending
func (b *Budget) IsActive() bool {
	return b.Status == BudgetStatusActive
}

// Covers reports whether a transaction date falls within the budget period
func (b *Budget) Covers(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}

// ItemFor returns the item allocated to the category, or nil
func (b *Budget) ItemFor(categoryID uuid.UUID) *BudgetItem {
	for i := range b.Items {
		if b.Items[i].CategoryID == categoryID {
			return &b.Items[i]
		}
	}
	return nil
}

// RefreshItemSpent replaces an item's cached spent amount with the
// authoritative sum recomputed from the ledger. Closed budgets are frozen.
func (b *Budget) RefreshItemSpent(categoryID uuid.UUID, spent decimal.Decimal) (*BudgetItem, error) {
	if b.Status == BudgetStatusClosed {
		return nil, shared.NewDomainError("INVALID_STATE", "Closed budget spent amounts are frozen")
	}
	item := b.ItemFor(categoryID)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	old := item.SpentAmount
	item.SpentAmount = spent
	item.UpdatedAt = time.Now()
	b.UpdatedAt = item.UpdatedAt

	b.AddDomainEvent(NewBudgetItemSpentRefreshedEvent(b, item, old))

	return item, nil
}

// AllocatedTotal returns the sum of all item allocations
func (b *Budget) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Items {
		total = total.Add(b.Items[i].AllocatedAmount)
	}
	return total
}

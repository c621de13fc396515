package registry

import (
	"github.com/openledger/backend/internal/domain/shared"
)

// CategoryKind classifies what kind of money movement a category describes
type CategoryKind string

const (
	CategoryKindIncome   CategoryKind = "income"
	CategoryKindExpense  CategoryKind = "expense"
	CategoryKindTransfer CategoryKind = "transfer"
)

// IsValid checks if the kind is a valid CategoryKind
func (k CategoryKind) IsValid() bool {
	switch k {
	case CategoryKindIncome, CategoryKindExpense, CategoryKindTransfer:
		return true
	}
	return false
}

// String returns the string representation of CategoryKind
func (k CategoryKind) String() string {
	return string(k)
}

// Category represents a transaction category aggregate root.
// A category is immutable once any transaction references it; the
// application layer enforces that through the repository's reference check.
type Category struct {
	shared.BaseAggregateRoot
	Name        string       `json:"name"`
	Kind        CategoryKind `json:"kind"`
	Description string       `json:"description"`
}

// NewCategory creates a new transaction category
func NewCategory(name string, kind CategoryKind, description string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Category kind is not valid")
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Kind:              kind,
		Description:       description,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BudgetRepository defines persistence operations for budgets and their items.
// Items are exclusively owned: saving a budget persists its items, deleting a
// budget cascades to them.
type BudgetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)
	FindAll(ctx context.Context) ([]Budget, error)
	// FindActiveCovering returns active budgets whose period covers the date
	// and that carry an item for the category.
	FindActiveCovering(ctx context.Context, categoryID uuid.UUID, date time.Time) ([]Budget, error)
	Save(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}

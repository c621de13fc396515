package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction list queries.
// Results are ordered by date then id so pagination is stable and
// restartable.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uuid.UUID
	ProjectID  *uuid.UUID
	Kind       *TransactionKind
	Page       int
	PageSize   int
}

// MonthlyTotal is an aggregate of transaction amounts per calendar month
type MonthlyTotal struct {
	Month string          `json:"month"` // YYYY-MM
	Total decimal.Decimal `json:"total"`
}

// CategoryTotal is an aggregate of transaction amounts per category
type CategoryTotal struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// TransactionRepository defines persistence operations for the ledger.
// The ledger is append-mostly: Save is used for inserts only.
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	Save(ctx context.Context, tx *Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// NextReferenceSequence returns the next sequence number for
	// auto-generated references within the given YYYYMM month.
	NextReferenceSequence(ctx context.Context, yearMonth string) (int64, error)

	// SumByCategory returns the signed sum of outflow transactions tagged
	// with the category and dated within [from, to]. Reversals contribute
	// negatively.
	SumByCategory(ctx context.Context, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// SumByProject returns the signed sum of outflow transactions linked to
	// the project.
	SumByProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error)

	// SumInflow and SumOutflow return the signed totals of income
	// respectively expense/disbursement transactions dated in (from, to].
	SumInflow(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	SumOutflow(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// TopOutflowCategories returns the highest-spend categories in the range.
	TopOutflowCategories(ctx context.Context, from, to time.Time, limit int) ([]CategoryTotal, error)

	// MonthlyInflow and MonthlyOutflow return per-month totals in the range,
	// ordered by month ascending.
	MonthlyInflow(ctx context.Context, from, to time.Time) ([]MonthlyTotal, error)
	MonthlyOutflow(ctx context.Context, from, to time.Time) ([]MonthlyTotal, error)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// signedAmount contributes reversals with inverted sign so every SQL
// aggregate nets an original and its reversal to zero.
const signedAmount = "CASE WHEN reversal_of IS NOT NULL THEN -amount ELSE amount END"

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByReference reports whether a transaction with the reference exists
func (r *GormTransactionRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("reference = ?", reference).Count(&count).Error; err != nil {
		return false, classifyError(err)
	}
	return count > 0, nil
}

// Save inserts a transaction. The ledger is append-only, so Save never
// updates an existing row; a duplicate reference surfaces as ALREADY_EXISTS.
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return classifyError(conn(ctx, r.db).Create(model).Error)
}

// List returns transactions matching the filter, ordered by date then id so
// pagination is stable.
func (r *GormTransactionRepository) List(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	var txModels []models.TransactionModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.TransactionModel{}), filter).
		Order("date ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize)
	if err := query.Find(&txModels).Error; err != nil {
		return nil, classifyError(err)
	}

	transactions := make([]ledger.Transaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Count returns the number of transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter ledger.TransactionFilter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.TransactionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, classifyError(err)
	}
	return count, nil
}

// NextReferenceSequence returns the next sequence number for auto-generated
// references within the given YYYYMM month.
func (r *GormTransactionRepository) NextReferenceSequence(ctx context.Context, yearMonth string) (int64, error) {
	prefix := fmt.Sprintf("TXN-%s-", yearMonth)
	var maxSeq int64
	err := conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("reference LIKE ?", prefix+"%").
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTR(reference, %d) AS INTEGER)), 0)", len(prefix)+1)).
		Scan(&maxSeq).Error
	if err != nil {
		return 0, classifyError(err)
	}
	return maxSeq + 1, nil
}

// SumByCategory returns the signed sum of outflow transactions tagged with
// the category and dated within [from, to].
func (r *GormTransactionRepository) SumByCategory(ctx context.Context, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("category_id = ?", categoryID).
		Where("kind IN ?", outflowKinds()).
		Where("date >= ? AND date <= ?", from, to))
}

// SumByProject returns the signed sum of outflow transactions linked to the project
func (r *GormTransactionRepository) SumByProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	return r.sum(ctx, conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("project_id = ?", projectID).
		Where("kind IN ?", outflowKinds()))
}

// SumInflow returns the signed income total dated in (from, to]
func (r *GormTransactionRepository) SumInflow(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("kind = ?", ledger.TransactionKindIncome).
		Where("date > ? AND date <= ?", from, to))
}

// SumOutflow returns the signed expense and disbursement total dated in (from, to]
func (r *GormTransactionRepository) SumOutflow(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("kind IN ?", outflowKinds()).
		Where("date > ? AND date <= ?", from, to))
}

// TopOutflowCategories returns the highest-spend categories in [from, to]
func (r *GormTransactionRepository) TopOutflowCategories(ctx context.Context, from, to time.Time, limit int) ([]ledger.CategoryTotal, error) {
	if limit <= 0 {
		limit = 5
	}
	var totals []ledger.CategoryTotal
	err := conn(ctx, r.db).Model(&models.TransactionModel{}).
		Select("categories.id AS category_id, categories.name AS category_name, COALESCE(SUM("+signedAmount+"), 0) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.kind IN ?", outflowKinds()).
		Where("transactions.date >= ? AND transactions.date <= ?", from, to).
		Group("categories.id, categories.name").
		Order("total DESC").
		Limit(limit).
		Scan(&totals).Error
	if err != nil {
		return nil, classifyError(err)
	}
	return totals, nil
}

// MonthlyInflow returns per-month income totals in [from, to], ascending
func (r *GormTransactionRepository) MonthlyInflow(ctx context.Context, from, to time.Time) ([]ledger.MonthlyTotal, error) {
	return r.monthlyTotals(ctx, from, to, []string{string(ledger.TransactionKindIncome)})
}

// MonthlyOutflow returns per-month expense and disbursement totals in [from, to], ascending
func (r *GormTransactionRepository) MonthlyOutflow(ctx context.Context, from, to time.Time) ([]ledger.MonthlyTotal, error) {
	return r.monthlyTotals(ctx, from, to, outflowKinds())
}

func (r *GormTransactionRepository) monthlyTotals(ctx context.Context, from, to time.Time, kinds []string) ([]ledger.MonthlyTotal, error) {
	var totals []ledger.MonthlyTotal
	err := conn(ctx, r.db).Model(&models.TransactionModel{}).
		Select("strftime('%Y-%m', date) AS month, COALESCE(SUM("+signedAmount+"), 0) AS total").
		Where("kind IN ?", kinds).
		Where("date >= ? AND date <= ?", from, to).
		Group("month").
		Order("month ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, classifyError(err)
	}
	return totals, nil
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	return query
}

func (r *GormTransactionRepository) sum(ctx context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := query.Select("COALESCE(SUM(" + signedAmount + "), 0) AS total").Scan(&result).Error; err != nil {
		return decimal.Zero, classifyError(err)
	}
	return result.Total, nil
}

func outflowKinds() []string {
	return []string{
		string(ledger.TransactionKindExpense),
		string(ledger.TransactionKindDisbursement),
	}
}

var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func saveCategory(t *testing.T, db *Database, name string, kind registry.CategoryKind) *registry.Category {
	t.Helper()
	c, err := registry.NewCategory(name, kind, "")
	require.NoError(t, err)
	c.ClearDomainEvents()
	require.NoError(t, NewGormCategoryRepository(db.DB).Save(context.Background(), c))
	return c
}

func saveTransaction(t *testing.T, repo *GormTransactionRepository, kind ledger.TransactionKind, categoryID *uuid.UUID, amount int64, date time.Time, reference string) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(kind, categoryID,
		valueobject.NewMoneyUSD(decimal.NewFromInt(amount)),
		"repo test", reference, date, nil, nil, "alice")
	require.NoError(t, err)
	tx.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), tx))
	return tx
}

func march(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db.DB)
	travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)

	saved := saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 250, march(5), "TXN-202603-0001")

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Reference, found.Reference)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, travel.ID, *found.CategoryID)
	assert.Equal(t, "alice", found.RecordedBy)

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("duplicate reference is rejected by the unique index", func(t *testing.T) {
		dup, err := ledger.NewTransaction(ledger.TransactionKindExpense, &travel.ID,
			valueobject.NewMoneyUSD(decimal.NewFromInt(10)),
			"dup", "TXN-202603-0001", march(6), nil, nil, "alice")
		require.NoError(t, err)
		dup.ClearDomainEvents()

		err = repo.Save(ctx, dup)
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
	})

	t.Run("exists by reference", func(t *testing.T) {
		exists, err := repo.ExistsByReference(ctx, "TXN-202603-0001")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByReference(ctx, "TXN-999999-0001")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestNextReferenceSequence(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db.DB)
	travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)

	seq, err := repo.NextReferenceSequence(ctx, "202603")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 10, march(1), "TXN-202603-0001")
	saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 10, march(2), "TXN-202603-0002")

	seq, err = repo.NextReferenceSequence(ctx, "202603")
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)

	// Other months keep their own sequence.
	seq, err = repo.NextReferenceSequence(ctx, "202604")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestSignedSums(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db.DB)
	travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)
	donations := saveCategory(t, db, "Donations", registry.CategoryKindIncome)

	original := saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 800, march(5), "TXN-202603-0001")
	saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 300, march(10), "TXN-202603-0002")
	saveTransaction(t, repo, ledger.TransactionKindIncome, &donations.ID, 5000, march(3), "TXN-202603-0003")

	t.Run("sums outflows by category within the window", func(t *testing.T) {
		sum, err := repo.SumByCategory(ctx, travel.ID, march(1), march(31))
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(1100)), "got %s", sum)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		sum, err := repo.SumByCategory(ctx, travel.ID, march(5), march(10))
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(1100)))

		sum, err = repo.SumByCategory(ctx, travel.ID, march(6), march(9))
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("a reversal contributes negatively", func(t *testing.T) {
		rev, err := ledger.NewReversal(original, "bob")
		require.NoError(t, err)
		rev.ClearDomainEvents()
		require.NoError(t, repo.Save(ctx, rev))

		sum, err := repo.SumByCategory(ctx, travel.ID, march(1), march(31))
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(300)), "got %s", sum)

		inflow, err := repo.SumInflow(ctx, march(1), march(31))
		require.NoError(t, err)
		assert.True(t, inflow.Equal(decimal.NewFromInt(5000)))

		outflow, err := repo.SumOutflow(ctx, march(1), march(31))
		require.NoError(t, err)
		assert.True(t, outflow.Equal(decimal.NewFromInt(300)), "got %s", outflow)
	})

	t.Run("empty windows sum to zero", func(t *testing.T) {
		sum, err := repo.SumByCategory(ctx, travel.ID, march(20), march(25))
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}

func TestTopOutflowCategories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db.DB)
	travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)
	rent := saveCategory(t, db, "Rent", registry.CategoryKindExpense)
	supplies := saveCategory(t, db, "Office Supplies", registry.CategoryKindExpense)

	saveTransaction(t, repo, ledger.TransactionKindExpense, &rent.ID, 2000, march(1), "R-1")
	saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 500, march(2), "T-1")
	saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, 700, march(3), "T-2")
	saveTransaction(t, repo, ledger.TransactionKindExpense, &supplies.ID, 100, march(4), "S-1")

	top, err := repo.TopOutflowCategories(ctx, march(1), march(31), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Rent", top[0].CategoryName)
	assert.True(t, top[0].Total.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "Travel", top[1].CategoryName)
	assert.True(t, top[1].Total.Equal(decimal.NewFromInt(1200)))
}

func TestMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db.DB)
	donations := saveCategory(t, db, "Donations", registry.CategoryKindIncome)
	rent := saveCategory(t, db, "Rent", registry.CategoryKindExpense)

	saveTransaction(t, repo, ledger.TransactionKindIncome, &donations.ID, 500, march(10), "I-1")
	saveTransaction(t, repo, ledger.TransactionKindIncome, &donations.ID, 300, time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), "I-2")
	saveTransaction(t, repo, ledger.TransactionKindExpense, &rent.ID, 200, march(20), "E-1")

	income, err := repo.MonthlyInflow(ctx, march(1), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, income, 2)
	assert.Equal(t, "2026-03", income[0].Month)
	assert.True(t, income[0].Total.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "2026-04", income[1].Month)
	assert.True(t, income[1].Total.Equal(decimal.NewFromInt(300)))

	expenses, err := repo.MonthlyOutflow(ctx, march(1), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "2026-03", expenses[0].Month)
}

func TestListAndCount(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db.DB)
	travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)

	for day := 1; day <= 7; day++ {
		saveTransaction(t, repo, ledger.TransactionKindExpense, &travel.ID, int64(day*10), march(day), fmt.Sprintf("TXN-202603-%04d", day))
	}

	t.Run("pages in stable date order", func(t *testing.T) {
		filter := ledger.TransactionFilter{Page: 2, PageSize: 3}
		items, err := repo.List(ctx, filter)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "TXN-202603-0004", items[0].Reference)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
	})

	t.Run("filters by date range", func(t *testing.T) {
		from, to := march(3), march(5)
		filter := ledger.TransactionFilter{FromDate: &from, ToDate: &to}
		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpense(t *testing.T, travel *registry.Category, amount int64, day int, reference string) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(ledger.TransactionKindExpense, &travel.ID,
		valueobject.NewMoneyUSD(decimal.NewFromInt(amount)),
		"tx test", reference, march(day), nil, nil, "alice")
	require.NoError(t, err)
	tx.ClearDomainEvents()
	return tx
}

func TestTxManager(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when the function succeeds", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormTransactionRepository(db.DB)
		travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)

		err := NewTxManager(db.DB).Do(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, newExpense(t, travel, 100, 1, "TXN-202603-0001")); err != nil {
				return err
			}
			return repo.Save(txCtx, newExpense(t, travel, 200, 2, "TXN-202603-0002"))
		})
		require.NoError(t, err)

		total, err := repo.Count(ctx, ledger.TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("rolls back every write when the function fails", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormTransactionRepository(db.DB)
		travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)

		boom := errors.New("boom")
		err := NewTxManager(db.DB).Do(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, newExpense(t, travel, 100, 1, "TXN-202603-0001")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		total, err := repo.Count(ctx, ledger.TransactionFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("writes inside the transaction are visible to reads joining it", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormTransactionRepository(db.DB)
		travel := saveCategory(t, db, "Travel", registry.CategoryKindExpense)

		err := NewTxManager(db.DB).Do(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, newExpense(t, travel, 100, 1, "TXN-202603-0001")); err != nil {
				return err
			}
			exists, err := repo.ExistsByReference(txCtx, "TXN-202603-0001")
			require.NoError(t, err)
			assert.True(t, exists)
			return nil
		})
		require.NoError(t, err)
	})
}

package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction(t *testing.T) *Transaction {
	t.Helper()
	categoryID := uuid.New()
	tx, err := NewTransaction(
		TransactionKindExpense,
		&categoryID,
		valueobject.NewMoneyUSDFromFloat(250.00),
		"Office rent for March",
		"TXN-202603-0001",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		nil,
		nil,
		"alice",
	)
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	t.Run("creates a valid transaction and raises an event", func(t *testing.T) {
		tx := validTransaction(t)

		assert.NotEqual(t, uuid.Nil, tx.ID)
		assert.Equal(t, TransactionKindExpense, tx.Kind)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(250)))
		assert.False(t, tx.IsReversal())

		events := tx.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "TransactionRecorded", events[0].EventType())
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewTransaction("refund", nil, valueobject.NewMoneyUSDFromFloat(10), "x", "REF-1", time.Now(), nil, nil, "alice")
		assertDomainCode(t, err, "INVALID_KIND")
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		for _, amount := range []float64{0, -10} {
			_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(amount), "x", "REF-1", time.Now(), nil, nil, "alice")
			assertDomainCode(t, err, "INVALID_AMOUNT")
		}
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(10), "", "REF-1", time.Now(), nil, nil, "alice")
		assertDomainCode(t, err, "INVALID_DESCRIPTION")
	})

	t.Run("rejects description over 500 characters", func(t *testing.T) {
		long := strings.Repeat("x", 501)
		_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(10), long, "REF-1", time.Now(), nil, nil, "alice")
		assertDomainCode(t, err, "INVALID_DESCRIPTION")
	})

	t.Run("rejects empty reference", func(t *testing.T) {
		_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(10), "x", "", time.Now(), nil, nil, "alice")
		assertDomainCode(t, err, "INVALID_REFERENCE")
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(10), "x", "REF-1", time.Time{}, nil, nil, "alice")
		assertDomainCode(t, err, "INVALID_DATE")
	})

	t.Run("rejects invalid recurrence", func(t *testing.T) {
		bad := RecurrenceFrequency("fortnightly")
		_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(10), "x", "REF-1", time.Now(), nil, &bad, "alice")
		assertDomainCode(t, err, "INVALID_RECURRENCE")
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		_, err := NewTransaction(TransactionKindIncome, nil, valueobject.NewMoneyUSDFromFloat(10), "x", "REF-1", time.Now(), nil, nil, "")
		assertDomainCode(t, err, "INVALID_ACTOR")
	})
}

func TestNewReversal(t *testing.T) {
	t.Run("keeps the original's kind, category, date and amount", func(t *testing.T) {
		original := validTransaction(t)

		rev, err := NewReversal(original, "bob")
		require.NoError(t, err)

		assert.True(t, rev.IsReversal())
		assert.Equal(t, original.ID, *rev.ReversalOf)
		assert.Equal(t, original.Kind, rev.Kind)
		assert.Equal(t, original.CategoryID, rev.CategoryID)
		assert.True(t, original.Date.Equal(rev.Date))
		assert.True(t, original.Amount.Equal(rev.Amount))
		assert.Equal(t, "REV-TXN-202603-0001", rev.Reference)
		assert.Equal(t, "bob", rev.RecordedBy)

		events := rev.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "TransactionReversed", events[0].EventType())
	})

	t.Run("pair nets to zero through signed amounts", func(t *testing.T) {
		original := validTransaction(t)
		rev, err := NewReversal(original, "bob")
		require.NoError(t, err)

		net := original.SignedAmount().Add(rev.SignedAmount())
		assert.True(t, net.IsZero())
	})

	t.Run("cannot reverse a reversal", func(t *testing.T) {
		original := validTransaction(t)
		rev, err := NewReversal(original, "bob")
		require.NoError(t, err)

		_, err = NewReversal(rev, "bob")
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		original := validTransaction(t)
		_, err := NewReversal(original, "")
		assertDomainCode(t, err, "INVALID_ACTOR")
	})
}

func TestTransactionKind(t *testing.T) {
	t.Run("outflow classification", func(t *testing.T) {
		assert.True(t, TransactionKindExpense.IsOutflow())
		assert.True(t, TransactionKindDisbursement.IsOutflow())
		assert.False(t, TransactionKindIncome.IsOutflow())
		assert.False(t, TransactionKindTransfer.IsOutflow())
		assert.True(t, TransactionKindIncome.IsInflow())
	})

	t.Run("category compatibility", func(t *testing.T) {
		assert.True(t, TransactionKindIncome.CompatibleWith(registry.CategoryKindIncome))
		assert.True(t, TransactionKindExpense.CompatibleWith(registry.CategoryKindExpense))
		assert.True(t, TransactionKindDisbursement.CompatibleWith(registry.CategoryKindExpense))
		assert.True(t, TransactionKindTransfer.CompatibleWith(registry.CategoryKindTransfer))
		assert.False(t, TransactionKindExpense.CompatibleWith(registry.CategoryKindIncome))
		assert.False(t, TransactionKindIncome.CompatibleWith(registry.CategoryKindExpense))
	})
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected domain error, got %T", err)
	assert.Equal(t, code, de.Code)
}

package persistence

import (
	"context"

	"github.com/openledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements shared.TransactionManager on GORM. The open
// transaction travels in the context, so repositories join it without
// knowing who started it.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new TxManager
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Do runs fn within a database transaction
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return classifyError(err)
}

// conn returns the transaction carried by the context, or the repository's
// own connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

var _ shared.TransactionManager = (*TxManager)(nil)

package persistence

import (
	"fmt"

	"github.com/openledger/backend/internal/infrastructure/persistence/models"
)

// Migrate creates or updates the database schema for all models
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&models.CategoryModel{},
		&models.AssetCategoryModel{},
		&models.TransactionModel{},
		&models.BudgetModel{},
		&models.BudgetItemModel{},
		&models.ProjectModel{},
		&models.SnapshotModel{},
		&models.AssetModel{},
		&models.AuditEntryModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}

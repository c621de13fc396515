package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBudgetRepository implements BudgetRepository using GORM.
// Budget items are owned by the budget: saving persists them, deleting
// cascades to them.
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget with its items by ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	var model models.BudgetModel
	if err := conn(ctx, r.db).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all budgets with their items, newest fiscal year first
func (r *GormBudgetRepository) FindAll(ctx context.Context) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	if err := conn(ctx, r.db).Preload("Items").
		Order("fiscal_year DESC, start_date DESC").
		Find(&budgetModels).Error; err != nil {
		return nil, classifyError(err)
	}
	budgets := make([]budget.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets, nil
}

// FindActiveCovering returns active budgets whose period covers the date and
// that carry an item for the category.
func (r *GormBudgetRepository) FindActiveCovering(ctx context.Context, categoryID uuid.UUID, date time.Time) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	err := conn(ctx, r.db).Preload("Items").
		Joins("JOIN budget_items ON budget_items.budget_id = budgets.id").
		Where("budgets.status = ?", budget.BudgetStatusActive).
		Where("budgets.start_date <= ? AND budgets.end_date >= ?", date, date).
		Where("budget_items.category_id = ?", categoryID).
		Find(&budgetModels).Error
	if err != nil {
		return nil, classifyError(err)
	}
	budgets := make([]budget.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets, nil
}

// Save creates or updates a budget together with its items
func (r *GormBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	model := models.BudgetModelFromDomain(b)
	err := conn(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
	return classifyError(err)
}

// Delete removes a budget and cascades to its items
func (r *GormBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&models.BudgetItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BudgetModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return classifyError(err)
}

var _ budget.BudgetRepository = (*GormBudgetRepository)(nil)

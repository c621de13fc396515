package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Category, error) {
	var model models.CategoryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a category by its unique name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*registry.Category, error) {
	var model models.CategoryModel
	if err := conn(ctx, r.db).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]registry.Category, error) {
	var categoryModels []models.CategoryModel
	if err := conn(ctx, r.db).Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, classifyError(err)
	}
	categories := make([]registry.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *registry.Category) error {
	model := models.CategoryModelFromDomain(category)
	return classifyError(conn(ctx, r.db).Save(model).Error)
}

// IsReferenced reports whether any transaction or budget item references the category
func (r *GormCategoryRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return false, classifyError(err)
	}
	if count > 0 {
		return true, nil
	}
	if err := conn(ctx, r.db).Model(&models.BudgetItemModel{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return false, classifyError(err)
	}
	return count > 0, nil
}

// GormAssetCategoryRepository implements AssetCategoryRepository using GORM
type GormAssetCategoryRepository struct {
	db *gorm.DB
}

// NewGormAssetCategoryRepository creates a new GormAssetCategoryRepository
func NewGormAssetCategoryRepository(db *gorm.DB) *GormAssetCategoryRepository {
	return &GormAssetCategoryRepository{db: db}
}

// FindByID finds an asset category by its ID
func (r *GormAssetCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.AssetCategory, error) {
	var model models.AssetCategoryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all asset categories ordered by name
func (r *GormAssetCategoryRepository) FindAll(ctx context.Context) ([]registry.AssetCategory, error) {
	var categoryModels []models.AssetCategoryModel
	if err := conn(ctx, r.db).Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, classifyError(err)
	}
	categories := make([]registry.AssetCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates an asset category
func (r *GormAssetCategoryRepository) Save(ctx context.Context, category *registry.AssetCategory) error {
	model := models.AssetCategoryModelFromDomain(category)
	return classifyError(conn(ctx, r.db).Save(model).Error)
}

var (
	_ registry.CategoryRepository      = (*GormCategoryRepository)(nil)
	_ registry.AssetCategoryRepository = (*GormAssetCategoryRepository)(nil)
)

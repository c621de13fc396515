package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/asset"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindByTag finds an asset by its unique tag
func (r *GormAssetRepository) FindByTag(ctx context.Context, tag string) (*asset.Asset, error) {
	var model models.AssetModel
	if err := conn(ctx, r.db).First(&model, "tag = ?", tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all assets ordered by tag
func (r *GormAssetRepository) FindAll(ctx context.Context) ([]asset.Asset, error) {
	var assetModels []models.AssetModel
	if err := conn(ctx, r.db).Order("tag ASC").Find(&assetModels).Error; err != nil {
		return nil, classifyError(err)
	}
	assets := make([]asset.Asset, len(assetModels))
	for i, model := range assetModels {
		assets[i] = *model.ToDomain()
	}
	return assets, nil
}

// ExistsByTag reports whether an asset with the tag exists
func (r *GormAssetRepository) ExistsByTag(ctx context.Context, tag string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.AssetModel{}).
		Where("tag = ?", tag).Count(&count).Error; err != nil {
		return false, classifyError(err)
	}
	return count > 0, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	model := models.AssetModelFromDomain(a)
	return classifyError(conn(ctx, r.db).Save(model).Error)
}

var _ asset.AssetRepository = (*GormAssetRepository)(nil)

package registry

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines persistence operations for transaction categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	// IsReferenced reports whether any transaction references the category.
	// Referenced categories are immutable.
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

// AssetCategoryRepository defines persistence operations for asset categories
type AssetCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AssetCategory, error)
	FindAll(ctx context.Context) ([]AssetCategory, error)
	Save(ctx context.Context, category *AssetCategory) error
}

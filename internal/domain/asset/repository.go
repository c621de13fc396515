package asset

import (
	"context"

	"github.com/google/uuid"
)

// AssetRepository defines persistence operations for fixed assets
type AssetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	FindByTag(ctx context.Context, tag string) (*Asset, error)
	FindAll(ctx context.Context) ([]Asset, error)
	ExistsByTag(ctx context.Context, tag string) (bool, error)
	Save(ctx context.Context, a *Asset) error
}

package asset

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/asset"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AssetService provides application-level fixed asset operations.
// Book values are computed on read, never stored.
type AssetService struct {
	assets          asset.AssetRepository
	assetCategories registry.AssetCategoryRepository
	salvage         asset.SalvagePolicy
	eventBus        shared.EventPublisher
	logger          *zap.Logger
	validate        *validator.Validate
}

// NewAssetService creates a new AssetService
func NewAssetService(
	assets asset.AssetRepository,
	assetCategories registry.AssetCategoryRepository,
	salvage asset.SalvagePolicy,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assets:          assets,
		assetCategories: assetCategories,
		salvage:         salvage,
		eventBus:        eventBus,
		logger:          logger,
		validate:        validator.New(),
	}
}

// RegisterAssetRequest represents a request to register a fixed asset
type RegisterAssetRequest struct {
	Tag                string          `json:"tag" validate:"required,max=50"`
	Name               string          `json:"name" validate:"required,max=200"`
	CategoryID         uuid.UUID       `json:"category_id" validate:"required"`
	Description        string          `json:"description"`
	PurchaseDate       time.Time       `json:"purchase_date" validate:"required"`
	PurchasePrice      decimal.Decimal `json:"purchase_price" validate:"required"`
	DepreciationMethod string          `json:"depreciation_method" validate:"required,oneof=straight_line declining_balance none"`
	Location           string          `json:"location" validate:"max=200"`
	Condition          string          `json:"condition" validate:"max=100"`
	CreatedBy          string          `json:"created_by" validate:"required,max=100"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Tag                string          `json:"tag"`
	Name               string          `json:"name"`
	CategoryID         uuid.UUID       `json:"category_id"`
	Description        string          `json:"description,omitempty"`
	PurchaseDate       time.Time       `json:"purchase_date"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	DepreciationMethod string          `json:"depreciation_method"`
	Status             string          `json:"status"`
	Location           string          `json:"location,omitempty"`
	Condition          string          `json:"condition,omitempty"`
	BookValue          decimal.Decimal `json:"book_value"`
	CreatedBy          string          `json:"created_by"`
	CreatedAt          time.Time       `json:"created_at"`
}

// RegisterAsset registers a new fixed asset
func (s *AssetService) RegisterAsset(ctx context.Context, req RegisterAssetRequest) (*AssetResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	category, err := s.assetCategories.FindByID(ctx, req.CategoryID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Asset category does not exist")
		}
		return nil, err
	}

	exists, err := s.assets.ExistsByTag(ctx, req.Tag)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Asset tag already exists")
	}

	a, err := asset.NewAsset(
		req.Tag,
		req.Name,
		req.CategoryID,
		req.PurchaseDate,
		valueobject.NewMoneyUSD(req.PurchasePrice),
		asset.DepreciationMethod(req.DepreciationMethod),
		req.Location,
		req.Condition,
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		a.Description = req.Description
	}

	if err := s.assets.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)
	s.logger.Info("asset registered", zap.String("tag", a.Tag), zap.String("name", a.Name))

	return s.toResponse(ctx, a, category, time.Now())
}

// GetAsset returns an asset with its book value as of now
func (s *AssetService) GetAsset(ctx context.Context, id uuid.UUID) (*AssetResponse, error) {
	return s.GetAssetAt(ctx, id, time.Now())
}

// GetAssetAt returns an asset with its book value as of the given date
func (s *AssetService) GetAssetAt(ctx context.Context, id uuid.UUID, asOf time.Time) (*AssetResponse, error) {
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.assetCategories.FindByID(ctx, a.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, a, category, asOf)
}

// GetAssetByTag returns an asset by its unique tag with its current book value
func (s *AssetService) GetAssetByTag(ctx context.Context, tag string) (*AssetResponse, error) {
	a, err := s.assets.FindByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	category, err := s.assetCategories.FindByID(ctx, a.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, a, category, time.Now())
}

// ListAssets returns all assets with their book values as of the given date
func (s *AssetService) ListAssets(ctx context.Context, asOf time.Time) ([]AssetResponse, error) {
	assets, err := s.assets.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		category, err := s.assetCategories.FindByID(ctx, assets[i].CategoryID)
		if err != nil {
			return nil, err
		}
		resp, err := s.toResponse(ctx, &assets[i], category, asOf)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// SetAssetStatus transitions the asset's operational state
func (s *AssetService) SetAssetStatus(ctx context.Context, id uuid.UUID, status string) (*AssetResponse, error) {
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.SetStatus(asset.AssetStatus(status)); err != nil {
		return nil, err
	}
	if err := s.assets.Save(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)

	category, err := s.assetCategories.FindByID(ctx, a.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, a, category, time.Now())
}

// BookValue computes the asset's depreciated worth as of the given date.
// Disposed assets carry zero book value.
func (s *AssetService) BookValue(ctx context.Context, id uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	a, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if a.IsDisposed() {
		return decimal.Zero, nil
	}
	category, err := s.assetCategories.FindByID(ctx, a.CategoryID)
	if err != nil {
		return decimal.Zero, err
	}
	return asset.BookValue(a, category, s.salvage, asOf)
}

func (s *AssetService) toResponse(ctx context.Context, a *asset.Asset, category *registry.AssetCategory, asOf time.Time) (*AssetResponse, error) {
	bookValue := decimal.Zero
	if !a.IsDisposed() {
		var err error
		bookValue, err = asset.BookValue(a, category, s.salvage, asOf)
		if err != nil {
			return nil, err
		}
	}
	return &AssetResponse{
		ID:                 a.ID,
		Tag:                a.Tag,
		Name:               a.Name,
		CategoryID:         a.CategoryID,
		Description:        a.Description,
		PurchaseDate:       a.PurchaseDate,
		PurchasePrice:      a.PurchasePrice,
		DepreciationMethod: a.DepreciationMethod.String(),
		Status:             string(a.Status),
		Location:           a.Location,
		Condition:          a.Condition,
		BookValue:          bookValue,
		CreatedBy:          a.CreatedBy,
		CreatedAt:          a.CreatedAt,
	}, nil
}

func (s *AssetService) publish(ctx context.Context, a *asset.Asset) {
	events := a.GetDomainEvents()
	a.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

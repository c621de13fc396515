package registry

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegistryService provides application-level category operations
type RegistryService struct {
	categories      registry.CategoryRepository
	assetCategories registry.AssetCategoryRepository
	eventBus        shared.EventPublisher
	logger          *zap.Logger
	validate        *validator.Validate
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(
	categories registry.CategoryRepository,
	assetCategories registry.AssetCategoryRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *RegistryService {
	return &RegistryService{
		categories:      categories,
		assetCategories: assetCategories,
		eventBus:        eventBus,
		logger:          logger,
		validate:        validator.New(),
	}
}

// CreateCategoryRequest represents a request to create a transaction category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Kind        string `json:"kind" validate:"required,oneof=income expense transfer"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents a request to update a category's
// description. Name and kind are immutable once the category is referenced.
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAssetCategoryRequest represents a request to create an asset category
type CreateAssetCategoryRequest struct {
	Name             string          `json:"name" validate:"required,max=100"`
	DepreciationRate decimal.Decimal `json:"depreciation_rate"`
	UsefulLifeYears  int             `json:"useful_life_years" validate:"min=0"`
	Description      string          `json:"description"`
}

// AssetCategoryResponse represents an asset category in API responses
type AssetCategoryResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	DepreciationRate decimal.Decimal `json:"depreciation_rate"`
	UsefulLifeYears  int             `json:"useful_life_years"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CreateCategory creates a new transaction category
func (s *RegistryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if _, err := s.categories.FindByName(ctx, req.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category name already exists")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	category, err := registry.NewCategory(req.Name, registry.CategoryKind(req.Kind), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publish(ctx, category)
	s.logger.Info("category created", zap.String("name", category.Name), zap.String("kind", category.Kind.String()))

	return toCategoryResponse(category), nil
}

// UpdateCategory renames a category or updates its description. A category
// referenced by any transaction or budget item is immutable.
func (s *RegistryService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	referenced, err := s.categories.IsReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, shared.NewDomainError("INVALID_STATE", "Category is referenced by recorded transactions and cannot be changed")
	}

	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedAt = time.Now()
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetCategory returns a category by ID
func (s *RegistryService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories returns all transaction categories
func (s *RegistryService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *toCategoryResponse(&categories[i])
	}
	return responses, nil
}

// CreateAssetCategory creates a new asset category
func (s *RegistryService) CreateAssetCategory(ctx context.Context, req CreateAssetCategoryRequest) (*AssetCategoryResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	category, err := registry.NewAssetCategory(req.Name, req.DepreciationRate, req.UsefulLifeYears, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.assetCategories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.publish(ctx, category)
	s.logger.Info("asset category created", zap.String("name", category.Name))

	return toAssetCategoryResponse(category), nil
}

// ListAssetCategories returns all asset categories
func (s *RegistryService) ListAssetCategories(ctx context.Context) ([]AssetCategoryResponse, error) {
	categories, err := s.assetCategories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]AssetCategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *toAssetCategoryResponse(&categories[i])
	}
	return responses, nil
}

func (s *RegistryService) publish(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

func toCategoryResponse(c *registry.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Kind:        c.Kind.String(),
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toAssetCategoryResponse(c *registry.AssetCategory) *AssetCategoryResponse {
	return &AssetCategoryResponse{
		ID:               c.ID,
		Name:             c.Name,
		DepreciationRate: c.DepreciationRate,
		UsefulLifeYears:  c.UsefulLifeYears,
		Description:      c.Description,
		CreatedAt:        c.CreatedAt,
	}
}

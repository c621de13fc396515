package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/project"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a project by its unique code
func (r *GormProjectRepository) FindByCode(ctx context.Context, code string) (*project.Project, error) {
	var model models.ProjectModel
	if err := conn(ctx, r.db).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all projects ordered by code
func (r *GormProjectRepository) FindAll(ctx context.Context) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	if err := conn(ctx, r.db).Order("code ASC").Find(&projectModels).Error; err != nil {
		return nil, classifyError(err)
	}
	projects := make([]project.Project, len(projectModels))
	for i, model := range projectModels {
		projects[i] = *model.ToDomain()
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return classifyError(conn(ctx, r.db).Save(model).Error)
}

var _ project.ProjectRepository = (*GormProjectRepository)(nil)

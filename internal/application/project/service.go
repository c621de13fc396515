package project

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/project"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectService provides application-level project operations
type ProjectService struct {
	projects project.ProjectRepository
	logger   *zap.Logger
	validate *validator.Validate
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects project.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		logger:   logger,
		validate: validator.New(),
	}
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Code        string          `json:"code" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	DonorName   string          `json:"donor_name" validate:"max=200"`
	CreatedBy   string          `json:"created_by" validate:"required,max=100"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	TotalBudget       decimal.Decimal `json:"total_budget"`
	SpentAmount       decimal.Decimal `json:"spent_amount"`
	BudgetUtilization decimal.Decimal `json:"budget_utilization"`
	DonorName         string          `json:"donor_name,omitempty"`
	Status            string          `json:"status"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreateProject creates a new project in planning status
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if _, err := s.projects.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Project code already exists")
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	p, err := project.NewProject(
		req.Code,
		req.Name,
		req.Description,
		req.StartDate,
		valueobject.NewMoneyUSD(req.TotalBudget),
		req.DonorName,
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("project created", zap.String("code", p.Code), zap.String("name", p.Name))

	return toProjectResponse(p), nil
}

// GetProject returns a project by ID
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// GetProjectByCode returns a project by its unique code
func (s *ProjectService) GetProjectByCode(ctx context.Context, code string) (*ProjectResponse, error) {
	p, err := s.projects.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// ListProjects returns all projects
func (s *ProjectService) ListProjects(ctx context.Context) ([]ProjectResponse, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = *toProjectResponse(&projects[i])
	}
	return responses, nil
}

// SetProjectStatus transitions the project lifecycle state
func (s *ProjectService) SetProjectStatus(ctx context.Context, id uuid.UUID, status string) (*ProjectResponse, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.SetStatus(project.ProjectStatus(status)); err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

func toProjectResponse(p *project.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		TotalBudget:       p.TotalBudget,
		SpentAmount:       p.SpentAmount,
		BudgetUtilization: p.BudgetUtilization(),
		DonorName:         p.DonorName,
		Status:            string(p.Status),
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
	}
}

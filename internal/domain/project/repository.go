package project

import (
	"context"

	"github.com/google/uuid"
)

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByCode(ctx context.Context, code string) (*Project, error)
	FindAll(ctx context.Context) ([]Project, error)
	Save(ctx context.Context, p *Project) error
}

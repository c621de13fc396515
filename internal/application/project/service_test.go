package project

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/openledger/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProjectService(t *testing.T) *ProjectService {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	db, err := persistence.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewProjectService(persistence.NewGormProjectRepository(db.DB), zap.NewNop())
}

func projectRequest(code string) CreateProjectRequest {
	return CreateProjectRequest{
		Code:        code,
		Name:        "Clean Water Initiative",
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalBudget: decimal.NewFromInt(20000),
		DonorName:   "Global Water Fund",
		CreatedBy:   "alice",
	}
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a project in planning status", func(t *testing.T) {
		service := newProjectService(t)
		resp, err := service.CreateProject(ctx, projectRequest("WASH-2026"))
		require.NoError(t, err)
		assert.Equal(t, "planning", resp.Status)
		assert.True(t, resp.SpentAmount.IsZero())
		assert.True(t, resp.BudgetUtilization.IsZero())
	})

	t.Run("codes are unique", func(t *testing.T) {
		service := newProjectService(t)
		_, err := service.CreateProject(ctx, projectRequest("WASH-2026"))
		require.NoError(t, err)
		_, err = service.CreateProject(ctx, projectRequest("WASH-2026"))
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		service := newProjectService(t)
		_, err := service.CreateProject(ctx, CreateProjectRequest{Code: "X"})
		require.Error(t, err)
	})
}

func TestProjectLookupAndStatus(t *testing.T) {
	ctx := context.Background()
	service := newProjectService(t)

	created, err := service.CreateProject(ctx, projectRequest("WASH-2026"))
	require.NoError(t, err)

	t.Run("finds by code", func(t *testing.T) {
		resp, err := service.GetProjectByCode(ctx, "WASH-2026")
		require.NoError(t, err)
		assert.Equal(t, created.ID, resp.ID)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		_, err := service.GetProjectByCode(ctx, "NOPE")
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("transitions status", func(t *testing.T) {
		resp, err := service.SetProjectStatus(ctx, created.ID, "active")
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, err := service.SetProjectStatus(ctx, created.ID, "archived")
		require.Error(t, err)
	})

	t.Run("lists all projects", func(t *testing.T) {
		projects, err := service.ListProjects(ctx)
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/openledger/backend/internal/domain/cashflow"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSnapshotRepository implements SnapshotRepository using GORM.
// The snapshot series is append-only.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// FindByDate returns the snapshot taken for exactly the given date
func (r *GormSnapshotRepository) FindByDate(ctx context.Context, date time.Time) (*cashflow.Snapshot, error) {
	var model models.SnapshotModel
	if err := conn(ctx, r.db).First(&model, "date = ?", date).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// FindLatestBefore returns the most recent snapshot dated strictly before the given date
func (r *GormSnapshotRepository) FindLatestBefore(ctx context.Context, date time.Time) (*cashflow.Snapshot, error) {
	var model models.SnapshotModel
	if err := conn(ctx, r.db).
		Where("date < ?", date).
		Order("date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, classifyError(err)
	}
	return model.ToDomain(), nil
}

// History returns all snapshots dated strictly before the given date, ascending
func (r *GormSnapshotRepository) History(ctx context.Context, before time.Time) ([]cashflow.Snapshot, error) {
	var snapshotModels []models.SnapshotModel
	if err := conn(ctx, r.db).
		Where("date < ?", before).
		Order("date ASC").
		Find(&snapshotModels).Error; err != nil {
		return nil, classifyError(err)
	}
	return toDomainSnapshots(snapshotModels), nil
}

// List returns snapshots within [from, to] ordered by date ascending
func (r *GormSnapshotRepository) List(ctx context.Context, from, to time.Time) ([]cashflow.Snapshot, error) {
	var snapshotModels []models.SnapshotModel
	if err := conn(ctx, r.db).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&snapshotModels).Error; err != nil {
		return nil, classifyError(err)
	}
	return toDomainSnapshots(snapshotModels), nil
}

// Append inserts a snapshot. A duplicate date surfaces as ALREADY_EXISTS.
func (r *GormSnapshotRepository) Append(ctx context.Context, s *cashflow.Snapshot) error {
	model := models.SnapshotModelFromDomain(s)
	return classifyError(conn(ctx, r.db).Create(model).Error)
}

func toDomainSnapshots(snapshotModels []models.SnapshotModel) []cashflow.Snapshot {
	snapshots := make([]cashflow.Snapshot, len(snapshotModels))
	for i, model := range snapshotModels {
		snapshots[i] = *model.ToDomain()
	}
	return snapshots
}

var _ cashflow.SnapshotRepository = (*GormSnapshotRepository)(nil)

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/audit"
	"github.com/openledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditEntryRepository implements EntryRepository using GORM.
// It exposes no update or delete path.
type GormAuditEntryRepository struct {
	db *gorm.DB
}

// NewGormAuditEntryRepository creates a new GormAuditEntryRepository
func NewGormAuditEntryRepository(db *gorm.DB) *GormAuditEntryRepository {
	return &GormAuditEntryRepository{db: db}
}

// Append inserts an audit entry
func (r *GormAuditEntryRepository) Append(ctx context.Context, e *audit.Entry) error {
	model, err := models.AuditEntryModelFromDomain(e)
	if err != nil {
		return err
	}
	return classifyError(conn(ctx, r.db).Create(model).Error)
}

// FindByResource returns the entries for a resource in recorded order
func (r *GormAuditEntryRepository) FindByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]audit.Entry, error) {
	return r.find(ctx, conn(ctx, r.db).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID))
}

// FindByActor returns the entries recorded by an actor in recorded order
func (r *GormAuditEntryRepository) FindByActor(ctx context.Context, actor string) ([]audit.Entry, error) {
	return r.find(ctx, conn(ctx, r.db).Where("actor = ?", actor))
}

// FindByTimeRange returns the entries recorded within [from, to] in recorded order
func (r *GormAuditEntryRepository) FindByTimeRange(ctx context.Context, from, to time.Time) ([]audit.Entry, error) {
	return r.find(ctx, conn(ctx, r.db).
		Where("created_at >= ? AND created_at <= ?", from, to))
}

func (r *GormAuditEntryRepository) find(ctx context.Context, query *gorm.DB) ([]audit.Entry, error) {
	var entryModels []models.AuditEntryModel
	if err := query.Order("created_at ASC, rowid ASC").Find(&entryModels).Error; err != nil {
		return nil, classifyError(err)
	}
	entries := make([]audit.Entry, 0, len(entryModels))
	for i := range entryModels {
		entry, err := entryModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

var _ audit.EntryRepository = (*GormAuditEntryRepository)(nil)

package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryRepository defines persistence operations for the audit trail.
// The trail is strictly append-only: no API path updates or deletes an
// entry, and every query returns entries in recorded order.
type EntryRepository interface {
	Append(ctx context.Context, e *Entry) error
	FindByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]Entry, error)
	FindByActor(ctx context.Context, actor string) ([]Entry, error)
	FindByTimeRange(ctx context.Context, from, to time.Time) ([]Entry, error)
}

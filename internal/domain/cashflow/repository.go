package cashflow

import (
	"context"
	"time"
)

// SnapshotRepository defines persistence operations for the cashflow
// snapshot time series. The series is append-only: there is no update or
// delete.
type SnapshotRepository interface {
	// FindByDate returns the snapshot taken for exactly the given date, or
	// shared.ErrNotFound.
	FindByDate(ctx context.Context, date time.Time) (*Snapshot, error)
	// FindLatestBefore returns the most recent snapshot dated strictly
	// before the given date, or shared.ErrNotFound.
	FindLatestBefore(ctx context.Context, date time.Time) (*Snapshot, error)
	// History returns all snapshots dated strictly before the given date,
	// ordered by date ascending.
	History(ctx context.Context, before time.Time) ([]Snapshot, error)
	// List returns snapshots within [from, to] ordered by date ascending.
	List(ctx context.Context, from, to time.Time) ([]Snapshot, error)
	Append(ctx context.Context, s *Snapshot) error
}

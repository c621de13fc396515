package cashflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time, immutable summary of cashflow state for a
// period. Snapshots form an append-only time series: a correction is a new
// snapshot, never a retroactive edit.
type Snapshot struct {
	shared.BaseEntity
	Date             time.Time       `json:"date"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	PeriodDays       int             `json:"period_days"`
	BurnRate         decimal.Decimal `json:"burn_rate"`
	Projection30Days decimal.Decimal `json:"projection_30_days"`
}

// SnapshotComputedEvent is raised when a new cashflow snapshot is persisted
type SnapshotComputedEvent struct {
	shared.BaseDomainEvent
	SnapshotID       uuid.UUID       `json:"snapshot_id"`
	Date             time.Time       `json:"date"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	BurnRate         decimal.Decimal `json:"burn_rate"`
	Projection30Days decimal.Decimal `json:"projection_30_days"`
}

// EventType returns the event type name
func (e *SnapshotComputedEvent) EventType() string {
	return "SnapshotComputed"
}

// NewSnapshotComputedEvent creates a new SnapshotComputedEvent
func NewSnapshotComputedEvent(s *Snapshot) *SnapshotComputedEvent {
	return &SnapshotComputedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("SnapshotComputed", "CashflowSnapshot", s.ID),
		SnapshotID:       s.ID,
		Date:             s.Date,
		ClosingBalance:   s.ClosingBalance,
		BurnRate:         s.BurnRate,
		Projection30Days: s.Projection30Days,
	}
}

package audit

import (
	"context"
	"encoding/json"

	"github.com/openledger/backend/internal/domain/asset"
	"github.com/openledger/backend/internal/domain/audit"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/openledger/backend/internal/domain/cashflow"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// systemActor attributes entries for events that no human triggered
const systemActor = "system"

// Recorder subscribes to all domain events and appends one audit entry per
// mutation. Recording happens after the business transaction committed: a
// failed append is logged and never rolls back the mutation it describes.
type Recorder struct {
	entries audit.EntryRepository
	logger  *zap.Logger
}

// NewRecorder creates a new audit Recorder
func NewRecorder(entries audit.EntryRepository, logger *zap.Logger) *Recorder {
	return &Recorder{entries: entries, logger: logger}
}

// EventTypes returns nil so the recorder receives every event
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle maps a domain event to an audit entry and appends it
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	actor, action, ok := classify(event)
	if !ok {
		return nil
	}

	entry, err := audit.NewEntry(actor, action, event.AggregateType(), event.AggregateID(), nil, eventValues(event))
	if err != nil {
		return err
	}
	if err := r.entries.Append(ctx, entry); err != nil {
		r.logger.Error("failed to append audit entry",
			zap.String("event_type", event.EventType()),
			zap.String("resource_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// classify resolves the acting user and audit action for an event.
// Events that describe no auditable mutation report ok=false.
func classify(event shared.DomainEvent) (actor string, action audit.AuditAction, ok bool) {
	switch e := event.(type) {
	case *ledger.TransactionRecordedEvent:
		return e.RecordedBy, audit.ActionCreate, true
	case *ledger.TransactionReversedEvent:
		return e.RecordedBy, audit.ActionReverse, true
	case *budget.BudgetCreatedEvent:
		return e.CreatedBy, audit.ActionCreate, true
	case *budget.BudgetActivatedEvent:
		return systemActor, audit.ActionActivate, true
	case *budget.BudgetClosedEvent:
		return systemActor, audit.ActionClose, true
	case *budget.BudgetItemAddedEvent:
		return systemActor, audit.ActionUpdate, true
	case *budget.BudgetItemSpentRefreshedEvent:
		return systemActor, audit.ActionUpdate, true
	case *registry.CategoryCreatedEvent:
		return systemActor, audit.ActionCreate, true
	case *registry.AssetCategoryCreatedEvent:
		return systemActor, audit.ActionCreate, true
	case *asset.AssetRegisteredEvent:
		return e.CreatedBy, audit.ActionCreate, true
	case *asset.AssetStatusChangedEvent:
		return systemActor, audit.ActionUpdate, true
	case *cashflow.SnapshotComputedEvent:
		return systemActor, audit.ActionSnapshot, true
	}
	return "", "", false
}

// eventValues flattens the event payload into the entry's new-values map
func eventValues(event shared.DomainEvent) map[string]any {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

var _ shared.EventHandler = (*Recorder)(nil)

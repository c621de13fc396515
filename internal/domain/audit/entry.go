package audit

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
)

// AuditAction classifies what happened to a resource
type AuditAction string

const (
	ActionCreate   AuditAction = "create"
	ActionUpdate   AuditAction = "update"
	ActionReverse  AuditAction = "reverse"
	ActionActivate AuditAction = "activate"
	ActionClose    AuditAction = "close"
	ActionSnapshot AuditAction = "snapshot"
	// ActionAnomaly marks a detected consistency violation. Anomalies are
	// recorded, never auto-corrected.
	ActionAnomaly AuditAction = "anomaly"
)

// IsValid checks if the action is a valid AuditAction
func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionReverse, ActionActivate,
		ActionClose, ActionSnapshot, ActionAnomaly:
		return true
	}
	return false
}

// String returns the string representation of AuditAction
func (a AuditAction) String() string {
	return string(a)
}

// Entry is one immutable record in the audit trail. Entries are append-only
// and outlive the entities they describe; recorded order defines the
// history.
type Entry struct {
	shared.BaseEntity
	Actor        string         `json:"actor"`
	Action       AuditAction    `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   uuid.UUID      `json:"resource_id"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
}

// NewEntry creates a new audit trail entry
func NewEntry(
	actor string,
	action AuditAction,
	resourceType string,
	resourceID uuid.UUID,
	oldValues, newValues map[string]any,
) (*Entry, error) {
	if actor == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Audit actor cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action is not valid")
	}
	if resourceType == "" {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Resource type cannot be empty")
	}

	return &Entry{
		BaseEntity:   shared.NewBaseEntity(),
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
	}, nil
}

// GetOldValues returns a copy of the pre-mutation values
func (e *Entry) GetOldValues() map[string]any {
	result := make(map[string]any, len(e.OldValues))
	maps.Copy(result, e.OldValues)
	return result
}

// GetNewValues returns a copy of the post-mutation values
func (e *Entry) GetNewValues() map[string]any {
	result := make(map[string]any, len(e.NewValues))
	maps.Copy(result, e.NewValues)
	return result
}

// Timestamp returns when the entry was recorded
func (e *Entry) Timestamp() time.Time {
	return e.CreatedAt
}

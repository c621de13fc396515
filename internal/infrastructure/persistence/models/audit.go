package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/audit"
)

// AuditEntryModel is the GORM model for audit trail entries.
// The trail is append-only; OldValues and NewValues are stored as JSON text.
type AuditEntryModel struct {
	BaseModel
	Actor        string    `gorm:"type:varchar(100);not null;index"`
	Action       string    `gorm:"type:varchar(20);not null;index"`
	ResourceType string    `gorm:"type:varchar(50);not null;index:idx_audit_resource"`
	ResourceID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_resource"`
	OldValues    string    `gorm:"type:text"`
	NewValues    string    `gorm:"type:text"`
}

// TableName specifies the table name
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the model to a domain audit Entry
func (m *AuditEntryModel) ToDomain() (*audit.Entry, error) {
	oldValues, err := unmarshalValues(m.OldValues)
	if err != nil {
		return nil, err
	}
	newValues, err := unmarshalValues(m.NewValues)
	if err != nil {
		return nil, err
	}
	return &audit.Entry{
		BaseEntity:   m.BaseModel.ToDomain(),
		Actor:        m.Actor,
		Action:       audit.AuditAction(m.Action),
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
	}, nil
}

// AuditEntryModelFromDomain creates a model from a domain audit Entry
func AuditEntryModelFromDomain(e *audit.Entry) (*AuditEntryModel, error) {
	oldValues, err := marshalValues(e.OldValues)
	if err != nil {
		return nil, err
	}
	newValues, err := marshalValues(e.NewValues)
	if err != nil {
		return nil, err
	}
	m := &AuditEntryModel{
		Actor:        e.Actor,
		Action:       e.Action.String(),
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m, nil
}

func marshalValues(values map[string]any) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalValues(data string) (map[string]any, error) {
	if data == "" {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}

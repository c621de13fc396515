package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("creates an entry with actor and action", func(t *testing.T) {
		resourceID := uuid.New()
		entry, err := NewEntry("alice", ActionCreate, "Transaction", resourceID,
			nil, map[string]any{"amount": "100"})
		require.NoError(t, err)

		assert.Equal(t, "alice", entry.Actor)
		assert.Equal(t, ActionCreate, entry.Action)
		assert.Equal(t, "Transaction", entry.ResourceType)
		assert.Equal(t, resourceID, entry.ResourceID)
		assert.False(t, entry.Timestamp().IsZero())
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		_, err := NewEntry("", ActionCreate, "Transaction", uuid.New(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid action", func(t *testing.T) {
		_, err := NewEntry("alice", "destroy", "Transaction", uuid.New(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty resource type", func(t *testing.T) {
		_, err := NewEntry("alice", ActionCreate, "", uuid.New(), nil, nil)
		assert.Error(t, err)
	})
}

func TestEntryValueCopies(t *testing.T) {
	entry, err := NewEntry("alice", ActionUpdate, "Budget", uuid.New(),
		map[string]any{"spent": "300"},
		map[string]any{"spent": "1100"})
	require.NoError(t, err)

	// Mutating a returned copy must not touch the entry.
	values := entry.GetNewValues()
	values["spent"] = "0"
	assert.Equal(t, "1100", entry.GetNewValues()["spent"])

	old := entry.GetOldValues()
	old["spent"] = "0"
	assert.Equal(t, "300", entry.GetOldValues()["spent"])
}

func TestAuditAction(t *testing.T) {
	for _, action := range []AuditAction{
		ActionCreate, ActionUpdate, ActionReverse, ActionActivate,
		ActionClose, ActionSnapshot, ActionAnomaly,
	} {
		assert.True(t, action.IsValid(), "%s should be valid", action)
	}
	assert.False(t, AuditAction("delete").IsValid())
}

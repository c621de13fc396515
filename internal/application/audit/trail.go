package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/audit"
)

// TrailService serves read-only audit trail queries
type TrailService struct {
	entries audit.EntryRepository
}

// NewTrailService creates a new TrailService
func NewTrailService(entries audit.EntryRepository) *TrailService {
	return &TrailService{entries: entries}
}

// EntryResponse represents an audit entry in API responses
type EntryResponse struct {
	ID           uuid.UUID      `json:"id"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   uuid.UUID      `json:"resource_id"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
	RecordedAt   time.Time      `json:"recorded_at"`
}

// ByResource returns the history of a resource in recorded order
func (s *TrailService) ByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.entries.FindByResource(ctx, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// ByActor returns everything an actor did in recorded order
func (s *TrailService) ByActor(ctx context.Context, actor string) ([]EntryResponse, error) {
	entries, err := s.entries.FindByActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// ByTimeRange returns the entries recorded within [from, to]
func (s *TrailService) ByTimeRange(ctx context.Context, from, to time.Time) ([]EntryResponse, error) {
	entries, err := s.entries.FindByTimeRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

func toEntryResponses(entries []audit.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		e := &entries[i]
		responses[i] = EntryResponse{
			ID:           e.ID,
			Actor:        e.Actor,
			Action:       e.Action.String(),
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			OldValues:    e.GetOldValues(),
			NewValues:    e.GetNewValues(),
			RecordedAt:   e.Timestamp(),
		}
	}
	return responses
}

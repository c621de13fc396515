package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Transaction", uuid.New())
	return &e
}

func TestEventBusDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to handlers subscribed to the type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"transaction.recorded"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, testEvent("transaction.recorded")))
		require.NoError(t, bus.Publish(ctx, testEvent("budget.created")))

		require.Len(t, handler.received, 1)
		assert.Equal(t, "transaction.recorded", handler.received[0].EventType())
	})

	t.Run("a handler with no declared types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		wildcard := &recordingHandler{}
		bus.Subscribe(wildcard)

		require.NoError(t, bus.Publish(ctx,
			testEvent("transaction.recorded"),
			testEvent("budget.created"),
			testEvent("snapshot.computed")))

		assert.Len(t, wildcard.received, 3)
	})

	t.Run("explicit subscription types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"transaction.recorded"}}
		bus.Subscribe(handler, "budget.created")

		require.NoError(t, bus.Publish(ctx, testEvent("transaction.recorded")))
		require.NoError(t, bus.Publish(ctx, testEvent("budget.created")))

		require.Len(t, handler.received, 1)
		assert.Equal(t, "budget.created", handler.received[0].EventType())
	})

	t.Run("a failing handler does not stop delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{err: errors.New("storage down")}
		healthy := &recordingHandler{}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, testEvent("transaction.recorded")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&recordingHandler{panics: true})
		healthy := &recordingHandler{}
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, testEvent("transaction.recorded")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, testEvent("transaction.recorded")))
		bus.Unsubscribe(handler)
		require.NoError(t, bus.Publish(ctx, testEvent("transaction.recorded")))

		assert.Len(t, handler.received, 1)
	})
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("typed and wildcard handlers are both returned", func(t *testing.T) {
		registry := NewHandlerRegistry()
		typed := &recordingHandler{}
		wildcard := &recordingHandler{}
		registry.Register(typed, "transaction.recorded")
		registry.Register(wildcard)

		handlers := registry.GetHandlers("transaction.recorded")
		assert.Len(t, handlers, 2)

		handlers = registry.GetHandlers("budget.created")
		assert.Len(t, handlers, 1)
	})

	t.Run("unregister removes from every type", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := &recordingHandler{}
		registry.Register(handler, "transaction.recorded", "budget.created")

		registry.Unregister(handler)

		assert.Empty(t, registry.GetHandlers("transaction.recorded"))
		assert.Empty(t, registry.GetHandlers("budget.created"))
	})
}

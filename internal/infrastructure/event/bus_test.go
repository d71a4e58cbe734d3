package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storemate/backend/internal/domain/shared"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	handler := newTestHandler("billing.invoice.created")
	bus.Subscribe(handler, "billing.invoice.created")

	event := newTestEvent("billing.invoice.created")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_PublishToMultipleHandlers(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	first := newTestHandler("billing.payment.applied")
	second := newTestHandler("billing.payment.applied")
	bus.Subscribe(first, "billing.payment.applied")
	bus.Subscribe(second, "billing.payment.applied")

	err := bus.Publish(context.Background(), newTestEvent("billing.payment.applied"))

	require.NoError(t, err)
	assert.Len(t, first.getHandled(), 1)
	assert.Len(t, second.getHandled(), 1)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	failing := newTestHandler("billing.invoice.updated")
	failing.err = errors.New("handler failure")
	healthy := newTestHandler("billing.invoice.updated")
	bus.Subscribe(failing, "billing.invoice.updated")
	bus.Subscribe(healthy, "billing.invoice.updated")

	err := bus.Publish(context.Background(), newTestEvent("billing.invoice.updated"))

	require.NoError(t, err)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("billing.invoice.created")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("billing.payment.applied")))

	assert.Len(t, wildcard.getHandled(), 2)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	handler := newTestHandler("billing.invoice.created")
	bus.Subscribe(handler, "billing.invoice.created")
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("billing.invoice.created")))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_NoHandlers(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	err := bus.Publish(context.Background(), newTestEvent("billing.invoice.deleted"))
	require.NoError(t, err)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	logger := zap.NewNop()
	bus := NewInMemoryEventBus(logger)

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}

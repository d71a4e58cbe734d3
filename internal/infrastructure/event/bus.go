package event

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/storemate/backend/internal/domain/shared"
)

// InMemoryEventBus is a synchronous in-process pub/sub bus. Publish returns
// once every interested handler has run; a failing or panicking handler is
// logged and never blocks the others or the publishing transaction.
type InMemoryEventBus struct {
	mu        sync.RWMutex
	byType    map[string][]shared.EventHandler
	catchAll  []shared.EventHandler
	logger    *zap.Logger
	published atomic.Uint64
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		byType: make(map[string][]shared.EventHandler),
		logger: logger,
	}
}

// Subscribe registers a handler. With no event types the handler falls back
// to its own EventTypes(), and an empty result subscribes it to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.catchAll = append(b.catchAll, handler)
	} else {
		for _, eventType := range eventTypes {
			b.byType[eventType] = append(b.byType[eventType], handler)
		}
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes the handler from every event type it was registered for
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.catchAll = without(b.catchAll, handler)
	for eventType, handlers := range b.byType {
		b.byType[eventType] = without(handlers, handler)
		if len(b.byType[eventType]) == 0 {
			delete(b.byType, eventType)
		}
	}
	b.logger.Debug("handler unsubscribed")
}

// Publish delivers each event to its type handlers and then the catch-all
// handlers, in subscription order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
		b.published.Add(1)
	}
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.byType[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(b.catchAll))
	result = append(result, typed...)
	return append(result, b.catchAll...)
}

func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.logger.Info("event bus started")
	return nil
}

func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.logger.Info("event bus stopped", zap.Uint64("events_published", b.published.Load()))
	return nil
}

// dispatch runs one handler, converting a panic into a logged failure
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

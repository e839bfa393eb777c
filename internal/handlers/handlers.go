package handlers

import (
	"log/slog"
	"sync"

	"spyfall/internal/catalog"
	"spyfall/internal/game"
	"spyfall/internal/store"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store    *store.MemoryStore
	catalog  *catalog.Catalog
	eventBus *EventBus
	logger   *slog.Logger
}

// New creates a new handler and subscribes it to the store's engine events
func New(s *store.MemoryStore, c *catalog.Catalog, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		store:    s,
		catalog:  c,
		eventBus: NewEventBus(),
		logger:   logger,
	}
	s.OnEvent(func(code string, ev game.Event) {
		h.eventBus.Publish(Event{Type: string(ev.Type), TableCode: code, Data: ev})
	})
	return h
}

// Store returns the handler's store (for testing)
func (h *Handler) Store() *store.MemoryStore {
	return h.store
}

// Event is an engine event tagged with its table
type Event struct {
	Type      string
	TableCode string
	Data      game.Event
}

// EventBus manages event subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

// Subscribe subscribes to events for a table
func (eb *EventBus) Subscribe(tableCode string) chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, 16)
	eb.subscribers[tableCode] = append(eb.subscribers[tableCode], ch)
	return ch
}

// Unsubscribe removes a subscription
func (eb *EventBus) Unsubscribe(tableCode string, ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[tableCode]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[tableCode] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(eb.subscribers[tableCode]) == 0 {
		delete(eb.subscribers, tableCode)
	}
}

// Publish publishes an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers[event.TableCode] {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// SubscriberCount returns the number of subscriptions for a table
func (eb *EventBus) SubscriberCount(tableCode string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.subscribers[tableCode])
}

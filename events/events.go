package events

import (
	"context"
	"sync"

	"collector/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypePlayerCreated EventType = "player_created"
	EventTypeCardAcquired  EventType = "card_acquired"
	EventTypeCardSold      EventType = "card_sold"
	EventTypeDeckActivated EventType = "deck_activated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	PlayerID        int64
	Currency        models.Currency
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// PlayerCreatedEvent represents a new player registration
type PlayerCreatedEvent struct {
	PlayerID      int64
	Username      string
	StartingCoins int64
	StartingGold  int64
}

func (e PlayerCreatedEvent) Type() EventType {
	return EventTypePlayerCreated
}

// CardAcquiredEvent represents a card instance rolled from a template
type CardAcquiredEvent struct {
	PlayerID     int64
	InstanceID   int64
	TemplateID   int64
	TemplateName string
	Health       int
	Attack       int
	Defense      int
}

func (e CardAcquiredEvent) Type() EventType {
	return EventTypeCardAcquired
}

// CardSoldEvent represents a card instance sold back for coins
type CardSoldEvent struct {
	PlayerID     int64
	TemplateName string
	Price        int64
}

func (e CardSoldEvent) Type() EventType {
	return EventTypeCardSold
}

// DeckActivatedEvent represents a deck becoming the player's active deck
type DeckActivatedEvent struct {
	PlayerID int64
	DeckID   int64
	DeckName string
}

func (e DeckActivatedEvent) Type() EventType {
	return EventTypeDeckActivated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context so they outlive the request's transaction context.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bookie/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBetPlaced      EventType = "bet_placed"
	EventTypeMatchSettled   EventType = "match_settled"
	EventTypeMatchCancelled EventType = "match_cancelled"
	EventTypeMatchWentLive  EventType = "match_went_live"
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeOddsUpdated    EventType = "odds_updated"
	EventTypeAccountCreated EventType = "account_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BetPlacedEvent represents a bet that was accepted
type BetPlacedEvent struct {
	BetID           uuid.UUID
	AccountID       uuid.UUID
	MatchID         uuid.UUID
	TeamID          uuid.UUID
	Stake           decimal.Decimal
	Odds            decimal.Decimal
	PotentialPayout decimal.Decimal
	PlacedAt        time.Time
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// MatchSettledEvent represents a completed match whose bets were resolved
type MatchSettledEvent struct {
	MatchID      uuid.UUID
	Team1ID      uuid.UUID
	Team2ID      uuid.UUID
	WinnerTeamID uuid.UUID
	SettledBets  int
	WonBets      int
	TotalPaidOut decimal.Decimal
}

func (e MatchSettledEvent) Type() EventType {
	return EventTypeMatchSettled
}

// MatchCancelledEvent represents a cancelled match whose stakes were refunded
type MatchCancelledEvent struct {
	MatchID       uuid.UUID
	Team1ID       uuid.UUID
	Team2ID       uuid.UUID
	RefundedBets  int
	TotalRefunded decimal.Decimal
}

func (e MatchCancelledEvent) Type() EventType {
	return EventTypeMatchCancelled
}

// MatchWentLiveEvent represents a match whose betting window just closed
type MatchWentLiveEvent struct {
	MatchID uuid.UUID
	Team1ID uuid.UUID
	Team2ID uuid.UUID
}

func (e MatchWentLiveEvent) Type() EventType {
	return EventTypeMatchWentLive
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID    uuid.UUID
	OldBalance   decimal.Decimal
	NewBalance   decimal.Decimal
	ChangeAmount decimal.Decimal
	EntryType    models.EntryType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// OddsUpdatedEvent represents an administrative quote edit
type OddsUpdatedEvent struct {
	MatchID uuid.UUID
	TeamID  uuid.UUID
	Odds    decimal.Decimal
}

func (e OddsUpdatedEvent) Type() EventType {
	return EventTypeOddsUpdated
}

// AccountCreatedEvent represents a newly provisioned wallet
type AccountCreatedEvent struct {
	AccountID      uuid.UUID
	Username       string
	InitialBalance decimal.Decimal
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
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

	// Call handlers asynchronously to avoid blocking
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

// TransactionalBus stashes pending events coupled to a unit of work and
// flushes them to the underlying bus only after a successful commit.
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

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction context they were produced in
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback to drop stashed events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

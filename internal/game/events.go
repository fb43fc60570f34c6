package game

import (
	"sync"
	"time"

	"github.com/cardroom/holdem/poker"
)

// EventType identifies the kind of a game event.
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeStreetDealt  EventType = "street_dealt"
	EventTypePlayerAction EventType = "player_action"
	EventTypeHandComplete EventType = "hand_complete"
	EventTypeHandAborted  EventType = "hand_aborted"
)

// GameEvent is implemented by every event published during play.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published when cards go in the air. Seats index into
// Players and Chips, which list the dealt roster in table order.
type HandStartEvent struct {
	HandID         string
	TableID        string
	Players        []string
	Chips          []int
	Button         int
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int
	BigBlind       int
	timestamp      time.Time
}

// NewHandStartEvent creates a hand start event.
func NewHandStartEvent(handID, tableID string, players []string, chips []int, button, sbSeat, bbSeat, smallBlind, bigBlind int) *HandStartEvent {
	return &HandStartEvent{
		HandID:         handID,
		TableID:        tableID,
		Players:        players,
		Chips:          chips,
		Button:         button,
		SmallBlindSeat: sbSeat,
		BigBlindSeat:   bbSeat,
		SmallBlind:     smallBlind,
		BigBlind:       bigBlind,
		timestamp:      time.Now(),
	}
}

func (e *HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e *HandStartEvent) Timestamp() time.Time { return e.timestamp }

// StreetDealtEvent is published when community cards hit the board.
type StreetDealtEvent struct {
	HandID    string
	Street    Street
	Dealt     poker.Hand
	Board     poker.Hand
	timestamp time.Time
}

// NewStreetDealtEvent creates a street dealt event.
func NewStreetDealtEvent(handID string, street Street, dealt, board poker.Hand) *StreetDealtEvent {
	return &StreetDealtEvent{
		HandID:    handID,
		Street:    street,
		Dealt:     dealt,
		Board:     board,
		timestamp: time.Now(),
	}
}

func (e *StreetDealtEvent) EventType() EventType { return EventTypeStreetDealt }
func (e *StreetDealtEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action is applied.
type PlayerActionEvent struct {
	HandID    string
	Seat      int
	Name      string
	Action    Action
	Amount    int
	Street    Street
	PotTotal  int
	timestamp time.Time
}

// NewPlayerActionEvent creates a player action event.
func NewPlayerActionEvent(handID string, seat int, name string, action Action, amount int, street Street, potTotal int) *PlayerActionEvent {
	return &PlayerActionEvent{
		HandID:    handID,
		Seat:      seat,
		Name:      name,
		Action:    action,
		Amount:    amount,
		Street:    street,
		PotTotal:  potTotal,
		timestamp: time.Now(),
	}
}

func (e *PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e *PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// HandCompleteEvent is published once a hand has been settled.
type HandCompleteEvent struct {
	HandID    string
	TableID   string
	Result    *HandResult
	timestamp time.Time
}

// NewHandCompleteEvent creates a hand complete event.
func NewHandCompleteEvent(handID, tableID string, result *HandResult) *HandCompleteEvent {
	return &HandCompleteEvent{
		HandID:    handID,
		TableID:   tableID,
		Result:    result,
		timestamp: time.Now(),
	}
}

func (e *HandCompleteEvent) EventType() EventType { return EventTypeHandComplete }
func (e *HandCompleteEvent) Timestamp() time.Time { return e.timestamp }

// HandAbortedEvent is published when a hand is torn down and wagers are
// returned instead of settled.
type HandAbortedEvent struct {
	HandID    string
	Reason    string
	Refunds   []Payout
	timestamp time.Time
}

// NewHandAbortedEvent creates a hand aborted event.
func NewHandAbortedEvent(handID, reason string, refunds []Payout) *HandAbortedEvent {
	return &HandAbortedEvent{
		HandID:    handID,
		Reason:    reason,
		Refunds:   refunds,
		timestamp: time.Now(),
	}
}

func (e *HandAbortedEvent) EventType() EventType { return EventTypeHandAborted }
func (e *HandAbortedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives published events.
type EventSubscriber func(event GameEvent)

// EventBus publishes game events to subscribers.
type EventBus interface {
	Publish(event GameEvent)
	Subscribe(subscriber EventSubscriber)
}

// SimpleEventBus is a synchronous in-process event bus. Subscribers run on
// the publishing goroutine; events are flushed outside engine locks, so a
// subscriber may call back into the table.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewSimpleEventBus creates an empty bus.
func NewSimpleEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe registers a subscriber for all future events.
func (b *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber)
}

// Publish delivers the event to every subscriber in subscription order.
func (b *SimpleEventBus) Publish(event GameEvent) {
	b.mu.RLock()
	subs := make([]EventSubscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub(event)
	}
}

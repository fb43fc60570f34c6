package phh

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/poker"
)

// Collector assembles HandHistory records from the game event stream.
// Subscribe Record to the bus the table publishes on; hands from several
// tables may interleave on a shared bus, so open hands are keyed by hand id.
// Each settled hand is passed to the sink in settlement order.
type Collector struct {
	mu   sync.Mutex
	open map[string]*openHand
	sink func(*HandHistory)
}

// openHand tracks the street's bet level alongside the record under
// construction. The level decides whether an all-in renders as a raise
// ("cbr") or as a call of a larger bet ("cc").
type openHand struct {
	history  *HandHistory
	betLevel int
}

// NewCollector creates a collector delivering finished hands to sink.
func NewCollector(sink func(*HandHistory)) *Collector {
	return &Collector{
		open: make(map[string]*openHand),
		sink: sink,
	}
}

// Record consumes one game event. Events that are not part of a hand's
// lifecycle are ignored.
func (c *Collector) Record(ev game.GameEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case *game.HandStartEvent:
		c.open[e.HandID] = &openHand{
			history:  newHistory(e),
			betLevel: e.BigBlind,
		}

	case *game.StreetDealtEvent:
		if o, ok := c.open[e.HandID]; ok {
			o.history.Actions = append(o.history.Actions, "d db "+cardString(e.Dealt))
			o.betLevel = 0
		}

	case *game.PlayerActionEvent:
		if o, ok := c.open[e.HandID]; ok {
			if a, ok := o.formatAction(e.Seat, e.Action, e.Amount); ok {
				o.history.Actions = append(o.history.Actions, a)
			}
		}

	case *game.HandCompleteEvent:
		o, ok := c.open[e.HandID]
		if !ok {
			return
		}
		delete(c.open, e.HandID)
		finalize(o.history, e.Result)
		if c.sink != nil {
			c.sink(o.history)
		}

	case *game.HandAbortedEvent:
		// An aborted hand refunds every wager and leaves no record.
		delete(c.open, e.HandID)
	}
}

func newHistory(e *game.HandStartEvent) *HandHistory {
	n := len(e.Players)
	blinds := make([]int, n)
	if e.SmallBlindSeat >= 0 && e.SmallBlindSeat < n {
		blinds[e.SmallBlindSeat] = e.SmallBlind
	}
	if e.BigBlindSeat >= 0 && e.BigBlindSeat < n {
		blinds[e.BigBlindSeat] = e.BigBlind
	}

	ts := e.Timestamp().UTC()
	h := &HandHistory{
		Variant:           "NT",
		Table:             e.TableID,
		SeatCount:         n,
		Antes:             make([]int, n),
		BlindsOrStraddles: blinds,
		MinBet:            e.BigBlind,
		StartingStacks:    append([]int(nil), e.Chips...),
		Players:           append([]string(nil), e.Players...),
		HandID:            e.HandID,
		Time:              ts.Format("15:04:05"),
		TimeZone:          "UTC",
		Day:               ts.Day(),
		Month:             int(ts.Month()),
		Year:              ts.Year(),
	}
	// Hole cards stay hidden unless a showdown reveals them; the deal
	// placeholders are patched from the result's revealed hands.
	for seat := range e.Players {
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d ????", seat+1))
	}
	return h
}

func finalize(h *HandHistory, result *game.HandResult) {
	if result == nil {
		return
	}
	n := len(h.Players)
	h.FinishingStacks = make([]int, n)
	h.Winnings = make([]int, n)
	for _, s := range result.Seats {
		if s.Seat >= 0 && s.Seat < n {
			h.FinishingStacks[s.Seat] = s.EndChips
		}
	}
	for _, w := range result.Winners {
		if w.Seat >= 0 && w.Seat < n {
			h.Winnings[w.Seat] = w.Amount
		}
	}
	for _, r := range result.Revealed {
		if r.Seat >= 0 && r.Seat < n {
			h.Actions[r.Seat] = fmt.Sprintf("d dh p%d %s", r.Seat+1, cardString(r.Cards))
		}
	}
}

// formatAction renders one voluntary action in .phh notation. Raise and
// all-in amounts are the seat's total bet level for the street; an all-in
// below the current level is a call for less, written "cc".
func (o *openHand) formatAction(seat int, action game.Action, amount int) (string, bool) {
	player := fmt.Sprintf("p%d", seat+1)
	switch action {
	case game.Fold:
		return player + " f", true
	case game.Check, game.Call:
		return player + " cc", true
	case game.Raise, game.AllIn:
		if amount <= o.betLevel {
			if action == game.AllIn {
				return player + " cc", true
			}
			return "", false
		}
		o.betLevel = amount
		return fmt.Sprintf("%s cbr %d", player, amount), true
	default:
		return "", false
	}
}

func cardString(h poker.Hand) string {
	var b strings.Builder
	for _, c := range h.Cards() {
		b.WriteString(c.String())
	}
	return b.String()
}

package game

import "github.com/cardroom/holdem/poker"

// ActionRecord is one entry in a hand's action log. Blind posts are not
// recorded; the log holds voluntary actions only.
type ActionRecord struct {
	Street Street
	Seat   int
	Name   string
	Action Action
	Amount int
}

// RevealedHand is a hole-card reveal at showdown.
type RevealedHand struct {
	Seat  int
	Name  string
	Cards poker.Hand
	Rank  poker.Rank
}

// SeatResult summarizes one seat's hand: the stack it started with and the
// stack it ended with, all wagers and winnings applied.
type SeatResult struct {
	Seat       int
	Name       string
	StartChips int
	EndChips   int
}

// HandResult is the full settlement record of a finished hand.
type HandResult struct {
	HandID   string
	TableID  string
	Button   int
	Board    poker.Hand
	Street   Street
	Showdown bool
	Aborted  bool

	// Pots holds each pot with its winners, empty when the hand aborted.
	Pots []PotAward
	// Winners aggregates pot winnings per seat, uncalled returns excluded.
	Winners []Payout
	// Uncalled is the unmatched wager returned to its bettor, if any.
	Uncalled *Payout
	// Revealed lists showdown hands, strongest first.
	Revealed []RevealedHand
	// Refunds lists returned wagers when the hand aborted.
	Refunds []Payout

	Seats     []SeatResult
	ActionLog []ActionRecord
}

// WinnerSeats returns the seats that won at least one pot.
func (r *HandResult) WinnerSeats() []int {
	seats := make([]int, 0, len(r.Winners))
	for _, w := range r.Winners {
		seats = append(seats, w.Seat)
	}
	return seats
}

// Winnings returns the pot chips the seat collected, zero if it won nothing.
func (r *HandResult) Winnings(seat int) int {
	for _, w := range r.Winners {
		if w.Seat == seat {
			return w.Amount
		}
	}
	return 0
}

// NetChips returns the seat's chip delta over the hand.
func (r *HandResult) NetChips(seat int) int {
	for _, s := range r.Seats {
		if s.Seat == seat {
			return s.EndChips - s.StartChips
		}
	}
	return 0
}

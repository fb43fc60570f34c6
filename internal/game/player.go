package game

import "github.com/cardroom/holdem/poker"

// Status describes a seat's participation in the current hand.
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

func (s Status) String() string {
	return [...]string{"active", "folded", "all-in", "sitting-out"}[s]
}

// Player is one seat's state for a single hand. Stacks persist across hands
// through the Table, which rebuilds Player values each deal.
type Player struct {
	Seat      int
	Name      string
	Chips     int
	HoleCards poker.Hand
	Status    Status
	Bet       int // chips committed this street
	TotalBet  int // chips committed this hand
}

// CanAct reports whether the player can still make betting decisions.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// InHand reports whether the player can still win a pot.
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

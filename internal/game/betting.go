package game

// BettingRound tracks one street's wagering: the amount to match, the last
// full raise size, and which seats have exercised their action.
type BettingRound struct {
	CurrentBet int
	MinRaise   int
	LastRaiser int // seat of the last full raise, -1 when none
	Acted      []bool
	BigBlind   int // floor for MinRaise on each street
}

// NewBettingRound creates the preflop betting state. Blinds count toward
// CurrentBet but do not mark their posters as having acted, which is what
// gives the big blind its option.
func NewBettingRound(numPlayers int, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:   bigBlind,
		LastRaiser: -1,
		Acted:      make([]bool, numPlayers),
		BigBlind:   bigBlind,
	}
}

// Reset clears the round for a new street.
func (br *BettingRound) Reset() {
	br.CurrentBet = 0
	br.MinRaise = br.BigBlind
	br.LastRaiser = -1
	for i := range br.Acted {
		br.Acted[i] = false
	}
}

// CanRaise reports whether the seat still holds a raise right. A full raise
// clears every Acted flag and restores the right; a short all-in does not,
// so seats that already acted may only call it or fold.
func (br *BettingRound) CanRaise(seat int) bool {
	return !br.Acted[seat]
}

// ValidActions returns the actions the player may legally take right now.
func (br *BettingRound) ValidActions(p *Player) []Action {
	if !p.CanAct() {
		return nil
	}

	actions := []Action{Fold}
	toCall := br.CurrentBet - p.Bet

	if toCall <= 0 {
		actions = append(actions, Check)
	} else {
		// A short stack calls for less and is all-in.
		actions = append(actions, Call)
	}

	if br.CanRaise(p.Seat) && p.Bet+p.Chips >= br.CurrentBet+br.MinRaise {
		actions = append(actions, Raise)
	}
	if p.Chips > 0 && (p.Chips <= toCall || br.CanRaise(p.Seat)) {
		actions = append(actions, AllIn)
	}

	return actions
}

// Complete reports whether no further action is possible this street: every
// seat that can still act has acted and matched the current bet. Because
// blind posts do not set Acted, the preflop big blind option falls out of the
// same rule.
func (br *BettingRound) Complete(players []*Player) bool {
	actors := 0
	var lone *Player
	for _, p := range players {
		if p.CanAct() {
			actors++
			lone = p
		}
	}

	if actors == 0 {
		return true
	}
	if actors == 1 {
		// With everyone else folded or all-in there is nothing left to win
		// by betting; the lone seat only acts when facing an unmatched bet.
		return lone.Bet == br.CurrentBet
	}

	for _, p := range players {
		if !p.CanAct() {
			continue
		}
		if !br.Acted[p.Seat] || p.Bet != br.CurrentBet {
			return false
		}
	}
	return true
}

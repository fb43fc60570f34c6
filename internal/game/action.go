package game

// Street represents the betting round.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// RoundState describes where the betting state machine stands after the
// latest action.
type RoundState int

const (
	// WaitingForAction means a seat still owes a decision this street.
	WaitingForAction RoundState = iota
	// RoundComplete means every live seat has matched the bet and the next
	// street (or showdown) is due.
	RoundComplete
	// HandEndedByFold means folds left a single live seat and the hand is
	// over without a showdown.
	HandEndedByFold
)

func (s RoundState) String() string {
	return [...]string{"waiting_for_action", "round_complete", "hand_ended_by_fold"}[s]
}

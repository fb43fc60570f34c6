package game

import "github.com/cardroom/holdem/poker"

// ActionView is the information a seat is allowed to see when deciding.
// Valid is only populated for the seat currently due to act.
type ActionView struct {
	HandID     string
	Seat       int
	Name       string
	HoleCards  poker.Hand
	Board      poker.Hand
	Street     Street
	Chips      int
	Bet        int
	ToCall     int
	CurrentBet int
	MinRaise   int
	PotTotal   int
	BigBlind   int
	Valid      []Action
}

// CanDo reports whether the action is in the view's valid set.
func (v ActionView) CanDo(action Action) bool {
	for _, a := range v.Valid {
		if a == action {
			return true
		}
	}
	return false
}

// Strategy decides a seat's action when the table asks for one.
type Strategy interface {
	Act(view ActionView) (Action, int)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(view ActionView) (Action, int)

// Act calls f.
func (f StrategyFunc) Act(view ActionView) (Action, int) { return f(view) }

// CheckFold checks when free and folds otherwise. It is the fallback the
// table applies on timeouts and on strategies that return illegal actions.
var CheckFold = StrategyFunc(func(view ActionView) (Action, int) {
	if view.ToCall == 0 {
		return Check, 0
	}
	return Fold, 0
})

package bot

import "github.com/cardroom/holdem/internal/game"

// Caller checks when free and calls any bet, however large. Useful as a
// baseline opponent: it never applies pressure and never surrenders equity.
type Caller struct{}

// Act implements game.Strategy.
func (Caller) Act(view game.ActionView) (game.Action, int) {
	if view.ToCall == 0 {
		return game.Check, 0
	}
	return game.Call, 0
}

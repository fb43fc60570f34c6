package bot

import (
	"math/rand/v2"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/poker"
)

// TightAggressive plays a narrow range hard. Preflop it raises premium
// holdings, flat-calls strong ones, and ditches the rest; postflop it bets
// made hands and pays to continue only at a good price.
type TightAggressive struct {
	rng *rand.Rand
}

// NewTightAggressive creates a TightAggressive strategy drawing from rng.
func NewTightAggressive(rng *rand.Rand) *TightAggressive {
	return &TightAggressive{rng: rng}
}

// Act implements game.Strategy.
func (t *TightAggressive) Act(view game.ActionView) (game.Action, int) {
	if view.Street == game.Preflop {
		return t.preflop(view)
	}
	return t.postflop(view)
}

func (t *TightAggressive) preflop(view game.ActionView) (game.Action, int) {
	switch poker.CategorizeHoleHand(view.HoleCards) {
	case poker.HolePremium:
		if view.CanDo(game.Raise) {
			return game.Raise, raiseTo(view, view.CurrentBet*3)
		}
		if view.CanDo(game.AllIn) {
			return game.AllIn, 0
		}
		if view.ToCall > 0 {
			return game.Call, 0
		}
		return game.Check, 0
	case poker.HoleStrong:
		if view.ToCall == 0 {
			if view.CanDo(game.Raise) && t.rng.Float64() < 0.5 {
				return game.Raise, raiseTo(view, view.CurrentBet*3)
			}
			return game.Check, 0
		}
		if view.ToCall <= 4*view.BigBlind {
			return game.Call, 0
		}
		return game.Fold, 0
	case poker.HoleMedium, poker.HoleWeak:
		if view.ToCall == 0 {
			return game.Check, 0
		}
		if view.ToCall <= view.BigBlind {
			return game.Call, 0
		}
		return game.Fold, 0
	default:
		if view.ToCall == 0 {
			return game.Check, 0
		}
		return game.Fold, 0
	}
}

func (t *TightAggressive) postflop(view game.ActionView) (game.Action, int) {
	made := poker.Evaluate(view.HoleCards | view.Board)

	switch {
	case made.Category() >= poker.TwoPair:
		if view.CanDo(game.Raise) {
			return game.Raise, raiseTo(view, view.CurrentBet+view.PotTotal/2)
		}
		if view.ToCall > 0 {
			return game.Call, 0
		}
		return game.Check, 0
	case made.Category() == poker.OnePair:
		if view.ToCall == 0 {
			return game.Check, 0
		}
		// Continue only when the price is a third of the pot or better.
		if view.ToCall*3 <= view.PotTotal {
			return game.Call, 0
		}
		return game.Fold, 0
	default:
		if view.ToCall == 0 {
			return game.Check, 0
		}
		return game.Fold, 0
	}
}

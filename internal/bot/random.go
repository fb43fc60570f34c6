package bot

import (
	"math/rand/v2"

	"github.com/cardroom/holdem/internal/game"
)

// Random picks uniformly among the legal actions, with a uniform raise size
// when it raises. It exercises every branch of the betting machine, which
// makes it the strategy of choice for soak tests.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random strategy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// Act implements game.Strategy.
func (r *Random) Act(view game.ActionView) (game.Action, int) {
	if len(view.Valid) == 0 {
		return game.Fold, 0
	}
	action := view.Valid[r.rng.IntN(len(view.Valid))]
	if action != game.Raise {
		return action, 0
	}
	min := view.CurrentBet + view.MinRaise
	max := view.Bet + view.Chips
	if max <= min {
		return game.Raise, max
	}
	return game.Raise, min + r.rng.IntN(max-min+1)
}

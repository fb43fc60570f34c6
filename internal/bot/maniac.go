package bot

import (
	"math/rand/v2"

	"github.com/cardroom/holdem/internal/game"
)

// Maniac bets and raises relentlessly regardless of holding. It shoves short
// stacks, piles chips into most pots, and folds only a small fraction of the
// time when raising is not available.
type Maniac struct {
	rng *rand.Rand
}

// NewManiac creates a Maniac strategy drawing from rng.
func NewManiac(rng *rand.Rand) *Maniac {
	return &Maniac{rng: rng}
}

// Act implements game.Strategy.
func (m *Maniac) Act(view game.ActionView) (game.Action, int) {
	canRaise := view.CanDo(game.Raise)

	if view.ToCall == 0 {
		if canRaise && m.rng.Float64() < 0.85 {
			if view.Chips <= 20*view.BigBlind || m.rng.Float64() < 0.3 {
				return game.Raise, view.Bet + view.Chips
			}
			min := view.CurrentBet + view.MinRaise
			max := view.Bet + view.Chips
			return game.Raise, raiseTo(view, min+(max-min)*3/4)
		}
		return game.Check, 0
	}

	roll := m.rng.Float64()
	if roll < 0.4 {
		if canRaise {
			return game.Raise, view.Bet + view.Chips
		}
		if view.CanDo(game.AllIn) {
			return game.AllIn, 0
		}
	}
	if roll < 0.8 {
		return game.Call, 0
	}
	return game.Fold, 0
}

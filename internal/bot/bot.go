// Package bot provides ready-made betting strategies for simulations and
// auto-played tournaments. Each strategy implements game.Strategy and decides
// from the acting seat's view only, so the same instance can be reused across
// hands at one table.
package bot

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/cardroom/holdem/internal/game"
)

// Strategy kinds accepted by New. These are the names used on the command
// line and in config files.
const (
	KindFold   = "fold"
	KindCaller = "caller"
	KindRandom = "random"
	KindManiac = "maniac"
	KindTight  = "tag"
)

// New builds a strategy by kind name. Strategies that randomize take their
// randomness from rng; deterministic kinds ignore it.
func New(kind string, rng *rand.Rand) (game.Strategy, error) {
	switch kind {
	case KindFold:
		return game.CheckFold, nil
	case KindCaller:
		return Caller{}, nil
	case KindRandom:
		return NewRandom(rng), nil
	case KindManiac:
		return NewManiac(rng), nil
	case KindTight:
		return NewTightAggressive(rng), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (have %v)", kind, Kinds())
	}
}

// Kinds returns the accepted strategy names, sorted.
func Kinds() []string {
	kinds := []string{KindFold, KindCaller, KindRandom, KindManiac, KindTight}
	sort.Strings(kinds)
	return kinds
}

// raiseTo clamps a desired raise-to level into the legal window for the
// view: at least a full raise over the current bet, at most the stack.
func raiseTo(view game.ActionView, amount int) int {
	if min := view.CurrentBet + view.MinRaise; amount < min {
		amount = min
	}
	if max := view.Bet + view.Chips; amount > max {
		amount = max
	}
	return amount
}

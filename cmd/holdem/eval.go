package main

import (
	"fmt"
	"strings"

	"github.com/cardroom/holdem/poker"
)

// EvalCmd ranks the best five-card hand contained in the given cards.
type EvalCmd struct {
	Cards []string `arg:"" help:"Five to seven cards, e.g. As Kd Qh Jc Ts"`
}

func (c *EvalCmd) Run() error {
	hand, err := poker.ParseHand(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	if n := hand.Count(); n < 5 || n > 7 {
		return fmt.Errorf("need 5 to 7 cards, got %d", n)
	}

	rank := poker.Evaluate(hand)
	fmt.Printf("%s: %s\n", hand, rank)
	return nil
}

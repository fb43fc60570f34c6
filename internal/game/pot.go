package game

import (
	"slices"
	"sort"

	"github.com/cardroom/holdem/poker"
)

// Pot is one layer of the pot: an amount and the seats eligible to win it.
type Pot struct {
	Amount   int
	Eligible []int
}

// PotAward records how one pot was paid at settlement.
type PotAward struct {
	Amount  int
	Winners []int // pay order starts left of the button
	Shares  []int // aligned with Winners; the first share absorbs odd chips
}

// Payout is a chip transfer back to a seat.
type Payout struct {
	Seat   int
	Amount int
}

// PotManager tracks every chip that leaves a stack during a hand. Chips are
// recorded the moment they are wagered, so the running total always includes
// live street bets. Side pots are derived from contribution levels rather
// than tracked incrementally.
type PotManager struct {
	contributions []int
	folded        []bool
	collected     int
}

// NewPotManager creates a pot manager for the given number of seats.
func NewPotManager(seats int) *PotManager {
	return &PotManager{
		contributions: make([]int, seats),
		folded:        make([]bool, seats),
	}
}

// Contribute records chips moving from a seat into the pot.
func (pm *PotManager) Contribute(seat, amount int) {
	pm.contributions[seat] += amount
	pm.collected += amount
}

// MarkFolded removes a seat from eligibility. Its chips stay in the pot.
func (pm *PotManager) MarkFolded(seat int) {
	pm.folded[seat] = true
}

// Total returns every chip collected so far, live street bets included.
func (pm *PotManager) Total() int {
	return pm.collected
}

// Contribution returns the seat's hand-total contribution.
func (pm *PotManager) Contribution(seat int) int {
	return pm.contributions[seat]
}

// Pots splits the collected chips into a main pot and side pots. Each
// distinct contribution level among unfolded seats closes one layer; a seat
// is eligible for a layer when its contribution reaches that level. Folded
// chips land in whichever layers they funded.
func (pm *PotManager) Pots() []Pot {
	var levels []int
	for seat, c := range pm.contributions {
		if c > 0 && !pm.folded[seat] {
			levels = append(levels, c)
		}
	}
	if len(levels) == 0 {
		return nil
	}
	sort.Ints(levels)
	levels = slices.Compact(levels)

	pots := make([]Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for seat, c := range pm.contributions {
			pot.Amount += min(c, level) - min(c, prev)
			if !pm.folded[seat] && c >= level {
				pot.Eligible = append(pot.Eligible, seat)
			}
		}
		pots = append(pots, pot)
		prev = level
	}

	// Folded chips above the top live level have no layer of their own; they
	// belong to the seats contesting the top pot.
	extra := 0
	for _, c := range pm.contributions {
		if c > prev {
			extra += c - prev
		}
	}
	pots[len(pots)-1].Amount += extra

	return pots
}

// Settle distributes every pot at showdown. ranks holds the evaluated hand
// of each seat still in contention. Ties split evenly with odd chips going
// to the first winner left of the button, and an unmatched top wager is
// returned to its bettor rather than won. Settle fails if the chips paid out
// would not equal the chips collected.
func (pm *PotManager) Settle(ranks map[int]poker.Rank, button int) ([]PotAward, *Payout, error) {
	pots := pm.Pots()

	// A top layer with a single eligible seat is an uncalled overage.
	var uncalled *Payout
	if n := len(pots); n > 0 && len(pots[n-1].Eligible) == 1 {
		uncalled = &Payout{Seat: pots[n-1].Eligible[0], Amount: pots[n-1].Amount}
		pots = pots[:n-1]
	}

	distributed := 0
	if uncalled != nil {
		distributed += uncalled.Amount
	}

	awards := make([]PotAward, 0, len(pots))
	for _, pot := range pots {
		best := poker.Rank(0)
		var winners []int
		for _, seat := range pot.Eligible {
			rank, ok := ranks[seat]
			if !ok {
				continue
			}
			switch {
			case rank > best:
				best = rank
				winners = []int{seat}
			case rank == best:
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			return nil, nil, invariantf("pot of %d has no ranked winner among seats %v", pot.Amount, pot.Eligible)
		}

		orderAfterButton(winners, button, len(pm.contributions))
		share := pot.Amount / len(winners)
		shares := make([]int, len(winners))
		for i := range shares {
			shares[i] = share
		}
		shares[0] += pot.Amount - share*len(winners)

		awards = append(awards, PotAward{Amount: pot.Amount, Winners: winners, Shares: shares})
		distributed += pot.Amount
	}

	if distributed != pm.collected {
		return nil, nil, invariantf("settled %d chips but collected %d", distributed, pm.collected)
	}
	return awards, uncalled, nil
}

// SettleFoldOut pays the whole pot to the last seat standing. The winner's
// own unmatched wager, if any, is reported as a return rather than winnings.
func (pm *PotManager) SettleFoldOut(seat int) ([]PotAward, *Payout) {
	maxOther := 0
	for s, c := range pm.contributions {
		if s != seat && c > maxOther {
			maxOther = c
		}
	}

	var uncalled *Payout
	amount := pm.collected
	if over := pm.contributions[seat] - maxOther; over > 0 {
		uncalled = &Payout{Seat: seat, Amount: over}
		amount -= over
	}

	return []PotAward{{Amount: amount, Winners: []int{seat}, Shares: []int{amount}}}, uncalled
}

// Refund returns every seat's exact contribution, used when a hand aborts.
func (pm *PotManager) Refund() []Payout {
	var out []Payout
	for seat, c := range pm.contributions {
		if c > 0 {
			out = append(out, Payout{Seat: seat, Amount: c})
		}
	}
	return out
}

// orderAfterButton sorts seats by table position starting left of the button.
func orderAfterButton(seats []int, button, numSeats int) {
	sort.Slice(seats, func(i, j int) bool {
		return (seats[i]-button-1+numSeats)%numSeats < (seats[j]-button-1+numSeats)%numSeats
	})
}

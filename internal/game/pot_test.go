package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/cardroom/holdem/poker"
)

func TestSinglePot(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	for seat := 0; seat < 3; seat++ {
		pm.Contribute(seat, 10)
	}

	pots := pm.Pots()
	if len(pots) != 1 {
		t.Fatalf("expected 1 pot, got %d", len(pots))
	}
	if pots[0].Amount != 30 {
		t.Errorf("pot amount = %d, want 30", pots[0].Amount)
	}
	if !slices.Equal(pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("eligible = %v, want [0 1 2]", pots[0].Eligible)
	}
}

func TestSidePotsFromAllIns(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	pm.Contribute(0, 100)
	pm.Contribute(1, 50) // all-in for less
	pm.Contribute(2, 100)

	pots := pm.Pots()
	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %d", len(pots))
	}
	if pots[0].Amount != 150 || !slices.Equal(pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("main pot = %d %v, want 150 [0 1 2]", pots[0].Amount, pots[0].Eligible)
	}
	if pots[1].Amount != 100 || !slices.Equal(pots[1].Eligible, []int{0, 2}) {
		t.Errorf("side pot = %d %v, want 100 [0 2]", pots[1].Amount, pots[1].Eligible)
	}
}

func TestFoldedChipsStayInPot(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	pm.Contribute(0, 100)
	pm.Contribute(1, 30)
	pm.Contribute(2, 100)
	pm.MarkFolded(1)

	pots := pm.Pots()
	if len(pots) != 1 {
		t.Fatalf("expected 1 pot, got %d", len(pots))
	}
	if pots[0].Amount != 230 {
		t.Errorf("pot = %d, want 230 including folded chips", pots[0].Amount)
	}
	if slices.Contains(pots[0].Eligible, 1) {
		t.Error("folded seat should not be eligible")
	}
}

func TestSettleSingleWinner(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	for seat := 0; seat < 3; seat++ {
		pm.Contribute(seat, 20)
	}

	ranks := map[int]poker.Rank{0: 100, 1: 300, 2: 200}
	awards, uncalled, err := pm.Settle(ranks, 0)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if uncalled != nil {
		t.Errorf("unexpected uncalled return %+v", uncalled)
	}
	if len(awards) != 1 || awards[0].Amount != 60 {
		t.Fatalf("awards = %+v, want one pot of 60", awards)
	}
	if !slices.Equal(awards[0].Winners, []int{1}) {
		t.Errorf("winners = %v, want [1]", awards[0].Winners)
	}
}

func TestSettleSplitsOddChipLeftOfButton(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	for seat := 0; seat < 3; seat++ {
		pm.Contribute(seat, 5)
	}

	// Seats 1 and 2 tie; with the button on 0, seat 1 is first to the left.
	ranks := map[int]poker.Rank{0: 50, 1: 300, 2: 300}
	awards, _, err := pm.Settle(ranks, 0)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(awards) != 1 {
		t.Fatalf("expected one award, got %+v", awards)
	}
	if !slices.Equal(awards[0].Winners, []int{1, 2}) {
		t.Errorf("winners = %v, want [1 2]", awards[0].Winners)
	}
	if !slices.Equal(awards[0].Shares, []int{8, 7}) {
		t.Errorf("shares = %v, want [8 7]", awards[0].Shares)
	}

	// Button on 1: seat 2 is now first to the left and gets the odd chip.
	awards, _, err = pm.Settle(ranks, 1)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !slices.Equal(awards[0].Winners, []int{2, 1}) {
		t.Errorf("winners = %v, want [2 1]", awards[0].Winners)
	}
	if !slices.Equal(awards[0].Shares, []int{8, 7}) {
		t.Errorf("shares = %v, want [8 7]", awards[0].Shares)
	}
}

func TestSettleReturnsUncalledOverage(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(2)
	pm.Contribute(0, 100)
	pm.Contribute(1, 40) // called all-in short

	ranks := map[int]poker.Rank{0: 100, 1: 900}
	awards, uncalled, err := pm.Settle(ranks, 0)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if uncalled == nil || uncalled.Seat != 0 || uncalled.Amount != 60 {
		t.Fatalf("uncalled = %+v, want 60 back to seat 0", uncalled)
	}
	if len(awards) != 1 || awards[0].Amount != 80 || !slices.Equal(awards[0].Winners, []int{1}) {
		t.Errorf("awards = %+v, want seat 1 winning 80", awards)
	}
}

func TestSettleLayeredWinners(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	pm.Contribute(0, 100)
	pm.Contribute(1, 50)
	pm.Contribute(2, 100)

	// Short stack holds the best hand, covering stack the second best.
	ranks := map[int]poker.Rank{0: 200, 1: 900, 2: 100}
	awards, uncalled, err := pm.Settle(ranks, 0)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if uncalled != nil {
		t.Errorf("unexpected uncalled return %+v", uncalled)
	}
	if len(awards) != 2 {
		t.Fatalf("expected 2 awards, got %+v", awards)
	}
	if awards[0].Amount != 150 || !slices.Equal(awards[0].Winners, []int{1}) {
		t.Errorf("main pot = %+v, want 150 to seat 1", awards[0])
	}
	if awards[1].Amount != 100 || !slices.Equal(awards[1].Winners, []int{0}) {
		t.Errorf("side pot = %+v, want 100 to seat 0", awards[1])
	}
}

func TestSettleMissingRanksFails(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(2)
	pm.Contribute(0, 10)
	pm.Contribute(1, 10)

	_, _, err := pm.Settle(map[int]poker.Rank{}, 0)
	var violation *InvariantViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestSettleDetectsChipMismatch(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(2)
	pm.Contribute(0, 10)
	pm.Contribute(1, 10)
	pm.collected = 25 // corrupt the books

	_, _, err := pm.Settle(map[int]poker.Rank{0: 1, 1: 2}, 0)
	var violation *InvariantViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestSettleFoldOut(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(2)
	pm.Contribute(0, 50)
	pm.Contribute(1, 10)
	pm.MarkFolded(1)

	awards, uncalled := pm.SettleFoldOut(0)
	if uncalled == nil || uncalled.Seat != 0 || uncalled.Amount != 40 {
		t.Fatalf("uncalled = %+v, want 40 back to seat 0", uncalled)
	}
	if len(awards) != 1 || awards[0].Amount != 20 || !slices.Equal(awards[0].Winners, []int{0}) {
		t.Errorf("awards = %+v, want seat 0 collecting 20", awards)
	}
}

func TestRefundReturnsContributions(t *testing.T) {
	t.Parallel()
	pm := NewPotManager(3)
	pm.Contribute(0, 5)
	pm.Contribute(2, 10)

	refunds := pm.Refund()
	want := []Payout{{Seat: 0, Amount: 5}, {Seat: 2, Amount: 10}}
	if len(refunds) != len(want) {
		t.Fatalf("refunds = %+v, want %+v", refunds, want)
	}
	for i := range want {
		if refunds[i] != want[i] {
			t.Errorf("refund[%d] = %+v, want %+v", i, refunds[i], want[i])
		}
	}
}

package game

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/randutil"
)

func seatPlayers(t *testing.T, table *Table, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := table.AddPlayer(name, 1000); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
}

// foldOut drives the current hand to completion by folding whoever is due.
func foldOut(t *testing.T, table *Table) *HandResult {
	t.Helper()
	for {
		seat, ok := table.ActiveSeat()
		if !ok {
			break
		}
		if err := table.ProcessAction(seat, Fold, 0); err != nil {
			t.Fatalf("fold seat %d: %v", seat, err)
		}
	}
	return table.LastResult()
}

var callStation = StrategyFunc(func(v ActionView) (Action, int) {
	if v.ToCall > 0 {
		return Call, 0
	}
	return Check, 0
})

func TestTableSeating(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})

	seat, err := table.AddPlayer("alice", 1000)
	if err != nil || seat != 0 {
		t.Fatalf("first seat = %d, %v", seat, err)
	}
	if _, err := table.AddPlayer("alice", 500); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if _, err := table.AddPlayer("", 500); err == nil {
		t.Error("empty name should be rejected")
	}
	if _, err := table.AddPlayer("bob", 0); err == nil {
		t.Error("zero stack should be rejected")
	}

	for i := 1; i < MaxSeats; i++ {
		if _, err := table.AddPlayer(fmt.Sprintf("p%d", i), 1000); err != nil {
			t.Fatalf("seat %d: %v", i, err)
		}
	}
	if _, err := table.AddPlayer("overflow", 1000); err == nil {
		t.Error("table should be full at 10 seats")
	}

	chips, err := table.RemovePlayer("p3")
	if err != nil || chips != 1000 {
		t.Errorf("remove returned %d, %v", chips, err)
	}
	if _, err := table.RemovePlayer("p3"); err == nil {
		t.Error("removing an unseated player should fail")
	}
}

func TestStartHandRequiresTwoEligible(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})

	if _, err := table.StartHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("empty table: got %v, want ErrNotEnoughPlayers", err)
	}
	seatPlayers(t, table, "alice")
	if _, err := table.StartHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("one player: got %v, want ErrNotEnoughPlayers", err)
	}

	seatPlayers(t, table, "bob")
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := table.StartHand(); !errors.Is(err, ErrHandInProgress) {
		t.Errorf("got %v, want ErrHandInProgress", err)
	}
}

func TestRemovePlayerDuringHandFails(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})
	seatPlayers(t, table, "alice", "bob")

	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := table.RemovePlayer("alice"); err == nil {
		t.Error("removal during a hand should fail")
	}
	foldOut(t, table)
	if _, err := table.RemovePlayer("alice"); err != nil {
		t.Errorf("removal between hands: %v", err)
	}
}

func TestButtonRotationSkipsSittingOut(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})
	seatPlayers(t, table, "alice", "bob", "carol")
	if err := table.SitOut("bob"); err != nil {
		t.Fatalf("sit out: %v", err)
	}

	var buttons []int
	for i := 0; i < 3; i++ {
		if _, err := table.StartHand(); err != nil {
			t.Fatalf("hand %d: %v", i, err)
		}
		buttons = append(buttons, table.Button())
		foldOut(t, table)
	}

	want := []int{0, 2, 0}
	for i := range want {
		if buttons[i] != want[i] {
			t.Fatalf("buttons = %v, want %v", buttons, want)
		}
	}
}

func TestStacksCarryBetweenHands(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})
	seatPlayers(t, table, "alice", "bob")

	// Hand one: alice on the button folds her small blind to bob.
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	foldOut(t, table)
	players := table.Players()
	if players[0].Chips != 995 || players[1].Chips != 1005 {
		t.Fatalf("stacks after hand 1 = %d/%d, want 995/1005", players[0].Chips, players[1].Chips)
	}

	// Hand two: the button and blinds swap.
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if table.Button() != 1 {
		t.Errorf("button = %d, want 1", table.Button())
	}
	foldOut(t, table)
	players = table.Players()
	if players[0].Chips != 1000 || players[1].Chips != 1000 {
		t.Errorf("stacks after hand 2 = %d/%d, want 1000/1000", players[0].Chips, players[1].Chips)
	}
	if table.HandsPlayed() != 2 {
		t.Errorf("hands played = %d, want 2", table.HandsPlayed())
	}
}

func TestPlayHandToShowdown(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(42), TableConfig{})
	seatPlayers(t, table, "alice", "bob", "carol")

	result, err := table.PlayHand([]Strategy{callStation, callStation, callStation})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !result.Showdown {
		t.Error("calling stations should reach showdown")
	}
	if result.Board.Count() != 5 {
		t.Errorf("board has %d cards, want 5", result.Board.Count())
	}

	total := 0
	for _, p := range table.Players() {
		total += p.Chips
	}
	if total != 3000 {
		t.Errorf("chips in play = %d, want 3000", total)
	}
	if table.LastResult() != result {
		t.Error("LastResult should return the settled hand")
	}
}

func TestPlayHandDefaultsToCheckFold(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(42), TableConfig{})
	seatPlayers(t, table, "alice", "bob", "carol")

	result, err := table.PlayHand(nil)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if result.Showdown {
		t.Error("check/fold players should fold out preflop")
	}
	// Big blind takes it without a fight.
	if got := result.Winnings(2); got != 10 {
		t.Errorf("seat 2 collected %d, want 10", got)
	}
}

func TestPlayHandDowngradesIllegalStrategy(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(42), TableConfig{})
	seatPlayers(t, table, "alice", "bob")

	// Always raising to 1 chip is never legal.
	broken := StrategyFunc(func(ActionView) (Action, int) { return Raise, 1 })
	result, err := table.PlayHand([]Strategy{broken, broken})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if result == nil || table.HandsPlayed() != 1 {
		t.Fatal("hand should complete despite the broken strategy")
	}
}

func TestActionTimeoutChecksOrFolds(t *testing.T) {
	t.Parallel()
	mockClock := quartz.NewMock(t)
	table := NewTable(randutil.New(7), TableConfig{
		ActionTimeout: 30 * time.Second,
		Clock:         mockClock,
	})
	seatPlayers(t, table, "alice", "bob", "carol")

	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Under the gun times out facing the big blind and is folded.
	mockClock.Advance(30 * time.Second).MustWait(ctx)
	if seat, _ := table.ActiveSeat(); seat != 1 {
		t.Fatalf("active = %d after timeout, want 1", seat)
	}
	if !table.Players()[0].SittingOut {
		t.Error("timed out player should sit out")
	}

	// The small blind times out next, ending the hand.
	mockClock.Advance(30 * time.Second).MustWait(ctx)
	if id := table.CurrentHandID(); id != "" {
		t.Fatalf("hand %s still running after fold-out", id)
	}
	players := table.Players()
	if players[2].Chips != 1005 {
		t.Errorf("big blind stack = %d, want 1005", players[2].Chips)
	}

	// Both sitting out leaves too few to deal.
	if _, err := table.StartHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("got %v, want ErrNotEnoughPlayers", err)
	}
	if err := table.SitIn("alice"); err != nil {
		t.Fatalf("sit in: %v", err)
	}
	if _, err := table.StartHand(); err != nil {
		t.Errorf("start after sit in: %v", err)
	}
}

func TestTimeoutDoesNotFireAfterAction(t *testing.T) {
	t.Parallel()
	mockClock := quartz.NewMock(t)
	table := NewTable(randutil.New(7), TableConfig{
		ActionTimeout: 30 * time.Second,
		Clock:         mockClock,
	})
	seatPlayers(t, table, "alice", "bob", "carol")

	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := table.ProcessAction(0, Call, 0); err != nil {
		t.Fatalf("call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	players := table.Players()
	if players[0].SittingOut {
		t.Error("alice acted in time and should not sit out")
	}
	if !players[1].SittingOut {
		t.Error("bob ran out the clock and should sit out")
	}
}

func TestSitOutDealtAround(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(42), TableConfig{})
	seatPlayers(t, table, "alice", "bob", "carol")
	if err := table.SitOut("bob"); err != nil {
		t.Fatalf("sit out: %v", err)
	}

	result, err := table.PlayHand([]Strategy{callStation, callStation, callStation})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if result.Seats[1].StartChips != result.Seats[1].EndChips {
		t.Errorf("sitting out seat moved chips: %+v", result.Seats[1])
	}
	for _, r := range result.Revealed {
		if r.Seat == 1 {
			t.Error("sitting out seat should not reach showdown")
		}
	}
}

func TestSetBlindsAppliesNextHand(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})
	seatPlayers(t, table, "alice", "bob")

	if err := table.SetBlinds(10, 5); err == nil {
		t.Error("inverted blinds should be rejected")
	}
	if err := table.SetBlinds(10, 20); err != nil {
		t.Fatalf("set blinds: %v", err)
	}

	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	result := foldOut(t, table)
	// Button folds the 10 small blind to the 20 big blind.
	if result.Winnings(1) != 20 {
		t.Errorf("big blind collected %d, want 20", result.Winnings(1))
	}
	players := table.Players()
	if players[0].Chips != 990 || players[1].Chips != 1010 {
		t.Errorf("stacks = %d/%d, want 990/1010", players[0].Chips, players[1].Chips)
	}
}

func TestAbortHandRefundsAndFinishes(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})
	seatPlayers(t, table, "alice", "bob", "carol")

	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := table.AbortHand("maintenance"); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if table.CurrentHandID() != "" {
		t.Error("aborted hand should be finalized")
	}
	if res := table.LastResult(); res == nil || !res.Aborted {
		t.Errorf("last result = %+v, want aborted", res)
	}
	for _, p := range table.Players() {
		if p.Chips != 1000 {
			t.Errorf("%s has %d chips, want 1000 after refunds", p.Name, p.Chips)
		}
	}
	if err := table.AbortHand("again"); !errors.Is(err, ErrNoHand) {
		t.Errorf("got %v, want ErrNoHand", err)
	}
}

func TestViewReflectsHandState(t *testing.T) {
	t.Parallel()
	table := NewTable(randutil.New(1), TableConfig{})
	seatPlayers(t, table, "alice", "bob", "carol")

	if _, err := table.View(0); !errors.Is(err, ErrNoHand) {
		t.Errorf("got %v, want ErrNoHand", err)
	}
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start: %v", err)
	}

	view, err := table.View(0)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.ToCall != 10 || len(view.Valid) == 0 {
		t.Errorf("under the gun view = %+v", view)
	}
	other, err := table.View(1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(other.Valid) != 0 {
		t.Errorf("seat not due to act should have no valid actions, got %v", other.Valid)
	}
	if _, err := table.View(9); err == nil {
		t.Error("out of range seat should fail")
	}
}

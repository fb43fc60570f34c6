package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/poker"
)

// Hand is the state of a single hand of hold'em, from blind posting through
// settlement. It advances automatically: applying an action moves the turn,
// closes the betting round when everyone has matched, deals the next street,
// and settles the pots the moment the hand is decided. Hand is not safe for
// concurrent use; Table provides the locking.
type Hand struct {
	ID         string
	TableID    string
	Players    []*Player
	Button     int
	SmallBlind int
	BigBlind   int
	Street     Street
	Board      poker.Hand
	Deck       *poker.Deck
	Pot        *PotManager
	Betting    *BettingRound
	// ActiveSeat is the seat due to act, -1 when no action is pending.
	ActiveSeat int

	logger *log.Logger
	bus    EventBus

	evmu    sync.Mutex
	pending []GameEvent

	dealt       poker.Hand
	sbSeat      int
	bbSeat      int
	startChips  []int
	turn        int
	streetActed bool
	actionLog   []ActionRecord
	result      *HandResult
}

// begin posts the blinds, deals, and finds the first seat to act.
func (h *Hand) begin() {
	h.postBlinds()

	names := make([]string, len(h.Players))
	for i, p := range h.Players {
		names[i] = p.Name
	}
	h.emit(NewHandStartEvent(h.ID, h.TableID, names, h.startChips, h.Button, h.sbSeat, h.bbSeat, h.SmallBlind, h.BigBlind))

	if err := h.dealHoleCards(); err != nil {
		_ = h.abort(err.Error())
		return
	}

	h.ActiveSeat = h.nextActor(h.bbSeat + 1)
	if h.ActiveSeat == -1 || h.Betting.Complete(h.Players) {
		_ = h.nextStreet()
	}
}

func (h *Hand) postBlinds() {
	if h.liveCount() == 2 {
		// Heads-up: the button posts the small blind and acts first preflop.
		h.sbSeat = h.nextDealtIn(h.Button)
	} else {
		h.sbSeat = h.nextDealtIn(h.Button + 1)
	}
	h.bbSeat = h.nextDealtIn(h.sbSeat + 1)

	h.post(h.sbSeat, h.SmallBlind)
	h.post(h.bbSeat, h.BigBlind)

	// The big blind is owed even when its poster is all-in for less.
	h.Betting.CurrentBet = h.BigBlind
}

// post moves a forced wager into the pot. Blind posts do not mark the seat
// as having acted, which is what later gives the big blind its option.
func (h *Hand) post(seat, blind int) {
	p := h.Players[seat]
	pay := min(blind, p.Chips)
	p.Chips -= pay
	p.Bet = pay
	p.TotalBet = pay
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	h.Pot.Contribute(seat, pay)
}

// dealHoleCards gives two cards to every dealt-in seat, starting left of
// the button.
func (h *Hand) dealHoleCards() error {
	n := len(h.Players)
	for i := 1; i <= n; i++ {
		p := h.Players[(h.Button+i)%n]
		if !p.InHand() {
			continue
		}
		cards, err := h.draw(2)
		if err != nil {
			return err
		}
		p.HoleCards = cards
	}
	return nil
}

// draw takes cards off the deck, rejecting any card already in play. A
// repeat can only come from a misbuilt stacked deck, and it invalidates the
// whole hand.
func (h *Hand) draw(n int) (poker.Hand, error) {
	cards, err := h.Deck.Deal(n)
	if err != nil {
		return 0, err
	}
	if cards.Count() != n || h.dealt&cards != 0 {
		return 0, errors.New("duplicate card dealt")
	}
	h.dealt |= cards
	return cards, nil
}

// ProcessAction applies one action for the given seat and advances the hand,
// then delivers any buffered events. The hand state is untouched when an
// error of type *IllegalActionError or *InsufficientFundsError is returned.
// An *InvariantViolationError means the hand was aborted and all wagers
// refunded.
//
// amount is only read for Raise, where it is the total bet level to raise to,
// not the increment.
func (h *Hand) ProcessAction(seat int, action Action, amount int) error {
	err := h.apply(seat, action, amount)
	h.FlushEvents()
	return err
}

// apply is ProcessAction without event delivery, for callers that must not
// run subscribers under their own lock.
func (h *Hand) apply(seat int, action Action, amount int) error {
	if h.result != nil {
		return ErrHandComplete
	}
	if seat < 0 || seat >= len(h.Players) {
		return illegalAction(seat, action, "no such seat")
	}
	if seat != h.ActiveSeat {
		return illegalAction(seat, action, "not this seat's turn (seat %d to act)", h.ActiveSeat)
	}

	p := h.Players[seat]
	toCall := h.Betting.CurrentBet - p.Bet

	// Validate everything before touching any state.
	switch action {
	case Fold:

	case Check:
		if toCall > 0 {
			return illegalAction(seat, action, "cannot check facing a bet, must call %d", toCall)
		}

	case Call:
		if toCall <= 0 {
			return illegalAction(seat, action, "nothing to call")
		}

	case Raise:
		if !h.Betting.CanRaise(seat) {
			return illegalAction(seat, action, "betting is not reopened for this seat")
		}
		total := p.Bet + p.Chips
		if amount > total {
			return &InsufficientFundsError{Seat: seat, Need: amount - p.Bet, Have: p.Chips}
		}
		if amount <= h.Betting.CurrentBet {
			return illegalAction(seat, action, "raise must exceed the current bet of %d", h.Betting.CurrentBet)
		}
		if amount < h.Betting.CurrentBet+h.Betting.MinRaise && amount < total {
			return illegalAction(seat, action, "raise to %d below minimum %d", amount, h.Betting.CurrentBet+h.Betting.MinRaise)
		}

	case AllIn:
		if p.Chips <= 0 {
			return illegalAction(seat, action, "no chips behind")
		}
		if p.Bet+p.Chips > h.Betting.CurrentBet && !h.Betting.CanRaise(seat) {
			return illegalAction(seat, action, "betting is not reopened for this seat")
		}

	default:
		return illegalAction(seat, action, "unknown action")
	}

	recorded := 0
	switch action {
	case Fold:
		p.Status = StatusFolded
		h.Pot.MarkFolded(seat)
		h.Betting.Acted[seat] = true

	case Check:
		h.Betting.Acted[seat] = true

	case Call:
		pay := min(toCall, p.Chips)
		h.wager(p, pay)
		h.Betting.Acted[seat] = true
		recorded = pay

	case Raise:
		h.wager(p, amount-p.Bet)
		increment := amount - h.Betting.CurrentBet
		if increment >= h.Betting.MinRaise {
			// A full raise reopens the betting for everyone else.
			h.Betting.MinRaise = increment
			h.Betting.LastRaiser = seat
			for i := range h.Betting.Acted {
				h.Betting.Acted[i] = false
			}
		}
		h.Betting.CurrentBet = amount
		h.Betting.Acted[seat] = true
		recorded = amount

	case AllIn:
		h.wager(p, p.Chips)
		if p.Bet > h.Betting.CurrentBet {
			if increment := p.Bet - h.Betting.CurrentBet; increment >= h.Betting.MinRaise {
				h.Betting.MinRaise = increment
				h.Betting.LastRaiser = seat
				for i := range h.Betting.Acted {
					h.Betting.Acted[i] = false
				}
			}
			// An all-in short of a full raise still sets the bet to match,
			// but does not reopen the betting.
			h.Betting.CurrentBet = p.Bet
		}
		h.Betting.Acted[seat] = true
		recorded = p.Bet
	}

	h.streetActed = true
	h.turn++
	h.actionLog = append(h.actionLog, ActionRecord{
		Street: h.Street,
		Seat:   seat,
		Name:   p.Name,
		Action: action,
		Amount: recorded,
	})
	h.emit(NewPlayerActionEvent(h.ID, seat, p.Name, action, recorded, h.Street, h.Pot.Total()))
	h.logger.Debug("action applied",
		"hand", h.ID, "street", h.Street, "seat", seat,
		"action", action, "amount", recorded, "pot", h.Pot.Total())

	if err := h.checkConservation(); err != nil {
		return err
	}
	return h.advance(seat)
}

// wager moves chips from the player into the pot.
func (h *Hand) wager(p *Player, amount int) {
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	h.Pot.Contribute(p.Seat, amount)
}

// advance moves the turn after lastSeat acted, closing the street or the
// whole hand when nothing is left to decide.
func (h *Hand) advance(lastSeat int) error {
	if h.liveCount() == 1 {
		h.finishFoldOut()
		return nil
	}
	if h.Betting.Complete(h.Players) {
		return h.nextStreet()
	}
	next := h.nextActor(lastSeat + 1)
	if next == -1 {
		return h.nextStreet()
	}
	h.ActiveSeat = next
	return nil
}

// nextStreet collects the round and deals the next street, running straight
// through to showdown when no further action is possible.
func (h *Hand) nextStreet() error {
	for _, p := range h.Players {
		p.Bet = 0
	}
	h.Betting.Reset()
	h.streetActed = false

	var draw int
	switch h.Street {
	case Preflop:
		h.Street = Flop
		draw = 3
	case Flop:
		h.Street = Turn
		draw = 1
	case Turn:
		h.Street = River
		draw = 1
	case River:
		h.finishShowdown()
		return nil
	default:
		return nil
	}

	cards, err := h.draw(draw)
	if err != nil {
		return h.abort(fmt.Sprintf("dealing %s: %v", h.Street, err))
	}
	h.Board |= cards
	h.emit(NewStreetDealtEvent(h.ID, h.Street, cards, h.Board))
	h.logger.Debug("street dealt", "hand", h.ID, "street", h.Street, "board", h.Board)

	h.ActiveSeat = h.nextActor(h.Button + 1)
	if h.ActiveSeat == -1 || h.Betting.Complete(h.Players) {
		return h.nextStreet()
	}
	return nil
}

// finishShowdown evaluates every hand still live, settles the pots and
// records the result.
func (h *Hand) finishShowdown() {
	h.Street = Showdown
	h.ActiveSeat = -1

	ranks := make(map[int]poker.Rank)
	var revealed []RevealedHand
	for _, p := range h.Players {
		if !p.InHand() {
			continue
		}
		rank := poker.Evaluate(p.HoleCards | h.Board)
		ranks[p.Seat] = rank
		revealed = append(revealed, RevealedHand{Seat: p.Seat, Name: p.Name, Cards: p.HoleCards, Rank: rank})
	}
	n := len(h.Players)
	sort.Slice(revealed, func(i, j int) bool {
		if revealed[i].Rank != revealed[j].Rank {
			return revealed[i].Rank > revealed[j].Rank
		}
		return (revealed[i].Seat-h.Button-1+n)%n < (revealed[j].Seat-h.Button-1+n)%n
	})

	awards, uncalled, err := h.Pot.Settle(ranks, h.Button)
	if err != nil {
		_ = h.abort(err.Error())
		return
	}
	for _, award := range awards {
		for i, seat := range award.Winners {
			h.Players[seat].Chips += award.Shares[i]
		}
	}
	if uncalled != nil {
		h.Players[uncalled.Seat].Chips += uncalled.Amount
	}

	h.finalize(awards, uncalled, revealed, true)
}

// finishFoldOut pays the last seat standing without a showdown.
func (h *Hand) finishFoldOut() {
	h.ActiveSeat = -1

	winner := -1
	for _, p := range h.Players {
		if p.InHand() {
			winner = p.Seat
			break
		}
	}
	awards, uncalled := h.Pot.SettleFoldOut(winner)
	for _, award := range awards {
		for i, seat := range award.Winners {
			h.Players[seat].Chips += award.Shares[i]
		}
	}
	if uncalled != nil {
		h.Players[uncalled.Seat].Chips += uncalled.Amount
	}

	h.finalize(awards, uncalled, nil, false)
}

func (h *Hand) finalize(awards []PotAward, uncalled *Payout, revealed []RevealedHand, showdown bool) {
	won := make(map[int]int)
	var order []int
	for _, award := range awards {
		for i, seat := range award.Winners {
			if _, seen := won[seat]; !seen {
				order = append(order, seat)
			}
			won[seat] += award.Shares[i]
		}
	}
	winners := make([]Payout, 0, len(order))
	for _, seat := range order {
		winners = append(winners, Payout{Seat: seat, Amount: won[seat]})
	}

	h.result = &HandResult{
		HandID:    h.ID,
		TableID:   h.TableID,
		Button:    h.Button,
		Board:     h.Board,
		Street:    h.Street,
		Showdown:  showdown,
		Pots:      awards,
		Winners:   winners,
		Uncalled:  uncalled,
		Revealed:  revealed,
		Seats:     h.seatResults(),
		ActionLog: h.actionLog,
	}
	h.emit(NewHandCompleteEvent(h.ID, h.TableID, h.result))
	h.logger.Debug("hand complete",
		"hand", h.ID, "street", h.Street, "showdown", showdown,
		"pots", len(awards), "winners", len(winners))
}

// Abort tears the hand down and refunds every wager. It is only allowed
// before any voluntary action on the current street; once a player has
// committed chips to the round the hand must play out.
func (h *Hand) Abort(reason string) error {
	err := h.tryAbort(reason)
	h.FlushEvents()
	return err
}

// tryAbort is Abort without event delivery.
func (h *Hand) tryAbort(reason string) error {
	if h.result != nil {
		return ErrHandComplete
	}
	if h.streetActed {
		return fmt.Errorf("cannot abort after voluntary action on the %s", h.Street)
	}
	_ = h.abort(reason)
	return nil
}

// abort unwinds the hand: every seat gets its exact contribution back and
// the hand completes as aborted. Returns the violation for the action path.
func (h *Hand) abort(reason string) error {
	refunds := h.Pot.Refund()
	for _, r := range refunds {
		h.Players[r.Seat].Chips += r.Amount
	}
	for _, p := range h.Players {
		p.Bet = 0
	}
	h.ActiveSeat = -1

	h.result = &HandResult{
		HandID:    h.ID,
		TableID:   h.TableID,
		Button:    h.Button,
		Board:     h.Board,
		Street:    h.Street,
		Aborted:   true,
		Refunds:   refunds,
		Seats:     h.seatResults(),
		ActionLog: h.actionLog,
	}
	h.emit(NewHandAbortedEvent(h.ID, reason, refunds))
	h.logger.Error("hand aborted", "hand", h.ID, "reason", reason)

	return invariantf("%s", reason)
}

// checkConservation verifies no chip was created or destroyed. A mismatch
// aborts the hand.
func (h *Hand) checkConservation() error {
	have := h.Pot.Total()
	want := 0
	for i, p := range h.Players {
		have += p.Chips
		want += h.startChips[i]
	}
	if have != want {
		return h.abort(fmt.Sprintf("chip conservation broken: have %d, want %d", have, want))
	}
	return nil
}

func (h *Hand) seatResults() []SeatResult {
	seats := make([]SeatResult, len(h.Players))
	for i, p := range h.Players {
		seats[i] = SeatResult{Seat: p.Seat, Name: p.Name, StartChips: h.startChips[i], EndChips: p.Chips}
	}
	return seats
}

// nextActor returns the first seat at or after from that can still act.
func (h *Hand) nextActor(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if h.Players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

// nextDealtIn returns the first seat at or after from that is in the hand.
func (h *Hand) nextDealtIn(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if h.Players[seat].InHand() {
			return seat
		}
	}
	return -1
}

func (h *Hand) liveCount() int {
	count := 0
	for _, p := range h.Players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// Complete reports whether the hand has been settled or aborted.
func (h *Hand) Complete() bool {
	return h.result != nil
}

// Result returns the settlement record, nil while the hand is live.
func (h *Hand) Result() *HandResult {
	return h.result
}

// RoundState reports where the hand stands for callers polling it.
func (h *Hand) RoundState() RoundState {
	switch {
	case h.result == nil:
		return WaitingForAction
	case !h.result.Aborted && !h.result.Showdown:
		return HandEndedByFold
	default:
		return RoundComplete
	}
}

// Turn counts applied actions, used to tie timeouts to a specific decision.
func (h *Hand) Turn() int {
	return h.turn
}

// SmallBlindSeat returns the seat that posted the small blind.
func (h *Hand) SmallBlindSeat() int { return h.sbSeat }

// BigBlindSeat returns the seat that posted the big blind.
func (h *Hand) BigBlindSeat() int { return h.bbSeat }

// ValidActions returns the actions open to the seat due to act, empty when
// no action is pending.
func (h *Hand) ValidActions() []Action {
	if h.result != nil || h.ActiveSeat < 0 {
		return nil
	}
	return h.Betting.ValidActions(h.Players[h.ActiveSeat])
}

// View assembles what a strategy is allowed to see when deciding for seat.
func (h *Hand) View(seat int) ActionView {
	p := h.Players[seat]
	toCall := h.Betting.CurrentBet - p.Bet
	if toCall < 0 {
		toCall = 0
	}
	var valid []Action
	if h.result == nil && seat == h.ActiveSeat {
		valid = h.Betting.ValidActions(p)
	}
	return ActionView{
		HandID:     h.ID,
		Seat:       seat,
		Name:       p.Name,
		HoleCards:  p.HoleCards,
		Board:      h.Board,
		Street:     h.Street,
		Chips:      p.Chips,
		Bet:        p.Bet,
		ToCall:     min(toCall, p.Chips),
		CurrentBet: h.Betting.CurrentBet,
		MinRaise:   h.Betting.MinRaise,
		PotTotal:   h.Pot.Total(),
		BigBlind:   h.BigBlind,
		Valid:      valid,
	}
}

// emit buffers an event for later delivery.
func (h *Hand) emit(event GameEvent) {
	if h.bus == nil {
		return
	}
	h.evmu.Lock()
	h.pending = append(h.pending, event)
	h.evmu.Unlock()
}

// FlushEvents delivers buffered events to the bus one at a time, so a
// subscriber may safely call back into the hand's owner. Callers must not
// hold the lock guarding the hand.
func (h *Hand) FlushEvents() {
	if h.bus == nil {
		return
	}
	for {
		h.evmu.Lock()
		if len(h.pending) == 0 {
			h.evmu.Unlock()
			return
		}
		event := h.pending[0]
		h.pending = h.pending[1:]
		h.evmu.Unlock()
		h.bus.Publish(event)
	}
}

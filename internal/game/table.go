package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/gameid"
)

// MaxSeats is the most players a table will seat.
const MaxSeats = 10

// TableConfig carries the knobs for a table. Zero values get defaults:
// blinds 5/10, a generated ID, the real clock, a discarding logger, no bus
// and no action timeout.
type TableConfig struct {
	ID         string
	SmallBlind int
	BigBlind   int
	// ActionTimeout bounds how long a seat may sit on a decision before the
	// table acts for it (check when free, otherwise fold) and sits it out.
	// Zero disables the timer; PlayHand never uses it.
	ActionTimeout time.Duration
	Clock         quartz.Clock
	Logger        *log.Logger
	Bus           EventBus
}

type seatState struct {
	name       string
	chips      int
	sittingOut bool
}

// PlayerInfo is a roster snapshot row.
type PlayerInfo struct {
	Seat       int
	Name       string
	Chips      int
	SittingOut bool
}

// Table owns a roster of players and deals them a sequence of hands,
// rotating the button, carrying stacks forward and enforcing the action
// timeout. All methods are safe for concurrent use.
type Table struct {
	mu            sync.Mutex
	id            string
	smallBlind    int
	bigBlind      int
	actionTimeout time.Duration
	clock         quartz.Clock
	logger        *log.Logger
	bus           EventBus
	rng           *rand.Rand

	seats      []*seatState
	button     int
	hand       *Hand
	handSeq    int
	played     int
	lastResult *HandResult

	timersOn  bool
	timer     *quartz.Timer
	armedTurn int
}

// NewTable creates an empty table. The RNG is required and shuffles every
// deck the table deals.
func NewTable(rng *rand.Rand, cfg TableConfig) *Table {
	if rng == nil {
		panic("rng is required for table creation")
	}
	if cfg.ID == "" {
		cfg.ID = gameid.Generate()
	}
	if cfg.SmallBlind == 0 && cfg.BigBlind == 0 {
		cfg.SmallBlind, cfg.BigBlind = 5, 10
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		panic("blinds must be positive with big blind >= small blind")
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Table{
		id:            cfg.ID,
		smallBlind:    cfg.SmallBlind,
		bigBlind:      cfg.BigBlind,
		actionTimeout: cfg.ActionTimeout,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		bus:           cfg.Bus,
		rng:           rng,
		button:        -1,
	}
}

// ID returns the table identifier.
func (t *Table) ID() string {
	return t.id
}

// AddPlayer seats a player with the given stack and returns the seat number.
// Joining during a hand is allowed; the player is dealt in from the next one.
func (t *Table) AddPlayer(name string, chips int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == "" {
		return 0, errors.New("player name required")
	}
	if chips <= 0 {
		return 0, fmt.Errorf("player %q needs a positive stack", name)
	}
	if len(t.seats) >= MaxSeats {
		return 0, fmt.Errorf("table %s is full", t.id)
	}
	for _, s := range t.seats {
		if s.name == name {
			return 0, fmt.Errorf("player %q already seated", name)
		}
	}

	t.seats = append(t.seats, &seatState{name: name, chips: chips})
	seat := len(t.seats) - 1
	t.logger.Debug("player seated", "table", t.id, "seat", seat, "player", name, "chips", chips)
	return seat, nil
}

// RemovePlayer unseats a player between hands and returns the chips they
// leave with.
func (t *Table) RemovePlayer(name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand != nil {
		return 0, errors.New("cannot remove a player while a hand is in progress")
	}
	for i, s := range t.seats {
		if s.name != name {
			continue
		}
		t.seats = append(t.seats[:i], t.seats[i+1:]...)
		if t.button >= len(t.seats) {
			t.button = len(t.seats) - 1
		}
		t.logger.Debug("player unseated", "table", t.id, "player", name, "chips", s.chips)
		return s.chips, nil
	}
	return 0, fmt.Errorf("player %q not seated", name)
}

// SitOut deals the player around starting with the next hand.
func (t *Table) SitOut(name string) error {
	return t.setSittingOut(name, true)
}

// SitIn deals the player back in starting with the next hand.
func (t *Table) SitIn(name string) error {
	return t.setSittingOut(name, false)
}

func (t *Table) setSittingOut(name string, out bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.seats {
		if s.name == name {
			s.sittingOut = out
			return nil
		}
	}
	return fmt.Errorf("player %q not seated", name)
}

// SetBlinds changes the stakes starting with the next hand.
func (t *Table) SetBlinds(smallBlind, bigBlind int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if smallBlind <= 0 || bigBlind < smallBlind {
		return fmt.Errorf("invalid blinds %d/%d", smallBlind, bigBlind)
	}
	t.smallBlind, t.bigBlind = smallBlind, bigBlind
	return nil
}

// Blinds returns the current stakes.
func (t *Table) Blinds() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.smallBlind, t.bigBlind
}

// Players returns a snapshot of the roster.
func (t *Table) Players() []PlayerInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	infos := make([]PlayerInfo, len(t.seats))
	for i, s := range t.seats {
		infos[i] = PlayerInfo{Seat: i, Name: s.name, Chips: s.chips, SittingOut: s.sittingOut}
	}
	return infos
}

// Playable reports whether a new hand could start right now.
func (t *Table) Playable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hand == nil && t.eligibleLocked() >= 2
}

// HandsPlayed counts completed hands.
func (t *Table) HandsPlayed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.played
}

// Button returns the seat last holding the dealer button, -1 before the
// first hand.
func (t *Table) Button() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.button
}

// LastResult returns the most recently completed hand's settlement.
func (t *Table) LastResult() *HandResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastResult
}

// CurrentHandID returns the hand in progress, or "" between hands.
func (t *Table) CurrentHandID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hand == nil {
		return ""
	}
	return t.hand.ID
}

// ActiveSeat returns the seat due to act in the current hand.
func (t *Table) ActiveSeat() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hand == nil || t.hand.ActiveSeat < 0 {
		return -1, false
	}
	return t.hand.ActiveSeat, true
}

// View returns the seat's view of the hand in progress.
func (t *Table) View(seat int) (ActionView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hand == nil {
		return ActionView{}, ErrNoHand
	}
	if seat < 0 || seat >= len(t.hand.Players) {
		return ActionView{}, fmt.Errorf("no seat %d in hand %s", seat, t.hand.ID)
	}
	return t.hand.View(seat), nil
}

// StartHand deals the next hand and returns its ID. The button moves to the
// next eligible seat; seats with no chips or sitting out are dealt around.
// When a timeout is configured the decision timer starts immediately.
func (t *Table) StartHand() (string, error) {
	t.mu.Lock()
	h, err := t.startHandLocked(true)
	t.mu.Unlock()
	if err != nil {
		return "", err
	}
	h.FlushEvents()
	return h.ID, nil
}

func (t *Table) startHandLocked(armTimers bool) (*Hand, error) {
	if t.hand != nil {
		return nil, ErrHandInProgress
	}
	if t.eligibleLocked() < 2 {
		return nil, ErrNotEnoughPlayers
	}

	t.button = t.nextEligibleSeat(t.button + 1)

	names := make([]string, len(t.seats))
	chips := make([]int, len(t.seats))
	var sitting []int
	for i, s := range t.seats {
		names[i] = s.name
		chips[i] = s.chips
		if s.sittingOut {
			sitting = append(sitting, i)
		}
	}

	h := NewHand(t.rng, names, t.button, t.smallBlind, t.bigBlind,
		WithChips(chips),
		WithSittingOut(sitting...),
		WithLogger(t.logger),
		WithEventBus(t.bus),
		WithTableID(t.id),
	)
	t.hand = h
	t.handSeq++
	t.timersOn = armTimers
	t.armedTurn = -1
	t.logger.Info("hand started",
		"table", t.id, "hand", h.ID, "button", t.button,
		"blinds", fmt.Sprintf("%d/%d", t.smallBlind, t.bigBlind))

	t.afterApplyLocked()
	return h, nil
}

// ProcessAction applies one action to the hand in progress. Events raised by
// the action are delivered after the table lock is released.
func (t *Table) ProcessAction(seat int, action Action, amount int) error {
	t.mu.Lock()
	h := t.hand
	if h == nil {
		t.mu.Unlock()
		return ErrNoHand
	}
	err := h.apply(seat, action, amount)
	t.afterApplyLocked()
	t.mu.Unlock()
	h.FlushEvents()
	return err
}

// AbortHand tears down the hand in progress, refunding all wagers. Like
// Hand.Abort it is refused once the current street has seen a voluntary
// action.
func (t *Table) AbortHand(reason string) error {
	t.mu.Lock()
	h := t.hand
	if h == nil {
		t.mu.Unlock()
		return ErrNoHand
	}
	err := h.tryAbort(reason)
	t.afterApplyLocked()
	t.mu.Unlock()
	h.FlushEvents()
	return err
}

// PlayHand deals one hand and drives it to completion with the given
// strategies, indexed by seat. Seats without a strategy play check/fold, and
// a strategy returning an illegal action is downgraded to check/fold rather
// than failing the hand. No decision timer runs; strategies answer inline.
func (t *Table) PlayHand(strategies []Strategy) (*HandResult, error) {
	t.mu.Lock()
	h, err := t.startHandLocked(false)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	done := t.hand == nil
	t.mu.Unlock()
	h.FlushEvents()

	for !done {
		t.mu.Lock()
		if t.hand != h {
			t.mu.Unlock()
			break
		}
		seat := h.ActiveSeat
		view := h.View(seat)
		t.mu.Unlock()

		strat := Strategy(CheckFold)
		if seat < len(strategies) && strategies[seat] != nil {
			strat = strategies[seat]
		}
		action, amount := strat.Act(view)

		t.mu.Lock()
		if t.hand != h {
			t.mu.Unlock()
			break
		}
		if err := h.apply(seat, action, amount); err != nil {
			var illegal *IllegalActionError
			var insufficient *InsufficientFundsError
			if errors.As(err, &illegal) || errors.As(err, &insufficient) {
				t.logger.Debug("strategy action rejected",
					"table", t.id, "hand", h.ID, "seat", seat,
					"action", action, "error", err)
				fallback, fbAmount := CheckFold.Act(h.View(seat))
				if err := h.apply(seat, fallback, fbAmount); err != nil && !h.Complete() {
					_ = h.apply(seat, Fold, 0)
				}
			}
		}
		t.afterApplyLocked()
		done = t.hand == nil
		t.mu.Unlock()
		h.FlushEvents()
	}

	t.mu.Lock()
	result := t.lastResult
	t.mu.Unlock()
	return result, nil
}

// afterApplyLocked finalizes a completed hand or re-arms the decision timer.
func (t *Table) afterApplyLocked() {
	if t.hand == nil {
		return
	}
	if t.hand.Complete() {
		t.finalizeLocked()
		return
	}
	if t.timersOn {
		t.armTimerLocked()
	}
}

func (t *Table) finalizeLocked() {
	h := t.hand
	for i, p := range h.Players {
		t.seats[i].chips = p.Chips
	}
	t.played++
	t.lastResult = h.Result()
	t.hand = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.logger.Info("hand finished",
		"table", t.id, "hand", h.ID,
		"showdown", t.lastResult.Showdown, "aborted", t.lastResult.Aborted,
		"pot", h.Pot.Total())
}

// armTimerLocked starts the decision timer for the current turn. A timer
// already running for the same turn is left alone so a rejected action
// cannot reset the clock.
func (t *Table) armTimerLocked() {
	if t.actionTimeout <= 0 || t.hand == nil || t.hand.Complete() {
		return
	}
	if t.timer != nil && t.armedTurn == t.hand.Turn() {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	h := t.hand
	seq, turn := t.handSeq, t.hand.Turn()
	t.armedTurn = turn
	t.timer = t.clock.AfterFunc(t.actionTimeout, func() {
		t.actionTimedOut(h, seq, turn)
	})
}

// actionTimedOut acts for a seat that ran out the clock: check when free,
// otherwise fold, and sit the seat out for future hands.
func (t *Table) actionTimedOut(h *Hand, seq, turn int) {
	t.mu.Lock()
	if t.hand != h || t.handSeq != seq || h.Complete() || h.Turn() != turn {
		t.mu.Unlock()
		return
	}

	seat := h.ActiveSeat
	action, amount := CheckFold.Act(h.View(seat))
	t.seats[seat].sittingOut = true
	t.logger.Warn("action timeout",
		"table", t.id, "hand", h.ID, "seat", seat,
		"player", t.seats[seat].name, "action", action)

	if err := h.apply(seat, action, amount); err != nil && !h.Complete() {
		_ = h.apply(seat, Fold, 0)
	}
	t.afterApplyLocked()
	t.mu.Unlock()
	h.FlushEvents()
}

func (t *Table) eligibleLocked() int {
	count := 0
	for _, s := range t.seats {
		if s.chips > 0 && !s.sittingOut {
			count++
		}
	}
	return count
}

// nextEligibleSeat scans forward from the given seat, wrapping, for the next
// seat that can be dealt in.
func (t *Table) nextEligibleSeat(from int) int {
	n := len(t.seats)
	if from < 0 {
		from = 0
	}
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		s := t.seats[seat]
		if s.chips > 0 && !s.sittingOut {
			return seat
		}
	}
	return -1
}

// Package tournament runs multi-table hold'em tournaments: registration,
// balanced seating, escalating blinds, eliminations, table consolidation,
// and prize distribution. Tables play concurrently; all roster bookkeeping
// happens between hands under the manager's lock.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/bot"
	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/gameid"
	"github.com/cardroom/holdem/internal/randutil"
)

// Status is the tournament lifecycle phase.
type Status int

const (
	Registering Status = iota
	InProgress
	Finished
)

var statusNames = [...]string{"registering", "in_progress", "finished"}

func (s Status) String() string {
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler so snapshots serialize with
// readable status names.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tournament status %q", text)
}

// RegistrationError rejects a registration attempt. The roster is unchanged.
type RegistrationError struct {
	PlayerID string
	Reason   string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register %q: %s", e.PlayerID, e.Reason)
}

// Standing is one row of the final result, champion first.
type Standing struct {
	Rank     int
	PlayerID string
	Payout   int
}

// Config carries the tournament parameters. Zero fields take defaults.
type Config struct {
	ID            string        // default generated
	BuyIn         int           // per-entry cost (default 100)
	Fee           int           // per-entry amount withheld from the prize pool
	ChipRate      int           // starting chips per buy-in unit (default 10)
	SeatsPerTable int           // default 8
	Payouts       []float64     // prize fractions by rank (default 0.5/0.3/0.2)
	Schedule      BlindSchedule // default DefaultSchedule()
	Seed          int64         // 0 draws a fresh seed

	// Strategies supplies each entrant's decision source, called once per
	// player on first need. A nil func or nil result falls back to seeded
	// random play.
	Strategies func(playerID string) game.Strategy

	Logger *log.Logger
	Clock  quartz.Clock
	Store  Store
	Bus    game.EventBus
}

// Tournament coordinates registration, tables, and eliminations. Build one
// with New, fill the roster with Register, then Start it and Run it.
type Tournament struct {
	mu sync.Mutex

	id     string
	config Config
	logger *log.Logger
	clock  quartz.Clock
	store  Store
	bus    game.EventBus
	seed   int64
	rng    *rand.Rand

	status     Status
	players    []string // registration order
	strategies map[string]game.Strategy

	runners []*tableRunner

	handsPlayed int
	level       int // 0-based schedule index
	started     time.Time
	eliminated  []string // first entry busted first
	standings   []Standing
	done        chan struct{}
}

type tableRunner struct {
	table *game.Table
	wake  chan struct{}
}

func (r *tableRunner) nudge() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// New validates the configuration and returns an empty tournament in the
// Registering state.
func New(cfg Config) (*Tournament, error) {
	if cfg.ID == "" {
		cfg.ID = gameid.Generate()
	}
	if cfg.BuyIn == 0 {
		cfg.BuyIn = 100
	}
	if cfg.ChipRate == 0 {
		cfg.ChipRate = 10
	}
	if cfg.SeatsPerTable == 0 {
		cfg.SeatsPerTable = 8
	}
	if cfg.Payouts == nil {
		cfg.Payouts = []float64{0.5, 0.3, 0.2}
	}
	if len(cfg.Schedule.Levels) == 0 {
		cfg.Schedule = DefaultSchedule()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Store == nil {
		cfg.Store = NopStore{}
	}
	if cfg.Bus == nil {
		cfg.Bus = game.NewSimpleEventBus()
	}

	if cfg.BuyIn <= 0 {
		return nil, fmt.Errorf("buy-in must be positive, got %d", cfg.BuyIn)
	}
	if cfg.Fee < 0 || cfg.Fee >= cfg.BuyIn {
		return nil, fmt.Errorf("fee %d must be at least 0 and below the buy-in %d", cfg.Fee, cfg.BuyIn)
	}
	if cfg.ChipRate <= 0 {
		return nil, fmt.Errorf("chip rate must be positive, got %d", cfg.ChipRate)
	}
	if cfg.SeatsPerTable < 2 || cfg.SeatsPerTable > game.MaxSeats {
		return nil, fmt.Errorf("seats per table must be between 2 and %d, got %d", game.MaxSeats, cfg.SeatsPerTable)
	}
	sum := 0.0
	for i, f := range cfg.Payouts {
		if f <= 0 {
			return nil, fmt.Errorf("payout fraction %d must be positive, got %f", i+1, f)
		}
		sum += f
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, fmt.Errorf("payout fractions sum to %f, want 1", sum)
	}
	if err := cfg.Schedule.validate(); err != nil {
		return nil, fmt.Errorf("blind schedule: %w", err)
	}

	seed := randutil.Seed(cfg.Seed)
	return &Tournament{
		id:         cfg.ID,
		config:     cfg,
		logger:     cfg.Logger.With("tournament", cfg.ID),
		clock:      cfg.Clock,
		store:      cfg.Store,
		bus:        cfg.Bus,
		seed:       seed,
		rng:        randutil.New(seed),
		status:     Registering,
		strategies: make(map[string]game.Strategy),
		done:       make(chan struct{}),
	}, nil
}

// ID returns the tournament identifier.
func (t *Tournament) ID() string {
	return t.id
}

// Status returns the lifecycle phase.
func (t *Tournament) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Bus returns the event bus hand and tournament events are published on.
func (t *Tournament) Bus() game.EventBus {
	return t.bus
}

// Entrants returns the registered players in registration order.
func (t *Tournament) Entrants() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.players...)
}

// PrizePool returns the chips currently at stake: entries times the buy-in
// net of the fee.
func (t *Tournament) PrizePool() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.prizePoolLocked()
}

func (t *Tournament) prizePoolLocked() int {
	return (t.config.BuyIn - t.config.Fee) * len(t.players)
}

// HandsPlayed counts completed hands across all tables.
func (t *Tournament) HandsPlayed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handsPlayed
}

// Level returns the 1-based blind level in force.
func (t *Tournament) Level() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level + 1
}

// Tables counts the tables still in play.
func (t *Tournament) Tables() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runners)
}

// Standings returns the final ranking, champion first. It is empty until
// the tournament finishes.
func (t *Tournament) Standings() []Standing {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Standing(nil), t.standings...)
}

// Register adds a player during the registration window. The buy-in must
// match the configured entry cost exactly.
func (t *Tournament) Register(playerID string, buyIn int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != Registering {
		return &RegistrationError{PlayerID: playerID, Reason: "tournament already started"}
	}
	if playerID == "" {
		return &RegistrationError{PlayerID: playerID, Reason: "player id required"}
	}
	if buyIn != t.config.BuyIn {
		return &RegistrationError{
			PlayerID: playerID,
			Reason:   fmt.Sprintf("buy-in is %d, got %d", t.config.BuyIn, buyIn),
		}
	}
	for _, p := range t.players {
		if p == playerID {
			return &RegistrationError{PlayerID: playerID, Reason: "already registered"}
		}
	}

	t.players = append(t.players, playerID)
	t.logger.Info("player registered", "player", playerID, "entrants", len(t.players))
	return nil
}

// Start closes registration, seats the field, and moves the tournament in
// progress. Players are dealt to tables round-robin in registration order,
// so table sizes never differ by more than one.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != Registering {
		return fmt.Errorf("tournament %s already started", t.id)
	}
	if len(t.players) < 2 {
		return fmt.Errorf("need at least 2 players to start, have %d", len(t.players))
	}

	stack := t.config.BuyIn * t.config.ChipRate
	numTables := (len(t.players) + t.config.SeatsPerTable - 1) / t.config.SeatsPerTable
	opening := t.config.Schedule.Levels[0]

	t.runners = make([]*tableRunner, numTables)
	for i := range t.runners {
		table := game.NewTable(randutil.Derive(t.seed, int64(i+1)), game.TableConfig{
			ID:         fmt.Sprintf("%s-t%d", t.id, i+1),
			SmallBlind: opening.SmallBlind,
			BigBlind:   opening.BigBlind,
			Logger:     t.logger,
			Bus:        t.bus,
		})
		t.runners[i] = &tableRunner{table: table, wake: make(chan struct{}, 1)}
	}
	for i, playerID := range t.players {
		if _, err := t.runners[i%numTables].table.AddPlayer(playerID, stack); err != nil {
			return fmt.Errorf("seating %s: %w", playerID, err)
		}
	}

	t.status = InProgress
	t.started = t.clock.Now()
	t.logger.Info("tournament started",
		"entrants", len(t.players), "tables", numTables, "stack", stack,
		"blinds", fmt.Sprintf("%d/%d", opening.SmallBlind, opening.BigBlind),
		"prize_pool", t.prizePoolLocked())
	return nil
}

// Run plays the tournament to completion: it returns once a single player
// holds every chip, or with ctx's error on cancellation. Start must have
// been called.
func (t *Tournament) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.status != InProgress {
		status := t.status
		t.mu.Unlock()
		return fmt.Errorf("tournament %s is %s, cannot run", t.id, status)
	}
	runners := append([]*tableRunner(nil), t.runners...)
	t.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error {
			return t.runTable(ctx, r)
		})
	}
	return g.Wait()
}

// runTable loops hands on one table until the tournament finishes or the
// table dissolves into the rest of the field. A table left short-handed
// parks on its wake channel until another table sends it players.
func (t *Tournament) runTable(ctx context.Context, r *tableRunner) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return nil
		default:
		}

		t.mu.Lock()
		if t.status == Finished || !t.containsLocked(r) {
			t.mu.Unlock()
			return nil
		}
		playable := r.table.Playable()
		var strategies []game.Strategy
		if playable {
			strategies = t.strategiesForLocked(r.table)
		}
		t.mu.Unlock()

		if !playable {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.done:
				return nil
			case <-r.wake:
			}
			continue
		}

		result, err := r.table.PlayHand(strategies)
		if err != nil {
			if errors.Is(err, game.ErrNotEnoughPlayers) {
				continue
			}
			return fmt.Errorf("table %s: %w", r.table.ID(), err)
		}

		dissolved, err := t.afterHand(r, result)
		if err != nil {
			return err
		}
		if dissolved {
			return nil
		}
	}
}

func (t *Tournament) containsLocked(r *tableRunner) bool {
	for _, existing := range t.runners {
		if existing == r {
			return true
		}
	}
	return false
}

// strategiesForLocked builds the seat-indexed strategy slice for a table's
// next hand from the current roster.
func (t *Tournament) strategiesForLocked(table *game.Table) []game.Strategy {
	players := table.Players()
	strategies := make([]game.Strategy, len(players))
	for i, p := range players {
		strategies[i] = t.strategyForLocked(p.Name)
	}
	return strategies
}

// strategyForLocked returns the entrant's decision source, built on first
// use so each player keeps one instance across table moves.
func (t *Tournament) strategyForLocked(playerID string) game.Strategy {
	if s, ok := t.strategies[playerID]; ok {
		return s
	}
	var s game.Strategy
	if t.config.Strategies != nil {
		s = t.config.Strategies(playerID)
	}
	if s == nil {
		s = bot.NewRandom(randutil.New(t.rng.Int64()))
	}
	t.strategies[playerID] = s
	return s
}

// afterHand settles the bookkeeping for one completed hand: eliminations,
// the blind level, consolidation, and persistence. It reports whether r's
// table was dissolved into the rest of the field.
func (t *Tournament) afterHand(r *tableRunner, result *game.HandResult) (bool, error) {
	var events []game.GameEvent

	t.mu.Lock()
	t.handsPlayed++

	for _, b := range bustedSeats(result) {
		if _, err := r.table.RemovePlayer(b.name); err != nil {
			t.mu.Unlock()
			return false, fmt.Errorf("removing busted player %s: %w", b.name, err)
		}
		t.eliminated = append(t.eliminated, b.name)
		rank := len(t.players) - len(t.eliminated) + 1
		t.logger.Info("player eliminated",
			"player", b.name, "rank", rank, "hands", t.handsPlayed)
		events = append(events, NewPlayerEliminatedEvent(t.id, b.name, rank, t.handsPlayed))
	}

	dissolved := false
	if len(t.players)-len(t.eliminated) <= 1 {
		events = append(events, t.finishLocked())
	} else {
		if ev := t.maybeBumpBlindsLocked(); ev != nil {
			events = append(events, ev)
		}
		var err error
		dissolved, err = t.rebalanceLocked(r)
		if err != nil {
			t.mu.Unlock()
			return false, err
		}
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	for _, ev := range events {
		t.bus.Publish(ev)
	}
	if err := t.store.SaveTournament(snap); err != nil {
		t.logger.Error("saving tournament snapshot", "error", err)
	}
	return dissolved, nil
}

// bustee orders same-hand eliminations: the shorter start-of-hand stack
// finishes lower; on equal stacks the seat furthest after the button
// finishes lower.
type bustee struct {
	name       string
	startChips int
	posKey     int
}

func bustedSeats(result *game.HandResult) []bustee {
	n := len(result.Seats)
	var out []bustee
	for _, s := range result.Seats {
		if s.StartChips > 0 && s.EndChips == 0 {
			out = append(out, bustee{
				name:       s.Name,
				startChips: s.StartChips,
				posKey:     (s.Seat - result.Button - 1 + n) % n,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].startChips != out[j].startChips {
			return out[i].startChips < out[j].startChips
		}
		return out[i].posKey > out[j].posKey
	})
	return out
}

// maybeBumpBlindsLocked recomputes the schedule rung and pushes new stakes
// to every table. The new blinds take effect from each table's next hand.
func (t *Tournament) maybeBumpBlindsLocked() game.GameEvent {
	idx := t.config.Schedule.levelIndex(t.handsPlayed, t.clock.Now().Sub(t.started))
	if idx == t.level {
		return nil
	}
	t.level = idx
	level := t.config.Schedule.Levels[idx]
	for _, r := range t.runners {
		if err := r.table.SetBlinds(level.SmallBlind, level.BigBlind); err != nil {
			t.logger.Error("setting blinds", "table", r.table.ID(), "error", err)
		}
	}
	t.logger.Info("blinds up",
		"level", idx+1, "blinds", fmt.Sprintf("%d/%d", level.SmallBlind, level.BigBlind),
		"hands", t.handsPlayed)
	return NewBlindLevelEvent(t.id, idx+1, level.SmallBlind, level.BigBlind)
}

// rebalanceLocked consolidates r's table into the rest of the field when
// its players all fit elsewhere, or moves one player off it when it runs
// two deeper than the shortest table. Only r is between hands here, so
// players move from r and never towards it.
func (t *Tournament) rebalanceLocked(r *tableRunner) (bool, error) {
	if len(t.runners) <= 1 {
		return false, nil
	}

	mine := r.table.Players()
	free := 0
	for _, other := range t.runners {
		if other != r {
			free += t.config.SeatsPerTable - len(other.table.Players())
		}
	}

	if len(mine) <= free {
		for _, p := range mine {
			target := t.shortestOtherLocked(r)
			if err := t.movePlayerLocked(r, target, p.Name); err != nil {
				return false, err
			}
		}
		t.removeRunnerLocked(r)
		t.logger.Info("table dissolved",
			"table", r.table.ID(), "moved", len(mine), "tables", len(t.runners))
		return true, nil
	}

	shortest := t.shortestOtherLocked(r)
	if shortest != nil &&
		len(mine) >= len(shortest.table.Players())+2 &&
		len(shortest.table.Players()) < t.config.SeatsPerTable {
		mover := mine[(r.table.Button()+1)%len(mine)]
		if err := t.movePlayerLocked(r, shortest, mover.Name); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (t *Tournament) movePlayerLocked(from, to *tableRunner, name string) error {
	chips, err := from.table.RemovePlayer(name)
	if err != nil {
		return fmt.Errorf("moving %s: %w", name, err)
	}
	if _, err := to.table.AddPlayer(name, chips); err != nil {
		return fmt.Errorf("moving %s: %w", name, err)
	}
	t.logger.Info("player moved",
		"player", name, "from", from.table.ID(), "to", to.table.ID(), "chips", chips)
	to.nudge()
	return nil
}

// shortestOtherLocked picks the other table with the fewest players and a
// seat to spare.
func (t *Tournament) shortestOtherLocked(r *tableRunner) *tableRunner {
	var shortest *tableRunner
	for _, other := range t.runners {
		if other == r || len(other.table.Players()) >= t.config.SeatsPerTable {
			continue
		}
		if shortest == nil || len(other.table.Players()) < len(shortest.table.Players()) {
			shortest = other
		}
	}
	return shortest
}

func (t *Tournament) removeRunnerLocked(r *tableRunner) {
	for i, existing := range t.runners {
		if existing == r {
			t.runners = append(t.runners[:i], t.runners[i+1:]...)
			return
		}
	}
}

// finishLocked closes the tournament and locks in the standings.
func (t *Tournament) finishLocked() game.GameEvent {
	t.status = Finished
	t.standings = t.computeStandingsLocked()
	t.logger.Info("tournament complete",
		"champion", t.standings[0].PlayerID, "entrants", len(t.players),
		"hands", t.handsPlayed, "prize_pool", t.prizePoolLocked())
	close(t.done)
	return NewTournamentCompleteEvent(t.id, t.standings)
}

// computeStandingsLocked ranks the field champion first, then eliminations
// latest first, and attaches payouts.
func (t *Tournament) computeStandingsLocked() []Standing {
	n := len(t.players)
	shares := SharePool(t.prizePoolLocked(), truncateFractions(t.config.Payouts, n))

	out := make([]Standing, 0, n)
	elim := make(map[string]bool, len(t.eliminated))
	for _, id := range t.eliminated {
		elim[id] = true
	}
	add := func(id string) {
		rank := len(out) + 1
		payout := 0
		if rank-1 < len(shares) {
			payout = shares[rank-1]
		}
		out = append(out, Standing{Rank: rank, PlayerID: id, Payout: payout})
	}
	for _, id := range t.players {
		if !elim[id] {
			add(id)
		}
	}
	for i := len(t.eliminated) - 1; i >= 0; i-- {
		add(t.eliminated[i])
	}
	return out
}

// snapshotLocked captures the durable view saved after each hand.
func (t *Tournament) snapshotLocked() Snapshot {
	chips := make(map[string]int, len(t.players))
	for _, r := range t.runners {
		for _, p := range r.table.Players() {
			chips[p.Name] = p.Chips
		}
	}
	players := make([]PlayerState, 0, len(t.players))
	for _, id := range t.players {
		c := chips[id]
		players = append(players, PlayerState{PlayerID: id, Chips: c, Eliminated: c == 0})
	}
	return Snapshot{
		ID:          t.id,
		Status:      t.status,
		Level:       t.level + 1,
		HandsPlayed: t.handsPlayed,
		Players:     players,
		Standings:   append([]Standing(nil), t.standings...),
		SavedAt:     t.clock.Now(),
	}
}

package game

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/internal/gameid"
	"github.com/cardroom/holdem/poker"
)

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

// handConfig holds all configuration for creating a hand.
type handConfig struct {
	chipCounts []int       // if nil, uses uniform starting chips
	startChips int         // default: 1000
	deck       *poker.Deck // if provided, overrides RNG for deck creation
	sittingOut []int
	logger     *log.Logger
	bus        EventBus
	id         string
	tableID    string
}

// NewHand creates a hand, posts the blinds and deals the hole cards. The RNG
// is required to make randomness explicit and testing deterministic.
//
// Example usage:
//
//	// Production - derived from a table seed
//	h := NewHand(rng, []string{"alice", "bob"}, 0, 5, 10)
//
//	// Testing - scripted deal
//	h := NewHand(rng, players, 0, 5, 10,
//	    WithChips([]int{1000, 800, 1200}),
//	    WithDeck(poker.NewStackedDeck(cards...)))
//
// Seats with zero chips or marked sitting out are skipped by the deal and by
// blind posting; at least two seats must remain. If the deal itself fails
// (a stacked deck running short, or repeating a card) the hand completes
// immediately as aborted with all blinds refunded.
func NewHand(rng *rand.Rand, playerNames []string, button int, smallBlind, bigBlind int, opts ...HandOption) *Hand {
	if len(playerNames) < 2 {
		panic("at least 2 players required")
	}
	if button < 0 || button >= len(playerNames) {
		panic("button position out of range")
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		panic("blinds must be positive with big blind >= small blind")
	}

	cfg := &handConfig{
		startChips: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if rng == nil && cfg.deck == nil {
		panic("rng is required for hand creation")
	}
	if cfg.chipCounts != nil && len(cfg.chipCounts) != len(playerNames) {
		panic("chip counts must match number of players")
	}

	players := make([]*Player, len(playerNames))
	startChips := make([]int, len(playerNames))
	for i, name := range playerNames {
		chips := cfg.startChips
		if cfg.chipCounts != nil {
			chips = cfg.chipCounts[i]
		}
		status := StatusActive
		if chips <= 0 {
			chips = 0
			status = StatusSittingOut
		}
		players[i] = &Player{
			Seat:   i,
			Name:   name,
			Chips:  chips,
			Status: status,
		}
		startChips[i] = chips
	}
	for _, seat := range cfg.sittingOut {
		if seat < 0 || seat >= len(players) {
			panic("sitting out seat out of range")
		}
		players[seat].Status = StatusSittingOut
	}

	dealtIn := 0
	for _, p := range players {
		if p.Status == StatusActive {
			dealtIn++
		}
	}
	if dealtIn < 2 {
		panic("at least 2 players with chips required")
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(rng)
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := cfg.id
	if id == "" {
		id = gameid.Generate()
	}

	h := &Hand{
		ID:         id,
		TableID:    cfg.tableID,
		Players:    players,
		Button:     button,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Street:     Preflop,
		Deck:       deck,
		Pot:        NewPotManager(len(players)),
		Betting:    NewBettingRound(len(players), bigBlind),
		ActiveSeat: -1,
		logger:     logger,
		bus:        cfg.bus,
		startChips: startChips,
	}

	h.begin()
	return h
}

// WithUniformChips sets the same starting chips for all players.
// Default is 1000 if not specified.
func WithUniformChips(chips int) HandOption {
	return func(c *handConfig) {
		c.startChips = chips
		c.chipCounts = nil
	}
}

// WithChips sets individual chip counts for each player.
// The length must match the number of players. Seats with zero chips
// sit the hand out.
func WithChips(chipCounts []int) HandOption {
	return func(c *handConfig) {
		c.chipCounts = chipCounts
	}
}

// WithDeck sets a specific pre-shuffled deck. This overrides the RNG for
// deck creation but the RNG may still be used for other randomness.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithSittingOut marks seats that are dealt around this hand.
func WithSittingOut(seats ...int) HandOption {
	return func(c *handConfig) {
		c.sittingOut = append(c.sittingOut, seats...)
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}

// WithEventBus sets the bus that receives hand events. Events buffer inside
// the hand and are delivered by FlushEvents, or by ProcessAction after the
// action has been applied.
func WithEventBus(bus EventBus) HandOption {
	return func(c *handConfig) {
		c.bus = bus
	}
}

// WithHandID overrides the generated hand identifier.
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.id = id
	}
}

// WithTableID stamps events and results with the owning table.
func WithTableID(id string) HandOption {
	return func(c *handConfig) {
		c.tableID = id
	}
}

package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/holdem/internal/bot"
)

// Config is the complete holdem configuration.
type Config struct {
	Table      *TableSettings      `hcl:"table,block"`
	Blinds     []BlindLevel        `hcl:"blinds,block"`
	Tournament *TournamentSettings `hcl:"tournament,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// TableSettings contains cash-table settings.
type TableSettings struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
	ActionTimeout string `hcl:"action_timeout,optional"`
}

// Timeout returns the parsed per-turn time limit. Validate guarantees the
// string parses, so the fallback only covers unvalidated configs.
func (s *TableSettings) Timeout() time.Duration {
	d, err := time.ParseDuration(s.ActionTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// BlindLevel is one rung of the tournament blind schedule.
type BlindLevel struct {
	SmallBlind int `hcl:"small_blind"`
	BigBlind   int `hcl:"big_blind"`
}

// TournamentSettings contains tournament settings.
type TournamentSettings struct {
	BuyIn         int       `hcl:"buy_in,optional"`
	Fee           int       `hcl:"fee,optional"`
	ChipRate      int       `hcl:"chip_rate,optional"`
	SeatsPerTable int       `hcl:"seats_per_table,optional"`
	Payouts       []float64 `hcl:"payouts,optional"`
	LevelHands    int       `hcl:"level_hands,optional"`
	LevelMinutes  int       `hcl:"level_minutes,optional"`
}

// SimulationSettings contains batch simulation settings.
type SimulationSettings struct {
	Hands     int    `hcl:"hands,optional"`
	Players   int    `hcl:"players,optional"`
	Workers   int    `hcl:"workers,optional"`
	Hero      string `hcl:"hero,optional"`
	Opponents string `hcl:"opponents,optional"`
	Seed      int64  `hcl:"seed,optional"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Table: &TableSettings{
			SmallBlind:    5,
			BigBlind:      10,
			StartingChips: 1000,
			MaxPlayers:    8,
			ActionTimeout: "2m",
		},
		Tournament: &TournamentSettings{
			BuyIn:         100,
			Fee:           0,
			ChipRate:      10,
			SeatsPerTable: 8,
			Payouts:       []float64{0.5, 0.3, 0.2},
			LevelHands:    10,
		},
		Simulation: &SimulationSettings{
			Hands:     10000,
			Players:   6,
			Hero:      bot.KindTight,
			Opponents: bot.KindCaller,
		},
	}
}

// Load reads an HCL configuration file. A missing file yields the defaults;
// a present file is decoded and backfilled with defaults for anything it
// leaves out.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Table == nil {
		c.Table = defaults.Table
	} else {
		if c.Table.SmallBlind == 0 && c.Table.BigBlind == 0 {
			c.Table.SmallBlind = defaults.Table.SmallBlind
			c.Table.BigBlind = defaults.Table.BigBlind
		}
		if c.Table.StartingChips == 0 {
			c.Table.StartingChips = defaults.Table.StartingChips
		}
		if c.Table.MaxPlayers == 0 {
			c.Table.MaxPlayers = defaults.Table.MaxPlayers
		}
		if c.Table.ActionTimeout == "" {
			c.Table.ActionTimeout = defaults.Table.ActionTimeout
		}
	}

	if c.Tournament == nil {
		c.Tournament = defaults.Tournament
	} else {
		if c.Tournament.BuyIn == 0 {
			c.Tournament.BuyIn = defaults.Tournament.BuyIn
		}
		if c.Tournament.ChipRate == 0 {
			c.Tournament.ChipRate = defaults.Tournament.ChipRate
		}
		if c.Tournament.SeatsPerTable == 0 {
			c.Tournament.SeatsPerTable = defaults.Tournament.SeatsPerTable
		}
		if len(c.Tournament.Payouts) == 0 {
			c.Tournament.Payouts = defaults.Tournament.Payouts
		}
		if c.Tournament.LevelHands == 0 && c.Tournament.LevelMinutes == 0 {
			c.Tournament.LevelHands = defaults.Tournament.LevelHands
		}
	}

	if c.Simulation == nil {
		c.Simulation = defaults.Simulation
	} else {
		if c.Simulation.Hands == 0 {
			c.Simulation.Hands = defaults.Simulation.Hands
		}
		if c.Simulation.Players == 0 {
			c.Simulation.Players = defaults.Simulation.Players
		}
		if c.Simulation.Hero == "" {
			c.Simulation.Hero = defaults.Simulation.Hero
		}
		if c.Simulation.Opponents == "" {
			c.Simulation.Opponents = defaults.Simulation.Opponents
		}
	}
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if c.Table != nil {
		if c.Table.SmallBlind <= 0 {
			return fmt.Errorf("table: small blind must be positive, got %d", c.Table.SmallBlind)
		}
		if c.Table.BigBlind < c.Table.SmallBlind {
			return fmt.Errorf("table: big blind %d below small blind %d", c.Table.BigBlind, c.Table.SmallBlind)
		}
		if c.Table.StartingChips < c.Table.BigBlind {
			return fmt.Errorf("table: starting chips %d below the big blind", c.Table.StartingChips)
		}
		if c.Table.MaxPlayers < 2 || c.Table.MaxPlayers > 10 {
			return fmt.Errorf("table: max players must be between 2 and 10, got %d", c.Table.MaxPlayers)
		}
		if _, err := time.ParseDuration(c.Table.ActionTimeout); err != nil {
			return fmt.Errorf("table: invalid action timeout: %w", err)
		}
	}

	for i, level := range c.Blinds {
		if level.SmallBlind <= 0 || level.BigBlind < level.SmallBlind {
			return fmt.Errorf("blinds level %d has invalid blinds %d/%d", i+1, level.SmallBlind, level.BigBlind)
		}
	}

	if t := c.Tournament; t != nil {
		if t.BuyIn <= 0 {
			return fmt.Errorf("tournament: buy-in must be positive, got %d", t.BuyIn)
		}
		if t.Fee < 0 || t.Fee >= t.BuyIn {
			return fmt.Errorf("tournament: fee %d must be at least 0 and below the buy-in %d", t.Fee, t.BuyIn)
		}
		if t.ChipRate <= 0 {
			return fmt.Errorf("tournament: chip rate must be positive, got %d", t.ChipRate)
		}
		if t.SeatsPerTable < 2 || t.SeatsPerTable > 10 {
			return fmt.Errorf("tournament: seats per table must be between 2 and 10, got %d", t.SeatsPerTable)
		}
		sum := 0.0
		for i, f := range t.Payouts {
			if f <= 0 {
				return fmt.Errorf("tournament: payout fraction %d must be positive, got %f", i+1, f)
			}
			sum += f
		}
		if len(t.Payouts) > 0 && math.Abs(sum-1) > 1e-9 {
			return fmt.Errorf("tournament: payout fractions sum to %f, want 1", sum)
		}
		if t.LevelHands < 0 || t.LevelMinutes < 0 {
			return fmt.Errorf("tournament: level cadence must not be negative")
		}
		if t.LevelHands == 0 && t.LevelMinutes == 0 {
			return fmt.Errorf("tournament: needs level_hands or level_minutes")
		}
	}

	if s := c.Simulation; s != nil {
		if s.Hands <= 0 {
			return fmt.Errorf("simulation: hands must be positive, got %d", s.Hands)
		}
		if s.Players < 2 || s.Players > 10 {
			return fmt.Errorf("simulation: players must be between 2 and 10, got %d", s.Players)
		}
		if s.Workers < 0 {
			return fmt.Errorf("simulation: workers must not be negative, got %d", s.Workers)
		}
		if !validKind(s.Hero) {
			return fmt.Errorf("simulation: unknown hero bot %q", s.Hero)
		}
		if !validKind(s.Opponents) {
			return fmt.Errorf("simulation: unknown opponents bot %q", s.Opponents)
		}
	}

	return nil
}

func validKind(kind string) bool {
	for _, k := range bot.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

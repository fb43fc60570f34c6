package main

import (
	"fmt"
	"time"

	"github.com/cardroom/holdem/internal/bot"
	"github.com/cardroom/holdem/internal/config"
	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/phh"
	"github.com/cardroom/holdem/internal/randutil"
	"github.com/cardroom/holdem/internal/tournament"
)

// TournamentCmd registers a field of bots, plays the tournament down to a
// champion and prints the payouts.
type TournamentCmd struct {
	Config  string `kong:"type='path',help='HCL configuration file'"`
	Players int    `kong:"default='9',help='Number of entrants'"`
	Bots    string `kong:"default='random',help='Bot kind for the field'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Save    string `kong:"type='path',help='Write tournament state to this JSON file after every hand'"`
	History string `kong:"type='path',placeholder='DIR',help='Write .phh hand histories to this directory'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *TournamentCmd) Run() error {
	logger := newLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := bot.New(c.Bots, nil); err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	}
	seed = randutil.Seed(seed)
	botRng := randutil.Derive(seed, -1)

	var store tournament.Store
	if c.Save != "" {
		fs, err := tournament.NewFileStore(c.Save)
		if err != nil {
			return err
		}
		store = fs
	}

	tour, err := tournament.New(tournament.Config{
		BuyIn:         cfg.Tournament.BuyIn,
		Fee:           cfg.Tournament.Fee,
		ChipRate:      cfg.Tournament.ChipRate,
		SeatsPerTable: cfg.Tournament.SeatsPerTable,
		Payouts:       cfg.Tournament.Payouts,
		Schedule:      scheduleFromConfig(cfg),
		Seed:          seed,
		Logger:        logger,
		Store:         store,
		Strategies: func(string) game.Strategy {
			s, err := bot.New(c.Bots, randutil.New(botRng.Int64()))
			if err != nil {
				return nil
			}
			return s
		},
	})
	if err != nil {
		return err
	}

	if c.History != "" {
		writer, err := phh.NewWriter(c.History, logger)
		if err != nil {
			return err
		}
		tour.Bus().Subscribe(writer.Record)
	}

	for i := 1; i <= c.Players; i++ {
		if err := tour.Register(fmt.Sprintf("%s-%d", c.Bots, i), cfg.Tournament.BuyIn); err != nil {
			return err
		}
	}
	if err := tour.Start(); err != nil {
		return err
	}

	started := time.Now()
	if err := tour.Run(signalContext(logger)); err != nil {
		return err
	}

	fmt.Printf("Tournament %s: %d entrants, prize pool %d, %d hands in %s\n",
		tour.ID(), len(tour.Entrants()), tour.PrizePool(), tour.HandsPlayed(),
		time.Since(started).Round(time.Millisecond))
	for _, s := range tour.Standings() {
		fmt.Printf("%3d. %-14s %8d\n", s.Rank, s.PlayerID, s.Payout)
	}
	return nil
}

// scheduleFromConfig assembles the blind schedule from the config's blinds
// blocks, falling back to the default escalation when none are given.
func scheduleFromConfig(cfg *config.Config) tournament.BlindSchedule {
	every := time.Duration(cfg.Tournament.LevelMinutes) * time.Minute

	if len(cfg.Blinds) == 0 {
		schedule := tournament.DefaultSchedule()
		if cfg.Tournament.LevelHands > 0 {
			schedule.EveryHands = cfg.Tournament.LevelHands
		}
		schedule.Every = every
		return schedule
	}

	levels := make([]tournament.Level, len(cfg.Blinds))
	for i, l := range cfg.Blinds {
		levels[i] = tournament.Level{SmallBlind: l.SmallBlind, BigBlind: l.BigBlind}
	}
	return tournament.BlindSchedule{
		Levels:     levels,
		EveryHands: cfg.Tournament.LevelHands,
		Every:      every,
	}
}

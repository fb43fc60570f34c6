package main

import (
	"os"

	"github.com/cardroom/holdem/internal/config"
	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/phh"
	"github.com/cardroom/holdem/internal/simulator"
)

// SimulateCmd deals a hero bot into a table of opponents for a batch of
// independent hands and prints the hero's results.
type SimulateCmd struct {
	Config    string `kong:"type='path',help='HCL configuration file'"`
	Hands     *int   `kong:"help='Hands to play'"`
	Players   *int   `kong:"help='Players dealt each hand'"`
	Workers   *int   `kong:"help='Concurrent workers (default GOMAXPROCS)'"`
	Hero      string `kong:"help='Hero bot kind'"`
	Opponents string `kong:"help='Opponent bot kind'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	History   string `kong:"type='path',placeholder='DIR',help='Write .phh hand histories to this directory'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := newLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	simCfg := simulator.Config{
		Hands:         cfg.Simulation.Hands,
		Players:       cfg.Simulation.Players,
		Workers:       cfg.Simulation.Workers,
		Seed:          cfg.Simulation.Seed,
		SmallBlind:    cfg.Table.SmallBlind,
		BigBlind:      cfg.Table.BigBlind,
		StartingChips: cfg.Table.StartingChips,
		Hero:          cfg.Simulation.Hero,
		Opponents:     cfg.Simulation.Opponents,
		Logger:        logger,
	}
	if c.Hands != nil {
		simCfg.Hands = *c.Hands
	}
	if c.Players != nil {
		simCfg.Players = *c.Players
	}
	if c.Workers != nil {
		simCfg.Workers = *c.Workers
	}
	if c.Hero != "" {
		simCfg.Hero = c.Hero
	}
	if c.Opponents != "" {
		simCfg.Opponents = c.Opponents
	}
	if c.Seed != nil {
		simCfg.Seed = *c.Seed
	}
	if c.History != "" {
		writer, err := phh.NewWriter(c.History, logger)
		if err != nil {
			return err
		}
		bus := game.NewSimpleEventBus()
		bus.Subscribe(writer.Record)
		simCfg.Bus = bus
	}

	sim := simulator.New(simCfg)
	result, err := sim.Run(signalContext(logger))
	if err != nil {
		return err
	}
	sim.WriteSummary(os.Stdout, result)
	return nil
}

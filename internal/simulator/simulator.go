// Package simulator runs batches of hands between scripted strategies and
// reports how the hero seat fared. Batches are reproducible from a seed and
// fan out across workers, with each hand played on a fresh table so results
// stay independent.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/bot"
	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/randutil"
	"github.com/cardroom/holdem/internal/statistics"
)

// Config holds the batch parameters. Zero fields take defaults in Run.
type Config struct {
	Hands         int    // hands to play
	Players       int    // seats dealt each hand (default 6)
	Workers       int    // parallel workers (default GOMAXPROCS)
	Seed          int64  // 0 draws a fresh seed
	SmallBlind    int    // default 5
	BigBlind      int    // default 10
	StartingChips int    // stack each seat starts every hand with (default 1000)
	Hero          string // strategy under test, rotates seats (default tag)
	Opponents     string // strategy filling the other seats (default caller)
	Logger        *log.Logger

	// Bus receives every table's game events. Workers publish concurrently,
	// and hands carry globally unique IDs, so subscribers can demux. Nil
	// means events are not published.
	Bus game.EventBus
}

func (c Config) normalize() (Config, error) {
	if c.Players == 0 {
		c.Players = 6
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.SmallBlind == 0 && c.BigBlind == 0 {
		c.SmallBlind, c.BigBlind = 5, 10
	}
	if c.StartingChips == 0 {
		c.StartingChips = 1000
	}
	if c.Hero == "" {
		c.Hero = bot.KindTight
	}
	if c.Opponents == "" {
		c.Opponents = bot.KindCaller
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}

	if c.Hands <= 0 {
		return c, fmt.Errorf("hands must be positive, got %d", c.Hands)
	}
	if c.Players < 2 || c.Players > game.MaxSeats {
		return c, fmt.Errorf("players must be between 2 and %d, got %d", game.MaxSeats, c.Players)
	}
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return c, fmt.Errorf("invalid blinds %d/%d", c.SmallBlind, c.BigBlind)
	}
	if c.StartingChips < c.BigBlind {
		return c, fmt.Errorf("starting chips %d cannot cover the big blind %d", c.StartingChips, c.BigBlind)
	}
	probe := randutil.New(0)
	if _, err := bot.New(c.Hero, probe); err != nil {
		return c, fmt.Errorf("hero: %w", err)
	}
	if _, err := bot.New(c.Opponents, probe); err != nil {
		return c, fmt.Errorf("opponents: %w", err)
	}
	return c, nil
}

// Result aggregates a batch from the hero's point of view. Net observations
// are in big blinds per hand.
type Result struct {
	Hands     int
	Net       statistics.Series
	Showdowns int
	FoldOuts  int
	Aborted   int
	MaxPot    int
	Streets   map[game.Street]int // final street reached per hand
}

func newResult() *Result {
	return &Result{Streets: make(map[game.Street]int)}
}

func (r *Result) record(hand *game.HandResult, heroSeat, bigBlind int) {
	r.Hands++
	r.Net.Add(float64(hand.NetChips(heroSeat)) / float64(bigBlind))
	if hand.Aborted {
		r.Aborted++
		return
	}
	if hand.Showdown {
		r.Showdowns++
	} else {
		r.FoldOuts++
	}
	r.Streets[hand.Street]++

	pot := 0
	for _, p := range hand.Pots {
		pot += p.Amount
	}
	if hand.Uncalled != nil {
		pot += hand.Uncalled.Amount
	}
	if pot > r.MaxPot {
		r.MaxPot = pot
	}
}

func (r *Result) merge(other *Result) {
	r.Hands += other.Hands
	r.Net.Merge(&other.Net)
	r.Showdowns += other.Showdowns
	r.FoldOuts += other.FoldOuts
	r.Aborted += other.Aborted
	if other.MaxPot > r.MaxPot {
		r.MaxPot = other.MaxPot
	}
	for street, n := range other.Streets {
		r.Streets[street] += n
	}
}

// Simulator plays configured batches.
type Simulator struct {
	config Config
}

// New creates a simulator. Configuration is validated when Run starts.
func New(config Config) *Simulator {
	return &Simulator{config: config}
}

// Run plays the batch and returns the aggregated result. Hands are numbered
// 0..Hands-1; hand i always derives its randomness from its own streams of
// the seed and seats the hero at i mod Players, so a batch is reproducible
// regardless of worker count or scheduling.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg, err := s.config.normalize()
	if err != nil {
		return nil, err
	}

	seed := randutil.Seed(cfg.Seed)
	cfg.Logger.Info("simulation starting",
		"hands", cfg.Hands, "players", cfg.Players, "workers", cfg.Workers,
		"hero", cfg.Hero, "opponents", cfg.Opponents, "seed", seed)

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Hands; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	partials := make([]*Result, cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		partial := newResult()
		partials[w] = partial
		g.Go(func() error {
			for idx := range jobs {
				if err := playHand(cfg, seed, idx, partial); err != nil {
					return fmt.Errorf("hand %d: %w", idx+1, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := newResult()
	for _, partial := range partials {
		total.merge(partial)
	}

	cfg.Logger.Info("simulation finished",
		"hands", total.Hands, "mean_bb", total.Net.Mean(),
		"showdowns", total.Showdowns, "aborted", total.Aborted)
	return total, nil
}

// playHand deals one batch hand on a throwaway table. Streams 2i and 2i+1
// keep the deck and the bots' dice independent, so a strategy that rolls
// more often cannot disturb the card sequence of later decisions.
func playHand(cfg Config, seed int64, idx int, out *Result) error {
	tableRng := randutil.Derive(seed, int64(idx)*2)
	botRng := randutil.Derive(seed, int64(idx)*2+1)

	table := game.NewTable(tableRng, game.TableConfig{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Logger:     cfg.Logger,
		Bus:        cfg.Bus,
	})

	heroSeat := idx % cfg.Players
	strategies := make([]game.Strategy, cfg.Players)
	for seat := 0; seat < cfg.Players; seat++ {
		kind, name := cfg.Opponents, fmt.Sprintf("opp%d", seat)
		if seat == heroSeat {
			kind, name = cfg.Hero, "hero"
		}
		strategy, err := bot.New(kind, botRng)
		if err != nil {
			return err
		}
		strategies[seat] = strategy
		if _, err := table.AddPlayer(name, cfg.StartingChips); err != nil {
			return err
		}
	}

	result, err := table.PlayHand(strategies)
	if err != nil {
		return err
	}
	out.record(result, heroSeat, cfg.BigBlind)
	return nil
}

// WriteSummary renders a human-readable report of a finished batch.
func (s *Simulator) WriteSummary(w io.Writer, res *Result) {
	cfg, _ := s.config.normalize()

	low, high := res.Net.ConfidenceInterval95()

	fmt.Fprintf(w, "=== %s vs %s ===\n", cfg.Hero, cfg.Opponents)
	fmt.Fprintf(w, "Hands played: %d\n", res.Hands)
	fmt.Fprintf(w, "Mean:     %8.4f bb/hand\n", res.Net.Mean())
	fmt.Fprintf(w, "Median:   %8.4f bb/hand\n", res.Net.Median())
	fmt.Fprintf(w, "Std dev:  %8.4f bb\n", res.Net.StdDev())
	fmt.Fprintf(w, "Std err:  %8.4f bb\n", res.Net.StdError())
	fmt.Fprintf(w, "95%% CI:  [%.4f, %.4f] bb/hand\n", low, high)
	fmt.Fprintf(w, "Percentiles: p5=%.3f p25=%.3f p75=%.3f p95=%.3f\n",
		res.Net.Percentile(0.05), res.Net.Percentile(0.25),
		res.Net.Percentile(0.75), res.Net.Percentile(0.95))

	if res.Hands > 0 {
		fmt.Fprintf(w, "Showdowns: %d (%.1f%%)  Fold-outs: %d (%.1f%%)\n",
			res.Showdowns, percent(res.Showdowns, res.Hands),
			res.FoldOuts, percent(res.FoldOuts, res.Hands))
	}
	if res.Aborted > 0 {
		fmt.Fprintf(w, "Aborted hands: %d\n", res.Aborted)
	}
	fmt.Fprintf(w, "Largest pot: %d chips (%.1f bb)\n",
		res.MaxPot, float64(res.MaxPot)/float64(cfg.BigBlind))

	fmt.Fprintf(w, "Final street:")
	for _, street := range []game.Street{game.Preflop, game.Flop, game.Turn, game.River, game.Showdown} {
		if n := res.Streets[street]; n > 0 {
			fmt.Fprintf(w, " %s=%d", street, n)
		}
	}
	fmt.Fprintln(w)
}

func percent(part, whole int) float64 {
	return float64(part) / float64(whole) * 100
}

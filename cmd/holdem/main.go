package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Simulate   SimulateCmd      `cmd:"" help:"Play a batch of hands and report how the hero bot fares"`
	Tournament TournamentCmd    `cmd:"" help:"Play a bot field through a complete tournament"`
	Eval       EvalCmd          `cmd:"" help:"Rank the best five-card hand in the given cards"`
	History    HistoryCmd       `cmd:"" help:"Replay recorded .phh hand histories"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Texas hold'em engine: bot simulations, tournaments and hand evaluation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// newLogger configures console logging on stderr, keeping stdout for results.
func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// signalContext returns a context cancelled by the first interrupt, so long
// runs stop between hands and still report what they played.
func signalContext(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	return ctx
}

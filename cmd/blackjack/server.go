package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
)

// ServerCmd runs the table server
type ServerCmd struct {
	Config   string `short:"c" default:"blackjack.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic shuffle seed (optional)"`
	Monitor  bool   `help:"Print a summary of every settled round"`
	NoColor  bool   `help:"Disable colour in monitor output"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Monitor {
		cfg.Server.Monitor = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rules, err := cfg.TableConfig()
	if err != nil {
		return err
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := newLogger(cfg.Server.LogLevel)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	}

	wsServer := server.NewServer(logger)
	notifiers := game.Notifiers{wsServer}
	if cfg.Server.Monitor {
		notifiers = append(notifiers, server.NewRoundMonitor(os.Stdout, !c.NoColor))
	}

	table := game.NewTable(rules, notifiers,
		game.WithLogger(logger),
		game.WithRand(deck.NewRand(seed)),
	)
	defer table.Close()
	wsServer.SetTable(table)

	logger.Info("Starting blackjack server",
		"addr", addr,
		"minBet", rules.MinBet,
		"maxBet", rules.MaxBet,
		"startingChips", rules.StartingChips,
		"turnSeconds", rules.TurnSeconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := wsServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return wsServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/blackjack/internal/client"
)

// BotCmd connects a bot to a running server
type BotCmd struct {
	Name     string `arg:"" optional:"" default:"bot" help:"Display name"`
	Server   string `default:"ws://localhost:3000/ws" help:"WebSocket server URL"`
	Bet      int    `default:"10" help:"Amount to bet each round"`
	StandOn  int    `default:"17" help:"Stop hitting at this score"`
	Rounds   int    `default:"0" help:"Leave after this many rounds (0 plays forever)"`
	LogLevel string `enum:"debug,info,warn,error" default:"info" help:"Log level (debug|info|warn|error)"`
}

func (c *BotCmd) Run() error {
	logger := newLogger(c.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot := client.NewBot(c.Server, c.Name,
		client.WithBet(c.Bet),
		client.WithStandOn(c.StandOn),
		client.WithRounds(c.Rounds),
		client.WithLogger(logger),
	)
	return bot.Run(ctx)
}

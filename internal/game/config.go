package game

import (
	"fmt"
	"time"
)

// Config holds the table rules and pacing
type Config struct {
	MinBet        int
	MaxBet        int
	StartingChips int
	// MaxEntrants caps bets per round; seven hands cannot exhaust one deck.
	MaxEntrants int
	// TurnSeconds is the countdown each player gets to act.
	TurnSeconds int
	// TickInterval is the length of one countdown second.
	TickInterval time.Duration
	DealerPace   time.Duration
	ResultsPause time.Duration
}

// DefaultConfig returns the house rules
func DefaultConfig() Config {
	return Config{
		MinBet:        10,
		MaxBet:        500,
		StartingChips: 1000,
		MaxEntrants:   7,
		TurnSeconds:   30,
		TickInterval:  time.Second,
		DealerPace:    time.Second,
		ResultsPause:  7 * time.Second,
	}
}

// Validate checks the rules are playable
func (c Config) Validate() error {
	if c.MinBet <= 0 {
		return fmt.Errorf("min bet must be positive, got %d", c.MinBet)
	}
	if c.MaxBet < c.MinBet {
		return fmt.Errorf("max bet %d must not be below min bet %d", c.MaxBet, c.MinBet)
	}
	if c.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive, got %d", c.StartingChips)
	}
	if c.MaxEntrants < 1 || c.MaxEntrants > 7 {
		return fmt.Errorf("max entrants must be between 1 and 7, got %d", c.MaxEntrants)
	}
	if c.TurnSeconds <= 0 {
		return fmt.Errorf("turn seconds must be positive, got %d", c.TurnSeconds)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.DealerPace <= 0 || c.ResultsPause <= 0 {
		return fmt.Errorf("dealer pace and results pause must be positive")
	}
	return nil
}

// Package game implements the authoritative blackjack table.
//
// The main type is Table, which serializes every player action and every
// timer callback behind one lock and drives a round through its phases:
//
//	Lobby → BettingOpen → Dealing → PlayerTurns → DealerTurn → Settlement → BettingOpen
//
// # Basic Usage
//
//	t := game.NewTable(game.DefaultConfig(), notifier,
//	    game.WithClock(quartz.NewReal()),
//	    game.WithRand(deck.NewRand(seed)),
//	    game.WithLogger(logger))
//	_ = t.Join("p1", "Alice")
//	_ = t.PlaceBet("p1", 50)
//	_ = t.StartGame("p1")
//	_ = t.Stand("p1")
//
// # Architecture
//
// Table delegates to smaller components:
//   - Ledger: phase, entrants in bet order, dealer, pot, turn pointer and deck
//   - TurnClock: the single per-turn countdown, built on a Task
//   - Task: a cancellable scheduled callback guarded by a generation token
//   - NextTurn: the turn sequencer
//   - Settle: the settlement engine
//
// Outbound state leaves the package only through the Notifier passed to
// NewTable, so the state machine runs without any network layer in tests.
package game

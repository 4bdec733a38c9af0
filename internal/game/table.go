package game

import (
	"io"
	rand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
)

// Table is the single authoritative blackjack table. Every exported method
// and every timer callback runs under mu, so no two mutations overlap and
// every broadcast reflects a completed mutation.
type Table struct {
	mu       sync.Mutex
	cfg      Config
	clock    quartz.Clock
	rng      *rand.Rand
	logger   *log.Logger
	notifier Notifier
	newDeck  func() *deck.Deck

	roster    *Roster
	ledger    *Ledger
	turnClock *TurnClock
	round     *Task
	rounds    int
}

// Option configures a Table
type Option func(*Table)

// WithClock sets the clock used for turn countdowns and dealer pacing
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRand sets the shuffle source
func WithRand(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithDeckSource replaces deck construction, e.g. with a stacked deck in tests
func WithDeckSource(newDeck func() *deck.Deck) Option {
	return func(t *Table) { t.newDeck = newDeck }
}

// NewTable creates a table in the Lobby phase
func NewTable(cfg Config, notifier Notifier, opts ...Option) *Table {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	t := &Table{
		cfg:      cfg,
		clock:    quartz.NewReal(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		notifier: notifier,
		roster:   NewRoster(),
		ledger:   NewLedger(cfg.MinBet, cfg.MaxBet, cfg.MaxEntrants),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.rng == nil {
		t.rng = deck.NewRand(time.Now().UnixNano())
	}
	if t.newDeck == nil {
		t.newDeck = func() *deck.Deck { return deck.NewShuffled(t.rng) }
	}
	t.logger = t.logger.WithPrefix("table")
	t.round = NewTask(t.clock, &t.mu, "round")
	t.turnClock = NewTurnClock(NewTask(t.clock, &t.mu, "turn"), cfg.TickInterval, t.onTurnTick, t.onTurnExpired)

	return t
}

// Config returns the table rules
func (t *Table) Config() Config {
	return t.cfg
}

// Join registers a participant with the starting chip balance.
func (t *Table) Join(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ledger.Phase().InProgress() {
		return ErrRoundInProgress
	}
	p := &Participant{ID: id, Name: name, Chips: t.cfg.StartingChips}
	if !t.roster.Add(p) {
		return ErrAlreadyJoined
	}

	t.logger.Info("Player joined", "player", name, "id", id, "chips", p.Chips, "players", t.roster.Len())
	t.broadcastPlayersLocked()

	if t.ledger.Phase() == PhaseLobby {
		t.ledger.OpenBetting()
		t.logger.Info("Betting open")
		t.broadcastStateLocked()
		return nil
	}
	t.notifier.SendTo(id, GameStateEvent{Snapshot: t.snapshotLocked()})
	return nil
}

// PlaceBet accepts a bet for the coming round.
func (t *Table) PlaceBet(id string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.roster.Get(id)
	if err := t.ledger.PlaceBet(p, amount); err != nil {
		return err
	}

	t.logger.Info("Bet placed", "player", p.Name, "amount", amount, "chips", p.Chips, "pot", t.ledger.Pot())
	t.broadcastPlayersLocked()
	t.broadcastStateLocked()
	return nil
}

// StartGame closes betting and deals.
func (t *Table) StartGame(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.roster.Get(id) == nil {
		return ErrUnknownParticipant
	}
	if err := t.ledger.CanDeal(); err != nil {
		return err
	}
	if err := t.ledger.BeginDeal(t.newDeck()); err != nil {
		t.abortRoundLocked(err)
		return err
	}
	t.rounds++

	t.logger.Info("Dealing", "round", t.rounds, "entrants", len(t.ledger.Entrants()), "pot", t.ledger.Pot())
	for _, e := range t.ledger.Entrants() {
		t.logger.Debug("Dealt", "player", e.Name, "hand", FormatHand(e.Hand), "score", e.Score)
	}

	t.turnClock.Arm(t.ledger.Turn(), t.cfg.TurnSeconds)
	t.broadcastStateLocked()
	return nil
}

// Hit draws a card for the turn holder. Calls from anyone else, or outside
// PlayerTurns, are ignored without error.
func (t *Table) Hit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.holdsTurnLocked(id) {
		t.logger.Debug("Ignoring out of turn hit", "id", id, "phase", t.ledger.Phase())
		return nil
	}

	e, err := t.ledger.Hit(id)
	if err != nil {
		t.abortRoundLocked(err)
		return err
	}
	t.logger.Info("Player hits", "player", e.Name, "hand", FormatHand(e.Hand), "score", e.Score, "busted", e.Busted)

	if e.Busted || e.Score == Blackjack {
		if !e.Busted {
			e.Standing = true
		}
		_, idx := t.ledger.Entrant(id)
		t.advanceLocked(idx)
		return nil
	}

	t.turnClock.Arm(id, t.cfg.TurnSeconds)
	t.broadcastStateLocked()
	return nil
}

// Stand ends the turn holder's turn. Calls from anyone else, or outside
// PlayerTurns, are ignored without error.
func (t *Table) Stand(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.holdsTurnLocked(id) {
		t.logger.Debug("Ignoring out of turn stand", "id", id, "phase", t.ledger.Phase())
		return nil
	}

	if err := t.ledger.Stand(id); err != nil {
		t.abortRoundLocked(err)
		return err
	}
	e, idx := t.ledger.Entrant(id)
	t.logger.Info("Player stands", "player", e.Name, "score", e.Score)
	t.advanceLocked(idx)
	return nil
}

// Disconnect removes a participant and their seat in the round.
func (t *Table) Disconnect(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.roster.Remove(id)
	if p == nil {
		return
	}
	heldTurn := t.ledger.Turn() == id
	_, idx := t.ledger.Remove(id)
	t.logger.Info("Player left", "player", p.Name, "chips", p.Chips, "players", t.roster.Len())
	t.broadcastPlayersLocked()

	phase := t.ledger.Phase()
	switch {
	case phase.InProgress() && len(t.ledger.Entrants()) == 0,
		phase == PhaseBettingOpen && t.roster.Len() == 0:
		t.logger.Info("Table emptied, resetting round", "phase", phase)
		t.resetLocked()
	case phase == PhasePlayerTurns && heldTurn:
		t.advanceLocked(idx - 1)
	case idx >= 0:
		t.broadcastStateLocked()
	}
}

// Snapshot returns the current public state
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Players returns the roster in join order
func (t *Table) Players() []PlayerInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roster.List()
}

// Close stops pending timers
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turnClock.Cancel()
	t.round.Cancel()
}

func (t *Table) holdsTurnLocked(id string) bool {
	return t.ledger.Phase() == PhasePlayerTurns && t.ledger.Turn() == id
}

// advanceLocked passes the turn to the next entrant after bet-order index
// from, or to the dealer when nobody is left to act.
func (t *Table) advanceLocked(from int) {
	t.turnClock.Cancel()

	if next := NextTurn(t.ledger.Entrants(), from); next != nil {
		t.ledger.SetTurn(next.ID)
		t.turnClock.Arm(next.ID, t.cfg.TurnSeconds)
		t.logger.Debug("Turn passes", "player", next.Name)
		t.broadcastStateLocked()
		return
	}
	t.beginDealerTurnLocked()
}

func (t *Table) onTurnTick(holder string, remaining int) {
	t.logger.Debug("Turn clock", "id", holder, "remaining", remaining)
	t.broadcastStateLocked()
}

func (t *Table) onTurnExpired(holder string) {
	if !t.holdsTurnLocked(holder) {
		return
	}
	e, idx := t.ledger.Entrant(holder)
	e.Standing = true
	t.logger.Info("Time up, auto-standing", "player", e.Name, "score", e.Score)
	t.advanceLocked(idx)
}

func (t *Table) settleLocked() {
	t.ledger.BeginSettlement()
	d := t.ledger.Dealer()
	results := Settle(t.ledger.Entrants(), d, t.roster)

	for _, r := range results {
		t.logger.Info("Settled", "player", r.Name, "result", r.Result, "bet", r.Bet, "winnings", r.Winnings, "chips", r.Chips)
	}

	t.notifier.Broadcast(GameOverEvent{
		Results:     results,
		DealerHand:  cloneCards(d.Hand),
		DealerScore: d.Score,
		DealerBust:  d.Busted,
	})
	t.broadcastPlayersLocked()
	t.broadcastStateLocked()

	t.round.Schedule(t.cfg.ResultsPause, t.openNextRoundLocked)
}

func (t *Table) openNextRoundLocked() {
	if t.ledger.Phase() != PhaseSettlement {
		return
	}
	t.ledger.OpenBetting()
	t.logger.Info("Betting open", "players", t.roster.Len())
	t.broadcastStateLocked()
	t.broadcastPlayersLocked()
}

// resetLocked abandons the round and reopens betting
func (t *Table) resetLocked() {
	t.turnClock.Cancel()
	t.round.Cancel()
	t.ledger.OpenBetting()
	t.notifier.Broadcast(GameResetEvent{})
	t.broadcastStateLocked()
}

// abortRoundLocked handles a broken invariant mid-round. There is nothing to
// recover, so stakes go back to whoever is still seated and betting reopens.
func (t *Table) abortRoundLocked(err error) {
	t.logger.Error("Aborting round", "error", err, "phase", t.ledger.Phase())
	for _, e := range t.ledger.Entrants() {
		if p := t.roster.Get(e.ID); p != nil {
			p.Chips += e.Bet
		}
	}
	t.broadcastPlayersLocked()
	t.resetLocked()
}

func (t *Table) broadcastStateLocked() {
	t.notifier.Broadcast(GameStateEvent{Snapshot: t.snapshotLocked()})
}

func (t *Table) broadcastPlayersLocked() {
	t.notifier.Broadcast(PlayerListEvent{Players: t.roster.List()})
}

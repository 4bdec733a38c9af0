package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// DealerTurn is the turn pointer value while the dealer acts
const DealerTurn = "dealer"

// Entrant is a participant's seat in the current round
type Entrant struct {
	ID       string
	Name     string
	Hand     []deck.Card
	Score    int
	Bet      int
	Standing bool
	Busted   bool
}

// Done reports whether the entrant can no longer act this round
func (e *Entrant) Done() bool {
	return e.Standing || e.Busted
}

func (e *Entrant) take(c deck.Card) {
	e.Hand = append(e.Hand, c)
	e.Score = Score(e.Hand)
	e.Busted = e.Score > Blackjack
}

// Dealer is the house hand
type Dealer struct {
	Hand   []deck.Card
	Score  int
	Busted bool
}

func (d *Dealer) take(c deck.Card) {
	d.Hand = append(d.Hand, c)
	d.Score = Score(d.Hand)
	d.Busted = d.Score > Blackjack
}

// Ledger is the per-round record: phase, entrants in bet order, dealer, pot,
// turn pointer and the round's deck. It knows nothing about timers or
// transport; Table drives it.
type Ledger struct {
	minBet      int
	maxBet      int
	maxEntrants int

	phase    Phase
	entrants []*Entrant
	dealer   Dealer
	pot      int
	turn     string
	deck     *deck.Deck
}

// NewLedger creates a ledger in the Lobby phase
func NewLedger(minBet, maxBet, maxEntrants int) *Ledger {
	return &Ledger{
		minBet:      minBet,
		maxBet:      maxBet,
		maxEntrants: maxEntrants,
		phase:       PhaseLobby,
	}
}

// Phase returns the current phase
func (l *Ledger) Phase() Phase { return l.phase }

// Pot returns the sum of current bets
func (l *Ledger) Pot() int { return l.pot }

// Turn returns the turn pointer: an entrant id, DealerTurn, or ""
func (l *Ledger) Turn() string { return l.turn }

// Dealer returns the dealer record
func (l *Ledger) Dealer() *Dealer { return &l.dealer }

// Entrants returns the entrants in bet order. The slice must not be modified.
func (l *Ledger) Entrants() []*Entrant { return l.entrants }

// DeckRemaining returns the cards left in the round's deck
func (l *Ledger) DeckRemaining() int {
	if l.deck == nil {
		return 0
	}
	return l.deck.Remaining()
}

// Entrant returns the entrant for id and its position in bet order
func (l *Ledger) Entrant(id string) (*Entrant, int) {
	for i, e := range l.entrants {
		if e.ID == id {
			return e, i
		}
	}
	return nil, -1
}

// OpenBetting clears the round and opens betting
func (l *Ledger) OpenBetting() {
	l.phase = PhaseBettingOpen
	l.entrants = nil
	l.dealer = Dealer{}
	l.pot = 0
	l.turn = ""
	l.deck = nil
}

// PlaceBet debits the participant and seats them for the round
func (l *Ledger) PlaceBet(p *Participant, amount int) error {
	if l.phase != PhaseBettingOpen {
		return ErrBettingClosed
	}
	if p == nil {
		return ErrUnknownParticipant
	}
	if amount < l.minBet || amount > l.maxBet {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidAmount, l.minBet, l.maxBet)
	}
	if amount > p.Chips {
		return ErrInsufficientChips
	}
	if e, _ := l.Entrant(p.ID); e != nil {
		return ErrDuplicateBet
	}
	if len(l.entrants) >= l.maxEntrants {
		return fmt.Errorf("%w: at most %d bets", ErrTableFull, l.maxEntrants)
	}

	p.Chips -= amount
	l.entrants = append(l.entrants, &Entrant{ID: p.ID, Name: p.Name, Bet: amount})
	l.pot += amount
	return nil
}

// CanDeal reports whether a deal may start now
func (l *Ledger) CanDeal() error {
	if len(l.entrants) == 0 {
		return ErrNoBets
	}
	if l.phase != PhaseBettingOpen {
		return ErrAlreadyInProgress
	}
	return nil
}

// BeginDeal takes a freshly shuffled deck for the round, deals two cards to
// every entrant in bet order and one to the dealer, and hands the turn to the
// first bettor.
func (l *Ledger) BeginDeal(d *deck.Deck) error {
	if err := l.CanDeal(); err != nil {
		return err
	}

	l.phase = PhaseDealing
	l.deck = d
	l.dealer = Dealer{}

	for _, e := range l.entrants {
		for range 2 {
			c, err := l.deck.Draw()
			if err != nil {
				return err
			}
			e.take(c)
		}
	}
	c, err := l.deck.Draw()
	if err != nil {
		return err
	}
	l.dealer.take(c)

	l.phase = PhasePlayerTurns
	l.turn = l.entrants[0].ID
	return nil
}

// Hit draws one card for the entrant
func (l *Ledger) Hit(id string) (*Entrant, error) {
	e, _ := l.Entrant(id)
	if e == nil {
		return nil, fmt.Errorf("hit %s: %w", id, ErrMissingEntrant)
	}
	c, err := l.deck.Draw()
	if err != nil {
		return nil, err
	}
	e.take(c)
	return e, nil
}

// Stand marks the entrant as finished for the round
func (l *Ledger) Stand(id string) error {
	e, _ := l.Entrant(id)
	if e == nil {
		return fmt.Errorf("stand %s: %w", id, ErrMissingEntrant)
	}
	e.Standing = true
	return nil
}

// Remove drops an entrant, taking their bet out of the pot. It returns the
// removed entrant and its former bet-order index, or nil and -1.
func (l *Ledger) Remove(id string) (*Entrant, int) {
	e, i := l.Entrant(id)
	if e == nil {
		return nil, -1
	}
	l.entrants = append(l.entrants[:i], l.entrants[i+1:]...)
	l.pot -= e.Bet
	return e, i
}

// SetTurn moves the turn pointer
func (l *Ledger) SetTurn(id string) { l.turn = id }

// BeginDealerTurn hands control to the dealer
func (l *Ledger) BeginDealerTurn() {
	l.phase = PhaseDealerTurn
	l.turn = DealerTurn
}

// RevealDealer draws the dealer's second card
func (l *Ledger) RevealDealer() error {
	c, err := l.deck.Draw()
	if err != nil {
		return err
	}
	l.dealer.take(c)
	return nil
}

// DealerHit draws one card for the dealer
func (l *Ledger) DealerHit() error {
	return l.RevealDealer()
}

// BeginSettlement freezes the round for payout
func (l *Ledger) BeginSettlement() {
	l.phase = PhaseSettlement
	l.turn = ""
}

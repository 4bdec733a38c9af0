package game

import "github.com/lox/blackjack/internal/deck"

// Snapshot is the full public table state
type Snapshot struct {
	Phase             Phase         `json:"phase"`
	Dealer            DealerView    `json:"dealer"`
	Entrants          []EntrantView `json:"entrants"`
	Turn              string        `json:"turn,omitempty"`
	TurnTimeRemaining *int          `json:"turnTimeRemaining"`
	TurnDuration      int           `json:"turnDuration"`
	MinBet            int           `json:"minBet"`
	MaxBet            int           `json:"maxBet"`
	Pot               int           `json:"pot"`
}

// DealerView is the dealer as clients see it
type DealerView struct {
	Hand []deck.Card `json:"hand"`
	// HoleHidden is set while players act; the hole card is only drawn at reveal.
	HoleHidden bool `json:"holeHidden"`
	Score      int  `json:"score"`
	Busted     bool `json:"busted"`
}

// EntrantView is one entrant as clients see it
type EntrantView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Chips    int         `json:"chips"`
	Hand     []deck.Card `json:"hand"`
	Score    int         `json:"score"`
	Bet      int         `json:"bet"`
	Standing bool        `json:"standing"`
	Busted   bool        `json:"busted"`
}

// Entrant returns the view for id, if present
func (s Snapshot) Entrant(id string) (EntrantView, bool) {
	for _, e := range s.Entrants {
		if e.ID == id {
			return e, true
		}
	}
	return EntrantView{}, false
}

func (t *Table) snapshotLocked() Snapshot {
	d := t.ledger.Dealer()
	phase := t.ledger.Phase()

	s := Snapshot{
		Phase: phase,
		Dealer: DealerView{
			Hand:       cloneCards(d.Hand),
			HoleHidden: phase == PhaseDealing || phase == PhasePlayerTurns,
			Score:      d.Score,
			Busted:     d.Busted,
		},
		Entrants:     make([]EntrantView, 0, len(t.ledger.Entrants())),
		Turn:         t.ledger.Turn(),
		TurnDuration: t.cfg.TurnSeconds,
		MinBet:       t.cfg.MinBet,
		MaxBet:       t.cfg.MaxBet,
		Pot:          t.ledger.Pot(),
	}

	if remaining, ok := t.turnClock.Remaining(); ok {
		s.TurnTimeRemaining = &remaining
	}

	for _, e := range t.ledger.Entrants() {
		chips := 0
		if p := t.roster.Get(e.ID); p != nil {
			chips = p.Chips
		}
		s.Entrants = append(s.Entrants, EntrantView{
			ID:       e.ID,
			Name:     e.Name,
			Chips:    chips,
			Hand:     cloneCards(e.Hand),
			Score:    e.Score,
			Bet:      e.Bet,
			Standing: e.Standing,
			Busted:   e.Busted,
		})
	}
	return s
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return []deck.Card{}
	}
	return append([]deck.Card(nil), cards...)
}

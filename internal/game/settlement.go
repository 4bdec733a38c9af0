package game

// Result is the outcome of one entrant's hand against the dealer
type Result string

const (
	ResultWin       Result = "Win"
	ResultBlackjack Result = "Blackjack"
	ResultLose      Result = "Lose"
	ResultPush      Result = "Push"
)

// Settlement is one entrant's payout
type Settlement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Result   Result `json:"result"`
	Busted   bool   `json:"busted"`
	Score    int    `json:"score"`
	Bet      int    `json:"bet"`
	Winnings int    `json:"winnings"`
	Chips    int    `json:"newChips"`
}

// Outcome decides an entrant's result and winnings against the dealer.
// Winnings exclude the returned stake; a blackjack pays 3:2 rounded down.
func Outcome(e *Entrant, d *Dealer) (Result, int) {
	switch {
	case e.Busted:
		return ResultLose, 0
	case d.Busted || e.Score > d.Score:
		if IsNatural(e.Hand) {
			return ResultBlackjack, e.Bet * 3 / 2
		}
		return ResultWin, e.Bet
	case e.Score < d.Score:
		return ResultLose, 0
	default:
		return ResultPush, 0
	}
}

// Settle pays every entrant against the dealer and credits the roster.
// Entrants whose participant has left are settled for the record but credit
// nobody.
func Settle(entrants []*Entrant, d *Dealer, roster *Roster) []Settlement {
	results := make([]Settlement, 0, len(entrants))
	for _, e := range entrants {
		result, winnings := Outcome(e, d)

		s := Settlement{
			ID:       e.ID,
			Name:     e.Name,
			Result:   result,
			Busted:   e.Busted,
			Score:    e.Score,
			Bet:      e.Bet,
			Winnings: winnings,
		}

		if p := roster.Get(e.ID); p != nil {
			switch result {
			case ResultWin, ResultBlackjack:
				p.Chips += e.Bet + winnings
			case ResultPush:
				p.Chips += e.Bet
			}
			s.Chips = p.Chips
		}
		results = append(results, s)
	}
	return results
}

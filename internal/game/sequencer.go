package game

// NextTurn scans entrants in bet order, starting just after index current and
// wrapping around, for the first entrant still able to act. A negative
// current starts the scan at the first entrant. It returns nil when every
// entrant is standing or busted, meaning the dealer plays next.
func NextTurn(order []*Entrant, current int) *Entrant {
	n := len(order)
	for i := 1; i <= n; i++ {
		e := order[((current+i)%n+n)%n]
		if !e.Done() {
			return e
		}
	}
	return nil
}

package game

// DealerStandsOn is the total at which the dealer stops drawing
const DealerStandsOn = 17

// DealerShouldHit is the house policy: draw below 17, stand on any 17.
func DealerShouldHit(d *Dealer) bool {
	return !d.Busted && d.Score < DealerStandsOn
}

// beginDealerTurnLocked reveals the dealer's second card and starts the paced
// draw loop. Player turns are over, so no action can interleave with a step.
func (t *Table) beginDealerTurnLocked() {
	t.turnClock.Cancel()
	t.ledger.BeginDealerTurn()

	if err := t.ledger.RevealDealer(); err != nil {
		t.abortRoundLocked(err)
		return
	}
	d := t.ledger.Dealer()
	t.logger.Info("Dealer reveals", "hand", FormatHand(d.Hand), "score", d.Score)
	t.broadcastStateLocked()

	t.round.Schedule(t.cfg.DealerPace, t.dealerStepLocked)
}

// dealerStepLocked is one paced dealer decision.
func (t *Table) dealerStepLocked() {
	if t.ledger.Phase() != PhaseDealerTurn {
		t.logger.Debug("Discarding dealer step", "phase", t.ledger.Phase())
		return
	}

	d := t.ledger.Dealer()
	if !DealerShouldHit(d) {
		t.logger.Info("Dealer stands", "score", d.Score, "busted", d.Busted)
		t.settleLocked()
		return
	}

	if err := t.ledger.DealerHit(); err != nil {
		t.abortRoundLocked(err)
		return
	}
	t.logger.Info("Dealer hits", "hand", FormatHand(d.Hand), "score", d.Score, "busted", d.Busted)
	t.broadcastStateLocked()

	t.round.Schedule(t.cfg.DealerPace, t.dealerStepLocked)
}

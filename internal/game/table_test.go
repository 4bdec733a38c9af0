package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lowCards deals small hands that cannot bust on the deal
const lowCards = "2H 3H 4H 5H 6H 7H 8H 9H 10H 2C 3C 4C 5C"

func (tt *testTable) roundPending() bool {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return tt.round.Pending()
}

func (tt *testTable) sentTo(id string, et EventType) int {
	tt.rec.mu.Lock()
	defer tt.rec.mu.Unlock()
	n := 0
	for _, r := range tt.rec.events {
		if r.to == id && r.ev.EventType() == et {
			n++
		}
	}
	return n
}

func TestFirstJoinOpensBetting(t *testing.T) {
	tt := newTestTable(t, "")
	assert.Equal(t, PhaseLobby, tt.Snapshot().Phase)

	require.NoError(t, tt.Join("p1", "  Alice "))
	assert.Equal(t, PhaseBettingOpen, tt.rec.lastState(t).Phase)

	players := tt.Players()
	require.Len(t, players, 1)
	assert.Equal(t, PlayerInfo{ID: "p1", Name: "Alice", Chips: 1000}, players[0])

	require.NoError(t, tt.Join("p2", "Bob"))
	assert.Equal(t, 1, tt.sentTo("p2", EventTypeGameState), "later joiners get the state privately")
	assert.Len(t, tt.rec.ofType(EventTypePlayerList), 2)
}

func TestJoinRules(t *testing.T) {
	tt := newTestTable(t, lowCards)

	assert.ErrorIs(t, tt.Join("p1", "   "), ErrInvalidName)
	require.NoError(t, tt.Join("p1", "Alice"))
	assert.ErrorIs(t, tt.Join("p1", "Alice"), ErrAlreadyJoined)

	require.NoError(t, tt.PlaceBet("p1", 50))
	require.NoError(t, tt.StartGame("p1"))
	assert.ErrorIs(t, tt.Join("p2", "Bob"), ErrRoundInProgress)
	assert.Len(t, tt.Players(), 1)
}

func TestStartGameErrors(t *testing.T) {
	tt := newTestTable(t, lowCards)

	assert.ErrorIs(t, tt.StartGame("ghost"), ErrUnknownParticipant)

	require.NoError(t, tt.Join("p1", "Alice"))
	assert.ErrorIs(t, tt.StartGame("p1"), ErrNoBets)

	require.NoError(t, tt.PlaceBet("p1", 50))
	require.NoError(t, tt.StartGame("p1"))
	assert.ErrorIs(t, tt.StartGame("p1"), ErrAlreadyInProgress)
	assert.ErrorIs(t, tt.PlaceBet("p1", 50), ErrBettingClosed)
}

func TestAnyParticipantMayStart(t *testing.T) {
	tt := newTestTable(t, lowCards)
	require.NoError(t, tt.Join("p1", "Alice"))
	require.NoError(t, tt.Join("p2", "Bob"))
	require.NoError(t, tt.PlaceBet("p1", 50))

	require.NoError(t, tt.StartGame("p2"))

	s := tt.Snapshot()
	assert.Equal(t, PhasePlayerTurns, s.Phase)
	assert.Len(t, s.Entrants, 1, "only bettors are dealt in")
}

func TestRejectedBetLeavesStateUnchanged(t *testing.T) {
	tt := newTestTable(t, "")
	require.NoError(t, tt.Join("p1", "Alice"))
	tt.rec.clear()

	assert.ErrorIs(t, tt.PlaceBet("p1", 5), ErrInvalidAmount)
	assert.ErrorIs(t, tt.PlaceBet("p1", 1001), ErrInvalidAmount)
	assert.ErrorIs(t, tt.PlaceBet("ghost", 50), ErrUnknownParticipant)

	assert.Empty(t, tt.rec.ofType(EventTypeGameState))
	assert.Equal(t, 1000, tt.Players()[0].Chips)
	assert.Zero(t, tt.Snapshot().Pot)
}

func TestFullRound(t *testing.T) {
	tt := newTestTable(t, "10H 7D AS KD 9C 8S")
	tt.seat("p1", "p2")

	for _, p := range tt.Players() {
		assert.Equal(t, 950, p.Chips)
	}
	assert.Equal(t, 100, tt.Snapshot().Pot)

	require.NoError(t, tt.StartGame("p1"))
	s := tt.Snapshot()
	assert.Equal(t, PhasePlayerTurns, s.Phase)
	assert.Equal(t, "p1", s.Turn)
	assert.Equal(t, 30, tt.remaining())
	assert.True(t, s.Dealer.HoleHidden)
	assert.Len(t, s.Dealer.Hand, 1)
	for _, e := range s.Entrants {
		assert.Len(t, e.Hand, 2)
	}

	require.NoError(t, tt.Stand("p1"))
	assert.Equal(t, "p2", tt.Snapshot().Turn, "a natural still gets a turn")
	require.NoError(t, tt.Stand("p2"))

	s = tt.Snapshot()
	assert.Equal(t, PhaseDealerTurn, s.Phase)
	assert.Equal(t, DealerTurn, s.Turn)
	assert.False(t, s.Dealer.HoleHidden)
	assert.Len(t, s.Dealer.Hand, 2)
	assert.Equal(t, 17, s.Dealer.Score)
	assert.Nil(t, s.TurnTimeRemaining)

	assert.Equal(t, time.Second, tt.tick())
	assert.Equal(t, PhaseSettlement, tt.Snapshot().Phase)

	overs := tt.rec.ofType(EventTypeGameOver)
	require.Len(t, overs, 1)
	over := overs[0].(GameOverEvent)
	assert.Equal(t, 17, over.DealerScore)
	assert.False(t, over.DealerBust)
	require.Len(t, over.Results, 2)

	assert.Equal(t, "p1", over.Results[0].ID)
	assert.Equal(t, ResultPush, over.Results[0].Result)
	assert.Equal(t, 1000, over.Results[0].Chips)

	assert.Equal(t, "p2", over.Results[1].ID)
	assert.Equal(t, ResultBlackjack, over.Results[1].Result)
	assert.Equal(t, 75, over.Results[1].Winnings)
	assert.Equal(t, 1075, over.Results[1].Chips)

	for _, r := range over.Results {
		assert.Equal(t, 50, r.Bet)
	}

	assert.Equal(t, 7*time.Second, tt.tick())
	s = tt.Snapshot()
	assert.Equal(t, PhaseBettingOpen, s.Phase)
	assert.Zero(t, s.Pot)
	assert.Empty(t, s.Entrants)
	assert.False(t, tt.roundPending())

	chips := map[string]int{}
	for _, p := range tt.Players() {
		chips[p.ID] = p.Chips
	}
	assert.Equal(t, map[string]int{"p1": 1000, "p2": 1075}, chips)
}

func TestSeededRoundPaysWithinBounds(t *testing.T) {
	tt := newTestTable(t, "")
	tt.seat("p1", "p2", "p3")
	require.NoError(t, tt.StartGame("p3"))

	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, tt.Stand(id))
	}
	for i := 0; i < 20 && tt.Snapshot().Phase != PhaseBettingOpen; i++ {
		tt.tick()
	}
	require.Equal(t, PhaseBettingOpen, tt.Snapshot().Phase)

	overs := tt.rec.ofType(EventTypeGameOver)
	require.Len(t, overs, 1)
	over := overs[0].(GameOverEvent)
	require.Len(t, over.Results, 3)

	for _, r := range over.Results {
		want := 950
		switch r.Result {
		case ResultWin:
			assert.Equal(t, 50, r.Winnings)
			want += 100
		case ResultBlackjack:
			assert.Equal(t, 75, r.Winnings)
			want += 125
		case ResultPush:
			want += 50
		case ResultLose:
			assert.Zero(t, r.Winnings)
		}
		assert.Equal(t, want, r.Chips, r.ID)
	}
	assert.True(t, over.DealerScore >= DealerStandsOn || over.DealerBust)
}

func TestTurnExpiryAutoStands(t *testing.T) {
	tt := newTestTable(t, lowCards)
	tt.seat("p1", "p2")
	require.NoError(t, tt.StartGame("p1"))

	tt.tick()
	assert.Equal(t, 29, tt.remaining())
	assert.Equal(t, 29, *tt.rec.lastState(t).TurnTimeRemaining, "every tick is broadcast")

	for range 28 {
		tt.tick()
	}
	assert.Equal(t, 1, tt.remaining())
	assert.Equal(t, "p1", tt.Snapshot().Turn)

	tt.tick()
	s := tt.Snapshot()
	assert.Equal(t, "p2", s.Turn)
	assert.Equal(t, 30, tt.remaining())
	p1, ok := s.Entrant("p1")
	require.True(t, ok)
	assert.True(t, p1.Standing)
	assert.False(t, p1.Busted)
}

func TestHitRearmsClockAndBustAdvances(t *testing.T) {
	// p1: 2H 3H, p2: 4H 5H, dealer 6H, then p1 draws 7H 8H 9H
	tt := newTestTable(t, lowCards)
	tt.seat("p1", "p2")
	require.NoError(t, tt.StartGame("p1"))

	for range 5 {
		tt.tick()
	}
	assert.Equal(t, 25, tt.remaining())

	require.NoError(t, tt.Hit("p1"))
	assert.Equal(t, 30, tt.remaining())
	require.NoError(t, tt.Hit("p1"))
	p1, _ := tt.Snapshot().Entrant("p1")
	assert.Equal(t, 20, p1.Score)
	assert.Equal(t, "p1", tt.Snapshot().Turn)

	require.NoError(t, tt.Hit("p1"))
	s := tt.Snapshot()
	p1, _ = s.Entrant("p1")
	assert.True(t, p1.Busted)
	assert.Equal(t, 29, p1.Score)
	assert.Equal(t, "p2", s.Turn)
	assert.Equal(t, 30, tt.remaining())

	// a re-sent hit after busting is ignored
	require.NoError(t, tt.Hit("p1"))
	s = tt.Snapshot()
	p1, _ = s.Entrant("p1")
	p2, _ := s.Entrant("p2")
	assert.Len(t, p1.Hand, 5)
	assert.Len(t, p2.Hand, 2)
	assert.Equal(t, "p2", s.Turn)
}

func TestHittingTwentyOneEndsTurn(t *testing.T) {
	tt := newTestTable(t, "10H 9D 2C 3C 5S 2S")
	tt.seat("p1", "p2")
	require.NoError(t, tt.StartGame("p1"))

	require.NoError(t, tt.Hit("p1"))
	s := tt.Snapshot()
	p1, _ := s.Entrant("p1")
	assert.Equal(t, 21, p1.Score)
	assert.True(t, p1.Standing)
	assert.False(t, p1.Busted)
	assert.Equal(t, "p2", s.Turn)
}

func TestOutOfTurnActionsIgnored(t *testing.T) {
	tt := newTestTable(t, lowCards)
	require.NoError(t, tt.Join("p1", "Alice"))
	require.NoError(t, tt.Hit("p1"), "hit while betting is a silent no-op")
	require.NoError(t, tt.Stand("p1"))

	require.NoError(t, tt.Join("p2", "Bob"))
	require.NoError(t, tt.PlaceBet("p1", 50))
	require.NoError(t, tt.PlaceBet("p2", 50))
	require.NoError(t, tt.StartGame("p1"))
	before := tt.Snapshot()
	tt.rec.clear()

	require.NoError(t, tt.Hit("p2"))
	require.NoError(t, tt.Stand("p2"))
	require.NoError(t, tt.Hit("ghost"))

	assert.Equal(t, before, tt.Snapshot())
	assert.Empty(t, tt.rec.ofType(EventTypeGameState))
}

func TestDisconnectTurnHolderAdvances(t *testing.T) {
	tt := newTestTable(t, lowCards)
	tt.seat("p1", "p2", "p3")
	require.NoError(t, tt.StartGame("p1"))
	require.NoError(t, tt.Stand("p1"))
	assert.Equal(t, "p2", tt.Snapshot().Turn)

	tt.Disconnect("p2")
	s := tt.Snapshot()
	assert.Equal(t, "p3", s.Turn)
	assert.Equal(t, 30, tt.remaining())
	assert.Equal(t, 100, s.Pot)
	_, ok := s.Entrant("p2")
	assert.False(t, ok)

	tt.tick()
	assert.Equal(t, 29, tt.remaining())
	assert.Equal(t, "p3", tt.Snapshot().Turn)
}

func TestDisconnectFirstTurnHolder(t *testing.T) {
	tt := newTestTable(t, lowCards)
	tt.seat("p1", "p2")
	require.NoError(t, tt.StartGame("p1"))

	tt.Disconnect("p1")
	s := tt.Snapshot()
	assert.Equal(t, "p2", s.Turn)
	assert.Equal(t, 30, tt.remaining())
}

func TestDisconnectLastTurnHolderStartsDealer(t *testing.T) {
	tt := newTestTable(t, lowCards)
	tt.seat("p1", "p2")
	require.NoError(t, tt.StartGame("p1"))
	require.NoError(t, tt.Stand("p1"))

	tt.Disconnect("p2")
	s := tt.Snapshot()
	assert.Equal(t, PhaseDealerTurn, s.Phase)
	assert.Nil(t, s.TurnTimeRemaining)
	assert.True(t, tt.roundPending())
}

func TestDisconnectSoleEntrantResets(t *testing.T) {
	tt := newTestTable(t, lowCards)
	tt.seat("p1")
	require.NoError(t, tt.StartGame("p1"))

	tt.Disconnect("p1")
	assert.Len(t, tt.rec.ofType(EventTypeGameReset), 1)

	s := tt.Snapshot()
	assert.Equal(t, PhaseBettingOpen, s.Phase)
	assert.Nil(t, s.TurnTimeRemaining)
	assert.Empty(t, s.Entrants)
	assert.Zero(t, s.Pot)
	assert.False(t, tt.roundPending())
}

func TestDisconnectDuringDealerTurnDrains(t *testing.T) {
	tt := newTestTable(t, lowCards)
	tt.seat("p1", "p2")
	require.NoError(t, tt.StartGame("p1"))
	require.NoError(t, tt.Stand("p1"))
	require.NoError(t, tt.Stand("p2"))
	require.True(t, tt.roundPending())

	tt.Disconnect("p1")
	assert.Equal(t, PhaseDealerTurn, tt.Snapshot().Phase)

	tt.Disconnect("p2")
	assert.Equal(t, PhaseBettingOpen, tt.Snapshot().Phase)
	assert.False(t, tt.roundPending())
	assert.Empty(t, tt.rec.ofType(EventTypeGameOver))
}

func TestDisconnectNonEntrantLeavesRound(t *testing.T) {
	tt := newTestTable(t, lowCards)
	require.NoError(t, tt.Join("watcher", "Watcher"))
	tt.seat("p1")
	require.NoError(t, tt.StartGame("p1"))
	before := tt.Snapshot()

	tt.Disconnect("watcher")
	assert.Equal(t, before, tt.Snapshot())
	assert.Len(t, tt.Players(), 1)

	tt.Disconnect("watcher")
	assert.Len(t, tt.Players(), 1)
}

func TestJoinDuringSettlement(t *testing.T) {
	tt := newTestTable(t, "10H 7D 9C 8S")
	tt.seat("p1")
	require.NoError(t, tt.StartGame("p1"))
	require.NoError(t, tt.Stand("p1"))
	tt.tick()
	require.Equal(t, PhaseSettlement, tt.Snapshot().Phase)

	require.NoError(t, tt.Join("p2", "Bob"))
	assert.Equal(t, 1, tt.sentTo("p2", EventTypeGameState))

	tt.tick()
	assert.Equal(t, PhaseBettingOpen, tt.Snapshot().Phase)
	require.NoError(t, tt.PlaceBet("p2", 50))
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	// p1: 10H 9D, dealer 2C, reveal 3C, then 4C 5C 6C reaching 20
	tt := newTestTable(t, "10H 9D 2C 3C 4C 5C 6C")
	tt.seat("p1")
	require.NoError(t, tt.StartGame("p1"))
	require.NoError(t, tt.Stand("p1"))
	assert.Equal(t, 5, tt.Snapshot().Dealer.Score)

	for _, want := range []int{9, 14, 20} {
		assert.Equal(t, time.Second, tt.tick())
		assert.Equal(t, want, tt.Snapshot().Dealer.Score)
		assert.Equal(t, PhaseDealerTurn, tt.Snapshot().Phase)
	}

	tt.tick()
	over := tt.rec.ofType(EventTypeGameOver)
	require.Len(t, over, 1)
	result := over[0].(GameOverEvent).Results[0]
	assert.Equal(t, ResultLose, result.Result)
	assert.Equal(t, 950, result.Chips)
}

func TestDeckFaultAbortsAndRefunds(t *testing.T) {
	// the dealer needs a third card that the stacked deck does not have
	tt := newTestTable(t, "2H 3H 4H 5H")
	tt.seat("p1")
	require.NoError(t, tt.StartGame("p1"))
	require.NoError(t, tt.Stand("p1"))

	tt.tick()
	assert.Len(t, tt.rec.ofType(EventTypeGameReset), 1)
	assert.Equal(t, PhaseBettingOpen, tt.Snapshot().Phase)
	assert.Equal(t, 1000, tt.Players()[0].Chips)
	assert.False(t, tt.roundPending())
}

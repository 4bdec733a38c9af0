package game

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stacked returns a deck that deals the given cards in the order written.
func stacked(draws string) *deck.Deck {
	cards := deck.MustParseCards(draws)
	slices.Reverse(cards)
	return deck.FromCards(cards)
}

type recorded struct {
	to string
	ev Event
}

// recorder is a Notifier that keeps every event for inspection
type recorder struct {
	mu     sync.Mutex
	events []recorded
}

func (r *recorder) Broadcast(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{ev: ev})
}

func (r *recorder) SendTo(id string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{to: id, ev: ev})
}

func (r *recorder) ofType(et EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, rec := range r.events {
		if rec.ev.EventType() == et {
			out = append(out, rec.ev)
		}
	}
	return out
}

func (r *recorder) lastState(t *testing.T) Snapshot {
	t.Helper()
	states := r.ofType(EventTypeGameState)
	require.NotEmpty(t, states, "no gameState broadcast")
	return states[len(states)-1].(GameStateEvent).Snapshot
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type testTable struct {
	*Table
	rec   *recorder
	clock *quartz.Mock
	t     *testing.T
}

// newTestTable builds a table on a mock clock. If draws is non-empty every
// round is dealt from that stacked deck, otherwise decks come from a fixed seed.
func newTestTable(t *testing.T, draws string) *testTable {
	t.Helper()

	mClock := quartz.NewMock(t)
	rec := &recorder{}
	opts := []Option{
		WithClock(mClock),
		WithLogger(testLogger()),
		WithRand(deck.NewRand(7)),
	}
	if draws != "" {
		opts = append(opts, WithDeckSource(func() *deck.Deck { return stacked(draws) }))
	}

	table := NewTable(DefaultConfig(), rec, opts...)
	t.Cleanup(table.Close)
	return &testTable{Table: table, rec: rec, clock: mClock, t: t}
}

// tick advances the mock clock to the next pending timer and waits for its
// callback to finish.
func (tt *testTable) tick() time.Duration {
	tt.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d, w := tt.clock.AdvanceNext()
	w.MustWait(ctx)
	return d
}

func (tt *testTable) seat(players ...string) {
	tt.t.Helper()
	for _, id := range players {
		require.NoError(tt.t, tt.Join(id, "name-"+id))
	}
	for _, id := range players {
		require.NoError(tt.t, tt.PlaceBet(id, 50))
	}
}

func (tt *testTable) remaining() int {
	tt.t.Helper()
	s := tt.Snapshot()
	require.NotNil(tt.t, s.TurnTimeRemaining, "turn clock not running")
	return *s.TurnTimeRemaining
}

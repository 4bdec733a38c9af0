package game

import "github.com/lox/blackjack/internal/deck"

// EventType names an outbound event
type EventType string

const (
	EventTypePlayerList EventType = "playerList"
	EventTypeGameState  EventType = "gameState"
	EventTypeGameOver   EventType = "gameOver"
	EventTypeGameReset  EventType = "gameReset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is an outbound table event. The set is closed: only the types in this
// file implement it.
type Event interface {
	EventType() EventType
	isEvent()
}

// PlayerListEvent is sent whenever the roster or a chip count changes
type PlayerListEvent struct {
	Players []PlayerInfo `json:"players"`
}

// GameStateEvent carries a full snapshot after every state transition
type GameStateEvent struct {
	Snapshot
}

// GameOverEvent carries the settlement of a round
type GameOverEvent struct {
	Results     []Settlement `json:"results"`
	DealerHand  []deck.Card  `json:"dealerHand"`
	DealerScore int          `json:"dealerScore"`
	DealerBust  bool         `json:"dealerBusted"`
}

// GameResetEvent is sent when a round is abandoned because the table emptied
type GameResetEvent struct{}

func (PlayerListEvent) EventType() EventType { return EventTypePlayerList }
func (GameStateEvent) EventType() EventType  { return EventTypeGameState }
func (GameOverEvent) EventType() EventType   { return EventTypeGameOver }
func (GameResetEvent) EventType() EventType  { return EventTypeGameReset }

func (PlayerListEvent) isEvent() {}
func (GameStateEvent) isEvent()  {}
func (GameOverEvent) isEvent()   {}
func (GameResetEvent) isEvent()  {}

// Notifier is the outbound transport capability the table is given.
// Implementations must not block and must not call back into the Table.
type Notifier interface {
	// Broadcast sends an event to every connection
	Broadcast(ev Event)
	// SendTo sends an event to one participant
	SendTo(participantID string, ev Event)
}

// Notifiers fans events out to several notifiers in order
type Notifiers []Notifier

func (ns Notifiers) Broadcast(ev Event) {
	for _, n := range ns {
		n.Broadcast(ev)
	}
}

func (ns Notifiers) SendTo(participantID string, ev Event) {
	for _, n := range ns {
		n.SendTo(participantID, ev)
	}
}

// NopNotifier discards every event
type NopNotifier struct{}

func (NopNotifier) Broadcast(Event)      {}
func (NopNotifier) SendTo(string, Event) {}

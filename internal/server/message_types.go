package server

import "github.com/lox/blackjack/internal/game"

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeJoin      MessageType = "join"
	MessageTypePlaceBet  MessageType = "placeBet"
	MessageTypeStartGame MessageType = "startGame"
	MessageTypeHit       MessageType = "hit"
	MessageTypeStand     MessageType = "stand"

	// Server to client messages
	MessageTypeWelcome    MessageType = "welcome"
	MessageTypeError      MessageType = "error"
	MessageTypePlayerList             = MessageType(game.EventTypePlayerList)
	MessageTypeGameState              = MessageType(game.EventTypeGameState)
	MessageTypeGameOver               = MessageType(game.EventTypeGameOver)
	MessageTypeGameReset              = MessageType(game.EventTypeGameReset)
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/game"
)

// Message is the envelope for every frame in both directions
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// EventMessage wraps a table event for the wire
func EventMessage(ev game.Event) (*Message, error) {
	return NewMessage(MessageType(ev.EventType()), ev)
}

// Client → Server Messages

type JoinData struct {
	Name string `json:"name"`
}

type PlaceBetData struct {
	Amount json.RawMessage `json:"amount"`
}

// Int returns the bet amount. Anything but a JSON integer is rejected,
// including numeric strings and fractional values.
func (d PlaceBetData) Int() (int, error) {
	dec := json.NewDecoder(bytes.NewReader(d.Amount))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: amount is required", game.ErrInvalidAmount)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: amount must be a number", game.ErrInvalidAmount)
	}
	amount, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: amount must be an integer", game.ErrInvalidAmount)
	}
	return int(amount), nil
}

// Server → Client Messages

type WelcomeData struct {
	PlayerID string `json:"playerId"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateResponse is the body of GET /state
type StateResponse struct {
	State   game.Snapshot     `json:"state"`
	Players []game.PlayerInfo `json:"players"`
}

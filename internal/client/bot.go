// Package client contains a websocket bot that plays the blackjack table.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
)

// ErrBroke is returned when the bot can no longer cover the minimum bet
var ErrBroke = errors.New("not enough chips for the minimum bet")

var errDone = errors.New("round limit reached")

// Bot joins the table, bets a fixed amount every round, starts the deal and
// hits until its score reaches a threshold.
type Bot struct {
	serverURL string
	name      string
	bet       int
	standOn   int
	maxRounds int
	logger    *log.Logger
	dialer    *websocket.Dialer

	conn    *websocket.Conn
	id      string
	chips   int
	results []game.Settlement

	joined      bool
	joinPending bool
	betPending  bool
	startSent   bool
	actedOn     int
}

// Option configures a Bot
type Option func(*Bot)

// WithBet sets the amount wagered each round
func WithBet(amount int) Option {
	return func(b *Bot) { b.bet = amount }
}

// WithStandOn sets the score at which the bot stops hitting
func WithStandOn(score int) Option {
	return func(b *Bot) { b.standOn = score }
}

// WithRounds stops the bot after it has been settled in n rounds. Zero
// means play until the context is cancelled.
func WithRounds(n int) Option {
	return func(b *Bot) { b.maxRounds = n }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// NewBot creates a bot that will connect to serverURL as name
func NewBot(serverURL, name string, opts ...Option) *Bot {
	b := &Bot{
		serverURL: serverURL,
		name:      name,
		bet:       10,
		standOn:   game.DealerStandsOn,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		dialer:    websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithPrefix("bot").With("name", name)
	return b
}

// Results returns the bot's settlement for every round it finished
func (b *Bot) Results() []game.Settlement {
	return b.results
}

// Run connects and plays until the context is cancelled, the round limit is
// reached, or the bot runs out of chips.
func (b *Bot) Run(ctx context.Context) error {
	u, err := wsURL(b.serverURL)
	if err != nil {
		return err
	}

	conn, _, err := b.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	b.conn = conn
	b.logger.Info("Connected", "url", u)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer func() { _ = conn.Close() }()

	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if err := b.handle(&msg); err != nil {
			if errors.Is(err, errDone) {
				b.logger.Info("Finished", "rounds", len(b.results), "chips", b.chips)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return nil
			}
			return err
		}
	}
}

func (b *Bot) handle(msg *server.Message) error {
	switch msg.Type {
	case server.MessageTypeWelcome:
		var data server.WelcomeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode welcome: %w", err)
		}
		b.id = data.PlayerID
		return b.join()

	case server.MessageTypePlayerList:
		var data game.PlayerListEvent
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode player list: %w", err)
		}
		for _, p := range data.Players {
			if p.ID == b.id {
				b.joined = true
				b.joinPending = false
				b.chips = p.Chips
			}
		}
		return nil

	case server.MessageTypeGameState:
		var s game.Snapshot
		if err := json.Unmarshal(msg.Data, &s); err != nil {
			return fmt.Errorf("decode game state: %w", err)
		}
		return b.onState(s)

	case server.MessageTypeGameOver:
		var data game.GameOverEvent
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode game over: %w", err)
		}
		return b.onGameOver(data)

	case server.MessageTypeGameReset:
		b.betPending = false
		b.startSent = false
		b.actedOn = 0
		return nil

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		return b.onError(data)
	}
	return nil
}

func (b *Bot) onState(s game.Snapshot) error {
	switch s.Phase {
	case game.PhaseBettingOpen:
		b.actedOn = 0
		if !b.joined {
			return b.join()
		}
		if _, seated := s.Entrant(b.id); !seated {
			b.startSent = false
			if b.betPending {
				return nil
			}
			return b.placeBet(s)
		}
		b.betPending = false
		if !b.startSent {
			b.startSent = true
			return b.send(server.MessageTypeStartGame, struct{}{})
		}

	case game.PhasePlayerTurns:
		b.betPending = false
		b.startSent = false
		if s.Turn != b.id {
			return nil
		}
		me, ok := s.Entrant(b.id)
		// every countdown tick re-sends the state; act once per card count
		if !ok || len(me.Hand) == b.actedOn {
			return nil
		}
		b.actedOn = len(me.Hand)
		if me.Score < b.standOn {
			b.logger.Debug("Hit", "hand", game.FormatHand(me.Hand), "score", me.Score)
			return b.send(server.MessageTypeHit, struct{}{})
		}
		b.logger.Debug("Stand", "hand", game.FormatHand(me.Hand), "score", me.Score)
		return b.send(server.MessageTypeStand, struct{}{})

	case game.PhaseSettlement:
		if !b.joined {
			return b.join()
		}

	default:
		b.betPending = false
		b.startSent = false
	}
	return nil
}

func (b *Bot) onGameOver(ev game.GameOverEvent) error {
	for _, r := range ev.Results {
		if r.ID != b.id {
			continue
		}
		b.results = append(b.results, r)
		b.chips = r.Chips
		b.logger.Info("Round settled", "result", r.Result, "score", r.Score,
			"dealer", ev.DealerScore, "winnings", r.Winnings, "chips", r.Chips)

		if b.maxRounds > 0 && len(b.results) >= b.maxRounds {
			return errDone
		}
	}
	return nil
}

func (b *Bot) onError(data server.ErrorData) error {
	switch data.Code {
	case "insufficient_chips":
		return ErrBroke
	case "round_in_progress":
		b.joinPending = false
	case "already_joined":
		b.joined = true
		b.joinPending = false
	case "betting_closed", "table_full", "duplicate_bet":
		b.betPending = false
	case "already_in_progress", "no_bets":
		// another player started first
	default:
		b.logger.Warn("Server rejected action", "code", data.Code, "message", data.Message)
		return nil
	}
	b.logger.Debug("Server rejected action", "code", data.Code, "message", data.Message)
	return nil
}

func (b *Bot) join() error {
	if b.joined || b.joinPending || b.id == "" {
		return nil
	}
	b.joinPending = true
	return b.send(server.MessageTypeJoin, server.JoinData{Name: b.name})
}

func (b *Bot) placeBet(s game.Snapshot) error {
	amount := min(b.bet, s.MaxBet, b.chips)
	if amount < s.MinBet {
		return ErrBroke
	}
	b.betPending = true
	return b.send(server.MessageTypePlaceBet, map[string]int{"amount": amount})
}

func (b *Bot) send(mt server.MessageType, data any) error {
	msg, err := server.NewMessage(mt, data)
	if err != nil {
		return err
	}
	if err := b.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", mt, err)
	}
	return nil
}

// wsURL accepts ws(s) or http(s) URLs and defaults the path to /ws
func wsURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme: %q", u.Scheme)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

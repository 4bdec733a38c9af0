package server

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/game"
)

// RoundMonitor prints a summary of every settled round. It is a
// game.Notifier and ignores everything except gameOver and gameReset.
type RoundMonitor struct {
	mu     sync.Mutex
	writer io.Writer
	rounds int

	header  lipgloss.Style
	dealer  lipgloss.Style
	win     lipgloss.Style
	lose    lipgloss.Style
	push    lipgloss.Style
	warning lipgloss.Style
}

// NewRoundMonitor creates a monitor writing to w. With color disabled the
// output is plain text.
func NewRoundMonitor(w io.Writer, color bool) *RoundMonitor {
	if w == nil {
		w = os.Stdout
	}

	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &RoundMonitor{
		writer:  w,
		header:  r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		dealer:  r.NewStyle().Foreground(lipgloss.Color("#626262")),
		win:     r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		lose:    r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		push:    r.NewStyle().Foreground(lipgloss.Color("#FFEAA7")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFEAA7")).Bold(true),
	}
}

func (m *RoundMonitor) Broadcast(ev game.Event) {
	switch ev := ev.(type) {
	case game.GameOverEvent:
		m.printRound(ev)
	case game.GameResetEvent:
		m.mu.Lock()
		defer m.mu.Unlock()
		fmt.Fprintln(m.writer, m.warning.Render("Round abandoned, table reset"))
	}
}

func (m *RoundMonitor) SendTo(string, game.Event) {}

// Rounds returns the number of rounds printed so far
func (m *RoundMonitor) Rounds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rounds
}

func (m *RoundMonitor) printRound(ev game.GameOverEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds++

	var b strings.Builder
	fmt.Fprintln(&b, m.header.Render(fmt.Sprintf("=== Round #%d ===", m.rounds)))

	dealer := fmt.Sprintf("Dealer: %s (%d)", game.FormatHand(ev.DealerHand), ev.DealerScore)
	if ev.DealerBust {
		dealer += " BUST"
	}
	fmt.Fprintln(&b, m.dealer.Render(dealer))

	width := 0
	for _, r := range ev.Results {
		width = max(width, len(r.Name))
	}

	for _, r := range ev.Results {
		line := fmt.Sprintf("  %-*s  %-9s  score %2d  bet %4d  +%-4d  chips %d",
			width, r.Name, r.Result, r.Score, r.Bet, r.Winnings, r.Chips)
		fmt.Fprintln(&b, m.styleFor(r.Result).Render(line))
	}

	fmt.Fprint(m.writer, b.String())
}

func (m *RoundMonitor) styleFor(result game.Result) lipgloss.Style {
	switch result {
	case game.ResultWin, game.ResultBlackjack:
		return m.win
	case game.ResultPush:
		return m.push
	default:
		return m.lose
	}
}

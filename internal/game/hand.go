package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack is the best possible hand total
const Blackjack = 21

// Score returns the blackjack total of a hand. Aces count 11 and are reduced
// to 1 one at a time while the total is over 21.
func Score(hand []deck.Card) int {
	total := 0
	softAces := 0
	for _, c := range hand {
		total += c.Rank.Points()
		if c.IsAce() {
			softAces++
		}
	}
	for total > Blackjack && softAces > 0 {
		total -= 10
		softAces--
	}
	return total
}

// IsNatural reports a two-card 21
func IsNatural(hand []deck.Card) bool {
	return len(hand) == 2 && Score(hand) == Blackjack
}

// IsBust reports a total over 21
func IsBust(hand []deck.Card) bool {
	return Score(hand) > Blackjack
}

// FormatHand renders a hand as space separated cards
func FormatHand(hand []deck.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

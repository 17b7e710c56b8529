// Package handeval computes blackjack hand totals. All functions are pure:
// they take a hand snapshot and never mutate it.
package handeval

import "github.com/lox/blackjack-trainer/internal/deck"

// HandValue is the best total for a hand. Soft is true when at least one
// Ace is still counted as 11 in the final total.
type HandValue struct {
	Total int
	Soft  bool
}

// Value sums card point values with Aces tentatively priced at 11, then
// re-prices one Ace at a time from 11 down to 1 until the total is 21 or
// less, or no Ace remains at 11.
func Value(hand []deck.Card) HandValue {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Rank.PointValue()
		if c.IsAce() {
			aces++
		}
	}

	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}

	return HandValue{Total: total, Soft: aces > 0}
}

// IsBust returns true when the hand's best total exceeds 21.
func IsBust(hand []deck.Card) bool {
	return Value(hand).Total > 21
}

// IsBlackjack returns true for a natural: exactly two cards totalling 21.
func IsBlackjack(hand []deck.Card) bool {
	return len(hand) == 2 && Value(hand).Total == 21
}

// IsPair returns true when the hand is exactly two cards of equal printed
// rank. 10-J is not a pair even though both are worth ten.
func IsPair(hand []deck.Card) bool {
	return len(hand) == 2 && hand[0].Rank == hand[1].Rank
}

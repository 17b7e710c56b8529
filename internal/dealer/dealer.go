// Package dealer plays out the house hand to its fixed stopping rule.
package dealer

import (
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/handeval"
)

// Play draws the dealer hand starting from the up-card and hole card. The
// dealer hits any total below 17 and hits soft 17, stopping on hard 17 or
// better, or on a bust. Shoe exhaustion ends the hand wherever it stands;
// that is a defined edge, not an error.
func Play(upcard, holeCard deck.Card, shoe *deck.Shoe) []deck.Card {
	hand := []deck.Card{upcard, holeCard}

	for {
		hv := handeval.Value(hand)
		if hv.Total > 21 {
			return hand
		}
		if hv.Total > 17 || (hv.Total == 17 && !hv.Soft) {
			return hand
		}

		card, ok := shoe.Draw()
		if !ok {
			return hand
		}
		hand = append(hand, card)
	}
}

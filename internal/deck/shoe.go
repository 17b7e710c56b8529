package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Shoe is the working set of one or more shuffled decks dealt from during a
// session. Cards only ever leave the shoe; it is never reordered after a
// shuffle, so a drawn card can never reappear within the shoe's lifetime.
type Shoe struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe builds numDecks copies of the standard 52-card deck. The rng is
// used for shuffling and must not be shared across concurrent shoes.
func NewShoe(numDecks int, rng *rand.Rand) (*Shoe, error) {
	if numDecks <= 0 {
		return nil, fmt.Errorf("invalid deck count %d: must be at least 1", numDecks)
	}

	s := &Shoe{
		cards: make([]Card, 0, numDecks*52),
		rng:   rng,
	}
	for d := 0; d < numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	return s, nil
}

// Shuffle randomizes the order of the remaining cards with a Fisher-Yates
// shuffle, giving every permutation equal probability.
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the next card. The second return value is false
// when the shoe is exhausted; callers must treat that as early termination
// of the current hand rather than an error.
func (s *Shoe) Draw() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, true
}

// Remove takes one card of the given rank out of the shoe, regardless of
// position. Used for cards the player has already seen dealt: a simulation
// must not redraw a physical card that is known to be out. Returns false if
// no card of that rank remains.
func (s *Shoe) Remove(rank Rank) bool {
	for i, c := range s.cards {
		if c.Rank == rank {
			// Preserve the shuffled order of the remaining cards.
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// IsEmpty returns true if the shoe has no cards left
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

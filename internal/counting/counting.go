package counting

import (
	"math"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// decksRemainingFloor keeps the true count divisor away from zero when the
// shoe is nearly dealt out.
const decksRemainingFloor = 0.1

// RunningCount sums the system's point values over the given cards. Callers
// pass only the cards that are visible to the count; hidden history entries
// must be filtered out before calling.
func RunningCount(cards []deck.Card, sys System) float64 {
	var rc float64
	for _, c := range cards {
		rc += sys.Value(c.Rank)
	}
	return rc
}

// DecksRemaining estimates the undealt portion of the shoe from the number
// of cards seen, floored at a small positive value.
func DecksRemaining(totalDecks int, cardsSeen int) float64 {
	remaining := float64(totalDecks) - float64(cardsSeen)/52
	return math.Max(decksRemainingFloor, remaining)
}

// TrueCount normalizes a running count by decks remaining. Unbalanced
// systems bet directly off the running count, so it is returned unchanged,
// as it is when decksRemaining is not positive. The result is rounded to
// one decimal place, half away from zero.
func TrueCount(runningCount float64, decksRemaining float64, sys System) float64 {
	if !sys.Balanced || decksRemaining <= 0 {
		return runningCount
	}
	return roundTo1(runningCount / decksRemaining)
}

// roundTo1 rounds half away from zero to one decimal place. math.Round
// rounds half away from zero, which is the convention used throughout.
func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}

// BetBand maps a true count range to a bet size recommendation in units.
type BetBand struct {
	Label    string
	MinCount float64 // inclusive lower edge
	MinUnits float64
	MaxUnits float64
}

// DefaultBetBands are the built-in betting bands, highest edge first. Band
// edges and labels are configuration, not protocol; config may replace them.
var DefaultBetBands = []BetBand{
	{Label: "max", MinCount: 5, MinUnits: 8, MaxUnits: 12},
	{Label: "high", MinCount: 3, MinUnits: 4, MaxUnits: 8},
	{Label: "moderate", MinCount: 1, MinUnits: 2, MaxUnits: 4},
	{Label: "minimum", MinCount: 0, MinUnits: 1, MaxUnits: 1},
	{Label: "minimum-or-leave", MinCount: math.Inf(-1), MinUnits: 0, MaxUnits: 1},
}

// BetRecommendation maps a true count to exactly one band. Bands must be
// sorted by MinCount descending with a final catch-all band; every real
// number then lands in exactly one band.
func BetRecommendation(trueCount float64, bands []BetBand) BetBand {
	if len(bands) == 0 {
		bands = DefaultBetBands
	}
	for _, b := range bands {
		if trueCount >= b.MinCount {
			return b
		}
	}
	// Catch-all: the lowest band covers everything below its edge.
	return bands[len(bands)-1]
}

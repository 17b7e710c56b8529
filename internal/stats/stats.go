// Package stats reduces sequences of hand outcomes into session statistics.
package stats

import "fmt"

// Outcome classifies a single completed hand.
type Outcome int

const (
	Win Outcome = iota
	Lose
	Push
	Blackjack
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Push:
		return "push"
	case Blackjack:
		return "blackjack"
	default:
		return "?"
	}
}

// ParseOutcome parses an outcome name as used on the wire and in snapshots.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "win":
		return Win, nil
	case "lose":
		return Lose, nil
	case "push":
		return Push, nil
	case "blackjack":
		return Blackjack, nil
	default:
		return 0, fmt.Errorf("invalid outcome %q", s)
	}
}

// blackjackPayout is the net units for a natural at 3:2.
const blackjackPayout = 1.5

// Stats summarizes a sequence of hand outcomes. Rates are percentages of
// TotalHands; a blackjack counts as a win for rate purposes.
type Stats struct {
	TotalHands int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int

	WinRate  float64
	LossRate float64
	PushRate float64

	// NetUnits is flat-bet performance: +1 win, +1.5 blackjack, -1 loss.
	NetUnits float64

	LongestWinStreak  int
	LongestLossStreak int
}

// Reduce folds a sequence of outcomes into aggregate statistics. A push
// breaks the current streak without starting a new one. Empty input yields
// all-zero stats.
func Reduce(outcomes []Outcome) Stats {
	var s Stats
	var winStreak, lossStreak int

	for _, o := range outcomes {
		s.TotalHands++
		switch o {
		case Win, Blackjack:
			s.Wins++
			if o == Blackjack {
				s.Blackjacks++
				s.NetUnits += blackjackPayout
			} else {
				s.NetUnits++
			}
			winStreak++
			lossStreak = 0
		case Lose:
			s.Losses++
			s.NetUnits--
			lossStreak++
			winStreak = 0
		case Push:
			s.Pushes++
			winStreak = 0
			lossStreak = 0
		}

		if winStreak > s.LongestWinStreak {
			s.LongestWinStreak = winStreak
		}
		if lossStreak > s.LongestLossStreak {
			s.LongestLossStreak = lossStreak
		}
	}

	if s.TotalHands > 0 {
		total := float64(s.TotalHands)
		s.WinRate = float64(s.Wins) / total * 100
		s.LossRate = float64(s.Losses) / total * 100
		s.PushRate = float64(s.Pushes) / total * 100
	}
	return s
}

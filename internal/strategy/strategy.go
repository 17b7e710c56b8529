// Package strategy implements multi-deck basic strategy (dealer hits soft
// 17) with count-based index deviations. Recommend is a pure function: no
// shared state, safe for concurrent use.
package strategy

import (
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/handeval"
)

// code is a table entry with degradation semantics: a double that is not
// permitted falls back to either hit or stand depending on the entry.
type code int

const (
	hit code = iota
	stand
	doubleHit   // double if allowed, otherwise hit
	doubleStand // double if allowed, otherwise stand
)

func (c code) resolve(canDouble bool) Action {
	switch c {
	case stand:
		return Stand
	case doubleHit:
		if canDouble {
			return Double
		}
		return Hit
	case doubleStand:
		if canDouble {
			return Double
		}
		return Stand
	default:
		return Hit
	}
}

// Recommend returns the recommended action for a player hand against a
// dealer up-card. trueCount gates the index-play deviations. When canSplit
// is false a pair is played as its hard or soft total; when canDouble is
// false a double recommendation degrades per the table entry. The function
// is total: every reachable hand and up-card combination maps to an action.
func Recommend(player []deck.Card, dealerUp deck.Rank, trueCount float64, canDouble, canSplit bool) Action {
	up := dealerUp.PointValue() // 2-11, Ace high

	if canSplit && handeval.IsPair(player) {
		if action, ok := pairAction(player[0].Rank, up, trueCount); ok {
			return action
		}
	}

	hv := handeval.Value(player)
	if hv.Soft {
		return softAction(hv.Total, up, trueCount).resolve(canDouble)
	}
	return hardAction(hv.Total, up, trueCount, len(player) == 2).resolve(canDouble)
}

// pairAction applies the pair table. The second return is false when the
// pair should not be split, in which case the hand is played as its total.
func pairAction(rank deck.Rank, up int, tc float64) (Action, bool) {
	switch rank {
	case deck.Ace, deck.Eight:
		// Always split Aces and 8s.
		return Split, true
	case deck.Five:
		// Never split 5s: played as hard 10.
		return 0, false
	case deck.Ten, deck.Jack, deck.Queen, deck.King:
		// Never split 10s in basic strategy; splitting against a dealer 5
		// or 6 becomes correct at high counts.
		if (up == 5 && tc >= 5) || (up == 6 && tc >= 4) {
			return Split, true
		}
		return 0, false
	case deck.Nine:
		if (up >= 2 && up <= 6) || up == 8 || up == 9 {
			return Split, true
		}
		return 0, false
	case deck.Seven, deck.Three, deck.Two:
		if up >= 2 && up <= 7 {
			return Split, true
		}
		return 0, false
	case deck.Six:
		if up >= 2 && up <= 6 {
			return Split, true
		}
		return 0, false
	case deck.Four:
		if up == 5 || up == 6 {
			return Split, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// softAction applies the soft-hand table, keyed by total 13-20.
func softAction(total, up int, tc float64) code {
	switch {
	case total >= 20:
		return stand
	case total == 19:
		// A,8 doubles against a 6 under hit-soft-17 rules; against a 5 it
		// becomes a double at higher counts.
		if up == 6 {
			return doubleStand
		}
		if up == 5 && tc >= 1 {
			return doubleStand
		}
		return stand
	case total == 18:
		switch {
		case up >= 2 && up <= 6:
			return doubleStand
		case up == 7 || up == 8:
			return stand
		default:
			return hit
		}
	case total == 17:
		if up >= 3 && up <= 6 {
			return doubleHit
		}
		if up == 2 && tc >= 1 {
			return doubleHit
		}
		return hit
	case total >= 15: // A,4 and A,5
		if up >= 4 && up <= 6 {
			return doubleHit
		}
		return hit
	case total >= 13: // A,2 and A,3
		if up == 5 || up == 6 {
			return doubleHit
		}
		return hit
	default:
		// Soft 12 is A,A played as a total when splitting is unavailable.
		return hit
	}
}

// hardAction applies the hard-hand table. twoCards gates the doubles that
// only exist on the initial hand (hard 8 index play).
func hardAction(total, up int, tc float64, twoCards bool) code {
	switch {
	case total >= 17:
		return stand
	case total >= 13:
		if up >= 2 && up <= 6 {
			return stand
		}
		// Index plays: standing on stiff totals against high cards becomes
		// correct as the count rises.
		if total == 16 && up == 10 && tc >= 0 {
			return stand
		}
		if total == 16 && up == 9 && tc >= 5 {
			return stand
		}
		if total == 15 && up == 10 && tc >= 4 {
			return stand
		}
		return hit
	case total == 12:
		if up >= 4 && up <= 6 {
			return stand
		}
		if up == 3 && tc >= 2 {
			return stand
		}
		if up == 2 && tc >= 3 {
			return stand
		}
		return hit
	case total == 11:
		return doubleHit
	case total == 10:
		if up >= 2 && up <= 9 {
			return doubleHit
		}
		if up == 10 && tc >= 4 {
			return doubleHit
		}
		if up == 11 && tc >= 3 {
			return doubleHit
		}
		return hit
	case total == 9:
		if up >= 3 && up <= 6 {
			return doubleHit
		}
		if up == 2 && tc >= 1 {
			return doubleHit
		}
		if up == 7 && tc >= 3 {
			return doubleHit
		}
		return hit
	default:
		// Hard 8 doubles against a 6 at high counts; everything lower
		// always hits.
		if twoCards && total == 8 && up == 6 && tc >= 2 {
			return doubleHit
		}
		return hit
	}
}

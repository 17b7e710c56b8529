package simulation

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

const (
	// DefaultProgressEvery is the sample cadence for progress events.
	DefaultProgressEvery = 100

	maxDecks       = 8
	maxSimulations = 10_000_000
)

// Params describes one simulation run. Immutable once started.
type Params struct {
	PlayerCards    []deck.Card
	DealerUpcard   deck.Card
	NumDecks       int
	NumSimulations int
	Action         strategy.Action

	// Seed feeds the run's private RNG; zero means derive from wall clock.
	Seed int64

	// ProgressEvery is the sample interval between progress events.
	// Defaults to DefaultProgressEvery.
	ProgressEvery int
}

// Validate rejects malformed parameters at the boundary so they never reach
// the shoe or evaluator as silent zeros.
func (p Params) Validate() error {
	if len(p.PlayerCards) < 2 {
		return errors.New("at least two player cards are required")
	}
	if p.NumDecks <= 0 || p.NumDecks > maxDecks {
		return fmt.Errorf("deck count %d out of range 1-%d", p.NumDecks, maxDecks)
	}
	if p.NumSimulations <= 0 || p.NumSimulations > maxSimulations {
		return fmt.Errorf("simulation count %d out of range 1-%d", p.NumSimulations, maxSimulations)
	}
	if p.Action == strategy.Split && len(p.PlayerCards) != 2 {
		return errors.New("split requires exactly two player cards")
	}
	if p.Action == strategy.Split && p.PlayerCards[0].Rank != p.PlayerCards[1].Rank {
		return errors.New("split requires a pair of equal rank")
	}
	// The known cards must physically fit in the shoe.
	need := map[deck.Rank]int{p.DealerUpcard.Rank: 1}
	for _, c := range p.PlayerCards {
		need[c.Rank]++
	}
	for rank, n := range need {
		if n > 4*p.NumDecks {
			return fmt.Errorf("%d cards of rank %s exceed the %d in a %d-deck shoe",
				n, rank, 4*p.NumDecks, p.NumDecks)
		}
	}
	return nil
}

// progressEvery returns the effective progress cadence.
func (p Params) progressEvery() int {
	if p.ProgressEvery <= 0 {
		return DefaultProgressEvery
	}
	return p.ProgressEvery
}

// Counts holds per-outcome tallies for a run. Grown only by the runner;
// read-only to consumers.
type Counts struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Pushes     int `json:"pushes"`
	Blackjacks int `json:"blackjacks"`
	Busts      int `json:"busts"`

	// Completed is the number of samples finished so far. With a split
	// each sample resolves two hands, so hand tallies may exceed it.
	Completed int `json:"completed"`
}

// hands returns the number of classified hands.
func (c Counts) hands() int {
	return c.Wins + c.Losses + c.Pushes
}

// Result is the aggregated outcome of a run plus derived percentages.
type Result struct {
	Counts

	WinRate       float64 `json:"winRate"`
	LossRate      float64 `json:"lossRate"`
	PushRate      float64 `json:"pushRate"`
	BlackjackRate float64 `json:"blackjackRate"`
	BustRate      float64 `json:"bustRate"`

	// NetUnits is the flat-bet return over all hands: wins pay 1 unit,
	// blackjacks 1.5, doubles win or lose 2.
	NetUnits float64 `json:"netUnits"`

	// TotalSimulations echoes the requested sample count, or the count
	// actually completed when the run was cancelled.
	TotalSimulations int `json:"totalSimulations"`

	Cancelled bool `json:"cancelled"`
}

// newResult derives rates from raw counts.
func newResult(c Counts, netUnits float64, cancelled bool) Result {
	r := Result{Counts: c, NetUnits: netUnits, Cancelled: cancelled, TotalSimulations: c.Completed}
	if hands := c.hands(); hands > 0 {
		total := float64(hands)
		r.WinRate = float64(c.Wins) / total * 100
		r.LossRate = float64(c.Losses) / total * 100
		r.PushRate = float64(c.Pushes) / total * 100
		r.BlackjackRate = float64(c.Blackjacks) / total * 100
		r.BustRate = float64(c.Busts) / total * 100
	}
	return r
}

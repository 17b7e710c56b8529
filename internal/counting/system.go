// Package counting implements card counting systems: running and true count
// arithmetic and bet sizing bands. Systems are process-wide constants; all
// functions here are pure and safe for concurrent use without locking.
package counting

import (
	"fmt"
	"sort"

	"github.com/lox/blackjack-trainer/internal/deck"
)

// System defines a counting system as a fixed rank-to-point-value table.
// Balanced systems sum to zero over a full deck and are bet off the true
// count; unbalanced systems are bet directly off the running count.
type System struct {
	ID       string
	Name     string
	Values   map[deck.Rank]float64
	Balanced bool
}

// Value returns the point value the system assigns to a rank.
func (s System) Value(rank deck.Rank) float64 {
	return s.Values[rank]
}

// registry is constructed once at init and never mutated afterward.
var registry = map[string]System{
	"hiLo": {
		ID:   "hiLo",
		Name: "Hi-Lo",
		Values: map[deck.Rank]float64{
			deck.Two: 1, deck.Three: 1, deck.Four: 1, deck.Five: 1, deck.Six: 1,
			deck.Seven: 0, deck.Eight: 0, deck.Nine: 0,
			deck.Ten: -1, deck.Jack: -1, deck.Queen: -1, deck.King: -1, deck.Ace: -1,
		},
		Balanced: true,
	},
	"ko": {
		ID:   "ko",
		Name: "Knock-Out",
		Values: map[deck.Rank]float64{
			deck.Two: 1, deck.Three: 1, deck.Four: 1, deck.Five: 1, deck.Six: 1, deck.Seven: 1,
			deck.Eight: 0, deck.Nine: 0,
			deck.Ten: -1, deck.Jack: -1, deck.Queen: -1, deck.King: -1, deck.Ace: -1,
		},
		Balanced: false,
	},
	"hiOptI": {
		ID:   "hiOptI",
		Name: "Hi-Opt I",
		Values: map[deck.Rank]float64{
			deck.Two: 0, deck.Three: 1, deck.Four: 1, deck.Five: 1, deck.Six: 1,
			deck.Seven: 0, deck.Eight: 0, deck.Nine: 0,
			deck.Ten: -1, deck.Jack: -1, deck.Queen: -1, deck.King: -1, deck.Ace: 0,
		},
		Balanced: true,
	},
	"hiOptII": {
		ID:   "hiOptII",
		Name: "Hi-Opt II",
		Values: map[deck.Rank]float64{
			deck.Two: 1, deck.Three: 1, deck.Four: 2, deck.Five: 2, deck.Six: 1, deck.Seven: 1,
			deck.Eight: 0, deck.Nine: 0,
			deck.Ten: -2, deck.Jack: -2, deck.Queen: -2, deck.King: -2, deck.Ace: 0,
		},
		Balanced: true,
	},
	"omegaII": {
		ID:   "omegaII",
		Name: "Omega II",
		Values: map[deck.Rank]float64{
			deck.Two: 1, deck.Three: 1, deck.Four: 2, deck.Five: 2, deck.Six: 2, deck.Seven: 1,
			deck.Eight: 0, deck.Nine: -1,
			deck.Ten: -2, deck.Jack: -2, deck.Queen: -2, deck.King: -2, deck.Ace: 0,
		},
		Balanced: true,
	},
	"zenCount": {
		ID:   "zenCount",
		Name: "Zen Count",
		Values: map[deck.Rank]float64{
			deck.Two: 1, deck.Three: 1, deck.Four: 2, deck.Five: 2, deck.Six: 2, deck.Seven: 1,
			deck.Eight: 0, deck.Nine: 0,
			deck.Ten: -2, deck.Jack: -2, deck.Queen: -2, deck.King: -2, deck.Ace: -1,
		},
		Balanced: true,
	},
}

// DefaultSystemID is the system selected when none is configured.
const DefaultSystemID = "hiLo"

// Lookup returns the counting system with the given id.
func Lookup(id string) (System, error) {
	sys, ok := registry[id]
	if !ok {
		return System{}, fmt.Errorf("unknown counting system %q", id)
	}
	return sys, nil
}

// Systems returns all registered systems sorted by id.
func Systems() []System {
	out := make([]System, 0, len(registry))
	for _, sys := range registry {
		out = append(out, sys)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FullDeckSum returns the sum of the system's point values over one full
// 52-card deck. Zero for balanced systems.
func (s System) FullDeckSum() float64 {
	var sum float64
	for _, rank := range deck.Ranks {
		sum += 4 * s.Values[rank]
	}
	return sum
}

// Package simulation estimates outcome rates for a blackjack decision by
// Monte Carlo sampling. Each run owns its shoe and counters exclusively and
// communicates with the host through a channel of progress and terminal
// events, so a long sampling loop never blocks the caller.
package simulation

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/dealer"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/handeval"
	"github.com/lox/blackjack-trainer/internal/randutil"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// EventType discriminates runner events.
type EventType string

const (
	EventProgress  EventType = "progress"
	EventResult    EventType = "result"
	EventCancelled EventType = "cancelled"
	EventError     EventType = "error"
)

// Event is a message from the runner to its host. Progress events carry
// Percent and Partial; result and cancelled events carry Result; error
// events carry Err. Exactly one terminal event is emitted per run.
type Event struct {
	Type    EventType
	Percent float64
	Partial Counts
	Result  *Result
	Err     error
}

// PlayPolicy decides whether to keep drawing after the forced first action.
// Only Hit continues the hand; any other action stands.
type PlayPolicy func(hand []deck.Card, dealerUp deck.Rank) strategy.Action

// DrawToSeventeen hits any total below 17 and soft 17, the same stopping
// rule split hands are played to.
func DrawToSeventeen(hand []deck.Card, _ deck.Rank) strategy.Action {
	hv := handeval.Value(hand)
	if hv.Total < 17 || (hv.Total == 17 && hv.Soft) {
		return strategy.Hit
	}
	return strategy.Stand
}

// BasicPolicy plays continuation cards per basic strategy at the given true
// count. Doubling and splitting are not available mid-hand, so their
// recommendations degrade inside Recommend.
func BasicPolicy(trueCount float64) PlayPolicy {
	return func(hand []deck.Card, dealerUp deck.Rank) strategy.Action {
		return strategy.Recommend(hand, dealerUp, trueCount, false, false)
	}
}

// Runner executes a single simulation run on its own goroutine. A Runner is
// single-use; the caller is responsible for not starting a new run while an
// earlier one is in flight.
type Runner struct {
	logger *log.Logger

	// Policy overrides the continuation policy; nil means DrawToSeventeen.
	Policy PlayPolicy

	cancelled atomic.Bool
	running   atomic.Bool
}

// NewRunner creates a runner that logs through the given logger.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{logger: logger.WithPrefix("sim")}
}

// Running reports whether a run is in flight.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Cancel requests cooperative cancellation. The flag is polled once per
// sample, so the worst-case latency is one sample's bounded runtime.
func (r *Runner) Cancel() {
	r.cancelled.Store(true)
}

// Start validates params and begins sampling on a new goroutine. The
// returned channel delivers zero or more progress events followed by
// exactly one terminal event, then closes.
func (r *Runner) Start(ctx context.Context, params Params) (<-chan Event, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("runner already in use")
	}

	events := make(chan Event, 16)
	go r.run(ctx, params, events)
	return events, nil
}

func (r *Runner) run(ctx context.Context, params Params, events chan<- Event) {
	defer close(events)
	defer r.running.Store(false)
	defer func() {
		// A failure inside a sample must surface as a terminal error
		// message, never crash the host.
		if rec := recover(); rec != nil {
			r.logger.Error("simulation panicked", "panic", rec)
			events <- Event{Type: EventError, Err: fmt.Errorf("simulation failed: %v", rec)}
		}
	}()

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	policy := r.Policy
	if policy == nil {
		policy = DrawToSeventeen
	}

	every := params.progressEvery()
	var counts Counts
	var netUnits float64

	r.logger.Debug("starting run",
		"samples", params.NumSimulations,
		"action", params.Action,
		"decks", params.NumDecks,
		"seed", seed)

	for i := 0; i < params.NumSimulations; i++ {
		if r.cancelled.Load() || ctx.Err() != nil {
			res := newResult(counts, netUnits, true)
			r.sendTerminal(ctx, events, Event{Type: EventCancelled, Result: &res})
			return
		}

		netUnits += playSample(params, policy, rng, &counts)
		counts.Completed++

		if counts.Completed%every == 0 && counts.Completed < params.NumSimulations {
			ev := Event{
				Type:    EventProgress,
				Percent: float64(counts.Completed) / float64(params.NumSimulations) * 100,
				Partial: counts,
			}
			// Progress is advisory: drop it rather than stall sampling when
			// the host is slow to drain the channel.
			select {
			case events <- ev:
			default:
			}
		}
	}

	res := newResult(counts, netUnits, false)
	r.sendTerminal(ctx, events, Event{Type: EventResult, Result: &res})
}

// sendTerminal delivers the terminal event, giving up only if the host has
// abandoned the run entirely.
func (r *Runner) sendTerminal(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
		select {
		case events <- ev:
		default:
			r.logger.Debug("terminal event dropped, host gone", "type", ev.Type)
		}
	}
}

// playSample deals and classifies one sampled round, updating counts and
// returning the net units for the round. If the shoe runs out mid-deal the
// hand is classified with whatever cards were drawn; a sample never
// duplicates a physical card and is never retried.
func playSample(p Params, policy PlayPolicy, rng *rand.Rand, counts *Counts) float64 {
	shoe, err := deck.NewShoe(p.NumDecks, rng)
	if err != nil {
		// Params were validated at the boundary.
		panic(err)
	}
	shoe.Shuffle()

	// The user has told us these physical cards are out of the shoe.
	for _, c := range p.PlayerCards {
		shoe.Remove(c.Rank)
	}
	shoe.Remove(p.DealerUpcard.Rank)

	upRank := p.DealerUpcard.Rank
	betUnits := 1.0

	var hands [][]deck.Card
	switch p.Action {
	case strategy.Stand:
		hands = [][]deck.Card{clone(p.PlayerCards)}

	case strategy.Hit:
		hand := clone(p.PlayerCards)
		hand = drawOne(hand, shoe)
		hand = playOut(hand, upRank, policy, shoe)
		hands = [][]deck.Card{hand}

	case strategy.Double:
		// Double-down takes exactly one card for a doubled bet.
		betUnits = 2.0
		hands = [][]deck.Card{drawOne(clone(p.PlayerCards), shoe)}

	case strategy.Split:
		// Simplified split: the pair becomes two independent one-card
		// hands, each drawn out to at least hard 17. No resplitting, no
		// double after split.
		first := playOut(drawOne([]deck.Card{p.PlayerCards[0]}, shoe), upRank, policy, shoe)
		second := playOut(drawOne([]deck.Card{p.PlayerCards[1]}, shoe), upRank, policy, shoe)
		hands = [][]deck.Card{first, second}
	}

	var dealerHand []deck.Card
	if hole, ok := shoe.Draw(); ok {
		dealerHand = dealer.Play(p.DealerUpcard, hole, shoe)
	} else {
		dealerHand = []deck.Card{p.DealerUpcard}
	}

	var units float64
	for _, hand := range hands {
		// Naturals only exist on the original two-card hand.
		natural := p.Action != strategy.Split && handeval.IsBlackjack(hand)
		units += classify(hand, dealerHand, natural, betUnits, counts)
	}
	return units
}

// classify compares one player hand to the dealer hand, tallies the outcome
// and returns its net units.
func classify(playerHand, dealerHand []deck.Card, natural bool, betUnits float64, counts *Counts) float64 {
	playerTotal := handeval.Value(playerHand).Total
	dealerTotal := handeval.Value(dealerHand).Total
	dealerNatural := handeval.IsBlackjack(dealerHand)

	switch {
	case playerTotal > 21:
		counts.Busts++
		counts.Losses++
		return -betUnits

	case natural && dealerNatural:
		counts.Pushes++
		return 0

	case natural:
		counts.Blackjacks++
		counts.Wins++
		return 1.5 * betUnits

	case dealerNatural:
		counts.Losses++
		return -betUnits

	case dealerTotal > 21 || playerTotal > dealerTotal:
		counts.Wins++
		return betUnits

	case playerTotal < dealerTotal:
		counts.Losses++
		return -betUnits

	default:
		counts.Pushes++
		return 0
	}
}

// playOut keeps drawing while the policy says hit. Shoe exhaustion ends the
// hand where it stands.
func playOut(hand []deck.Card, dealerUp deck.Rank, policy PlayPolicy, shoe *deck.Shoe) []deck.Card {
	for !handeval.IsBust(hand) && policy(hand, dealerUp) == strategy.Hit {
		card, ok := shoe.Draw()
		if !ok {
			return hand
		}
		hand = append(hand, card)
	}
	return hand
}

func drawOne(hand []deck.Card, shoe *deck.Shoe) []deck.Card {
	if card, ok := shoe.Draw(); ok {
		hand = append(hand, card)
	}
	return hand
}

func clone(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}

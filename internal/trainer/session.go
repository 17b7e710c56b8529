// Package trainer holds the stateful engine behind the trainer UI: the
// seen-card history, counting state and simulation lifecycle for one
// session. Counts are recomputed from the visible history on every query
// rather than patched incrementally, so they can never drift.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/counting"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/handeval"
	"github.com/lox/blackjack-trainer/internal/simulation"
	"github.com/lox/blackjack-trainer/internal/stats"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// Source identifies who a seen card was dealt to.
type Source string

const (
	SourcePlayer Source = "player"
	SourceDealer Source = "dealer"
	SourceTable  Source = "table"
)

// validSource reports whether s is a known source.
func validSource(s Source) bool {
	return s == SourcePlayer || s == SourceDealer || s == SourceTable
}

// Entry is one card in the session history. Removing a card from the count
// is a visibility toggle, not a deletion, so history is preserved.
type Entry struct {
	Card    deck.Card
	Source  Source
	Visible bool
}

const (
	// DefaultDecks is the shoe size when none is configured.
	DefaultDecks = 6

	maxDecks = 8
)

// ErrSimulationInFlight is returned when a simulation start is rejected
// because one is already running. One simulation per session at a time.
var ErrSimulationInFlight = errors.New("a simulation is already running")

// Session is the stateful trainer engine. Safe for concurrent use.
type Session struct {
	logger *log.Logger

	mu       sync.RWMutex
	history  []Entry
	outcomes []stats.Outcome
	system   counting.System
	numDecks int
	bands    []counting.BetBand

	runner     *simulation.Runner
	simRunning bool
}

// NewSession creates a session with the default counting system, deck count
// and bet bands.
func NewSession(logger *log.Logger) *Session {
	sys, _ := counting.Lookup(counting.DefaultSystemID)
	return &Session{
		logger:   logger.WithPrefix("session"),
		system:   sys,
		numDecks: DefaultDecks,
		bands:    counting.DefaultBetBands,
	}
}

// SetBetBands replaces the betting bands, normally from config.
func (s *Session) SetBetBands(bands []counting.BetBand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(bands) > 0 {
		s.bands = bands
	}
}

// AddCard records a seen card. The rank string is validated here so a
// malformed rank never reaches the counting arithmetic.
func (s *Session) AddCard(rank string, source Source) (deck.Card, error) {
	r, err := deck.ParseRank(rank)
	if err != nil {
		return deck.Card{}, err
	}
	if !validSource(source) {
		return deck.Card{}, fmt.Errorf("invalid card source %q", source)
	}

	card := deck.NewCard(r, deck.Spades)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Entry{Card: card, Source: source, Visible: true})
	return card, nil
}

// RemoveLast removes the most recently added card from the history. Returns
// false when the history is empty.
func (s *Session) RemoveLast() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return Entry{}, false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return last, true
}

// Clear resets the card history. Settings and recorded hand outcomes are
// kept; the count starts over for a fresh shoe.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// RecordOutcome appends a completed hand's outcome to the session record.
func (s *Session) RecordOutcome(o stats.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}

// Outcomes returns a copy of the recorded hand outcomes in order.
func (s *Session) Outcomes() []stats.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]stats.Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Stats reduces the recorded outcomes into session statistics.
func (s *Session) Stats() stats.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Reduce(s.outcomes)
}

// ResetStats discards the recorded outcomes.
func (s *Session) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = nil
}

// ToggleVisible flips whether the i-th history entry contributes to the
// count, without deleting it.
func (s *Session) ToggleVisible(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.history) {
		return fmt.Errorf("history index %d out of range", i)
	}
	s.history[i].Visible = !s.history[i].Visible
	return nil
}

// SelectSystem switches the counting system.
func (s *Session) SelectSystem(id string) error {
	sys, err := counting.Lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.system = sys
	return nil
}

// SetDecks changes the shoe size.
func (s *Session) SetDecks(n int) error {
	if n <= 0 || n > maxDecks {
		return fmt.Errorf("deck count %d out of range 1-%d", n, maxDecks)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numDecks = n
	return nil
}

// System returns the selected counting system.
func (s *Session) System() counting.System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system
}

// Decks returns the configured shoe size.
func (s *Session) Decks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.numDecks
}

// History returns a copy of the full card history, hidden entries included.
func (s *Session) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// visibleCardsLocked returns the cards contributing to the count.
func (s *Session) visibleCardsLocked() []deck.Card {
	cards := make([]deck.Card, 0, len(s.history))
	for _, e := range s.history {
		if e.Visible {
			cards = append(cards, e.Card)
		}
	}
	return cards
}

// CardsSeen returns the number of cards visible to the count.
func (s *Session) CardsSeen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visibleCardsLocked())
}

// RunningCount recomputes the running count from the visible history.
func (s *Session) RunningCount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return counting.RunningCount(s.visibleCardsLocked(), s.system)
}

// DecksRemaining estimates the undealt portion of the shoe.
func (s *Session) DecksRemaining() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return counting.DecksRemaining(s.numDecks, len(s.visibleCardsLocked()))
}

// TrueCount returns the count used for bet decisions: normalized for
// balanced systems, the raw running count for unbalanced ones.
func (s *Session) TrueCount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards := s.visibleCardsLocked()
	rc := counting.RunningCount(cards, s.system)
	return counting.TrueCount(rc, counting.DecksRemaining(s.numDecks, len(cards)), s.system)
}

// BetRecommendation maps the current true count to a betting band.
func (s *Session) BetRecommendation() counting.BetBand {
	s.mu.RLock()
	bands := s.bands
	s.mu.RUnlock()
	return counting.BetRecommendation(s.TrueCount(), bands)
}

// Hand returns the visible cards dealt to the given source.
func (s *Session) Hand(source Source) []deck.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cards []deck.Card
	for _, e := range s.history {
		if e.Visible && e.Source == source {
			cards = append(cards, e.Card)
		}
	}
	return cards
}

// HandValue evaluates the visible hand for the given source.
func (s *Session) HandValue(source Source) handeval.HandValue {
	return handeval.Value(s.Hand(source))
}

// Recommend returns the basic-strategy action for the player hand against
// the dealer up-card at the current true count.
func (s *Session) Recommend(canDouble, canSplit bool) (strategy.Action, error) {
	player := s.Hand(SourcePlayer)
	dealerCards := s.Hand(SourceDealer)
	if len(player) < 2 {
		return 0, errors.New("player hand needs at least two cards")
	}
	if len(dealerCards) == 0 {
		return 0, errors.New("dealer up-card is required")
	}
	return strategy.Recommend(player, dealerCards[0].Rank, s.TrueCount(), canDouble, canSplit), nil
}

// StartSimulation launches a Monte Carlo run for the given params. Only one
// simulation may be in flight per session; concurrent starts are rejected
// with ErrSimulationInFlight.
func (s *Session) StartSimulation(ctx context.Context, params simulation.Params) (<-chan simulation.Event, error) {
	s.mu.Lock()
	if s.simRunning {
		s.mu.Unlock()
		return nil, ErrSimulationInFlight
	}
	runner := simulation.NewRunner(s.logger)
	s.runner = runner
	s.simRunning = true
	s.mu.Unlock()

	events, err := runner.Start(ctx, params)
	if err != nil {
		s.clearSimulation()
		return nil, err
	}

	// Forward events so the in-flight flag clears exactly when the run's
	// terminal event has been delivered.
	out := make(chan simulation.Event, 16)
	go func() {
		// The flag clears before the channel closes, so a caller that has
		// drained the channel can always start the next run.
		defer close(out)
		defer s.clearSimulation()
		for ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				// The consumer is gone. Stop the run and drain it so the
				// flag still clears.
				runner.Cancel()
				for range events {
				}
				return
			}
		}
	}()
	return out, nil
}

func (s *Session) clearSimulation() {
	s.mu.Lock()
	s.runner = nil
	s.simRunning = false
	s.mu.Unlock()
}

// CancelSimulation requests cancellation of the in-flight run, if any.
func (s *Session) CancelSimulation() {
	s.mu.RLock()
	runner := s.runner
	s.mu.RUnlock()
	if runner != nil {
		runner.Cancel()
	}
}

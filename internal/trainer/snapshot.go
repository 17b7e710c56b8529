package trainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lox/blackjack-trainer/internal/counting"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/stats"
)

// SnapshotVersion is the current export document schema version.
const SnapshotVersion = 1

// Document is the versioned import/export snapshot of a session. It is
// plain serializable data: the engine neither reads nor writes any store,
// a persistence collaborator does.
type Document struct {
	Version    int       `json:"version"`
	Game       GameState `json:"game"`
	Settings   Settings  `json:"settings"`
	ExportedAt time.Time `json:"exportedAt"`
}

// GameState carries the card history and recorded hand outcomes.
type GameState struct {
	Cards    []CardEntry `json:"cards"`
	Outcomes []string    `json:"outcomes,omitempty"`
}

// CardEntry is one history entry in wire form.
type CardEntry struct {
	Rank    string `json:"rank"`
	Source  string `json:"source,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// Settings carries the session configuration.
type Settings struct {
	CountingSystem string `json:"countingSystem,omitempty"`
	NumDecks       int    `json:"numDecks,omitempty"`
}

// Export snapshots the session into a serializable document.
func (s *Session) Export() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := make([]CardEntry, len(s.history))
	for i, e := range s.history {
		visible := e.Visible
		cards[i] = CardEntry{
			Rank:    e.Card.Rank.String(),
			Source:  string(e.Source),
			Visible: &visible,
		}
	}
	outcomes := make([]string, len(s.outcomes))
	for i, o := range s.outcomes {
		outcomes[i] = o.String()
	}
	return Document{
		Version:    SnapshotVersion,
		Game:       GameState{Cards: cards, Outcomes: outcomes},
		Settings:   Settings{CountingSystem: s.system.ID, NumDecks: s.numDecks},
		ExportedAt: time.Now().UTC(),
	}
}

// ExportJSON marshals the session snapshot.
func (s *Session) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Export(), "", "  ")
}

// Import replaces session state from a document. Missing optional fields
// take defaults; an absent card list or any unparseable card fails the
// import with the session left unchanged.
func (s *Session) Import(doc Document) error {
	if doc.Version > SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}
	if doc.Game.Cards == nil {
		return errors.New("snapshot is missing the card list")
	}

	// Build the replacement state completely before touching the session.
	history := make([]Entry, 0, len(doc.Game.Cards))
	for i, ce := range doc.Game.Cards {
		rank, err := deck.ParseRank(ce.Rank)
		if err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
		source := Source(ce.Source)
		if ce.Source == "" {
			source = SourceTable
		} else if !validSource(source) {
			return fmt.Errorf("card %d: invalid source %q", i, ce.Source)
		}
		visible := true
		if ce.Visible != nil {
			visible = *ce.Visible
		}
		history = append(history, Entry{
			Card:    deck.NewCard(rank, deck.Spades),
			Source:  source,
			Visible: visible,
		})
	}

	outcomes := make([]stats.Outcome, 0, len(doc.Game.Outcomes))
	for i, name := range doc.Game.Outcomes {
		o, err := stats.ParseOutcome(name)
		if err != nil {
			return fmt.Errorf("outcome %d: %w", i, err)
		}
		outcomes = append(outcomes, o)
	}

	systemID := doc.Settings.CountingSystem
	if systemID == "" {
		systemID = counting.DefaultSystemID
	}
	sys, err := counting.Lookup(systemID)
	if err != nil {
		return err
	}

	numDecks := doc.Settings.NumDecks
	if numDecks == 0 {
		numDecks = DefaultDecks
	}
	if numDecks < 0 || numDecks > maxDecks {
		return fmt.Errorf("deck count %d out of range 1-%d", numDecks, maxDecks)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = history
	s.outcomes = outcomes
	s.system = sys
	s.numDecks = numDecks
	return nil
}

// ImportJSON parses and applies a snapshot document. Malformed JSON or
// type-mismatched fields fail the import; the session is untouched.
func (s *Session) ImportJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("malformed snapshot: %w", err)
	}
	return s.Import(doc)
}

package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := NewModel(trainer.NewSession(logger), logger)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestKeysAddCards(t *testing.T) {
	m := newTestModel(t)

	// Default source is the table.
	press(m, "2", "5", "k")
	history := m.session.History()
	require.Len(t, history, 3)
	for _, e := range history {
		assert.Equal(t, trainer.SourceTable, e.Source)
	}
	// Hi-Lo: +1 +1 -1
	assert.Equal(t, 1.0, m.session.RunningCount())

	// '0' enters a ten.
	press(m, "0")
	history = m.session.History()
	assert.Equal(t, "10", history[3].Card.Rank.String())
}

func TestSourceSelection(t *testing.T) {
	m := newTestModel(t)

	press(m, "p", "a", "6", "d", "9")
	assert.Len(t, m.session.Hand(trainer.SourcePlayer), 2)
	assert.Len(t, m.session.Hand(trainer.SourceDealer), 1)
	assert.Equal(t, 17, m.session.HandValue(trainer.SourcePlayer).Total)

	press(m, "t", "3")
	history := m.session.History()
	assert.Equal(t, trainer.SourceTable, history[len(history)-1].Source)
}

func TestUndoAndClear(t *testing.T) {
	m := newTestModel(t)

	press(m, "5", "6")
	assert.Equal(t, 2, m.session.CardsSeen())

	press(m, "u")
	assert.Equal(t, 1, m.session.CardsSeen())

	press(m, "backspace")
	assert.Equal(t, 0, m.session.CardsSeen())

	// Undo on an empty history reports an error status.
	press(m, "u")
	assert.True(t, m.statusIsErr)

	press(m, "5", "c")
	assert.Equal(t, 0, m.session.CardsSeen())
}

func TestToggleLastCard(t *testing.T) {
	m := newTestModel(t)

	press(m, "5", "x")
	history := m.session.History()
	require.Len(t, history, 1)
	assert.False(t, history[0].Visible)
	assert.Equal(t, 0, m.session.CardsSeen())

	press(m, "x")
	assert.Equal(t, 1, m.session.CardsSeen())
}

func TestCycleSystem(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "hiLo", m.session.System().ID)

	seen := map[string]bool{"hiLo": true}
	for i := 0; i < 5; i++ {
		press(m, "s")
		seen[m.session.System().ID] = true
	}
	assert.Len(t, seen, 6, "cycling visits every system")

	press(m, "s")
	assert.Equal(t, "hiLo", m.session.System().ID, "cycle wraps around")
}

func TestAdjustDecks(t *testing.T) {
	m := newTestModel(t)

	press(m, "+", "+")
	assert.Equal(t, 8, m.session.Decks())

	// Already at the maximum.
	press(m, "+")
	assert.Equal(t, 8, m.session.Decks())
	assert.True(t, m.statusIsErr)

	press(m, "-", "-")
	assert.Equal(t, 6, m.session.Decks())
}

func TestRecordOutcomes(t *testing.T) {
	m := newTestModel(t)

	press(m, "w", "w", "l", "o", "b")
	st := m.session.Stats()
	assert.Equal(t, 5, st.TotalHands)
	assert.Equal(t, 3, st.Wins)
	assert.Equal(t, 1, st.Blackjacks)
	assert.Equal(t, 1, st.Pushes)

	view := m.View()
	assert.Contains(t, view, "5 hands")

	press(m, "r")
	assert.Equal(t, 0, m.session.Stats().TotalHands)
}

func TestViewRendersState(t *testing.T) {
	m := newTestModel(t)
	press(m, "p", "a", "6", "d", "9")

	view := m.View()
	assert.Contains(t, view, "Hi-Lo")
	assert.Contains(t, view, "player:")
	assert.Contains(t, view, "dealer:")
	assert.Contains(t, view, "17 soft")
	assert.Contains(t, view, "hit")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

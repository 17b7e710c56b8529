package trainer

import (
	"encoding/json"
	"testing"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.SelectSystem("zenCount"))
	require.NoError(t, s.SetDecks(4))
	_, err := s.AddCard("A", SourcePlayer)
	require.NoError(t, err)
	_, err = s.AddCard("10", SourceDealer)
	require.NoError(t, err)
	_, err = s.AddCard("3", SourceTable)
	require.NoError(t, err)
	require.NoError(t, s.ToggleVisible(2))
	s.RecordOutcome(stats.Win)
	s.RecordOutcome(stats.Push)

	data, err := s.ExportJSON()
	require.NoError(t, err)

	restored := newTestSession(t)
	require.NoError(t, restored.ImportJSON(data))

	assert.Equal(t, "zenCount", restored.System().ID)
	assert.Equal(t, 4, restored.Decks())

	history := restored.History()
	require.Len(t, history, 3)
	assert.Equal(t, deck.Ace, history[0].Card.Rank)
	assert.Equal(t, SourcePlayer, history[0].Source)
	assert.Equal(t, SourceDealer, history[1].Source)
	assert.False(t, history[2].Visible, "hidden entries survive the round trip")

	assert.Equal(t, s.RunningCount(), restored.RunningCount())
	assert.Equal(t, s.TrueCount(), restored.TrueCount())
	assert.Equal(t, []stats.Outcome{stats.Win, stats.Push}, restored.Outcomes())
}

func TestExportDocumentShape(t *testing.T) {
	s := newTestSession(t)
	_, err := s.AddCard("K", SourceTable)
	require.NoError(t, err)

	doc := s.Export()
	assert.Equal(t, SnapshotVersion, doc.Version)
	assert.False(t, doc.ExportedAt.IsZero())
	require.Len(t, doc.Game.Cards, 1)
	assert.Equal(t, "K", doc.Game.Cards[0].Rank)
	assert.Equal(t, "table", doc.Game.Cards[0].Source)
}

func TestImportDefaults(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.ImportJSON([]byte(`{"version":1,"game":{"cards":[{"rank":"7"}]}}`)))

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, SourceTable, history[0].Source, "source defaults to table")
	assert.True(t, history[0].Visible, "visibility defaults to true")
	assert.Equal(t, "hiLo", s.System().ID)
	assert.Equal(t, DefaultDecks, s.Decks())
}

func TestImportFailureLeavesSessionUnchanged(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "future version", data: `{"version":2,"game":{"cards":[]}}`},
		{name: "missing card list", data: `{"version":1,"game":{}}`},
		{name: "bad rank", data: `{"version":1,"game":{"cards":[{"rank":"Z"}]}}`},
		{name: "bad source", data: `{"version":1,"game":{"cards":[{"rank":"7","source":"pit"}]}}`},
		{name: "unknown system", data: `{"version":1,"game":{"cards":[]},"settings":{"countingSystem":"psychic"}}`},
		{name: "bad deck count", data: `{"version":1,"game":{"cards":[]},"settings":{"numDecks":12}}`},
		{name: "bad outcome", data: `{"version":1,"game":{"cards":[],"outcomes":["forfeit"]}}`},
		{name: "malformed json", data: `{"version":`},
		{name: "type mismatch", data: `{"version":1,"game":{"cards":"none"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			_, err := s.AddCard("5", SourcePlayer)
			require.NoError(t, err)

			require.Error(t, s.ImportJSON([]byte(tt.data)))

			// Prior state intact.
			assert.Equal(t, 1, s.CardsSeen())
			assert.Equal(t, "hiLo", s.System().ID)
			assert.Equal(t, DefaultDecks, s.Decks())
		})
	}
}

func TestImportEmptyCardList(t *testing.T) {
	s := newTestSession(t)
	_, err := s.AddCard("5", SourcePlayer)
	require.NoError(t, err)

	// An explicitly empty list clears the history.
	require.NoError(t, s.ImportJSON([]byte(`{"version":1,"game":{"cards":[]}}`)))
	assert.Equal(t, 0, s.CardsSeen())
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	s := newTestSession(t)
	data, err := s.ExportJSON()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"version", "game", "settings", "exportedAt"} {
		assert.Contains(t, raw, key)
	}
}

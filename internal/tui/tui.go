// Package tui is the interactive counting trainer: cards are entered with
// single keystrokes and the count, bet band and play recommendation update
// live.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/counting"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/handeval"
	"github.com/lox/blackjack-trainer/internal/stats"
	"github.com/lox/blackjack-trainer/internal/trainer"
)

// Model is the Bubble Tea model for the trainer.
type Model struct {
	session *trainer.Session
	logger  *log.Logger

	history viewport.Model

	// source applies to the next card entered.
	source trainer.Source

	status      string
	statusIsErr bool

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates a trainer model around an existing session.
func NewModel(session *trainer.Session, logger *log.Logger) *Model {
	vp := viewport.New(40, 10)
	return &Model{
		session: session,
		logger:  logger.WithPrefix("tui"),
		history: vp,
		source:  trainer.SourceTable,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.Width = msg.Width - 4
		m.history.Height = max(4, msg.Height-16)
		m.initialized = true
		m.refreshHistory()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "2", "3", "4", "5", "6", "7", "8", "9":
		m.addCard(key)
	case "0":
		m.addCard("10")
	case "j", "q", "k", "a":
		m.addCard(strings.ToUpper(key))

	case "p":
		m.source = trainer.SourcePlayer
		m.setStatus("next card goes to the player", false)
	case "d":
		m.source = trainer.SourceDealer
		m.setStatus("next card goes to the dealer", false)
	case "t":
		m.source = trainer.SourceTable
		m.setStatus("next card goes to the table", false)

	case "u", "backspace":
		if entry, ok := m.session.RemoveLast(); ok {
			m.setStatus(fmt.Sprintf("removed %s", entry.Card.Rank), false)
		} else {
			m.setStatus("nothing to remove", true)
		}
		m.refreshHistory()

	case "x":
		// Soft-delete: hide the most recent entry from the count.
		if n := len(m.session.History()); n > 0 {
			_ = m.session.ToggleVisible(n - 1)
			m.setStatus("toggled last card", false)
			m.refreshHistory()
		}

	case "c":
		m.session.Clear()
		m.setStatus("cleared", false)
		m.refreshHistory()

	case "w":
		m.recordOutcome(stats.Win)
	case "l":
		m.recordOutcome(stats.Lose)
	case "b":
		m.recordOutcome(stats.Blackjack)
	case "o":
		m.recordOutcome(stats.Push)
	case "r":
		m.session.ResetStats()
		m.setStatus("stats reset", false)

	case "s":
		m.cycleSystem()

	case "+", "=":
		m.adjustDecks(1)
	case "-":
		m.adjustDecks(-1)
	}
	return m, nil
}

func (m *Model) addCard(rank string) {
	card, err := m.session.AddCard(rank, m.source)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("%s to %s", card.Rank, m.source), false)
	m.refreshHistory()
}

func (m *Model) recordOutcome(o stats.Outcome) {
	m.session.RecordOutcome(o)
	m.setStatus(fmt.Sprintf("recorded %s", o), false)
}

func (m *Model) cycleSystem() {
	systems := counting.Systems()
	current := m.session.System().ID
	for i, sys := range systems {
		if sys.ID == current {
			next := systems[(i+1)%len(systems)]
			_ = m.session.SelectSystem(next.ID)
			m.setStatus(fmt.Sprintf("counting with %s", next.Name), false)
			return
		}
	}
}

func (m *Model) adjustDecks(delta int) {
	if err := m.session.SetDecks(m.session.Decks() + delta); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("%d decks", m.session.Decks()), false)
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusIsErr = isErr
}

func (m *Model) refreshHistory() {
	entries := m.session.History()
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		line := fmt.Sprintf("%3d  %-2s %s", i+1, e.Card.Rank, e.Source)
		if !e.Visible {
			line = HiddenCardStyle.Render(line + "  (hidden)")
		}
		lines = append(lines, line)
	}
	m.history.SetContent(strings.Join(lines, "\n"))
	m.history.GotoBottom()
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	sys := m.session.System()
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Card Counter: %s", sys.Name)))
	b.WriteString("\n\n")

	rc := m.session.RunningCount()
	tc := m.session.TrueCount()
	countStyle := CountStyle
	if rc < 0 {
		countStyle = NegativeCountStyle
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %.1f   %s %d\n",
		LabelStyle.Render("running:"), countStyle.Render(fmt.Sprintf("%+.1f", rc)),
		LabelStyle.Render("true:"), countStyle.Render(fmt.Sprintf("%+.1f", tc)),
		LabelStyle.Render("decks left:"), m.session.DecksRemaining(),
		LabelStyle.Render("cards seen:"), m.session.CardsSeen()))

	bet := m.session.BetRecommendation()
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("bet:"),
		BetStyle.Render(fmt.Sprintf("%s (%g-%g units)", bet.Label, bet.MinUnits, bet.MaxUnits))))

	if st := m.session.Stats(); st.TotalHands > 0 {
		b.WriteString(fmt.Sprintf("%s %d hands  %dW/%dL/%dP  %.1f%% win  %+.1f units\n",
			LabelStyle.Render("session:"), st.TotalHands, st.Wins, st.Losses, st.Pushes, st.WinRate, st.NetUnits))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHands())
	b.WriteString("\n")
	b.WriteString(m.history.View())
	b.WriteString("\n")

	if m.status != "" {
		if m.statusIsErr {
			b.WriteString(ErrorStyle.Render(m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("2-9/0/j/q/k/a card · p/d/t source · u undo · x hide · c clear · w/l/b/o outcome · r reset stats · s system · +/- decks · esc quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *Model) renderHands() string {
	player := m.session.Hand(trainer.SourcePlayer)
	dealerCards := m.session.Hand(trainer.SourceDealer)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("player:"), renderHand(player)))
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("dealer:"), renderHand(dealerCards)))

	if action, err := m.session.Recommend(len(player) == 2, handeval.IsPair(player)); err == nil {
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("play:"), ActionStyle.Render(action.String())))
	}
	return b.String()
}

func renderHand(cards []deck.Card) string {
	if len(cards) == 0 {
		return LabelStyle.Render("(none)")
	}
	hv := handeval.Value(cards)
	ranks := make([]string, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank.String()
	}
	soft := ""
	if hv.Soft {
		soft = " soft"
	}
	return fmt.Sprintf("%s (%d%s)", strings.Join(ranks, " "), hv.Total, soft)
}

// Run starts the trainer UI and blocks until it exits.
func Run(session *trainer.Session, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(session, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package server

import (
	"fmt"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/handeval"
	"github.com/lox/blackjack-trainer/internal/trainer"
)

// stateData snapshots a session into its wire form.
func stateData(s *trainer.Session) StateData {
	history := s.History()
	cards := make([]CardInfo, len(history))
	for i, e := range history {
		cards[i] = CardInfo{
			Rank:    e.Card.Rank.String(),
			Source:  string(e.Source),
			Visible: e.Visible,
		}
	}

	bet := s.BetRecommendation()
	st := s.Stats()

	return StateData{
		System:         s.System().ID,
		Decks:          s.Decks(),
		CardsSeen:      s.CardsSeen(),
		RunningCount:   s.RunningCount(),
		TrueCount:      s.TrueCount(),
		DecksRemaining: s.DecksRemaining(),
		Bet: BetInfo{
			Label:    bet.Label,
			MinUnits: bet.MinUnits,
			MaxUnits: bet.MaxUnits,
		},
		Player:  handInfo(s.Hand(trainer.SourcePlayer)),
		Dealer:  handInfo(s.Hand(trainer.SourceDealer)),
		History: cards,
		Stats: StatsInfo{
			TotalHands:        st.TotalHands,
			Wins:              st.Wins,
			Losses:            st.Losses,
			Pushes:            st.Pushes,
			Blackjacks:        st.Blackjacks,
			WinRate:           st.WinRate,
			NetUnits:          st.NetUnits,
			LongestWinStreak:  st.LongestWinStreak,
			LongestLossStreak: st.LongestLossStreak,
		},
	}
}

func handInfo(cards []deck.Card) HandInfo {
	hv := handeval.Value(cards)
	ranks := make([]string, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank.String()
	}
	return HandInfo{Cards: ranks, Total: hv.Total, Soft: hv.Soft}
}

func parseCard(rank string) (deck.Card, error) {
	r, err := deck.ParseRank(rank)
	if err != nil {
		return deck.Card{}, err
	}
	return deck.NewCard(r, deck.Spades), nil
}

func parseCardList(ranks []string) ([]deck.Card, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("player card list is required")
	}
	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		card, err := parseCard(r)
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	return cards, nil
}

package stats

import "testing"

func TestReduceEmpty(t *testing.T) {
	s := Reduce(nil)
	if s.TotalHands != 0 || s.WinRate != 0 || s.NetUnits != 0 {
		t.Errorf("empty input should reduce to zeros, got %+v", s)
	}
}

func TestReduceCounts(t *testing.T) {
	s := Reduce([]Outcome{Win, Lose, Push, Blackjack, Lose})

	if s.TotalHands != 5 {
		t.Errorf("TotalHands = %d, want 5", s.TotalHands)
	}
	if s.Wins != 2 {
		t.Errorf("Wins = %d, want 2 (blackjack counts as a win)", s.Wins)
	}
	if s.Losses != 2 {
		t.Errorf("Losses = %d, want 2", s.Losses)
	}
	if s.Pushes != 1 {
		t.Errorf("Pushes = %d, want 1", s.Pushes)
	}
	if s.Blackjacks != 1 {
		t.Errorf("Blackjacks = %d, want 1", s.Blackjacks)
	}
	if s.WinRate != 40 {
		t.Errorf("WinRate = %g, want 40", s.WinRate)
	}
	if s.LossRate != 40 {
		t.Errorf("LossRate = %g, want 40", s.LossRate)
	}
	if s.PushRate != 20 {
		t.Errorf("PushRate = %g, want 20", s.PushRate)
	}
}

func TestReduceNetUnits(t *testing.T) {
	// +1 +1.5 -1 push = +1.5
	s := Reduce([]Outcome{Win, Blackjack, Lose, Push})
	if s.NetUnits != 1.5 {
		t.Errorf("NetUnits = %g, want 1.5", s.NetUnits)
	}
}

func TestReduceStreaks(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []Outcome
		winStreak  int
		lossStreak int
	}{
		{
			name:      "blackjack extends a win streak",
			outcomes:  []Outcome{Win, Blackjack, Win},
			winStreak: 3,
		},
		{
			name:       "push breaks both streaks",
			outcomes:   []Outcome{Win, Win, Push, Win, Lose, Lose, Push, Lose},
			winStreak:  2,
			lossStreak: 2,
		},
		{
			name:       "alternating never streaks past one",
			outcomes:   []Outcome{Win, Lose, Win, Lose},
			winStreak:  1,
			lossStreak: 1,
		},
		{
			name:       "all losses",
			outcomes:   []Outcome{Lose, Lose, Lose},
			lossStreak: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(tt.outcomes)
			if s.LongestWinStreak != tt.winStreak {
				t.Errorf("LongestWinStreak = %d, want %d", s.LongestWinStreak, tt.winStreak)
			}
			if s.LongestLossStreak != tt.lossStreak {
				t.Errorf("LongestLossStreak = %d, want %d", s.LongestLossStreak, tt.lossStreak)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if Win.String() != "win" || Blackjack.String() != "blackjack" {
		t.Error("unexpected outcome strings")
	}
}

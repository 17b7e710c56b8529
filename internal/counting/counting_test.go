package counting

import (
	"math"
	"testing"

	"github.com/lox/blackjack-trainer/internal/deck"
)

func mustLookup(t *testing.T, id string) System {
	t.Helper()
	sys, err := Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestLookup(t *testing.T) {
	for _, id := range []string{"hiLo", "ko", "hiOptI", "hiOptII", "omegaII", "zenCount"} {
		sys, err := Lookup(id)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", id, err)
		}
		if sys.ID != id {
			t.Errorf("Lookup(%q) returned id %q", id, sys.ID)
		}
		if len(sys.Values) != 13 {
			t.Errorf("system %q has %d rank values, want 13", id, len(sys.Values))
		}
	}
	if _, err := Lookup("wizard"); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestBalancedSystemsSumToZero(t *testing.T) {
	for _, sys := range Systems() {
		sum := sys.FullDeckSum()
		if sys.Balanced && sum != 0 {
			t.Errorf("balanced system %q sums to %g over a full deck", sys.ID, sum)
		}
		if !sys.Balanced && sum == 0 {
			t.Errorf("unbalanced system %q sums to zero over a full deck", sys.ID)
		}
	}
}

func TestHiOptIIDiffersFromOmegaII(t *testing.T) {
	hiOptII := mustLookup(t, "hiOptII")
	omegaII := mustLookup(t, "omegaII")

	// Hi-Opt II counts sixes +1 and nines 0; Omega II counts them +2 and -1.
	if got := hiOptII.Value(deck.Six); got != 1 {
		t.Errorf("Hi-Opt II six = %g, want 1", got)
	}
	if got := hiOptII.Value(deck.Nine); got != 0 {
		t.Errorf("Hi-Opt II nine = %g, want 0", got)
	}
	if got := omegaII.Value(deck.Six); got != 2 {
		t.Errorf("Omega II six = %g, want 2", got)
	}
	if got := omegaII.Value(deck.Nine); got != -1 {
		t.Errorf("Omega II nine = %g, want -1", got)
	}
}

func TestRunningCount(t *testing.T) {
	hiLo := mustLookup(t, "hiLo")
	cards, err := deck.ParseRanks("2,3,4,5,6")
	if err != nil {
		t.Fatal(err)
	}
	if rc := RunningCount(cards, hiLo); rc != 5 {
		t.Errorf("five low cards should count +5 in Hi-Lo, got %g", rc)
	}

	mixed, err := deck.ParseRanks("2,10,7,A,5")
	if err != nil {
		t.Fatal(err)
	}
	if rc := RunningCount(mixed, hiLo); rc != 0 {
		t.Errorf("expected running count 0, got %g", rc)
	}

	if rc := RunningCount(nil, hiLo); rc != 0 {
		t.Errorf("empty hand should count 0, got %g", rc)
	}
}

func TestRunningCountIsLinear(t *testing.T) {
	hiOptII := mustLookup(t, "hiOptII")
	cards, err := deck.ParseRanks("4,5,9,K,A")
	if err != nil {
		t.Fatal(err)
	}
	once := RunningCount(cards, hiOptII)
	twice := RunningCount(append(append([]deck.Card{}, cards...), cards...), hiOptII)
	if twice != 2*once {
		t.Errorf("doubling the cards should double the count: %g vs %g", once, twice)
	}
}

func TestDecksRemaining(t *testing.T) {
	tests := []struct {
		decks    int
		seen     int
		expected float64
	}{
		{6, 0, 6},
		{6, 52, 5},
		{6, 26, 5.5},
		{1, 52, 0.1},
		{1, 300, 0.1},
	}
	for _, tt := range tests {
		if got := DecksRemaining(tt.decks, tt.seen); got != tt.expected {
			t.Errorf("DecksRemaining(%d, %d) = %g, want %g", tt.decks, tt.seen, got, tt.expected)
		}
	}
}

func TestTrueCount(t *testing.T) {
	hiLo := mustLookup(t, "hiLo")
	ko := mustLookup(t, "ko")

	tests := []struct {
		name     string
		rc       float64
		decks    float64
		sys      System
		expected float64
	}{
		{name: "simple division", rc: 6, decks: 3, sys: hiLo, expected: 2},
		{name: "rounded to one decimal", rc: 5, decks: 3, sys: hiLo, expected: 1.7},
		{name: "negative rounds away from zero", rc: -5, decks: 3, sys: hiLo, expected: -1.7},
		{name: "half rounds away from zero", rc: 1, decks: 4, sys: hiLo, expected: 0.3},
		{name: "unbalanced passes through", rc: 7, decks: 2, sys: ko, expected: 7},
		{name: "zero decks passes through", rc: 4, decks: 0, sys: hiLo, expected: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrueCount(tt.rc, tt.decks, tt.sys); got != tt.expected {
				t.Errorf("TrueCount(%g, %g) = %g, want %g", tt.rc, tt.decks, got, tt.expected)
			}
		})
	}
}

func TestBetRecommendation(t *testing.T) {
	tests := []struct {
		trueCount float64
		label     string
	}{
		{6, "max"},
		{5, "max"},
		{4.9, "high"},
		{3, "high"},
		{1, "moderate"},
		{0.5, "minimum"},
		{0, "minimum"},
		{-0.1, "minimum-or-leave"},
		{-10, "minimum-or-leave"},
	}
	for _, tt := range tests {
		band := BetRecommendation(tt.trueCount, DefaultBetBands)
		if band.Label != tt.label {
			t.Errorf("BetRecommendation(%g) = %q, want %q", tt.trueCount, band.Label, tt.label)
		}
	}
}

func TestBetRecommendationCoversAllCounts(t *testing.T) {
	// Every representable count lands in exactly one band, including the
	// catch-all for arbitrarily negative counts.
	for tc := -30.0; tc <= 30.0; tc += 0.1 {
		band := BetRecommendation(tc, DefaultBetBands)
		if band.Label == "" {
			t.Fatalf("no band matched true count %g", tc)
		}
	}
	band := BetRecommendation(math.Inf(-1), DefaultBetBands)
	if band.Label != "minimum-or-leave" {
		t.Errorf("catch-all band should cover -inf, got %q", band.Label)
	}
}

func TestSystemsSorted(t *testing.T) {
	systems := Systems()
	if len(systems) != 6 {
		t.Fatalf("expected 6 systems, got %d", len(systems))
	}
	for i := 1; i < len(systems); i++ {
		if systems[i-1].ID >= systems[i].ID {
			t.Errorf("systems out of order: %q before %q", systems[i-1].ID, systems[i].ID)
		}
	}
}

package simulation

import (
	"context"
	"testing"

	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

func TestCompareActions(t *testing.T) {
	params := testParams()
	params.NumSimulations = 300

	cmp, err := CompareActions(context.Background(), testLogger(), params)
	if err != nil {
		t.Fatal(err)
	}

	for _, action := range []strategy.Action{strategy.Stand, strategy.Hit, strategy.Double} {
		res, ok := cmp[action]
		if !ok {
			t.Fatalf("missing result for %s", action)
		}
		if res.Completed != 300 {
			t.Errorf("%s completed %d samples, want 300", action, res.Completed)
		}
	}
	if _, ok := cmp[strategy.Split]; ok {
		t.Error("10-6 is not a pair; split should not be simulated")
	}
}

func TestCompareActionsIncludesSplitForPairs(t *testing.T) {
	params := testParams()
	params.PlayerCards = cards(deck.Eight, deck.Eight)
	params.NumSimulations = 200

	cmp, err := CompareActions(context.Background(), testLogger(), params)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmp[strategy.Split]; !ok {
		t.Error("8-8 should include a split run")
	}
	if len(cmp) != 4 {
		t.Errorf("expected 4 actions, got %d", len(cmp))
	}
}

func TestComparisonBest(t *testing.T) {
	cmp := Comparison{
		strategy.Stand:  {Counts: Counts{Completed: 100}, NetUnits: -20},
		strategy.Hit:    {Counts: Counts{Completed: 100}, NetUnits: 5},
		strategy.Double: {Counts: Counts{Completed: 100}, NetUnits: -10},
	}
	action, res := cmp.Best()
	if action != strategy.Hit {
		t.Errorf("best action = %s, want hit", action)
	}
	if res.NetUnits != 5 {
		t.Errorf("best result NetUnits = %g, want 5", res.NetUnits)
	}
}

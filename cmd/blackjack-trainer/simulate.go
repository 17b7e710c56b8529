package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/deck"
	"github.com/lox/blackjack-trainer/internal/simulation"
	"github.com/lox/blackjack-trainer/internal/strategy"
)

// SimulateCmd estimates outcome rates for a fixed decision.
type SimulateCmd struct {
	Player  string `kong:"required,help='Player cards as a comma-separated rank list, e.g. A,7'"`
	Dealer  string `kong:"required,help='Dealer upcard rank, e.g. 10'"`
	Action  string `kong:"default='stand',help='Action to simulate: hit, stand, double, split'"`
	Compare bool   `kong:"help='Simulate every legal action and rank them'"`
	Decks   int    `kong:"default='6',help='Number of decks in the shoe'"`
	Samples int    `kong:"default='10000',help='Number of simulated hands'"`
	Seed    int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	playerCards, err := deck.ParseRanks(c.Player)
	if err != nil {
		return fmt.Errorf("invalid player cards: %w", err)
	}
	dealerRank, err := deck.ParseRank(c.Dealer)
	if err != nil {
		return fmt.Errorf("invalid dealer upcard: %w", err)
	}

	params := simulation.Params{
		PlayerCards:    playerCards,
		DealerUpcard:   deck.NewCard(dealerRank, deck.Spades),
		NumDecks:       c.Decks,
		NumSimulations: c.Samples,
		Seed:           c.Seed,
	}

	if c.Compare {
		return c.runComparison(logger, params)
	}

	action, err := strategy.ParseAction(c.Action)
	if err != nil {
		return err
	}
	params.Action = action

	runner := simulation.NewRunner(logger)
	events, err := runner.Start(context.Background(), params)
	if err != nil {
		return err
	}

	for ev := range events {
		switch ev.Type {
		case simulation.EventProgress:
			logger.Debug("progress", "percent", fmt.Sprintf("%.0f%%", ev.Percent), "completed", ev.Partial.Completed)
		case simulation.EventResult:
			printResult(c.describe(action), *ev.Result)
		case simulation.EventCancelled:
			fmt.Println("simulation cancelled")
			printResult(c.describe(action), *ev.Result)
		case simulation.EventError:
			return ev.Err
		}
	}
	return nil
}

func (c *SimulateCmd) runComparison(logger *log.Logger, params simulation.Params) error {
	comparison, err := simulation.CompareActions(context.Background(), logger, params)
	if err != nil {
		return err
	}
	printComparison(comparison)
	return nil
}

func (c *SimulateCmd) describe(action strategy.Action) string {
	return fmt.Sprintf("%s vs %s: %s (%d decks, %d samples)",
		c.Player, c.Dealer, action, c.Decks, c.Samples)
}

func printResult(header string, r simulation.Result) {
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))
	fmt.Printf("  win       %6.2f%%  (%d)\n", r.WinRate, r.Wins)
	fmt.Printf("  lose      %6.2f%%  (%d)\n", r.LossRate, r.Losses)
	fmt.Printf("  push      %6.2f%%  (%d)\n", r.PushRate, r.Pushes)
	fmt.Printf("  blackjack %6.2f%%  (%d)\n", r.BlackjackRate, r.Blackjacks)
	fmt.Printf("  bust      %6.2f%%  (%d)\n", r.BustRate, r.Busts)
	fmt.Printf("  net units %+.1f over %d hands\n", r.NetUnits, r.TotalSimulations)
}

func printComparison(comparison simulation.Comparison) {
	actions := make([]strategy.Action, 0, len(comparison))
	for action := range comparison {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool {
		ri, rj := comparison[actions[i]], comparison[actions[j]]
		return ri.NetUnits/float64(max(ri.Completed, 1)) > rj.NetUnits/float64(max(rj.Completed, 1))
	})

	best, _ := comparison.Best()
	fmt.Printf("%-8s %8s %8s %8s %10s\n", "action", "win%", "lose%", "push%", "net units")
	for _, action := range actions {
		r := comparison[action]
		marker := " "
		if action == best {
			marker = "*"
		}
		fmt.Printf("%-8s %8.2f %8.2f %8.2f %+10.1f %s\n",
			action, r.WinRate, r.LossRate, r.PushRate, r.NetUnits, marker)
	}
}

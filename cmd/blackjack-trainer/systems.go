package main

import (
	"fmt"

	"github.com/lox/blackjack-trainer/internal/counting"
	"github.com/lox/blackjack-trainer/internal/deck"
)

// SystemsCmd prints the counting systems and their per-rank values.
type SystemsCmd struct{}

func (c *SystemsCmd) Run() error {
	fmt.Printf("%-10s %-12s %-10s", "id", "name", "balanced")
	for _, rank := range deck.Ranks {
		fmt.Printf(" %4s", rank)
	}
	fmt.Println()

	for _, sys := range counting.Systems() {
		fmt.Printf("%-10s %-12s %-10t", sys.ID, sys.Name, sys.Balanced)
		for _, rank := range deck.Ranks {
			fmt.Printf(" %4g", sys.Value(rank))
		}
		fmt.Println()
	}
	return nil
}

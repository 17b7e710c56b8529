package simulation

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-trainer/internal/handeval"
	"github.com/lox/blackjack-trainer/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// Comparison holds one completed run per candidate first action.
type Comparison map[strategy.Action]Result

// Best returns the action with the highest net units per hand.
func (c Comparison) Best() (strategy.Action, Result) {
	var bestAction strategy.Action
	var best Result
	first := true
	for _, action := range []strategy.Action{strategy.Stand, strategy.Hit, strategy.Double, strategy.Split} {
		res, ok := c[action]
		if !ok {
			continue
		}
		if first || perHand(res) > perHand(best) {
			bestAction, best, first = action, res, false
		}
	}
	return bestAction, best
}

func perHand(r Result) float64 {
	if r.Completed == 0 {
		return 0
	}
	return r.NetUnits / float64(r.Completed)
}

// CompareActions simulates every eligible first action for the starting
// hand in parallel and returns the per-action results. Each run owns its
// own runner, shoe and counters, so the runs share no mutable state. This
// is a batch evaluation tool; interactive sessions still run one
// simulation at a time.
func CompareActions(ctx context.Context, logger *log.Logger, params Params) (Comparison, error) {
	actions := []strategy.Action{strategy.Stand, strategy.Hit, strategy.Double}
	if handeval.IsPair(params.PlayerCards) {
		actions = append(actions, strategy.Split)
	}

	results := make([]Result, len(actions))
	g, gctx := errgroup.WithContext(ctx)

	for i, action := range actions {
		p := params
		p.Action = action
		// Deterministic but distinct seed per action.
		if p.Seed != 0 {
			p.Seed += int64(i)
		}
		g.Go(func() error {
			events, err := NewRunner(logger).Start(gctx, p)
			if err != nil {
				return err
			}
			for ev := range events {
				switch ev.Type {
				case EventError:
					return ev.Err
				case EventResult, EventCancelled:
					results[i] = *ev.Result
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := make(Comparison, len(actions))
	for i, action := range actions {
		cmp[action] = results[i]
	}
	return cmp, nil
}

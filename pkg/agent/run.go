package agent

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/sweeper/pkg/solver"
)

// Outcome is the way a session ended.
type Outcome int

const (
	// Completed means every bomb was marked and every other tile
	// probed.
	Completed Outcome = iota
	// Stalled means a turn made no progress, or the level reported
	// that nothing changed.
	Stalled
	// Cancelled means the context was done before the session ended.
	Cancelled
	// Failed means the session ended with a fatal error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Stalled:
		return "stalled"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Summary reports how a session went.
type Summary struct {
	Outcome Outcome
	Turns   int
	Marked  int
	Probed  int
}

// Run plays level until it is completed, stalls, or ctx is done. The
// context is checked between turns only, so a cancelled session never
// leaves a turn half applied. Errors other than cancellation are
// returned as is and are all fatal.
func Run(ctx context.Context, level Level, oracle solver.Oracle, options ...Option) (Summary, error) {
	a, err := New(level, oracle, options...)
	if err != nil {
		return Summary{Outcome: Failed}, err
	}
	return a.Run(ctx, level)
}

// Run drives turns of a against level, which must be the board a was
// created for.
func (a *Agent) Run(ctx context.Context, level Level) (Summary, error) {
	var summary Summary
	for {
		if ctx.Err() != nil {
			summary.Outcome = Cancelled
			return summary, ctx.Err()
		}

		result, err := a.Turn(ctx)
		summary.Turns++
		summary.Marked += len(result.Marked)
		summary.Probed += len(result.Probed)
		if err != nil {
			summary.Outcome = Failed
			if !IsFatal(err) {
				summary.Outcome = Cancelled
			}
			return summary, err
		}
		if !result.Progress() {
			summary.Outcome = Stalled
			break
		}

		changed, err := level.Update()
		if err != nil {
			summary.Outcome = Failed
			return summary, err
		}
		if result.Completed {
			summary.Outcome = Completed
			break
		}
		if !changed {
			summary.Outcome = Stalled
			break
		}
	}

	a.log.WithFields(logrus.Fields{
		"outcome": summary.Outcome,
		"turns":   summary.Turns,
		"marked":  summary.Marked,
		"probed":  summary.Probed,
	}).Info("session finished")
	return summary, nil
}

package agent

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/operator-framework/sweeper/pkg/grid"
	"github.com/operator-framework/sweeper/pkg/solver"
)

// BoardContradiction is returned when an observation cannot hold on
// the current board.
type BoardContradiction struct {
	Observation grid.Observation
	Reason      string
}

func (e *BoardContradiction) Error() string {
	return fmt.Sprintf("contradiction at %s: %s", e.Observation, e.Reason)
}

// IsFatal reports whether err ends a session. Context cancellation is
// the only error that is not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// IsContradiction reports whether err was caused by board data that
// admits no bomb layout.
func IsContradiction(err error) bool {
	var contradiction *BoardContradiction
	var inconsistent *solver.InconsistentKnowledge
	var invalid *solver.InvalidConstraint
	return errors.As(err, &contradiction) || errors.As(err, &inconsistent) || errors.As(err, &invalid)
}

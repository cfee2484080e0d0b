package board

import (
	"fmt"

	"github.com/operator-framework/sweeper/pkg/grid"
)

// ExplodedError is returned when a bomb is probed.
type ExplodedError struct {
	Position grid.Position
}

func (e *ExplodedError) Error() string {
	return fmt.Sprintf("position %s has a bomb", e.Position)
}

// InvalidLayout is returned for boards that cannot be built.
type InvalidLayout struct {
	Reason string
}

func (e *InvalidLayout) Error() string {
	return "invalid layout: " + e.Reason
}

// ProtocolError is returned when the judge sends something that does
// not follow the exchange format.
type ProtocolError struct {
	Token  string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Token == "" {
		return "judge protocol: " + e.Reason
	}
	return fmt.Sprintf("judge protocol: %s: %q", e.Reason, e.Token)
}

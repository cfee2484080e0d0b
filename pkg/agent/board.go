package agent

import "github.com/operator-framework/sweeper/pkg/grid"

// Board is the agent's view of a puzzle. The agent only ever changes
// a board through Mark and Probe.
type Board interface {
	// Size returns the side length of the square board.
	Size() int
	// OpenCells drains the observations made since the previous
	// call. Each observation is returned exactly once.
	OpenCells() []grid.Observation
	// UnknownAdjacent returns the undiscovered neighbors of p,
	// including marked ones.
	UnknownAdjacent(p grid.Position) []grid.Position
	// Unknowns returns every undiscovered position.
	Unknowns() []grid.Position
	Mark(p grid.Position) error
	Probe(p grid.Position) error
	// BombCount returns the total number of bombs, if it is known.
	BombCount() (int, bool)
	IsMarked(p grid.Position) bool
}

// Level is a Board that advances between turns. Update applies or
// publishes the moves issued since the previous call and reports
// whether anything changed.
type Level interface {
	Board
	Update() (bool, error)
}

package grid

import (
	"fmt"
	"sort"
)

// Position identifies a single tile of a square board. Positions are
// plain values and are safe to use as map keys.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Add returns the position offset by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// In reports whether p lies on a board with the given side length.
func (p Position) In(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Less orders positions row-major.
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Directions lists the offsets of the eight tiles surrounding a
// position.
var Directions = []Position{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the on-board positions adjacent to p, in the
// order of Directions.
func Neighbors(p Position, size int) []Position {
	ns := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		if n := p.Add(d); n.In(size) {
			ns = append(ns, n)
		}
	}
	return ns
}

// Sort orders ps row-major in place and returns it.
func Sort(ps []Position) []Position {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].Less(ps[j])
	})
	return ps
}

// Observation reports that the opened tile at Position has exactly
// Count bombs among its neighbors.
type Observation struct {
	Position
	Count int
}

func (o Observation) String() string {
	return fmt.Sprintf("%s=%d", o.Position, o.Count)
}

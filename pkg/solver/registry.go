package solver

import (
	"fmt"

	"github.com/operator-framework/sweeper/pkg/grid"
)

// Allocator issues fresh variables. Every call returns a Variable
// strictly greater than any returned before.
type Allocator interface {
	NewVariable() Variable
}

// Registry performs translation between board positions and the
// variables that appear in the formula. The mapping is fixed at
// construction and covers the whole board.
type Registry struct {
	size      int
	variables []Variable
	positions map[Variable]grid.Position
}

// NewRegistry allocates one variable per tile of a size×size board,
// row-major.
func NewRegistry(size int, alloc Allocator) *Registry {
	r := Registry{
		size:      size,
		variables: make([]Variable, size*size),
		positions: make(map[Variable]grid.Position, size*size),
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			v := alloc.NewVariable()
			r.variables[row*size+col] = v
			r.positions[v] = grid.Position{Row: row, Col: col}
		}
	}
	return &r
}

// VariableOf returns the variable standing for the tile at p. p must
// lie on the board.
func (r *Registry) VariableOf(p grid.Position) Variable {
	if !p.In(r.size) {
		panic(fmt.Sprintf("position %s outside of %dx%d board", p, r.size, r.size))
	}
	return r.variables[p.Row*r.size+p.Col]
}

// VariablesOf maps each position in ps through VariableOf.
func (r *Registry) VariablesOf(ps []grid.Position) []Variable {
	vs := make([]Variable, len(ps))
	for i, p := range ps {
		vs[i] = r.VariableOf(p)
	}
	return vs
}

// PositionOf returns the tile that v stands for. v must have been
// allocated by this Registry.
func (r *Registry) PositionOf(v Variable) grid.Position {
	p, ok := r.positions[v]
	if !ok {
		panic(fmt.Sprintf("variable %d is not mapped to a position", v))
	}
	return p
}

// Size returns the side length of the board.
func (r *Registry) Size() int {
	return r.size
}

// Len returns the number of mapped variables.
func (r *Registry) Len() int {
	return len(r.variables)
}

// Positions returns every mapped position, row-major.
func (r *Registry) Positions() []grid.Position {
	ps := make([]grid.Position, 0, len(r.variables))
	for row := 0; row < r.size; row++ {
		for col := 0; col < r.size; col++ {
			ps = append(ps, grid.Position{Row: row, Col: col})
		}
	}
	return ps
}

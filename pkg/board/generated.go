package board

import (
	"fmt"
	"math/rand"

	"k8s.io/utils/ptr"

	"github.com/operator-framework/sweeper/pkg/grid"
)

const bomb = -1

// Generated is a board whose bomb layout is known to the process.
// Probing an empty tile reveals the whole connected empty region
// around it, like the classic game.
type Generated struct {
	size       int
	bombs      *int
	counts     [][]int
	discovered [][]bool
	marked     map[grid.Position]bool
	open       []grid.Observation
	updated    bool
}

// NewGenerated places bombs uniformly at random on a size×size board
// and probes one random tile that is guaranteed to be safe.
func NewGenerated(size, bombs int, rng *rand.Rand) (*Generated, error) {
	if size < 1 {
		return nil, &InvalidLayout{Reason: fmt.Sprintf("size must be positive, got %d", size)}
	}
	if bombs <= 0 {
		return nil, &InvalidLayout{Reason: "bomb count must be 1 or higher"}
	}
	if bombs >= size*size {
		return nil, &InvalidLayout{Reason: "bomb count higher than or equal to tile count"}
	}

	start := grid.Position{Row: rng.Intn(size), Col: rng.Intn(size)}
	l := Layout{Size: size, Start: &start}
	placed := map[grid.Position]bool{start: true}
	for len(l.Mines) < bombs {
		p := grid.Position{Row: rng.Intn(size), Col: rng.Intn(size)}
		if placed[p] {
			continue
		}
		placed[p] = true
		l.Mines = append(l.Mines, p)
	}
	return NewFromLayout(l)
}

// NewFromLayout builds the board l describes and probes its start
// tile.
func NewFromLayout(l Layout) (*Generated, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	g := &Generated{
		size:       l.Size,
		counts:     make([][]int, l.Size),
		discovered: make([][]bool, l.Size),
		marked:     make(map[grid.Position]bool),
	}
	if !l.HideBombCount {
		g.bombs = ptr.To(len(l.Mines))
	}
	for i := range g.counts {
		g.counts[i] = make([]int, l.Size)
		g.discovered[i] = make([]bool, l.Size)
	}
	for _, m := range l.Mines {
		g.counts[m.Row][m.Col] = bomb
	}
	for _, m := range l.Mines {
		for _, n := range grid.Neighbors(m, l.Size) {
			if g.counts[n.Row][n.Col] != bomb {
				g.counts[n.Row][n.Col]++
			}
		}
	}

	start := l.Start
	if start == nil {
		start = g.firstSafe()
	}
	if err := g.Probe(*start); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generated) firstSafe() *grid.Position {
	var safe *grid.Position
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			switch g.counts[row][col] {
			case 0:
				return &grid.Position{Row: row, Col: col}
			case bomb:
			default:
				if safe == nil {
					safe = &grid.Position{Row: row, Col: col}
				}
			}
		}
	}
	return safe
}

func (g *Generated) Size() int {
	return g.size
}

func (g *Generated) OpenCells() []grid.Observation {
	open := g.open
	g.open = nil
	return open
}

func (g *Generated) UnknownAdjacent(p grid.Position) []grid.Position {
	var unknown []grid.Position
	for _, n := range grid.Neighbors(p, g.size) {
		if !g.discovered[n.Row][n.Col] {
			unknown = append(unknown, n)
		}
	}
	return unknown
}

func (g *Generated) Unknowns() []grid.Position {
	var unknown []grid.Position
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			if !g.discovered[row][col] {
				unknown = append(unknown, grid.Position{Row: row, Col: col})
			}
		}
	}
	return unknown
}

func (g *Generated) Mark(p grid.Position) error {
	if !p.In(g.size) {
		return &InvalidLayout{Reason: fmt.Sprintf("cannot mark %s, it is off the board", p)}
	}
	g.marked[p] = true
	g.updated = true
	return nil
}

// Probe opens p. Probing a bomb returns *ExplodedError.
func (g *Generated) Probe(p grid.Position) error {
	if !p.In(g.size) {
		return &InvalidLayout{Reason: fmt.Sprintf("cannot probe %s, it is off the board", p)}
	}
	g.updated = true
	if g.counts[p.Row][p.Col] == bomb {
		return &ExplodedError{Position: p}
	}
	g.reveal(p)
	return nil
}

// reveal opens p and, while the opened tiles have no adjacent bombs,
// their neighbors.
func (g *Generated) reveal(p grid.Position) {
	stack := []grid.Position{p}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.discovered[p.Row][p.Col] || g.counts[p.Row][p.Col] == bomb {
			continue
		}
		g.discovered[p.Row][p.Col] = true
		count := g.counts[p.Row][p.Col]
		g.open = append(g.open, grid.Observation{Position: p, Count: count})
		if count == 0 {
			stack = append(stack, grid.Neighbors(p, g.size)...)
		}
	}
}

func (g *Generated) BombCount() (int, bool) {
	return ptr.Deref(g.bombs, 0), g.bombs != nil
}

func (g *Generated) IsMarked(p grid.Position) bool {
	return g.marked[p]
}

// Update reports whether any tile was marked or probed since the
// previous call.
func (g *Generated) Update() (bool, error) {
	updated := g.updated
	g.updated = false
	return updated, nil
}

// Solved reports whether every safe tile has been opened.
func (g *Generated) Solved() bool {
	for row := 0; row < g.size; row++ {
		for col := 0; col < g.size; col++ {
			if g.counts[row][col] != bomb && !g.discovered[row][col] {
				return false
			}
		}
	}
	return true
}

// Count returns the number of bombs adjacent to p, or -1 if p holds a
// bomb itself.
func (g *Generated) Count(p grid.Position) int {
	return g.counts[p.Row][p.Col]
}

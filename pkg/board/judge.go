package board

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/operator-framework/sweeper/pkg/grid"
)

type action byte

const (
	actionProbe action = 'A'
	actionMark  action = 'B'
)

type move struct {
	position grid.Position
	action   action
}

// Judge is a board kept by an external judge that talks over a pair of
// streams. The judge first sends
//
//	<size> <bombs>
//	<n>
//	<x> <y> <count>   (n lines)
//
// where a negative bomb total means the total is secret. After each
// turn the moves are sent back as
//
//	<m>
//	<y> <x> A|B       (m lines, A probes and B marks)
//
// and the judge answers with the next <n> block.
type Judge struct {
	size  int
	bombs *int

	in     *bufio.Scanner
	mu     sync.Mutex
	out    *bufio.Writer
	closed bool

	discovered map[grid.Position]bool
	marked     map[grid.Position]bool
	open       []grid.Observation
	queued     []move
}

// NewJudge reads the board header and the first batch of opened tiles
// from in.
func NewJudge(in io.Reader, out io.Writer) (*Judge, error) {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	j := &Judge{
		in:         scanner,
		out:        bufio.NewWriter(out),
		discovered: make(map[grid.Position]bool),
		marked:     make(map[grid.Position]bool),
	}

	size, err := j.readInt("board size")
	if err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, &ProtocolError{Token: strconv.Itoa(size), Reason: "board size must be positive"}
	}
	j.size = size

	bombs, err := j.readInt("bomb count")
	if err != nil {
		return nil, err
	}
	if bombs >= 0 {
		j.bombs = &bombs
	}

	if err := j.readOpenCells(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Judge) readToken(what string) (string, error) {
	if !j.in.Scan() {
		if err := j.in.Err(); err != nil {
			return "", errors.Wrapf(err, "reading %s", what)
		}
		return "", io.EOF
	}
	return j.in.Text(), nil
}

func (j *Judge) readInt(what string) (int, error) {
	token, err := j.readToken(what)
	if err == io.EOF {
		return 0, &ProtocolError{Reason: fmt.Sprintf("unexpected end of input, expected %s", what)}
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, &ProtocolError{Token: token, Reason: fmt.Sprintf("expected %s", what)}
	}
	return n, nil
}

func (j *Judge) readOpenCells() error {
	n, err := j.readInt("opened tile count")
	if err != nil {
		return err
	}
	if n < 0 {
		return &ProtocolError{Token: strconv.Itoa(n), Reason: "opened tile count must not be negative"}
	}
	return j.readObservations(n)
}

func (j *Judge) readObservations(n int) error {
	for i := 0; i < n; i++ {
		row, err := j.readInt("row")
		if err != nil {
			return err
		}
		col, err := j.readInt("column")
		if err != nil {
			return err
		}
		count, err := j.readInt("bomb count")
		if err != nil {
			return err
		}
		p := grid.Position{Row: row, Col: col}
		if !p.In(j.size) {
			return &ProtocolError{Token: p.String(), Reason: "opened tile is off the board"}
		}
		if count < 0 || count > len(grid.Directions) {
			return &ProtocolError{Token: strconv.Itoa(count), Reason: fmt.Sprintf("impossible bomb count for %s", p)}
		}
		j.discovered[p] = true
		j.open = append(j.open, grid.Observation{Position: p, Count: count})
	}
	return nil
}

func (j *Judge) Size() int {
	return j.size
}

func (j *Judge) OpenCells() []grid.Observation {
	open := j.open
	j.open = nil
	return open
}

func (j *Judge) UnknownAdjacent(p grid.Position) []grid.Position {
	var unknown []grid.Position
	for _, n := range grid.Neighbors(p, j.size) {
		if !j.discovered[n] {
			unknown = append(unknown, n)
		}
	}
	return unknown
}

func (j *Judge) Unknowns() []grid.Position {
	var unknown []grid.Position
	for row := 0; row < j.size; row++ {
		for col := 0; col < j.size; col++ {
			if p := (grid.Position{Row: row, Col: col}); !j.discovered[p] {
				unknown = append(unknown, p)
			}
		}
	}
	return unknown
}

// Mark queues a mark move and remembers p as marked.
func (j *Judge) Mark(p grid.Position) error {
	j.marked[p] = true
	j.queued = append(j.queued, move{position: p, action: actionMark})
	return nil
}

// Probe queues a probe move. The outcome arrives with the next batch.
func (j *Judge) Probe(p grid.Position) error {
	j.queued = append(j.queued, move{position: p, action: actionProbe})
	return nil
}

func (j *Judge) BombCount() (int, bool) {
	if j.bombs == nil {
		return 0, false
	}
	return *j.bombs, true
}

func (j *Judge) IsMarked(p grid.Position) bool {
	return j.marked[p]
}

// Update sends the queued moves and reads the judge's answer. It
// reports false without error once the judge has closed its stream.
func (j *Judge) Update() (bool, error) {
	if err := j.send(j.queued); err != nil {
		return false, err
	}
	j.queued = nil

	token, err := j.readToken("opened tile count")
	if err == io.EOF {
		j.mu.Lock()
		j.closed = true
		j.mu.Unlock()
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return false, &ProtocolError{Token: token, Reason: "expected opened tile count"}
	}
	if err := j.readObservations(n); err != nil {
		return false, err
	}
	return true, nil
}

// Resign tells the judge the agent has no more moves. It does nothing
// once the judge has closed its stream, and is safe to call while
// another goroutine is blocked in Update.
func (j *Judge) Resign() error {
	j.mu.Lock()
	closed := j.closed
	j.mu.Unlock()
	if closed {
		return nil
	}
	return j.send(nil)
}

func (j *Judge) send(moves []move) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	fmt.Fprintf(j.out, "%d\n", len(moves))
	for _, m := range moves {
		fmt.Fprintf(j.out, "%d %d %c\n", m.position.Col, m.position.Row, m.action)
	}
	return errors.Wrap(j.out.Flush(), "writing moves")
}

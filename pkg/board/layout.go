package board

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/operator-framework/sweeper/pkg/grid"
)

// Layout fixes where the bombs of a board are. It is read from YAML:
//
//	size: 4
//	mines:
//	  - {row: 0, col: 3}
//	  - {row: 2, col: 1}
//	start: {row: 3, col: 3}
//	hideBombCount: false
type Layout struct {
	Size  int             `yaml:"size"`
	Mines []grid.Position `yaml:"mines"`
	// Start is the first tile probed. When unset, the first tile
	// without adjacent bombs is used, or failing that the first safe
	// tile.
	Start *grid.Position `yaml:"start,omitempty"`
	// HideBombCount keeps the bomb total from the agent.
	HideBombCount bool `yaml:"hideBombCount,omitempty"`
}

// LoadLayout reads a Layout from a YAML file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading layout %s", path)
	}
	var l Layout
	if err := yaml.UnmarshalStrict(data, &l); err != nil {
		return nil, errors.Wrapf(err, "parsing layout %s", path)
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrapf(err, "layout %s", path)
	}
	return &l, nil
}

// Validate checks that the layout describes a playable board.
func (l *Layout) Validate() error {
	if l.Size < 1 {
		return &InvalidLayout{Reason: fmt.Sprintf("size must be positive, got %d", l.Size)}
	}
	seen := make(map[grid.Position]bool, len(l.Mines))
	for _, m := range l.Mines {
		if !m.In(l.Size) {
			return &InvalidLayout{Reason: fmt.Sprintf("mine %s is off the board", m)}
		}
		if seen[m] {
			return &InvalidLayout{Reason: fmt.Sprintf("mine %s is listed twice", m)}
		}
		seen[m] = true
	}
	if len(l.Mines) >= l.Size*l.Size {
		return &InvalidLayout{Reason: "no tile is free of bombs"}
	}
	if l.Start != nil {
		if !l.Start.In(l.Size) {
			return &InvalidLayout{Reason: fmt.Sprintf("start %s is off the board", *l.Start)}
		}
		if seen[*l.Start] {
			return &InvalidLayout{Reason: fmt.Sprintf("start %s is a mine", *l.Start)}
		}
	}
	return nil
}

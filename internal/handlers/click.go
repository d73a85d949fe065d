package handlers

import (
	"fmt"
	"strings"
)

// Click is a move read from a text console.
type Click struct {
	Move GameMove
	X, Y int
}

// ParseClick reads the two input lines of a console turn: a click kind ("l"
// or "L" opens, anything else flags) and the column and row, both counted
// from 1. The returned coordinates count from 0.
func ParseClick(kind, position string) (Click, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Click{}, fmt.Errorf("%w: missing click kind", ErrBadQuery)
	}

	click := Click{Move: Flag}
	if kind == "l" || kind == "L" {
		click.Move = Open
	}

	x, y, err := parseXY(strings.Fields(position))
	if err != nil {
		return Click{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	if x < 1 || y < 1 {
		return Click{}, fmt.Errorf("%w: coordinates start at 1", ErrBadQuery)
	}
	click.X, click.Y = x-1, y-1

	return click, nil
}

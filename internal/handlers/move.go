package handlers

import (
	"fmt"
	"strings"

	"github.com/vancomm/minefield/internal/mines"
)

type GameMove uint8

const (
	Open GameMove = iota + 1
	Flag
	Chord
	lastMove
)

func (m GameMove) String() string {
	switch m {
	case Open:
		return "open"
	case Flag:
		return "flag"
	case Chord:
		return "chord"
	default:
		return fmt.Sprintf("GameMove(%d)", m)
	}
}

var ErrBadMove error

func init() {
	var allowedMoves []string
	for i := Open; i < lastMove; i++ {
		allowedMoves = append(allowedMoves, "'"+i.String()+"'")
	}
	ErrBadMove = fmt.Errorf("move must be one of %s", strings.Join(allowedMoves, ", "))
}

func ParseGameMove(s string) (GameMove, error) {
	switch strings.ToLower(s) {
	case "open":
		return Open, nil
	case "flag":
		return Flag, nil
	case "chord":
		return Chord, nil
	default:
		return 0, ErrBadMove
	}
}

// Apply runs the move against m at x:y.
func (m GameMove) Apply(field *mines.Minefield, x, y int) error {
	switch m {
	case Open:
		return field.Open(x, y)
	case Flag:
		return field.ToggleFlag(x, y)
	case Chord:
		return field.Chord(x, y)
	default:
		return ErrBadMove
	}
}

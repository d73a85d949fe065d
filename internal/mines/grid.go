package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the cell is open and has that many mined neighbors.
	 *
	 * The values above 64 only appear once the game is lost, except for
	 * ExplodedMine, which marks the mine the player opened.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "-"
	case s == Flagged, s == CorrectlyFlagged:
		return "F"
	case s == FalselyFlagged:
		return "X"
	case s == ExplodedMine:
		return "#"
	case s == UnflaggedMine:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is the player's view of a field in row-major order.
type Grid []CellState

func (g Grid) String(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// PlayerGrid projects the field onto what a player may see. Mines stay hidden
// while the game is in play.
func (m *Minefield) PlayerGrid() Grid {
	grid := make(Grid, 0, m.Cells())
	state := m.State()
	for _, c := range m.All() {
		grid = append(grid, cellState(c, state))
	}
	return grid
}

func cellState(c Cell, state State) CellState {
	switch {
	case c.Revealed && c.Mine:
		return ExplodedMine
	case c.Revealed:
		return CellState(c.AdjacentMines)
	}

	switch state {
	case Lost:
		switch {
		case c.Flagged && c.Mine:
			return CorrectlyFlagged
		case c.Flagged:
			return FalselyFlagged
		case c.Mine:
			return UnflaggedMine
		}
	case Won:
		if c.Mine {
			return Flagged
		}
	default:
		if c.Flagged {
			return Flagged
		}
	}
	return Unknown
}

func (m *Minefield) String() string {
	return m.PlayerGrid().String(m.Width)
}

package mines

import (
	"hash/maphash"
	"iter"
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Cell struct {
	Mine, Flagged, Revealed bool
	AdjacentMines           uint8
}

type State uint8

const (
	Unstarted State = iota
	Active
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Active:
		return "active"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Minefield is a single game. Mines are laid out on the first [Minefield.Open];
// once the game is won or lost every command is a no-op.
type Minefield struct {
	GameParams
	grid [][]Cell /* [y][x] */
	rnd  *rand.Rand

	active, won, started bool

	revealed     int
	flags        int
	flaggedMines int
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// New allocates an empty field. r drives mine placement; a nil r gets a
// randomly seeded generator.
func New(params GameParams, r *rand.Rand) (*Minefield, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = newRand()
	}
	grid := make([][]Cell, params.Height)
	for y := range grid {
		grid[y] = make([]Cell, params.Width)
	}
	m := &Minefield{
		GameParams: params,
		grid:       grid,
		rnd:        r,
		active:     true,
	}
	return m, nil
}

func (m *Minefield) checkBounds(x, y int) error {
	if !m.InBounds(x, y) {
		return IndexError{X: x, Y: y, Width: m.Width, Height: m.Height}
	}
	return nil
}

// Open reveals x:y, cascading through zero-count regions.
func (m *Minefield) Open(x, y int) error {
	if err := m.checkBounds(x, y); err != nil {
		return err
	}
	m.open(x, y)
	return nil
}

func (m *Minefield) open(x, y int) {
	if !m.active {
		return
	}
	c := &m.grid[y][x]
	if c.Flagged || c.Revealed {
		return
	}
	if !m.started {
		m.placeMines(x, y)
	}

	if c.Mine {
		c.Revealed = true
		m.revealed++
		m.lose()
		return
	}

	m.flood(x, y)
	m.checkWin()
}

func (m *Minefield) flood(x, y int) {
	var todo deque.Deque[int]
	m.reveal(x, y, &todo)
	for todo.Len() > 0 {
		i := todo.PopFront()
		for xx, yy := range m.neighbors(i%m.Width, i/m.Width) {
			m.reveal(xx, yy, &todo)
		}
	}
}

// reveal opens a single safe cell and queues it for expansion when it has no
// mined neighbors.
func (m *Minefield) reveal(x, y int, todo *deque.Deque[int]) {
	c := &m.grid[y][x]
	if c.Revealed || c.Flagged || c.Mine {
		return
	}
	c.Revealed = true
	m.revealed++
	if c.AdjacentMines == 0 {
		todo.PushBack(y*m.Width + x)
	}
}

// ToggleFlag flips the flag on an unrevealed cell.
func (m *Minefield) ToggleFlag(x, y int) error {
	if err := m.checkBounds(x, y); err != nil {
		return err
	}
	if !m.active {
		return nil
	}
	c := &m.grid[y][x]
	if c.Revealed {
		return nil
	}

	c.Flagged = !c.Flagged
	delta := 1
	if !c.Flagged {
		delta = -1
	}
	m.flags += delta
	if c.Mine {
		m.flaggedMines += delta
	}

	m.checkWin()
	return nil
}

// Chord opens every unflagged neighbor of a revealed cell whose number of
// flagged neighbors matches its mine count.
func (m *Minefield) Chord(x, y int) error {
	if err := m.checkBounds(x, y); err != nil {
		return err
	}
	if !m.active {
		return nil
	}
	c := m.grid[y][x]
	if !c.Revealed {
		return nil
	}

	flagged := 0
	for xx, yy := range m.neighbors(x, y) {
		if m.grid[yy][xx].Flagged {
			flagged++
		}
	}
	if flagged != int(c.AdjacentMines) {
		return nil
	}

	for xx, yy := range m.neighbors(x, y) {
		m.open(xx, yy)
		if !m.active {
			break
		}
	}
	return nil
}

// Forfeit ends a game in progress as lost.
func (m *Minefield) Forfeit() {
	if m.active {
		m.lose()
	}
}

func (m *Minefield) lose() {
	m.active, m.won = false, false
	Log.WithField("params", m.Seed()).Debug("game lost")
}

// checkWin ends the game once the covered cells are exactly the flagged mines.
func (m *Minefield) checkWin() {
	if !m.started || m.Cells()-m.revealed != m.flaggedMines {
		return
	}
	m.active, m.won = false, true
	Log.WithField("params", m.Seed()).Debug("game won")
}

func (m *Minefield) Active() bool { return m.active }

// Won is meaningful once the field is no longer active.
func (m *Minefield) Won() bool { return m.won }

func (m *Minefield) Started() bool { return m.started }

func (m *Minefield) State() State {
	switch {
	case !m.active && m.won:
		return Won
	case !m.active:
		return Lost
	case !m.started:
		return Unstarted
	default:
		return Active
	}
}

func (m *Minefield) Revealed() int { return m.revealed }

func (m *Minefield) FlaggedMines() int { return m.flaggedMines }

// Flags counts every flag on the field, right or wrong.
func (m *Minefield) Flags() int { return m.flags }

// MinesLeft is the mine count minus the flags placed; it goes negative when
// the player over-flags.
func (m *Minefield) MinesLeft() int { return m.MineCount - m.flags }

func (m *Minefield) At(x, y int) (Cell, error) {
	if err := m.checkBounds(x, y); err != nil {
		return Cell{}, err
	}
	return m.grid[y][x], nil
}

// All yields every cell in row-major order along with its index y*Width+x.
func (m *Minefield) All() iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for y, row := range m.grid {
			for x, c := range row {
				if !yield(y*m.Width+x, c) {
					return
				}
			}
		}
	}
}

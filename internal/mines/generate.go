package mines

import "github.com/sirupsen/logrus"

// candidates lists the indices of every cell that may hold a mine when the
// first move opens sx:sy. The neighborhood zone falls back to the single cell
// when the field is too dense to keep the whole neighborhood clear.
func (p GameParams) candidates(sx, sy int) []int {
	cells := make([]int, 0, p.Cells())

	if p.SafeZone == SafeZoneNeighborhood {
		for y := range p.Height {
			for x := range p.Width {
				if absDiff(sy, y) > 1 || absDiff(sx, x) > 1 {
					cells = append(cells, y*p.Width+x)
				}
			}
		}
		if len(cells) >= p.MineCount {
			return cells
		}
		cells = cells[:0]
	}

	for y := range p.Height {
		for x := range p.Width {
			if x != sx || y != sy {
				cells = append(cells, y*p.Width+x)
			}
		}
	}
	return cells
}

// placeMines lays out the mines for a first move at sx:sy.
func (m *Minefield) placeMines(sx, sy int) {
	width, height, mineCount := m.Unpack()

	if mineCount == width*height {
		for y := range height {
			for x := range width {
				m.plant(x, y)
			}
		}
	} else {
		/*
		 * Pick mineCount cells off the candidate list: draw one at random,
		 * move the last undrawn candidate into its slot and shrink the list.
		 */
		candidates := m.candidates(sx, sy)
		k := len(candidates)
		for range mineCount {
			i := m.rnd.IntN(k)
			c := candidates[i]
			m.plant(c%width, c/width)
			k--
			candidates[i] = candidates[k]
		}
	}

	m.flaggedMines = 0
	for y := range height {
		for x := range width {
			if c := m.grid[y][x]; c.Flagged && c.Mine {
				m.flaggedMines++
			}
		}
	}
	m.started = true

	Log.WithFields(logrus.Fields{
		"params": m.Seed(),
		"start":  [2]int{sx, sy},
	}).Debug("mines placed")
}

func (m *Minefield) plant(x, y int) {
	m.grid[y][x].Mine = true
	for xx, yy := range m.neighbors(x, y) {
		m.grid[yy][xx].AdjacentMines++
	}
}

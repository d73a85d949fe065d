package mines

import "iter"

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// neighbors yields the in-bounds Moore neighbors of x:y, excluding x:y itself.
func (p GameParams) neighbors(x, y int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				xx, yy := x+dx, y+dy
				if (dx == 0 && dy == 0) || !p.InBounds(xx, yy) {
					continue
				}
				if !yield(xx, yy) {
					return
				}
			}
		}
	}
}

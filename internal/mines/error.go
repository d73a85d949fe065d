package mines

import "fmt"

// ConfigError reports parameters that cannot describe a minefield.
type ConfigError struct {
	Width, Height, MineCount int
}

// [ConfigError] implements [error]
func (e ConfigError) Error() string {
	switch {
	case e.Width < 1:
		return fmt.Sprintf("invalid width %d: must be at least 1", e.Width)
	case e.Height < 1:
		return fmt.Sprintf("invalid height %d: must be at least 1", e.Height)
	case e.MineCount < 0:
		return fmt.Sprintf("invalid mine count %d: must not be negative", e.MineCount)
	default:
		return fmt.Sprintf(
			"invalid mine count %d: a %dx%d field holds at most %d mines",
			e.MineCount, e.Width, e.Height, e.Width*e.Height,
		)
	}
}

// IndexError reports a cell coordinate outside of the field.
type IndexError struct {
	X, Y          int
	Width, Height int
}

// [IndexError] implements [error]
func (e IndexError) Error() string {
	return fmt.Sprintf(
		"cell %d:%d is out of bounds of a %dx%d field", e.X, e.Y, e.Width, e.Height,
	)
}

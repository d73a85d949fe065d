package mines

import (
	"fmt"
	"strings"
)

// SafeZone selects which cells the first move keeps free of mines.
type SafeZone uint8

const (
	// SafeZoneNeighborhood keeps the opened cell and its neighbors clear, so the
	// first move always opens a region.
	SafeZoneNeighborhood SafeZone = iota
	// SafeZoneCell keeps only the opened cell clear.
	SafeZoneCell
)

func (z SafeZone) String() string {
	switch z {
	case SafeZoneCell:
		return "cell"
	default:
		return "neighborhood"
	}
}

func ParseSafeZone(s string) (SafeZone, error) {
	switch strings.ToLower(s) {
	case "", "neighborhood":
		return SafeZoneNeighborhood, nil
	case "cell":
		return SafeZoneCell, nil
	default:
		return 0, fmt.Errorf("safe zone must be one of 'neighborhood', 'cell'")
	}
}

type GameParams struct {
	Width, Height, MineCount int
	SafeZone                 SafeZone
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Cells() int {
	return p.Width * p.Height
}

// Validate returns a [ConfigError] when p cannot describe a field.
func (p GameParams) Validate() error {
	if p.Width < 1 || p.Height < 1 || p.MineCount < 0 || p.MineCount > p.Cells() {
		return ConfigError{Width: p.Width, Height: p.Height, MineCount: p.MineCount}
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d:%d", p.Width, p.Height, p.MineCount, p.SafeZone)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	z := 0
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(
		sseed, "%d %d %d %d", &p.Width, &p.Height, &p.MineCount, &z,
	)
	if n != 4 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	if z != int(SafeZoneNeighborhood) && z != int(SafeZoneCell) {
		return nil, fmt.Errorf("invalid game params seed: unknown safe zone %d", z)
	}
	p.SafeZone = SafeZone(z)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p GameParams) InBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

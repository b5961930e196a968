package draw

// Point represents a 2D coordinate in logical (world) units.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// cell values: bit 0 is the top sub-pixel, bit 1 the bottom one.
const (
	cellEmpty uint8 = 0
	cellUpper uint8 = 1
	cellLower uint8 = 2
	cellFull  uint8 = 3
	cellDirty uint8 = 0xFF // Never matches a drawn cell, forces a rewrite
)

// cellRune maps a cell value to its half-block character.
func cellRune(v uint8) rune {
	switch v {
	case cellFull:
		return BlockFull
	case cellUpper:
		return BlockUpperHalf
	case cellLower:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

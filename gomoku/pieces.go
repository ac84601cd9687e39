package gomoku

import "fmt"

// Color is the content of a square. The two stone colors are encoded
// as +1 and -1 so that a color and its opponent sum to zero.
type Color int8

const (
	NoColor Color = 0
	Black   Color = 1
	White   Color = -1
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case NoColor:
		return "no color"
	default:
		panic(fmt.Sprintf("bad color: %d", int(c)))
	}
}

// Opponent returns the other stone color. It panics on NoColor, since
// an empty square has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		panic(fmt.Sprintf("opponent of %v", c))
	}
}

func (c Color) IsStone() bool {
	return c == Black || c == White
}

package gomoku

import "errors"

// Move names a square by 0-indexed row and column.
type Move struct {
	Row, Col int
}

var (
	ErrBoardShape  = errors.New("board must be square with side >= 1")
	ErrOutOfBounds = errors.New("square is off the board")
	ErrOccupied    = errors.New("square is occupied")
	ErrGameOver    = errors.New("game is over")
	ErrBadSize     = errors.New("unsupported board size")
)

func (m Move) Equal(rhs Move) bool {
	return m.Row == rhs.Row && m.Col == rhs.Col
}

// Chebyshev returns max(|dr|, |dc|) between two squares.
func (m Move) Chebyshev(o Move) int {
	dr, dc := m.Row-o.Row, m.Col-o.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return max(dr, dc)
}

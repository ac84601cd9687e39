package ai

import "github.com/nelhage/gomoku/gomoku"

// moveGenerator walks the empty squares of a square window around an
// anchor in row-major order. It reads the board lazily, so callers
// must restore any stone they place before calling Next again.
type moveGenerator struct {
	b *gomoku.Board

	minRow, maxRow int
	minCol, maxCol int

	row, col int
}

func newMoveGenerator(b *gomoku.Board, anchor gomoku.Move, radius int) moveGenerator {
	last := b.Size() - 1
	mg := moveGenerator{
		b:      b,
		minRow: max(anchor.Row-radius, 0),
		maxRow: min(anchor.Row+radius, last),
		minCol: max(anchor.Col-radius, 0),
		maxCol: min(anchor.Col+radius, last),
	}
	mg.row, mg.col = mg.minRow, mg.minCol
	return mg
}

func (mg *moveGenerator) Next() (gomoku.Move, bool) {
	for ; mg.row <= mg.maxRow; mg.row, mg.col = mg.row+1, mg.minCol {
		for ; mg.col <= mg.maxCol; mg.col++ {
			m := gomoku.Move{Row: mg.row, Col: mg.col}
			if mg.b.At(m) == gomoku.NoColor {
				mg.col++
				return m, true
			}
		}
	}
	return gomoku.Move{}, false
}

// Candidates returns the empty squares within Chebyshev distance
// radius of anchor, clipped to the board, in row-major order. The
// result may be empty.
func Candidates(b *gomoku.Board, anchor gomoku.Move, radius int) []gomoku.Move {
	var out []gomoku.Move
	mg := newMoveGenerator(b, anchor, radius)
	for m, ok := mg.Next(); ok; m, ok = mg.Next() {
		out = append(out, m)
	}
	return out
}

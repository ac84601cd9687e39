package gomoku

// Board is a square grid of squares stored row-major. Boards are
// mutable; the search engine places and retracts stones in place.
type Board struct {
	size  int
	cells []Color
}

func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Color, size*size),
	}
}

// FromRows builds a board from a slice of rows. The rows must form a
// non-empty square and contain only NoColor, Black or White.
func FromRows(rows [][]Color) (*Board, error) {
	if len(rows) == 0 {
		return nil, ErrBoardShape
	}
	b := NewBoard(len(rows))
	for r, row := range rows {
		if len(row) != b.size {
			return nil, ErrBoardShape
		}
		for c, cell := range row {
			if cell != NoColor && !cell.IsStone() {
				return nil, ErrBoardShape
			}
			b.cells[r*b.size+c] = cell
		}
	}
	return b, nil
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(m Move) bool {
	return m.Row >= 0 && m.Row < b.size && m.Col >= 0 && m.Col < b.size
}

func (b *Board) At(m Move) Color {
	return b.cells[m.Row*b.size+m.Col]
}

// Get is At without a Move; out-of-bounds squares read as ok=false.
func (b *Board) Get(row, col int) (Color, bool) {
	if row < 0 || row >= b.size || col < 0 || col >= b.size {
		return NoColor, false
	}
	return b.cells[row*b.size+col], true
}

func (b *Board) Set(m Move, c Color) {
	b.cells[m.Row*b.size+m.Col] = c
}

func (b *Board) Clear(m Move) {
	b.cells[m.Row*b.size+m.Col] = NoColor
}

func (b *Board) Clone() *Board {
	out := &Board{size: b.size, cells: make([]Color, len(b.cells))}
	copy(out.cells, b.cells)
	return out
}

func (b *Board) Equal(o *Board) bool {
	if b.size != o.size {
		return false
	}
	for i, c := range b.cells {
		if o.cells[i] != c {
			return false
		}
	}
	return true
}

func (b *Board) Full() bool {
	for _, c := range b.cells {
		if c == NoColor {
			return false
		}
	}
	return true
}

// Stones returns the number of stones of each color on the board.
func (b *Board) Stones() (black, white int) {
	for _, c := range b.cells {
		switch c {
		case Black:
			black++
		case White:
			white++
		}
	}
	return black, white
}

// Rows copies the board out into a slice of rows.
func (b *Board) Rows() [][]Color {
	out := make([][]Color, b.size)
	for r := range out {
		out[r] = make([]Color, b.size)
		copy(out[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return out
}

// Directions are the four line axes, each given by one of its two
// unit steps.
var Directions = [4]Move{
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
	{Row: 1, Col: -1},
}

// FiveAt reports whether the stone on m is part of an unbroken line
// of five or more stones of its color.
func FiveAt(b *Board, m Move) bool {
	c := b.At(m)
	if !c.IsStone() {
		return false
	}
	for _, d := range Directions {
		n := 1
		for i := 1; i < 5; i++ {
			if got, ok := b.Get(m.Row+d.Row*i, m.Col+d.Col*i); !ok || got != c {
				break
			}
			n++
		}
		for i := 1; i < 5; i++ {
			if got, ok := b.Get(m.Row-d.Row*i, m.Col-d.Col*i); !ok || got != c {
				break
			}
			n++
		}
		if n >= 5 {
			return true
		}
	}
	return false
}

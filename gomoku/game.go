package gomoku

import "fmt"

const (
	MinSize     = 5
	MaxSize     = 26
	DefaultSize = 15
)

type Config struct {
	Size int
}

func (c Config) Validate() error {
	if c.Size < MinSize || c.Size > MaxSize {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrBadSize, c.Size, MinSize, MaxSize)
	}
	return nil
}

// Position is an immutable game state. Move returns a new Position;
// the receiver is never modified.
type Position struct {
	cfg Config

	board   *Board
	toMove  Color
	last    Move
	hasLast bool
	move    int
	winner  Color
}

func New(cfg Config) (*Position, error) {
	if cfg.Size == 0 {
		cfg.Size = DefaultSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Position{
		cfg:    cfg,
		board:  NewBoard(cfg.Size),
		toMove: Black,
	}, nil
}

// FromBoard builds a position from an existing board. last is the
// most recently played square, or nil if unknown.
func FromBoard(b *Board, toMove Color, last *Move) (*Position, error) {
	if b == nil || b.Size() == 0 {
		return nil, ErrBoardShape
	}
	if !toMove.IsStone() {
		return nil, fmt.Errorf("bad side to move: %v", toMove)
	}
	black, white := b.Stones()
	p := &Position{
		cfg:    Config{Size: b.Size()},
		board:  b.Clone(),
		toMove: toMove,
		move:   black + white,
	}
	if last != nil {
		if !b.InBounds(*last) {
			return nil, fmt.Errorf("last move %v: %w", *last, ErrOutOfBounds)
		}
		p.last = *last
		p.hasLast = true
		if FiveAt(b, *last) {
			p.winner = b.At(*last)
		}
	}
	return p, nil
}

func (p *Position) Size() int {
	return p.cfg.Size
}

func (p *Position) ToMove() Color {
	return p.toMove
}

// MoveNumber is the number of stones placed so far.
func (p *Position) MoveNumber() int {
	return p.move
}

func (p *Position) LastMove() (Move, bool) {
	return p.last, p.hasLast
}

func (p *Position) At(m Move) Color {
	return p.board.At(m)
}

// Board returns a copy of the position's board.
func (p *Position) Board() *Board {
	return p.board.Clone()
}

func (p *Position) GameOver() (over bool, winner Color) {
	if p.winner != NoColor {
		return true, p.winner
	}
	if p.board.Full() {
		return true, NoColor
	}
	return false, NoColor
}

func (p *Position) Move(m Move) (*Position, error) {
	if over, _ := p.GameOver(); over {
		return nil, ErrGameOver
	}
	if !p.board.InBounds(m) {
		return nil, ErrOutOfBounds
	}
	if p.board.At(m) != NoColor {
		return nil, ErrOccupied
	}
	next := &Position{
		cfg:     p.cfg,
		board:   p.board.Clone(),
		toMove:  p.toMove.Opponent(),
		last:    m,
		hasLast: true,
		move:    p.move + 1,
	}
	next.board.Set(m, p.toMove)
	if FiveAt(next.board, m) {
		next.winner = p.toMove
	}
	return next, nil
}

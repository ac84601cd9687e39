package gomokutest

import (
	"strings"

	"github.com/samber/lo"

	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/notation"
)

func Square(s string) gomoku.Move {
	m, e := notation.ParseSquare(s)
	if e != nil {
		panic(e)
	}
	return m
}

func Squares(s string) []gomoku.Move {
	if s == "" {
		return nil
	}
	return lo.Map(strings.Fields(s), func(b string, _ int) gomoku.Move {
		return Square(b)
	})
}

func FormatSquares(ms []gomoku.Move) string {
	return strings.Join(lo.Map(ms, func(m gomoku.Move, _ int) string {
		return notation.FormatSquare(m)
	}), " ")
}

// Board returns a board with stones on the listed squares.
func Board(size int, black, white string) *gomoku.Board {
	b := gomoku.NewBoard(size)
	for _, m := range Squares(black) {
		b.Set(m, gomoku.Black)
	}
	for _, m := range Squares(white) {
		b.Set(m, gomoku.White)
	}
	return b
}

// Position plays the listed squares, alternating colors from black.
func Position(size int, ms string) *gomoku.Position {
	p, e := gomoku.New(gomoku.Config{Size: size})
	if e != nil {
		panic(e)
	}
	for _, m := range Squares(ms) {
		p, e = p.Move(m)
		if e != nil {
			panic(e)
		}
	}
	return p
}

package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nelhage/gomoku/gomoku"
)

// ParsePosition parses a position string of the form
//
//	ROWS SIDE LAST
//
// ROWS lists the board's rows from the highest-numbered row down,
// separated by '/'. Each row is a comma-separated list of "b", "w",
// "x" (empty) or "xN" (N empty squares). SIDE is "b" or "w", the side
// to move; LAST is the last square played or "-".
func ParsePosition(s string) (*gomoku.Position, error) {
	words := strings.Fields(s)
	if len(words) != 3 {
		return nil, errors.New("bad position: wrong number of words")
	}
	var toMove gomoku.Color
	switch words[1] {
	case "b":
		toMove = gomoku.Black
	case "w":
		toMove = gomoku.White
	default:
		return nil, fmt.Errorf("bad side to move: %s", words[1])
	}

	var rows [][]gomoku.Color
	for _, r := range strings.Split(words[0], "/") {
		row, err := parseRow(r)
		if err != nil {
			return nil, err
		}
		rows = append([][]gomoku.Color{row}, rows...)
	}
	b, err := gomoku.FromRows(rows)
	if err != nil {
		return nil, err
	}

	var last *gomoku.Move
	if words[2] != "-" {
		m, err := ParseSquare(words[2])
		if err != nil {
			return nil, fmt.Errorf("bad last move: %s", words[2])
		}
		last = &m
	}
	return gomoku.FromBoard(b, toMove, last)
}

func parseRow(r string) ([]gomoku.Color, error) {
	var out []gomoku.Color
	for _, tok := range strings.Split(r, ",") {
		switch {
		case tok == "b":
			out = append(out, gomoku.Black)
		case tok == "w":
			out = append(out, gomoku.White)
		case tok == "x":
			out = append(out, gomoku.NoColor)
		case strings.HasPrefix(tok, "x"):
			n, err := strconv.Atoi(tok[1:])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad run: %q", tok)
			}
			for i := 0; i < n; i++ {
				out = append(out, gomoku.NoColor)
			}
		default:
			return nil, fmt.Errorf("bad square: %q", tok)
		}
	}
	return out, nil
}

func FormatPosition(p *gomoku.Position) string {
	b := p.Board()
	var rows []string
	for r := b.Size() - 1; r >= 0; r-- {
		rows = append(rows, formatRow(b, r))
	}
	side := "b"
	if p.ToMove() == gomoku.White {
		side = "w"
	}
	last := "-"
	if m, ok := p.LastMove(); ok {
		last = FormatSquare(m)
	}
	return fmt.Sprintf("%s %s %s", strings.Join(rows, "/"), side, last)
}

func formatRow(b *gomoku.Board, row int) string {
	var bits []string
	for c := 0; c < b.Size(); {
		var i int
		for i = 0; c+i < b.Size() && b.At(gomoku.Move{Row: row, Col: c + i}) == gomoku.NoColor; i++ {
		}
		switch i {
		case 0:
			if b.At(gomoku.Move{Row: row, Col: c}) == gomoku.Black {
				bits = append(bits, "b")
			} else {
				bits = append(bits, "w")
			}
			c++
		case 1:
			bits = append(bits, "x")
		default:
			bits = append(bits, fmt.Sprintf("x%d", i))
		}
		c += i
	}
	return strings.Join(bits, ",")
}

package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/nelhage/gomoku/gomoku"
)

var squareRE = regexp.MustCompile(`^([a-z])([1-9][0-9]?)$`)

// ParseSquare parses a square such as "h8": a column letter followed
// by a 1-based row number.
func ParseSquare(s string) (gomoku.Move, error) {
	groups := squareRE.FindStringSubmatch(s)
	if groups == nil {
		return gomoku.Move{}, errors.New("illegal square")
	}
	row, err := strconv.Atoi(groups[2])
	if err != nil {
		return gomoku.Move{}, fmt.Errorf("bad row: %q", groups[2])
	}
	return gomoku.Move{Row: row - 1, Col: int(groups[1][0] - 'a')}, nil
}

func FormatSquare(m gomoku.Move) string {
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nelhage/gomoku/ai"
	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/notation"
)

func NewCLIPlayer(out io.Writer, in *bufio.Reader) ai.Player {
	return &cliPlayer{out, in}
}

type cliPlayer struct {
	out io.Writer
	in  *bufio.Reader
}

func (c *cliPlayer) GetMove(ctx context.Context, p *gomoku.Position) (gomoku.Move, error) {
	for {
		if err := ctx.Err(); err != nil {
			return gomoku.Move{}, err
		}
		fmt.Fprintf(c.out, "%s> ", p.ToMove())
		line, err := c.in.ReadString('\n')
		if err != nil {
			return gomoku.Move{}, err
		}
		m, err := notation.ParseSquare(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(c.out, "parse error: ", err)
			continue
		}
		return m, nil
	}
}

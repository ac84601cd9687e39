package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nelhage/gomoku/ai"
	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/notation"
)

type Glyphs struct {
	Black, White, Empty string
	// Last marks the most recent move, if set.
	Last string
}

type CLI struct {
	moves []gomoku.Move
	p     *gomoku.Position

	Config gomoku.Config
	Glyphs *Glyphs
	Out    io.Writer
	Black  ai.Player
	White  ai.Player
}

var DefaultGlyphs = Glyphs{
	Black: "X",
	White: "O",
	Empty: ".",
}

var UnicodeGlyphs = Glyphs{
	Black: "●",
	White: "○",
	Empty: "·",
	Last:  "◆",
}

// Play runs a game to completion and returns the final position. An
// illegal move is reported and the same player is asked again; any
// other player error ends the game.
func (c *CLI) Play(ctx context.Context) (*gomoku.Position, error) {
	c.moves = nil
	p, err := gomoku.New(c.Config)
	if err != nil {
		return nil, err
	}
	c.p = p
	for {
		c.render()
		if over, winner := c.p.GameOver(); over {
			fmt.Fprintf(c.Out, "Game Over! ")
			if winner == gomoku.NoColor {
				fmt.Fprintf(c.Out, "Draw.\n")
			} else {
				fmt.Fprintf(c.Out, "%s wins with five in a row.\n", winner)
			}
			return c.p, nil
		}
		player := c.Black
		if c.p.ToMove() == gomoku.White {
			player = c.White
		}
		m, err := player.GetMove(ctx, c.p)
		if err != nil {
			return c.p, fmt.Errorf("%s: %w", c.p.ToMove(), err)
		}
		next, err := c.p.Move(m)
		if err != nil {
			fmt.Fprintln(c.Out, "illegal move:", err)
			continue
		}
		if c.p.ToMove() == gomoku.Black {
			fmt.Fprintf(c.Out, "%d. %s\n", c.p.MoveNumber()/2+1, notation.FormatSquare(m))
		} else {
			fmt.Fprintf(c.Out, "%d. ... %s\n", c.p.MoveNumber()/2+1, notation.FormatSquare(m))
		}
		c.p = next
		c.moves = append(c.moves, m)
	}
}

func (c *CLI) Moves() []gomoku.Move {
	return c.moves
}

func (c *CLI) render() {
	RenderBoard(c.Glyphs, c.Out, c.p)
}

func RenderBoard(g *Glyphs, out io.Writer, p *gomoku.Position) {
	if g == nil {
		g = &DefaultGlyphs
	}
	last, hasLast := p.LastMove()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%s to play]\n", p.ToMove())
	w := tabwriter.NewWriter(out, 2, 8, 1, ' ', 0)
	for row := p.Size() - 1; row >= 0; row-- {
		cells := make([]string, p.Size())
		for col := range cells {
			sq := gomoku.Move{Row: row, Col: col}
			switch {
			case hasLast && g.Last != "" && sq == last:
				cells[col] = g.Last
			case p.At(sq) == gomoku.Black:
				cells[col] = g.Black
			case p.At(sq) == gomoku.White:
				cells[col] = g.White
			default:
				cells[col] = g.Empty
			}
		}
		fmt.Fprintf(w, "%d\t%s\n", row+1, strings.Join(cells, "\t"))
	}
	cols := make([]string, p.Size())
	for col := range cols {
		cols[col] = string(rune('a' + col))
	}
	fmt.Fprintf(w, "\t%s\n", strings.Join(cols, "\t"))
	w.Flush()
	black, white := p.Board().Stones()
	fmt.Fprintf(out, "stones: B:%d W:%d\n", black, white)
}

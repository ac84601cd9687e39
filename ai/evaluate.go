package ai

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nelhage/gomoku/gomoku"
)

// maxRun is the longest run the evaluator distinguishes. Five in a
// row already ends the game, so longer runs score the same.
const maxRun = 5

// Patterns scores a line through a square by the length of the run
// of one color through it (capped at maxRun) and the number of empty
// squares bounding the run (0, 1 or 2).
type Patterns [maxRun + 1][3]int64

var DefaultPatterns = Patterns{
	1: {0, 1, 2},
	2: {0, 10, 20},
	3: {0, 30, 50},
	4: {0, 60, 100},
	5: {WinScore, WinScore, WinScore},
}

// Line scans through sq along direction d for color c. The square
// itself always counts toward the run; each way the scan stops at the
// first square that is not c, counting it as an open end if it is
// empty.
func Line(b *gomoku.Board, c gomoku.Color, sq, d gomoku.Move) (run, open int) {
	run = 1
	for _, sign := range [2]int{1, -1} {
		for i := 1; ; i++ {
			got, ok := b.Get(sq.Row+sign*i*d.Row, sq.Col+sign*i*d.Col)
			if !ok {
				break
			}
			if got == c {
				run++
				continue
			}
			if got == gomoku.NoColor {
				open++
			}
			break
		}
	}
	return min(run, maxRun), open
}

// Score sums the pattern values of the four lines through sq for c.
func (p *Patterns) Score(b *gomoku.Board, c gomoku.Color, sq gomoku.Move) int64 {
	var v int64
	for _, d := range gomoku.Directions {
		run, open := Line(b, c, sq, d)
		v += p[run][open]
	}
	return v
}

// Evaluate is the static evaluation of sq with mover to play. Both
// colors' lines through sq are summed; the stone on sq was placed by
// mover's opponent, so the sum counts against mover. The sum is
// negated for either mover rather than multiplied by -mover, so Black
// and White both maximize and see the same value for a square.
func (p *Patterns) Evaluate(b *gomoku.Board, mover gomoku.Color, sq gomoku.Move) int64 {
	return -(p.Score(b, mover, sq) + p.Score(b, mover.Opponent(), sq))
}

// Evaluate evaluates sq with DefaultPatterns and no jitter.
func Evaluate(b *gomoku.Board, mover gomoku.Color, sq gomoku.Move) int64 {
	return DefaultPatterns.Evaluate(b, mover, sq)
}

var directionNames = [4]string{"horizontal", "vertical", "diagonal", "anti-diagonal"}

func ExplainScore(p *Patterns, out io.Writer, b *gomoku.Board, mover gomoku.Color, sq gomoku.Move) {
	if p == nil {
		p = &DefaultPatterns
	}
	tw := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	fmt.Fprintf(tw, "\t%s\t\t\t%s\n", mover, mover.Opponent())
	fmt.Fprintf(tw, "\trun\topen\tscore\trun\topen\tscore\n")
	var mine, theirs int64
	for i, d := range gomoku.Directions {
		mr, mo := Line(b, mover, sq, d)
		tr, to := Line(b, mover.Opponent(), sq, d)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			directionNames[i], mr, mo, p[mr][mo], tr, to, p[tr][to])
		mine += p[mr][mo]
		theirs += p[tr][to]
	}
	fmt.Fprintf(tw, "total\t\t\t%d\t\t\t%d\n", mine, theirs)
	fmt.Fprintf(tw, "eval\t%d\n", -(mine + theirs))
	tw.Flush()
}

package analyze

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/gomoku/ai"
	"github.com/nelhage/gomoku/cli"
	"github.com/nelhage/gomoku/cmd/internal/opt"
	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/notation"
)

type Command struct {
	/* Output options */
	tps   bool
	quiet bool

	/* Options to select which position(s) to analyze */
	position  string
	move      int
	all       bool
	variation string

	timeLimit time.Duration
	eval      bool
	explain   bool

	config string
	opt    opt.Search

	out io.Writer
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Search a position from a game record or position string" }
func (*Command) Usage() string {
	return `analyze [options] [FILE.rec]

Run one search for the side to move and print the chosen move.

By default analyzes the final position in the record; use -move to select
an earlier one, -all to analyze every position, and -variation to play
additional moves first. -position analyzes a position string instead of a
record.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.tps, "tps", false, "print the analyzed position as a position string")
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")

	flags.StringVar(&c.position, "position", "", "position string to analyze")
	flags.IntVar(&c.move, "move", -1, "number of record moves to play before analyzing")
	flags.BoolVar(&c.all, "all", false, "analyze every position in the record")
	flags.StringVar(&c.variation, "variation", "", "apply the listed squares after the selected position")

	flags.DurationVar(&c.timeLimit, "limit", time.Minute, "give up on a search after this long")
	flags.BoolVar(&c.eval, "evaluate", false, "only show the static evaluation of the last move")
	flags.BoolVar(&c.explain, "explain", false, "explain scoring")

	flags.StringVar(&c.config, "config", "", "engine config file")
	c.opt.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.out == nil {
		c.out = os.Stdout
	}
	v, err := opt.Load(c.config)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitFailure
	}
	cfg, err := c.opt.BuildConfig(v)
	if err != nil {
		log.Error().Err(err).Msg("engine options")
		return subcommands.ExitUsageError
	}
	mm := ai.NewMinimax(cfg)

	if c.position != "" {
		p, err := notation.ParsePosition(c.position)
		if err != nil {
			log.Error().Err(err).Msg("-position")
			return subcommands.ExitUsageError
		}
		if err := c.analyzeVariation(ctx, mm, p); err != nil {
			log.Error().Err(err).Msg("analyze")
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if flag.NArg() != 1 {
		log.Error().Msg("usage: analyze [options] FILE.rec")
		return subcommands.ExitUsageError
	}
	rec, err := notation.ParseFile(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("parse")
		return subcommands.ExitFailure
	}

	if !c.all {
		p, err := rec.PositionAt(c.move)
		if err != nil {
			log.Error().Err(err).Msg("find move")
			return subcommands.ExitFailure
		}
		if err := c.analyzeVariation(ctx, mm, p); err != nil {
			log.Error().Err(err).Msg("analyze")
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	for i, m := range rec.Moves {
		p, err := rec.PositionAt(i)
		if err != nil {
			log.Error().Err(err).Int("move", i+1).Msg("replay")
			return subcommands.ExitFailure
		}
		if p.ToMove() == gomoku.Black {
			fmt.Fprintf(c.out, "%d. %s\n", i/2+1, notation.FormatSquare(m))
		} else {
			fmt.Fprintf(c.out, "%d. ... %s\n", i/2+1, notation.FormatSquare(m))
		}
		if err := c.analyze(ctx, mm, p); err != nil {
			log.Error().Err(err).Int("move", i+1).Msg("analyze")
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func applyVariation(p *gomoku.Position, variation string) (*gomoku.Position, error) {
	for _, sq := range strings.Fields(variation) {
		m, err := notation.ParseSquare(sq)
		if err != nil {
			return nil, err
		}
		p, err = p.Move(m)
		if err != nil {
			return nil, fmt.Errorf("bad move `%s': %w", sq, err)
		}
	}
	return p, nil
}

func (c *Command) analyzeVariation(ctx context.Context, mm *ai.MinimaxAI, p *gomoku.Position) error {
	if c.variation != "" {
		var err error
		if p, err = applyVariation(p, c.variation); err != nil {
			return fmt.Errorf("-variation: %w", err)
		}
	}
	return c.analyze(ctx, mm, p)
}

func (c *Command) analyze(ctx context.Context, mm *ai.MinimaxAI, p *gomoku.Position) error {
	if c.timeLimit != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeLimit)
		defer cancel()
	}
	cfg := mm.Config()
	last, hasLast := p.LastMove()
	if !c.quiet {
		cli.RenderBoard(nil, c.out, p)
		if c.explain && hasLast {
			ai.ExplainScore(cfg.Patterns, c.out, p.Board(), p.ToMove(), last)
		}
	}
	if c.tps {
		fmt.Fprintf(c.out, "[Position \"%s\"]\n", notation.FormatPosition(p))
	}
	if c.eval {
		if !hasLast {
			return fmt.Errorf("-evaluate: position has no last move")
		}
		fmt.Fprintf(c.out, " val=%d\n", cfg.Patterns.Evaluate(p.Board(), p.ToMove(), last))
		return nil
	}

	r, err := mm.Analyze(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "AI analysis:\n %s\n", r)
	if r.Fallback {
		fmt.Fprintf(c.out, " (no candidate improved on the initial window)\n")
	}
	if c.quiet {
		return nil
	}
	next, err := p.Move(r.Move)
	if err != nil {
		log.Warn().Err(err).Str("move", notation.FormatSquare(r.Move)).Msg("search result is not playable")
		return nil
	}
	fmt.Fprintln(c.out, "Resulting position:")
	cli.RenderBoard(nil, c.out, next)
	fmt.Fprintln(c.out)
	return nil
}

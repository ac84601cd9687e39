package play

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
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
	white  string
	black  string
	size   int
	limit  time.Duration
	out    string
	config string

	unicode bool
	opt     opt.Search
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play gomoku from the command line" }
func (*Command) Usage() string {
	return `play [options]

Play gomoku on the command-line, against a human or AI.

Players are "human", "ai" (uses the engine flags), "ai:LEVEL",
"rand" or "rand:SEED".
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.white, "white", "ai", "white player")
	flags.StringVar(&c.black, "black", "human", "black player")
	flags.IntVar(&c.size, "size", gomoku.DefaultSize, "board size")
	flags.DurationVar(&c.limit, "limit", time.Minute, "ai time limit")
	flags.StringVar(&c.out, "out", "", "write the game record to file")
	flags.StringVar(&c.config, "config", "", "engine config file")

	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
	c.opt.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := bufio.NewReader(os.Stdin)
	white, err := c.parsePlayer(in, c.white)
	if err != nil {
		log.Error().Err(err).Msg("-white")
		return subcommands.ExitUsageError
	}
	black, err := c.parsePlayer(in, c.black)
	if err != nil {
		log.Error().Err(err).Msg("-black")
		return subcommands.ExitUsageError
	}
	st := &cli.CLI{
		Config: gomoku.Config{Size: c.size},
		Out:    os.Stdout,
		White:  white,
		Black:  black,
		Glyphs: glyphs(c.unicode),
	}
	p, err := st.Play(ctx)
	if err != nil {
		log.Error().Err(err).Msg("play")
	}
	if c.out != "" {
		rec := &notation.Record{Moves: st.Moves()}
		rec.SetTag("Size", strconv.Itoa(c.size))
		rec.SetTag("Black", c.black)
		rec.SetTag("White", c.white)
		if p != nil {
			over, winner := p.GameOver()
			rec.Result = notation.ResultToken(over, winner)
		}
		if err := os.WriteFile(c.out, []byte(rec.Render()), 0644); err != nil {
			log.Error().Err(err).Str("path", c.out).Msg("write record")
			return subcommands.ExitFailure
		}
	}
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func glyphs(unicode bool) *cli.Glyphs {
	if unicode {
		return &cli.UnicodeGlyphs
	}
	return &cli.DefaultGlyphs
}

type aiWrapper struct {
	limit time.Duration
	p     ai.Player
}

func (a *aiWrapper) GetMove(ctx context.Context, p *gomoku.Position) (gomoku.Move, error) {
	ctx, cancel := context.WithTimeout(ctx, a.limit)
	defer cancel()
	return a.p.GetMove(ctx, p)
}

func (c *Command) parsePlayer(in *bufio.Reader, s string) (ai.Player, error) {
	if s == "human" {
		return cli.NewCLIPlayer(os.Stdout, in), nil
	}
	if s == "rand" {
		return &aiWrapper{c.limit, ai.NewRandom(time.Now().UnixNano())}, nil
	}
	if seed, ok := strings.CutPrefix(s, "rand:"); ok {
		i, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, err
		}
		return &aiWrapper{c.limit, ai.NewRandom(i)}, nil
	}
	if s == "ai" || strings.HasPrefix(s, "ai:") {
		o := c.opt
		if level, ok := strings.CutPrefix(s, "ai:"); ok {
			o.Level = level
		}
		v, err := opt.Load(c.config)
		if err != nil {
			return nil, err
		}
		cfg, err := o.BuildConfig(v)
		if err != nil {
			return nil, err
		}
		return &aiWrapper{c.limit, ai.NewMinimax(cfg)}, nil
	}
	return nil, fmt.Errorf("unparseable player: %s", s)
}

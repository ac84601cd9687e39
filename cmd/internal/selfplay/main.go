package selfplay

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/nelhage/gomoku/cmd/internal/opt"
	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/logs"
)

type Command struct {
	size int
	p1   opt.Search
	p2   opt.Search
	seed int64

	games  int
	cutoff int
	swap   bool

	threads int

	config  string
	db      string
	out     string
	summary string
	verbose bool

	stderr io.Writer
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two AIs against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]

Engine options for each side are given with -p1-* and -p2-* flags, or
under the p1 and p2 keys of the -config file.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	c.p1.Prefix, c.p2.Prefix = "p1", "p2"
	c.p1.AddFlags(flags)
	c.p2.AddFlags(flags)

	flags.IntVar(&c.size, "size", gomoku.DefaultSize, "board size")
	flags.Int64Var(&c.seed, "seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play per color")
	flags.IntVar(&c.cutoff, "cutoff", 0, "cut games off after how many plies (0 for none)")
	flags.BoolVar(&c.swap, "swap", true, "swap colors each game")
	flags.IntVar(&c.threads, "threads", 4, "number of parallel threads")
	flags.StringVar(&c.config, "config", "", "engine config file")
	flags.StringVar(&c.db, "db", "", "sqlite database to log games and searches to")
	flags.StringVar(&c.out, "out", "", "directory to write game records to")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	if c.seed == 0 {
		c.seed = time.Now().Unix()
	}
	v, err := opt.Load(c.config)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return subcommands.ExitFailure
	}
	p1, err := c.p1.BuildConfig(v)
	if err != nil {
		log.Error().Err(err).Msg("p1")
		return subcommands.ExitUsageError
	}
	p2, err := c.p2.BuildConfig(v)
	if err != nil {
		log.Error().Err(err).Msg("p2")
		return subcommands.ExitUsageError
	}

	cfg := &Config{
		Games:   c.games,
		Verbose: c.verbose,
		P1:      p1,
		P2:      p2,
		Size:    c.size,
		Swap:    c.swap,
		Threads: c.threads,
		Seed:    c.seed,
		Cutoff:  c.cutoff,
	}
	if c.db != "" {
		repo, err := logs.Open(c.db)
		if err != nil {
			log.Error().Err(err).Str("db", c.db).Msg("open database")
			return subcommands.ExitFailure
		}
		defer repo.Close()
		cfg.Repo = repo
	}

	st, err := Simulate(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("selfplay")
	}

	if c.out != "" {
		if c.summary == "" {
			c.summary = path.Join(c.out, "summary.json")
		}
		for _, r := range st.Games {
			if err := writeGame(c.out, cfg, &r); err != nil {
				log.Error().Err(err).Msg("write game")
			}
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, cfg, &st); err != nil {
			log.Error().Err(err).Msg("writing summary")
		}
	}
	c.report(cfg, &st)

	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *Command) report(cfg *Config, st *Stats) {
	log.Info().
		Int("games", st.Count()).
		Int64("seed", c.seed).
		Int("ties", st.Ties).
		Int("cutoff", st.Cutoff).
		Int("black", st.Black).
		Int("white", st.White).
		Int64("nodes", st.Nodes).
		Msg("done")

	tw := tabwriter.NewWriter(c.stderr, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\tblack\twhite\tsum\n")
	fmt.Fprintf(tw, "p1 (%s)\t%d\t%d\t%d\n", cfg.P1.Label, st.Players[0].BlackWins, st.Players[0].WhiteWins, st.Players[0].Wins)
	fmt.Fprintf(tw, "p2 (%s)\t%d\t%d\t%d\n", cfg.P2.Label, st.Players[1].BlackWins, st.Players[1].WhiteWins, st.Players[1].Wins)
	fmt.Fprintf(tw, "sum\t%d\t%d\t%d\n",
		st.Players[0].BlackWins+st.Players[1].BlackWins,
		st.Players[0].WhiteWins+st.Players[1].WhiteWins,
		st.Players[0].Wins+st.Players[1].Wins,
	)
	tw.Flush()

	a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
	if a < b {
		a, b = b, a
	}
	fmt.Fprintf(c.stderr, "p[one-sided]=%f\n", binomTest(a, b, 0.5))
}

func writeGame(d string, cfg *Config, r *Result) error {
	if err := os.MkdirAll(d, 0755); err != nil {
		return err
	}
	recPath := path.Join(d, fmt.Sprintf("%d.rec", r.spec.i))
	return os.WriteFile(recPath, []byte(r.Record(cfg).Render()), 0644)
}

type Summary struct {
	Cmdline []string
	Player1 string
	Player2 string
	Seed    int64
	Stats   *Stats
}

func (c *Command) writeSummary(path string, cfg *Config, stats *Stats) error {
	summary := Summary{
		Cmdline: os.Args,
		Player1: cfg.P1.Label,
		Player2: cfg.P2.Label,
		Seed:    c.seed,
		Stats:   stats,
	}
	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}

package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/nelhage/gomoku/ai"
	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/logs"
	"github.com/nelhage/gomoku/notation"
)

type Config struct {
	Games int

	Verbose bool

	P1, P2 ai.SearchConfig

	Size    int
	Swap    bool
	Threads int
	Seed    int64
	// Cutoff ends a game undecided after this many plies; 0 plays
	// until the board is full.
	Cutoff int

	// Repo, if set, receives every finished game and its searches.
	Repo *logs.Repository
}

type PlayerStats struct {
	Wins      int
	BlackWins int
	WhiteWins int
}

type Stats struct {
	Players      [2]PlayerStats
	Black, White int
	Ties         int
	Cutoff       int
	Nodes        int64

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.White + s.Black + s.Ties + s.Cutoff
}

func (s *Stats) Merge(other *Stats) Stats {
	out := *s
	for i := range out.Players {
		out.Players[i].Wins += other.Players[i].Wins
		out.Players[i].BlackWins += other.Players[i].BlackWins
		out.Players[i].WhiteWins += other.Players[i].WhiteWins
	}
	out.Black += other.Black
	out.White += other.White
	out.Ties += other.Ties
	out.Cutoff += other.Cutoff
	out.Nodes += other.Nodes
	return out
}

type gameSpec struct {
	i       int
	seed    int64
	p1color gomoku.Color
}

type Result struct {
	spec     gameSpec
	Position *gomoku.Position
	Moves    []gomoku.Move
	Winner   gomoku.Color
	Searches []logs.Search
}

// Stats tallies a single game. Games is left empty.
func (r *Result) Stats() Stats {
	var st Stats
	over, _ := r.Position.GameOver()
	switch {
	case r.Winner == gomoku.Black:
		st.Black++
	case r.Winner == gomoku.White:
		st.White++
	case over:
		st.Ties++
	default:
		st.Cutoff++
	}
	if r.Winner != gomoku.NoColor {
		pst := &st.Players[0]
		if r.Winner != r.spec.p1color {
			pst = &st.Players[1]
		}
		pst.Wins++
		if r.Winner == gomoku.Black {
			pst.BlackWins++
		} else {
			pst.WhiteWins++
		}
	}
	st.Nodes = lo.SumBy(r.Searches, func(s logs.Search) int64 { return s.Nodes })
	return st
}

// Simulate plays c.Games games (twice that with c.Swap) across
// c.Threads workers. A failed game or a failure to store one stops
// the run; the games finished so far are still counted.
func Simulate(ctx context.Context, c *Config) (Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	specs := make(chan gameSpec)
	rc := make(chan Result)
	g.Go(func() error {
		defer close(specs)
		return startGames(ctx, c, specs)
	})
	for i := 0; i < max(c.Threads, 1); i++ {
		g.Go(func() error {
			return worker(ctx, c, specs, rc)
		})
	}
	errc := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(rc)
		errc <- err
	}()

	var st Stats
	var storeErr error
	for r := range rc {
		if c.Verbose {
			log.Info().
				Int("game", r.spec.i).
				Int("plies", r.Position.MoveNumber()).
				Stringer("p1", r.spec.p1color).
				Stringer("winner", r.Winner).
				Msg("game")
		}
		if storeErr == nil {
			if storeErr = c.store(&r); storeErr != nil {
				cancel()
			}
		}
		rs := r.Stats()
		st = st.Merge(&rs)
		st.Games = append(st.Games, r)
	}
	err := <-errc
	if storeErr != nil {
		return st, storeErr
	}
	return st, err
}

func startGames(ctx context.Context, c *Config, specs chan<- gameSpec) error {
	r := rand.New(rand.NewSource(c.Seed))
	n := c.Games
	if c.Swap {
		n *= 2
	}
	for i := 0; i < n; i++ {
		spec := gameSpec{
			i:       i,
			seed:    r.Int63(),
			p1color: gomoku.Black,
		}
		if c.Swap && i%2 == 1 {
			spec.p1color = gomoku.White
		}
		select {
		case specs <- spec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func worker(ctx context.Context, c *Config, specs <-chan gameSpec, out chan<- Result) error {
	for spec := range specs {
		r, err := playGame(ctx, c, spec)
		if err != nil {
			return fmt.Errorf("game %d: %w", spec.i, err)
		}
		select {
		case out <- r:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func playGame(ctx context.Context, c *Config, spec gameSpec) (Result, error) {
	p, err := gomoku.New(gomoku.Config{Size: c.Size})
	if err != nil {
		return Result{}, err
	}
	p1, p2 := c.P1, c.P2
	p1.Seed, p2.Seed = spec.seed, spec.seed+1
	black, white := ai.NewMinimax(p1), ai.NewMinimax(p2)
	if spec.p1color == gomoku.White {
		black, white = white, black
	}

	cutoff := c.Cutoff
	if cutoff <= 0 {
		cutoff = p.Size() * p.Size()
	}
	res := Result{spec: spec}
	for ply := 0; ply < cutoff; ply++ {
		if over, _ := p.GameOver(); over {
			break
		}
		mm := black
		if p.ToMove() == gomoku.White {
			mm = white
		}
		sr, m, err := mm.SelectMove(ctx, p)
		if err != nil {
			return Result{}, fmt.Errorf("ply %d: %w", ply, err)
		}
		res.Searches = append(res.Searches, logs.Search{
			Ply:       ply,
			Label:     mm.Config().Label,
			Color:     p.ToMove().String(),
			Move:      notation.FormatSquare(m),
			Score:     sr.Score,
			Nodes:     int64(sr.Stats.Evaluated),
			ElapsedMS: sr.Elapsed.Milliseconds(),
			Fallback:  sr.Fallback,
		})
		if p, err = p.Move(m); err != nil {
			return Result{}, fmt.Errorf("illegal move %s: %w", notation.FormatSquare(m), err)
		}
		res.Moves = append(res.Moves, m)
	}
	res.Position = p
	_, res.Winner = p.GameOver()
	return res, nil
}

func (r *Result) labels(c *Config) (black, white string) {
	black, white = c.P1.Label, c.P2.Label
	if r.spec.p1color == gomoku.White {
		black, white = white, black
	}
	return black, white
}

// Record renders the game as a game record.
func (r *Result) Record(c *Config) *notation.Record {
	black, white := r.labels(c)
	over, winner := r.Position.GameOver()
	rec := &notation.Record{
		Moves:  r.Moves,
		Result: notation.ResultToken(over, winner),
	}
	rec.SetTag("Size", strconv.Itoa(r.Position.Size()))
	rec.SetTag("Black", black)
	rec.SetTag("White", white)
	rec.SetTag("Game", strconv.Itoa(r.spec.i))
	return rec
}

func (c *Config) store(r *Result) error {
	if c.Repo == nil {
		return nil
	}
	black, white := r.labels(c)
	over, winner := r.Position.GameOver()
	g := &logs.Game{
		Timestamp: time.Now().UTC(),
		Size:      r.Position.Size(),
		Black:     black,
		White:     white,
		Result:    notation.ResultToken(over, winner),
		Moves:     len(r.Moves),
		Record:    r.Record(c).Render(),
	}
	if winner != gomoku.NoColor {
		g.Winner = winner.String()
	}
	_, err := c.Repo.InsertGame(g, r.Searches)
	return err
}

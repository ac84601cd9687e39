package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/notation"
)

const (
	MaxEval int64 = 999999
	MinEval       = -MaxEval

	// WinScore is the pattern value of five in a row. It exceeds the
	// sum of every non-winning pattern through a square.
	WinScore int64 = 88888
)

var (
	ErrInvalidAnchor = errors.New("anchor is off the board")
	ErrBadDepth      = errors.New("depth must be >= 0")
	ErrBadConfig     = errors.New("bad search config")
	ErrBadMover      = errors.New("mover must be black or white")
)

type SearchConfig struct {
	// Depth is the number of plies searched below the root.
	Depth int
	// Jitter bounds the uniform random integer added to every leaf
	// evaluation; 0 makes the search deterministic.
	Jitter int
	// Radius is the half-width of the candidate window around the
	// last move.
	Radius int
	// Label names the configuration in diagnostics.
	Label string

	Seed  int64
	Debug int

	Patterns *Patterns
}

func (c *SearchConfig) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("%w: %d", ErrBadDepth, c.Depth)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("%w: jitter %d", ErrBadConfig, c.Jitter)
	}
	if c.Radius < 0 {
		return fmt.Errorf("%w: radius %d", ErrBadConfig, c.Radius)
	}
	return nil
}

type Stats struct {
	Depth int
	// Evaluated counts leaf evaluations.
	Evaluated uint64
	Visited   uint64
	Terminal  uint64
	Empty     uint64
	CutNodes  uint64
}

type Result struct {
	Move  gomoku.Move
	Score int64
	// Fallback is set when no candidate improved on the initial
	// window and Move is the anchor itself.
	Fallback bool

	Label   string
	Elapsed time.Duration
	Stats   Stats
}

func (r Result) Nodes() uint64 {
	return r.Stats.Evaluated
}

var printer = message.NewPrinter(language.English)

func (r Result) String() string {
	return printer.Sprintf("level=%s nodes=%d move=%s score=%d time=%dms",
		r.Label,
		r.Stats.Evaluated,
		notation.FormatSquare(r.Move),
		r.Score,
		r.Elapsed.Milliseconds(),
	)
}

// Engine runs fixed-depth alpha-beta searches. It holds only its
// configuration, so one Engine may serve concurrent searches on
// distinct boards.
type Engine struct {
	cfg SearchConfig
}

func NewEngine(cfg SearchConfig) *Engine {
	if cfg.Patterns == nil {
		cfg.Patterns = &DefaultPatterns
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() SearchConfig {
	return e.cfg
}

// Search picks a move for mover, whose opponent last played at last.
// The board is modified during the search and restored before
// Search returns.
func Search(b *gomoku.Board, depth int, mover gomoku.Color, last gomoku.Move, cfg SearchConfig) (Result, error) {
	cfg.Depth = depth
	return NewEngine(cfg).Search(b, mover, last)
}

func (e *Engine) Search(b *gomoku.Board, mover gomoku.Color, last gomoku.Move) (Result, error) {
	return e.SearchContext(context.Background(), b, mover, last)
}

// SearchContext is Search bounded by ctx. A search interrupted by ctx
// returns ctx.Err() with the board restored.
func (e *Engine) SearchContext(ctx context.Context, b *gomoku.Board, mover gomoku.Color, last gomoku.Move) (Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return Result{}, err
	}
	if b == nil || b.Size() == 0 {
		return Result{}, gomoku.ErrBoardShape
	}
	if !b.InBounds(last) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidAnchor, last)
	}
	if !mover.IsStone() {
		return Result{}, ErrBadMover
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &searcher{
		cfg:   &e.cfg,
		b:     b,
		rand:  rand.New(rand.NewSource(seed)),
		stack: make([]moveGenerator, e.cfg.Depth+1),
	}
	s.st.Depth = e.cfg.Depth

	if ctx.Err() != nil {
		s.cancel = 1
	} else if ctx.Done() != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				atomic.StoreInt32(&s.cancel, 1)
			case <-done:
			}
		}()
	}

	start := time.Now()
	m, v, improved := s.alphaBeta(0, e.cfg.Depth, MinEval, MaxEval, mover, last)
	if s.aborted {
		if e.cfg.Debug > 0 {
			log.Info().
				Str("label", e.cfg.Label).
				Uint64("nodes", s.st.Evaluated).
				Dur("elapsed", time.Since(start)).
				Msg("[minimax] search cancelled")
		}
		return Result{}, ctx.Err()
	}
	r := Result{
		Move:     m,
		Score:    v,
		Fallback: e.cfg.Depth > 0 && !improved,
		Label:    e.cfg.Label,
		Elapsed:  time.Since(start),
		Stats:    s.st,
	}

	if e.cfg.Debug > 0 {
		log.Info().
			Str("label", r.Label).
			Uint64("nodes", r.Stats.Evaluated).
			Str("move", notation.FormatSquare(r.Move)).
			Int64("score", r.Score).
			Dur("elapsed", r.Elapsed).
			Bool("fallback", r.Fallback).
			Msg("[minimax] search")
	}
	if e.cfg.Debug > 1 {
		log.Debug().
			Int("depth", r.Stats.Depth).
			Uint64("visited", r.Stats.Visited).
			Uint64("terminal", r.Stats.Terminal).
			Uint64("empty", r.Stats.Empty).
			Uint64("cut", r.Stats.CutNodes).
			Msg("[minimax] stats")
	}
	return r, nil
}

// searcher holds the state of one top-level search.
type searcher struct {
	cfg  *SearchConfig
	b    *gomoku.Board
	rand *rand.Rand
	st   Stats

	cancel  int32
	aborted bool

	stack []moveGenerator
}

func (s *searcher) evaluate(mover gomoku.Color, sq gomoku.Move) int64 {
	v := s.cfg.Patterns.Score(s.b, mover, sq) + s.cfg.Patterns.Score(s.b, mover.Opponent(), sq)
	if s.cfg.Jitter > 0 {
		v += int64(s.rand.Intn(s.cfg.Jitter))
	}
	return -v
}

// alphaBeta is a fail-hard negamax search. anchor is the last stone
// placed; mover is the side to play next. improved reports whether
// some candidate raised α; at ply 0 the returned move is then the
// first such best candidate, and otherwise the anchor.
func (s *searcher) alphaBeta(
	ply, depth int,
	α, β int64,
	mover gomoku.Color,
	anchor gomoku.Move) (gomoku.Move, int64, bool) {
	if depth == 0 || (ply > 0 && gomoku.FiveAt(s.b, anchor)) {
		s.st.Evaluated++
		if depth > 0 {
			s.st.Terminal++
		}
		return anchor, s.evaluate(mover, anchor), false
	}
	s.st.Visited++

	mg := &s.stack[ply]
	*mg = newMoveGenerator(s.b, anchor, s.cfg.Radius)

	best := anchor
	improved := false
	found := false
	for m, ok := mg.Next(); ok; m, ok = mg.Next() {
		if s.aborted || atomic.LoadInt32(&s.cancel) != 0 {
			s.aborted = true
			return anchor, 0, false
		}
		found = true
		s.b.Set(m, mover)
		_, v, _ := s.alphaBeta(ply+1, depth-1, -β, -α, mover.Opponent(), m)
		s.b.Clear(m)
		v = -v

		if v >= β {
			s.st.CutNodes++
			return m, β, true
		}
		if v > α {
			α = v
			improved = true
			if ply == 0 {
				best = m
			}
		}
	}
	if !found {
		s.st.Empty++
		return anchor, 0, false
	}
	if ply == 0 && !improved {
		return anchor, 0, false
	}
	return best, α, improved
}

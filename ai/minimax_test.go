package ai

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/gomokutest"
	"github.com/nelhage/gomoku/notation"
)

var depth = flag.Int("depth", 3, "minimax search depth")
var radius = flag.Int("radius", 2, "candidate window radius")

func BenchmarkSearch(b *testing.B) {
	board := gomokutest.Board(15, "h8 i9 g9", "h9 g8")
	e := NewEngine(SearchConfig{Depth: *depth, Radius: *radius, Seed: 1})
	for i := 0; i < b.N; i++ {
		if _, err := e.Search(board, gomoku.White, gomokutest.Square("g9")); err != nil {
			b.Fatal(err)
		}
	}
}

func TestSearchRestoresBoard(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 30; i++ {
		b := randomBoard(r, 15, 0.2)
		last := gomoku.Move{Row: r.Intn(15), Col: r.Intn(15)}
		cfg := SearchConfig{
			Depth:  1 + i%3,
			Radius: 1 + i%2,
			Jitter: 5,
			Seed:   int64(i + 1),
		}
		mover := gomoku.Black
		if i%2 == 1 {
			mover = gomoku.White
		}
		before := b.Clone()
		_, err := NewEngine(cfg).Search(b, mover, last)
		require.NoError(t, err)
		if !before.Equal(b) {
			t.Fatalf("%d: board modified by search (depth=%d radius=%d)", i, cfg.Depth, cfg.Radius)
		}
	}
}

func TestSearchDepthZero(t *testing.T) {
	b := gomokutest.Board(15, "e8 f8 g8", "h8")
	before := b.Clone()
	last := gomokutest.Square("h8")
	res, err := Search(b, 0, gomoku.Black, last, SearchConfig{Radius: 2})
	require.NoError(t, err)
	assert.Equal(t, last, res.Move)
	assert.Equal(t, Evaluate(before, gomoku.Black, last), res.Score)
	assert.Equal(t, uint64(1), res.Nodes())
	assert.Equal(t, uint64(0), res.Stats.Visited)
	assert.False(t, res.Fallback)
	assert.True(t, before.Equal(b))
}

func TestSearchSingleStone(t *testing.T) {
	b := gomokutest.Board(15, "", "h8")
	last := gomokutest.Square("h8")
	res, err := Search(b, 1, gomoku.Black, last, SearchConfig{Radius: 1, Label: "test"})
	require.NoError(t, err)

	window := Candidates(b, last, 1)
	require.Len(t, window, 8)
	assert.Contains(t, window, res.Move)
	assert.Equal(t, uint64(8), res.Nodes())

	// Every neighbor scores the same; the first in row-major order wins.
	assert.Equal(t, "g7", notation.FormatSquare(res.Move))
	assert.Equal(t, int64(33), res.Score)
	assert.Equal(t, "test", res.Label)
}

func TestSearchJitter(t *testing.T) {
	b := gomokutest.Board(15, "", "h8")
	last := gomokutest.Square("h8")
	window := Candidates(b, last, 1)
	for seed := int64(1); seed <= 20; seed++ {
		res, err := Search(b, 1, gomoku.Black, last, SearchConfig{Radius: 1, Jitter: 10, Seed: seed})
		require.NoError(t, err)
		assert.Contains(t, window, res.Move)
		assert.GreaterOrEqual(t, res.Score, int64(33))
		assert.Less(t, res.Score, int64(33+10))

		again, err := Search(b, 1, gomoku.Black, last, SearchConfig{Radius: 1, Jitter: 10, Seed: seed})
		require.NoError(t, err)
		assert.Equal(t, res.Move, again.Move, "seed %d", seed)
		assert.Equal(t, res.Score, again.Score, "seed %d", seed)
	}
}

func TestSearchCompletesFive(t *testing.T) {
	const black = "d8 e8 f8 g8"
	const white = "d9 f9 e7 h7"
	winning := []gomoku.Move{gomokutest.Square("c8"), gomokutest.Square("h8")}

	cases := []struct {
		depth, radius int
		last          string
	}{
		{1, 4, "d9"},
		{2, 4, "d9"},
		{1, 1, "h7"},
		{2, 1, "h7"},
		{3, 1, "h7"},
	}
	for _, tc := range cases {
		b := gomokutest.Board(15, black, white)
		res, err := Search(b, tc.depth, gomoku.Black, gomokutest.Square(tc.last),
			SearchConfig{Radius: tc.radius})
		require.NoError(t, err)
		assert.Contains(t, winning, res.Move, "depth=%d radius=%d", tc.depth, tc.radius)
		assert.GreaterOrEqual(t, res.Score, WinScore, "depth=%d radius=%d", tc.depth, tc.radius)
	}
}

func TestSearchWhiteCompletesFive(t *testing.T) {
	b := gomokutest.Board(15, "d9 f9 e7 h7", "d8 e8 f8 g8")
	res, err := Search(b, 1, gomoku.White, gomokutest.Square("h7"), SearchConfig{Radius: 1})
	require.NoError(t, err)
	assert.Equal(t, "h8", notation.FormatSquare(res.Move))
	assert.GreaterOrEqual(t, res.Score, WinScore)
}

func TestSearchNoCandidates(t *testing.T) {
	for _, d := range []int{1, 2} {
		b := gomokutest.Board(15, "g7 i7 g9 i9", "h7 g8 i8 h9 h8")
		before := b.Clone()
		last := gomokutest.Square("h8")
		res, err := Search(b, d, gomoku.Black, last, SearchConfig{Radius: 1})
		require.NoError(t, err)
		assert.Equal(t, last, res.Move)
		assert.Equal(t, int64(0), res.Score)
		assert.True(t, res.Fallback)
		assert.Equal(t, uint64(1), res.Stats.Empty)
		assert.True(t, before.Equal(b))
	}
}

func TestSearchErrors(t *testing.T) {
	b := gomoku.NewBoard(15)
	cases := []struct {
		name  string
		b     *gomoku.Board
		depth int
		mover gomoku.Color
		last  gomoku.Move
		cfg   SearchConfig
		err   error
	}{
		{"anchor row", b, 1, gomoku.Black, gomoku.Move{Row: 15, Col: 0}, SearchConfig{}, ErrInvalidAnchor},
		{"anchor col", b, 1, gomoku.Black, gomoku.Move{Row: 0, Col: -1}, SearchConfig{}, ErrInvalidAnchor},
		{"nil board", nil, 1, gomoku.Black, gomoku.Move{}, SearchConfig{}, gomoku.ErrBoardShape},
		{"depth", b, -1, gomoku.Black, gomoku.Move{}, SearchConfig{}, ErrBadDepth},
		{"radius", b, 1, gomoku.Black, gomoku.Move{}, SearchConfig{Radius: -1}, ErrBadConfig},
		{"jitter", b, 1, gomoku.Black, gomoku.Move{}, SearchConfig{Jitter: -1}, ErrBadConfig},
		{"mover", b, 1, gomoku.NoColor, gomoku.Move{}, SearchConfig{}, ErrBadMover},
	}
	for _, tc := range cases {
		_, err := Search(tc.b, tc.depth, tc.mover, tc.last, tc.cfg)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: err=%v want %v", tc.name, err, tc.err)
		}
	}
}

func TestEngineConcurrent(t *testing.T) {
	e := NewEngine(SearchConfig{Depth: 2, Radius: 2, Seed: 9})
	boards := []*gomoku.Board{
		gomokutest.Board(15, "h8 i9", "h9"),
		gomokutest.Board(15, "c3 d4", "e5 c4"),
		gomokutest.Board(15, "l12", "k11 m13"),
	}
	lasts := []string{"h9", "c4", "m13"}

	want := make([]Result, len(boards))
	for i, b := range boards {
		r, err := e.Search(b.Clone(), gomoku.Black, gomokutest.Square(lasts[i]))
		require.NoError(t, err)
		want[i] = r
	}

	var wg sync.WaitGroup
	got := make([]Result, len(boards))
	for i, b := range boards {
		wg.Add(1)
		go func(i int, b *gomoku.Board) {
			defer wg.Done()
			got[i], _ = e.Search(b, gomoku.Black, gomokutest.Square(lasts[i]))
		}(i, b)
	}
	wg.Wait()
	for i := range boards {
		assert.Equal(t, want[i].Move, got[i].Move, "board %d", i)
		assert.Equal(t, want[i].Score, got[i].Score, "board %d", i)
		assert.Equal(t, want[i].Stats, got[i].Stats, "board %d", i)
	}
}

func TestResultString(t *testing.T) {
	r := Result{
		Move:  gomokutest.Square("h8"),
		Score: 88918,
		Label: "hard",
		Stats: Stats{Evaluated: 1234567},
	}
	assert.Equal(t, "level=hard nodes=1,234,567 move=h8 score=88,918 time=0ms", r.String())
}

// negamax is an unpruned search with the same leaf, terminal and
// empty-window rules as alphaBeta. Ties keep the first move found.
func negamax(b *gomoku.Board, ply, depth, radius int, mover gomoku.Color, anchor gomoku.Move) (gomoku.Move, int64) {
	if depth == 0 || (ply > 0 && gomoku.FiveAt(b, anchor)) {
		return anchor, Evaluate(b, mover, anchor)
	}
	moves := Candidates(b, anchor, radius)
	if len(moves) == 0 {
		return anchor, 0
	}
	best, bestV := anchor, MinEval
	for _, m := range moves {
		b.Set(m, mover)
		_, v := negamax(b, ply+1, depth-1, radius, mover.Opponent(), m)
		b.Clear(m)
		if -v > bestV {
			best, bestV = m, -v
		}
	}
	return best, bestV
}

func TestSearchMatchesNegamax(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	var cuts uint64
	for i := 0; i < 60; i++ {
		b := randomBoard(r, 15, 0.1+0.3*r.Float64())
		last := gomoku.Move{Row: r.Intn(15), Col: r.Intn(15)}
		depth := 1 + i%3
		radius := 1 + (i/3)%2
		mover := gomoku.Black
		if r.Intn(2) == 0 {
			mover = gomoku.White
		}

		wantMove, wantScore := negamax(b.Clone(), 0, depth, radius, mover, last)
		res, err := Search(b, depth, mover, last, SearchConfig{Radius: radius})
		require.NoError(t, err)
		assert.Equal(t, wantMove, res.Move, "board %d depth=%d radius=%d", i, depth, radius)
		assert.Equal(t, wantScore, res.Score, "board %d depth=%d radius=%d", i, depth, radius)
		if depth >= 2 {
			cuts += res.Stats.CutNodes
		}
	}
	assert.Positive(t, cuts, "no beta cutoffs at depth >= 2")
}

func TestSearchPrunes(t *testing.T) {
	b := gomokutest.Board(15, "h8 i9 g9", "h9 g8")
	last := gomokutest.Square("g8")
	res, err := Search(b, 2, gomoku.Black, last, SearchConfig{Radius: 2})
	require.NoError(t, err)
	assert.Positive(t, res.Stats.CutNodes)

	// Without pruning every window of the second ply would be searched
	// to the leaves.
	var full uint64
	for _, m := range Candidates(b, last, 2) {
		b.Set(m, gomoku.Black)
		full += uint64(len(Candidates(b, m, 2)))
		b.Clear(m)
	}
	assert.Less(t, res.Stats.Evaluated, full)
}

func TestSearchCancelled(t *testing.T) {
	b := gomokutest.Board(15, "h8 g9", "i9 h9")
	before := b.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(SearchConfig{Depth: 3, Radius: 2}).SearchContext(ctx, b, gomoku.Black, gomokutest.Square("h9"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, before.Equal(b))
}

func TestSearchDeadline(t *testing.T) {
	b := gomokutest.Board(15, "h8 g9", "i9 h9")
	before := b.Clone()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := NewEngine(SearchConfig{Depth: 7, Radius: 4}).SearchContext(ctx, b, gomoku.Black, gomokutest.Square("h9"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, before.Equal(b), "board modified by cancelled search")
}

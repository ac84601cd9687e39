package selfplay

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/gomoku/ai"
	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/logs"
	"github.com/nelhage/gomoku/notation"
)

func testConfig(t *testing.T) *Config {
	p1, err := ai.Preset("easy")
	require.NoError(t, err)
	p2, err := ai.Preset("beginner")
	require.NoError(t, err)
	return &Config{
		Games:   2,
		P1:      p1,
		P2:      p2,
		Size:    9,
		Swap:    true,
		Threads: 2,
		Seed:    1,
		Cutoff:  30,
	}
}

func TestSimulate(t *testing.T) {
	c := testConfig(t)
	repo, err := logs.Open(filepath.Join(t.TempDir(), "selfplay.db"))
	require.NoError(t, err)
	defer repo.Close()
	c.Repo = repo

	st, err := Simulate(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Count())
	assert.Len(t, st.Games, 4)
	assert.Equal(t, st.Black+st.White, st.Players[0].Wins+st.Players[1].Wins)
	assert.Positive(t, st.Nodes)

	games, err := repo.Games()
	require.NoError(t, err)
	require.Len(t, games, 4)
	for _, g := range games {
		rec, err := notation.ParseRecord(strings.NewReader(g.Record))
		require.NoError(t, err)
		p, err := rec.PositionAt(-1)
		require.NoError(t, err, "replay game %d", g.ID)
		assert.Equal(t, g.Moves, p.MoveNumber())
		assert.LessOrEqual(t, g.Moves, 30)

		searches, err := repo.Searches(g.ID)
		require.NoError(t, err)
		assert.Len(t, searches, g.Moves)
		for i, s := range searches {
			assert.Equal(t, notation.FormatSquare(rec.Moves[i]), s.Move)
		}
	}
}

func TestResultStats(t *testing.T) {
	p, err := gomoku.New(gomoku.Config{Size: 9})
	require.NoError(t, err)
	for _, sq := range []string{"a1", "a2", "b1", "b2", "c1", "c2", "d1", "d2"} {
		m, err := notation.ParseSquare(sq)
		require.NoError(t, err)
		p, err = p.Move(m)
		require.NoError(t, err)
	}
	cut := Result{spec: gameSpec{p1color: gomoku.Black}, Position: p}
	st := cut.Stats()
	assert.Equal(t, 1, st.Cutoff)

	m, _ := notation.ParseSquare("e1")
	won, err := p.Move(m)
	require.NoError(t, err)
	r := Result{
		spec:     gameSpec{p1color: gomoku.White},
		Position: won,
		Winner:   gomoku.Black,
		Searches: []logs.Search{{Nodes: 3}, {Nodes: 4}},
	}
	rs := r.Stats()
	st = st.Merge(&rs)
	assert.Equal(t, 2, st.Count())
	assert.Equal(t, 1, st.Black)
	assert.Equal(t, PlayerStats{Wins: 1, BlackWins: 1}, st.Players[1])
	assert.Equal(t, int64(7), st.Nodes)
	assert.Empty(t, st.Games)
}

func TestBinomTest(t *testing.T) {
	assert.InDelta(t, 1.0, binomTest(0, 4, 0.5), 1e-9)
	assert.InDelta(t, 1.0/16, binomTest(4, 0, 0.5), 1e-9)
	assert.InDelta(t, 5.0/16, binomTest(3, 1, 0.5), 1e-9)
}

func TestWriteSummaryLabels(t *testing.T) {
	c := &Command{seed: 5}
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, c.writeSummary(path, cfg, &Stats{Black: 1}))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Summary
	require.NoError(t, json.Unmarshal(bs, &got))
	assert.Equal(t, "easy", got.Player1)
	assert.Equal(t, "beginner", got.Player2)
	assert.Equal(t, int64(5), got.Seed)
	assert.Equal(t, 1, got.Stats.Black)
}

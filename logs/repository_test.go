package logs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	defer repo.Close()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	g := &Game{
		Timestamp: now,
		Size:      15,
		Black:     "hard",
		White:     "easy",
		Result:    "1-0",
		Winner:    "black",
		Moves:     3,
		Record:    "1. h8 g7\n2. i9\n1-0\n",
	}
	searches := []Search{
		{Ply: 0, Label: "hard", Color: "black", Move: "h8"},
		{Ply: 1, Label: "easy", Color: "white", Move: "g7", Score: 33, Nodes: 8, ElapsedMS: 1},
		{Ply: 2, Label: "hard", Color: "black", Move: "i9", Score: 88918, Nodes: 412, Fallback: true},
	}
	id, err := repo.InsertGame(g, searches)
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)

	_, err = repo.InsertGame(&Game{Timestamp: now, Size: 15, Black: "easy", White: "hard", Result: "1/2-1/2"}, nil)
	require.NoError(t, err)

	games, err := repo.Games()
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.True(t, now.Equal(games[0].Timestamp))
	games[0].Timestamp = now
	assert.Equal(t, *g, games[0])

	got, err := repo.Searches(id)
	require.NoError(t, err)
	assert.Equal(t, searches, got)

	stats, err := repo.PlayerStats()
	require.NoError(t, err)
	assert.Equal(t, []PlayerStat{
		{Player: "easy", Win: "lose", N: 1},
		{Player: "easy", Win: "tie", N: 1},
		{Player: "hard", Win: "tie", N: 1},
		{Player: "hard", Win: "win", N: 1},
	}, stats)
}

package play

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/gomoku/ai"
	"github.com/nelhage/gomoku/gomokutest"
)

func TestParsePlayer(t *testing.T) {
	c := &Command{limit: time.Second, size: 15}
	c.opt.Depth, c.opt.Radius, c.opt.Jitter = -1, -1, -1
	in := bufio.NewReader(strings.NewReader(""))

	p, err := c.parsePlayer(in, "ai:hard")
	require.NoError(t, err)
	mm := p.(*aiWrapper).p.(*ai.MinimaxAI)
	assert.Equal(t, "hard", mm.Config().Label)

	p, err = c.parsePlayer(in, "rand:3")
	require.NoError(t, err)
	m, err := p.GetMove(context.Background(), gomokutest.Position(9, "e5"))
	require.NoError(t, err)
	assert.NotEqual(t, gomokutest.Square("e5"), m)

	_, err = c.parsePlayer(in, "ai:grandmaster")
	assert.Error(t, err)
	_, err = c.parsePlayer(in, "rand:x")
	assert.Error(t, err)
	_, err = c.parsePlayer(in, "alphago")
	assert.Error(t, err)
}

package ai

import (
	"context"
	"math/rand"

	"github.com/nelhage/gomoku/gomoku"
)

type RandomAI struct {
	r *rand.Rand
}

func (r *RandomAI) GetMove(ctx context.Context, p *gomoku.Position) (gomoku.Move, error) {
	b := p.Board()
	moves := Candidates(b, gomoku.Move{}, b.Size())
	if len(moves) == 0 {
		return gomoku.Move{}, ErrNoMove
	}
	return moves[r.r.Intn(len(moves))], nil
}

func NewRandom(seed int64) Player {
	return &RandomAI{
		r: rand.New(rand.NewSource(seed)),
	}
}

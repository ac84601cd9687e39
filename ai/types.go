package ai

import (
	"context"

	"github.com/nelhage/gomoku/gomoku"
)

type Player interface {
	GetMove(ctx context.Context, p *gomoku.Position) (gomoku.Move, error)
}

package ai

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/nelhage/gomoku/gomoku"
	"github.com/nelhage/gomoku/notation"
)

var ErrNoMove = errors.New("no empty square")

// MinimaxAI plays moves chosen by an Engine, searching around the
// opponent's last move.
type MinimaxAI struct {
	engine *Engine
}

func NewMinimax(cfg SearchConfig) *MinimaxAI {
	return &MinimaxAI{engine: NewEngine(cfg)}
}

func (m *MinimaxAI) Config() SearchConfig {
	return m.engine.Config()
}

// Analyze searches p for the side to move. A position with no last
// move is searched around the center; an empty board is answered
// with the center directly.
func (m *MinimaxAI) Analyze(ctx context.Context, p *gomoku.Position) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if over, _ := p.GameOver(); over {
		return Result{}, gomoku.ErrGameOver
	}
	center := gomoku.Move{Row: p.Size() / 2, Col: p.Size() / 2}
	anchor, ok := p.LastMove()
	if !ok {
		if p.MoveNumber() == 0 {
			return Result{Move: center, Label: m.engine.cfg.Label}, nil
		}
		anchor = center
	}
	return m.engine.SearchContext(ctx, p.Board(), p.ToMove(), anchor)
}

func (m *MinimaxAI) GetMove(ctx context.Context, p *gomoku.Position) (gomoku.Move, error) {
	_, mv, err := m.SelectMove(ctx, p)
	return mv, err
}

// SelectMove searches p and returns the search result together with
// a legal move. When the search falls back to an occupied anchor, the
// move is the nearest empty square outside the candidate window.
func (m *MinimaxAI) SelectMove(ctx context.Context, p *gomoku.Position) (Result, gomoku.Move, error) {
	r, err := m.Analyze(ctx, p)
	if err != nil {
		return Result{}, gomoku.Move{}, err
	}
	if p.At(r.Move) == gomoku.NoColor {
		return r, r.Move, nil
	}
	mv, err := nearestEmpty(p.Board(), r.Move, m.engine.cfg.Radius+1)
	if err != nil {
		return r, gomoku.Move{}, err
	}
	log.Warn().
		Str("anchor", notation.FormatSquare(r.Move)).
		Str("move", notation.FormatSquare(mv)).
		Msg("[minimax] search fell back to occupied anchor")
	return r, mv, nil
}

// nearestEmpty returns the first empty square in the smallest window
// of radius >= from around anchor that has one.
func nearestEmpty(b *gomoku.Board, anchor gomoku.Move, from int) (gomoku.Move, error) {
	for r := from; r < b.Size(); r++ {
		mg := newMoveGenerator(b, anchor, r)
		if m, ok := mg.Next(); ok {
			return m, nil
		}
	}
	return gomoku.Move{}, ErrNoMove
}

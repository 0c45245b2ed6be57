package main

import (
	"math"

	"github.com/plus3/metris/tetris"
)

// Weights for the placement heuristic.
const (
	weightHeight    = -0.51
	weightLines     = 0.76
	weightHoles     = -0.36
	weightBumpiness = -0.18
)

// Placement is a target rotation and column for the active piece.
type Placement struct {
	Rotation int
	X        int
	Score    float64
}

// BestPlacement evaluates every rotation and column reachable by dropping
// straight down from the piece's current row.
func BestPlacement(p tetris.Piece, board tetris.Board) (Placement, bool) {
	best := Placement{Score: math.Inf(-1)}
	found := false

	for r := 0; r < p.Type.Rotations(); r++ {
		for x := -3; x < tetris.Width; x++ {
			cand := tetris.Piece{Type: p.Type, Rotation: r, X: x, Y: p.Y}
			if tetris.Collides(cand, 0, 0, &board) {
				continue
			}
			cand.Y += tetris.DropDistance(cand, &board)

			b := board
			tetris.Lock(cand, &b)
			lines := len(b.ClearCompleted())

			score := Evaluate(&b, lines)
			if score > best.Score {
				best = Placement{Rotation: r, X: x, Score: score}
				found = true
			}
		}
	}
	return best, found
}

// Evaluate scores a board after a placement that cleared lines.
func Evaluate(b *tetris.Board, lines int) float64 {
	var heights [tetris.Width]int
	holes := 0
	for col := 0; col < tetris.Width; col++ {
		seen := false
		for row := 0; row < tetris.Height; row++ {
			filled := b.At(row, col).Filled()
			if filled && !seen {
				heights[col] = tetris.Height - row
				seen = true
			} else if !filled && seen {
				holes++
			}
		}
	}

	aggregate, bumpiness := 0, 0
	for col, h := range heights {
		aggregate += h
		if col > 0 {
			bumpiness += abs(h - heights[col-1])
		}
	}

	return weightHeight*float64(aggregate) +
		weightLines*float64(lines) +
		weightHoles*float64(holes) +
		weightBumpiness*float64(bumpiness)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Controller is the subset of the app used to steer a piece.
type Controller interface {
	Rotate() bool
	MoveLeft() bool
	MoveRight() bool
	HardDrop() bool
}

// Play steers the active piece to the best placement and hard drops it.
// It reports false when the session has no piece to play.
func Play(s *tetris.Session, c Controller) bool {
	if s.State() != tetris.StateRunning {
		return false
	}
	target, ok := BestPlacement(s.Current(), s.Board())
	if !ok {
		return c.HardDrop()
	}

	for i := 0; i < 4 && s.Current().Rotation != target.Rotation; i++ {
		if !c.Rotate() {
			break
		}
	}
	for s.Current().X > target.X {
		if !c.MoveLeft() {
			break
		}
	}
	for s.Current().X < target.X {
		if !c.MoveRight() {
			break
		}
	}
	return c.HardDrop()
}

package main

import (
	"testing"

	"github.com/plus3/metris/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionController struct{ s *tetris.Session }

func (c sessionController) Rotate() bool    { return c.s.Rotate(tetris.Clockwise) }
func (c sessionController) MoveLeft() bool  { return c.s.MoveLeft() }
func (c sessionController) MoveRight() bool { return c.s.MoveRight() }
func (c sessionController) HardDrop() bool  { return c.s.HardDrop() }

func TestEvaluatePenalizesHoles(t *testing.T) {
	var flat, holey tetris.Board
	for col := 0; col < 4; col++ {
		flat.Place(19, col, tetris.BlockOf(tetris.PieceO))
		holey.Place(18, col, tetris.BlockOf(tetris.PieceO))
	}
	assert.Greater(t, Evaluate(&flat, 0), Evaluate(&holey, 0))
	assert.Greater(t, Evaluate(&flat, 1), Evaluate(&flat, 0))
}

func TestBestPlacementCompletesRow(t *testing.T) {
	var b tetris.Board
	for col := 0; col < tetris.Width-1; col++ {
		b.Place(19, col, tetris.BlockOf(tetris.PieceT))
	}

	// A vertical I in the last column completes the bottom row.
	place, ok := BestPlacement(tetris.Spawn(tetris.PieceI), b)
	require.True(t, ok)

	p := tetris.Piece{Type: tetris.PieceI, Rotation: place.Rotation, X: place.X}
	p.Y += tetris.DropDistance(p, &b)
	cols := map[int]bool{}
	for _, c := range p.Cells() {
		cols[c.Col] = true
	}
	assert.Equal(t, map[int]bool{tetris.Width - 1: true}, cols)
}

func TestPlayClearsLines(t *testing.T) {
	s := tetris.NewSession(tetris.WithRandomizer(tetris.NewBagRandomizer(42)))
	s.Start()

	for i := 0; i < 200 && s.State() == tetris.StateRunning; i++ {
		require.True(t, Play(s, sessionController{s}))
	}
	assert.Greater(t, s.Lines(), 0)
	assert.False(t, Play(tetris.NewSession(), sessionController{}), "idle session")
}

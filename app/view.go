package app

import (
	"github.com/plus3/metris/highscore"
	"github.com/plus3/metris/tetris"
)

// Phase is what the front end should present.
type Phase uint8

const (
	PhaseTitle Phase = iota
	PhasePlaying
	PhasePaused
	PhaseGameOver
	// PhaseNameEntry is a game over whose score qualifies for the table.
	PhaseNameEntry
)

func (p Phase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game-over"
	case PhaseNameEntry:
		return "name-entry"
	}
	return "unknown"
}

// View is everything a renderer needs for one frame.
type View struct {
	Phase    Phase
	Snapshot tetris.Snapshot

	Highscores []highscore.Entry
	// FinalScore and Rank describe the last finished game.
	FinalScore int
	Rank       int
	// Submitted is the entry added for the last finished game, if any.
	Submitted *highscore.Entry

	Music bool
	SFX   bool
}

package app

import (
	"fmt"
	"strings"

	"github.com/plus3/metris/tetris"
)

// Action is a player input, independent of the front end that produced it.
type Action int

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionSoftDrop
	ActionHardDrop
	ActionRotate
	ActionRotateBack
	ActionPauseToggle
	ActionMusicToggle
	ActionSFXToggle
	ActionStart
	ActionRestart
)

var actionNames = [...]string{
	ActionMoveLeft:    "move-left",
	ActionMoveRight:   "move-right",
	ActionSoftDrop:    "soft-drop",
	ActionHardDrop:    "hard-drop",
	ActionRotate:      "rotate",
	ActionRotateBack:  "rotate-back",
	ActionPauseToggle: "pause-toggle",
	ActionMusicToggle: "music-toggle",
	ActionSFXToggle:   "sfx-toggle",
	ActionStart:       "start",
	ActionRestart:     "restart",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction resolves an action by its String name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Repeatable reports whether holding the key should repeat the action.
func (a Action) Repeatable() bool {
	switch a {
	case ActionMoveLeft, ActionMoveRight, ActionSoftDrop:
		return true
	}
	return false
}

var sessionCommands = map[Action]tetris.Command{
	ActionMoveLeft:    tetris.CommandMoveLeft,
	ActionMoveRight:   tetris.CommandMoveRight,
	ActionSoftDrop:    tetris.CommandSoftDrop,
	ActionHardDrop:    tetris.CommandHardDrop,
	ActionRotate:      tetris.CommandRotate,
	ActionRotateBack:  tetris.CommandRotateBack,
	ActionPauseToggle: tetris.CommandTogglePause,
}

// Command returns the session command behind a game action. Audio toggles,
// start and restart are handled by the App and report false.
func (a Action) Command() (tetris.Command, bool) {
	cmd, ok := sessionCommands[a]
	return cmd, ok
}

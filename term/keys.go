// Package term plays the game in a terminal through tcell.
package term

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/metris/app"
)

var keyActions = map[tcell.Key]app.Action{
	tcell.KeyLeft:   app.ActionMoveLeft,
	tcell.KeyRight:  app.ActionMoveRight,
	tcell.KeyDown:   app.ActionSoftDrop,
	tcell.KeyUp:     app.ActionRotate,
	tcell.KeyEscape: app.ActionPauseToggle,
	tcell.KeyEnter:  app.ActionStart,
}

var runeActions = map[rune]app.Action{
	'a': app.ActionMoveLeft,
	'd': app.ActionMoveRight,
	's': app.ActionSoftDrop,
	'w': app.ActionRotate,
	'x': app.ActionRotate,
	'z': app.ActionRotateBack,
	' ': app.ActionHardDrop,
	'p': app.ActionPauseToggle,
	'm': app.ActionMusicToggle,
	'n': app.ActionSFXToggle,
	'r': app.ActionRestart,
}

// ActionFor maps a key event to a game action.
func ActionFor(ev *tcell.EventKey) (app.Action, bool) {
	if ev.Key() == tcell.KeyRune {
		act, ok := runeActions[unicode.ToLower(ev.Rune())]
		return act, ok
	}
	act, ok := keyActions[ev.Key()]
	return act, ok
}

// IsQuit reports Ctrl-C and q.
func IsQuit(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')
}

package input

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/metris/app"
)

// KeySource reports keyboard state.
type KeySource interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
}

// EbitenKeys reads the live ebiten keyboard state.
type EbitenKeys struct{}

func (EbitenKeys) Pressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (EbitenKeys) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

// Binding maps keys to one action.
type Binding struct {
	Action app.Action
	Keys   []ebiten.Key
}

// DefaultBindings covers arrows, WASD and the letter shortcuts.
var DefaultBindings = []Binding{
	{app.ActionMoveLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{app.ActionMoveRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
	{app.ActionSoftDrop, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{app.ActionRotate, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW, ebiten.KeyX}},
	{app.ActionRotateBack, []ebiten.Key{ebiten.KeyZ}},
	{app.ActionHardDrop, []ebiten.Key{ebiten.KeySpace}},
	{app.ActionPauseToggle, []ebiten.Key{ebiten.KeyP, ebiten.KeyEscape}},
	{app.ActionMusicToggle, []ebiten.Key{ebiten.KeyM}},
	{app.ActionSFXToggle, []ebiten.Key{ebiten.KeyN}},
	{app.ActionStart, []ebiten.Key{ebiten.KeyEnter}},
	{app.ActionRestart, []ebiten.Key{ebiten.KeyR}},
}

// Keyboard maps key state to actions once per frame.
type Keyboard struct {
	source   KeySource
	bindings []Binding
	repeat   *Repeater[app.Action]
}

// NewKeyboard uses the default bindings and repeat timing. A nil source
// reads ebiten directly.
func NewKeyboard(source KeySource) *Keyboard {
	if source == nil {
		source = EbitenKeys{}
	}
	return &Keyboard{
		source:   source,
		bindings: DefaultBindings,
		repeat:   NewRepeater[app.Action](DefaultDelay, DefaultRate),
	}
}

// Poll returns the actions triggered this frame, in binding order.
func (k *Keyboard) Poll(dt time.Duration) []app.Action {
	var actions []app.Action
	for _, b := range k.bindings {
		if b.Action.Repeatable() {
			down := false
			for _, key := range b.Keys {
				if k.source.Pressed(key) {
					down = true
					break
				}
			}
			if k.repeat.Step(b.Action, down, dt) {
				actions = append(actions, b.Action)
			}
			continue
		}
		for _, key := range b.Keys {
			if k.source.JustPressed(key) {
				actions = append(actions, b.Action)
				break
			}
		}
	}
	return actions
}

// Reset drops held-key state, e.g. after focus moves to a text field.
func (k *Keyboard) Reset() {
	k.repeat.Reset()
}

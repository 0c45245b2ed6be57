package input

import (
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/metris/highscore"
)

// MaxNameLength bounds a highscore name.
const MaxNameLength = highscore.MaxNameLength

// TextField collects a single line of typed text.
type TextField struct {
	runes []rune
	buf   []rune
}

// Text returns the current contents.
func (t *TextField) Text() string {
	return string(t.runes)
}

// Clear empties the field.
func (t *TextField) Clear() {
	t.runes = t.runes[:0]
}

// Type appends printable runes up to MaxNameLength.
func (t *TextField) Type(rs ...rune) {
	for _, r := range rs {
		if len(t.runes) >= MaxNameLength {
			return
		}
		if unicode.IsPrint(r) {
			t.runes = append(t.runes, r)
		}
	}
}

// Backspace removes the last rune.
func (t *TextField) Backspace() {
	if len(t.runes) > 0 {
		t.runes = t.runes[:len(t.runes)-1]
	}
}

// Update reads this frame's typed characters and editing keys from ebiten.
// It reports whether Enter was pressed.
func (t *TextField) Update(keys KeySource) bool {
	if keys == nil {
		keys = EbitenKeys{}
	}
	t.buf = ebiten.AppendInputChars(t.buf[:0])
	t.Type(t.buf...)
	if keys.JustPressed(ebiten.KeyBackspace) {
		t.Backspace()
	}
	return keys.JustPressed(ebiten.KeyEnter) || keys.JustPressed(ebiten.KeyNumpadEnter)
}

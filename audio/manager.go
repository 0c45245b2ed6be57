// Package audio synthesizes the game's sound effects and music and maps
// session events onto them.
package audio

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/metris/loop"
	"github.com/plus3/metris/tetris"
)

// Options configures a Manager.
type Options struct {
	Music       bool
	SFX         bool
	MusicVolume float64
	SFXVolume   float64
	// Seed for the bass texture of the theme; zero picks a random seed.
	Seed uint64
}

// DefaultOptions enables everything at the stock volumes.
func DefaultOptions() Options {
	return Options{Music: true, SFX: true, MusicVolume: 0.2, SFXVolume: 0.3}
}

// Effect sounds. Volumes are relative and scaled by Options.SFXVolume / 0.3.
var (
	MoveTone   = Tone{Frequency: 200, Duration: 50 * time.Millisecond, Volume: 0.2}
	RotateTone = Tone{Frequency: 300, Duration: 80 * time.Millisecond, Volume: 0.25}
	DropTone   = Tone{Frequency: 150, Duration: 100 * time.Millisecond, Volume: 0.3}

	lineClearFrequencies = [...]float64{400, 500, 600, 800}
)

// LineClearTone returns the tone for clearing lines at once.
func LineClearTone(lines int) Tone {
	idx := max(0, min(lines-1, len(lineClearFrequencies)-1))
	return Tone{Frequency: lineClearFrequencies[idx], Duration: 200 * time.Millisecond, Volume: 0.4}
}

type cue struct {
	at   time.Duration
	tone Tone
}

var (
	levelUpArpeggio = []cue{
		{0, Tone{Frequency: 400, Duration: 100 * time.Millisecond, Volume: 0.3}},
		{100 * time.Millisecond, Tone{Frequency: 500, Duration: 100 * time.Millisecond, Volume: 0.3}},
		{200 * time.Millisecond, Tone{Frequency: 600, Duration: 150 * time.Millisecond, Volume: 0.3}},
	}
	gameOverArpeggio = []cue{
		{0, Tone{Frequency: 400, Duration: 150 * time.Millisecond, Volume: 0.3}},
		{150 * time.Millisecond, Tone{Frequency: 300, Duration: 150 * time.Millisecond, Volume: 0.3}},
		{300 * time.Millisecond, Tone{Frequency: 200, Duration: 300 * time.Millisecond, Volume: 0.3}},
	}
)

// Manager turns session events into sounds. It is driven from the game loop
// goroutine only.
type Manager struct {
	out    Output
	timers *loop.Timers

	musicEnabled bool
	sfxEnabled   bool
	musicVolume  float64
	sfxScale     float64
	musicPlaying bool

	rng     *rand.Rand
	theme   []float64
	effects map[Tone][]float64
	pending []*loop.Handle
}

// NewManager creates a manager. Delayed arpeggio notes are scheduled on
// timers, which the caller advances with frame time.
func NewManager(out Output, timers *loop.Timers, opts Options) *Manager {
	if out == nil {
		out = NopOutput{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Manager{
		out:          out,
		timers:       timers,
		musicEnabled: opts.Music,
		sfxEnabled:   opts.SFX,
		musicVolume:  opts.MusicVolume,
		sfxScale:     opts.SFXVolume / 0.3,
		rng:          rand.New(rand.NewPCG(seed, seed>>1)),
		effects:      make(map[Tone][]float64),
	}
}

// Attach subscribes the manager to every event on bus.
func (m *Manager) Attach(bus *tetris.Bus) {
	bus.SubscribeAll(m.Handle)
}

// Handle reacts to one session event.
func (m *Manager) Handle(e tetris.Event) {
	switch e.Kind {
	case tetris.EventStarted:
		m.StartMusic()
	case tetris.EventMoved:
		m.PlayMove()
	case tetris.EventRotated:
		m.PlayRotate()
	case tetris.EventHardDropped:
		m.PlayDrop()
	case tetris.EventLinesCleared:
		m.PlayLineClear(e.Count)
	case tetris.EventLevelUp:
		m.PlayLevelUp()
	case tetris.EventPaused:
		m.StopMusic()
	case tetris.EventResumed:
		m.StartMusic()
	case tetris.EventGameOver:
		m.PlayGameOver()
	}
}

func (m *Manager) MusicEnabled() bool { return m.musicEnabled }
func (m *Manager) SFXEnabled() bool   { return m.sfxEnabled }
func (m *Manager) MusicPlaying() bool { return m.musicPlaying }

func (m *Manager) play(t Tone) {
	if !m.sfxEnabled {
		return
	}
	t.Volume *= m.sfxScale
	samples, ok := m.effects[t]
	if !ok {
		samples = t.Render()
		m.effects[t] = samples
	}
	m.out.PlayEffect(samples)
}

func (m *Manager) PlayMove()   { m.play(MoveTone) }
func (m *Manager) PlayRotate() { m.play(RotateTone) }
func (m *Manager) PlayDrop()   { m.play(DropTone) }

func (m *Manager) PlayLineClear(lines int) {
	m.play(LineClearTone(lines))
}

func (m *Manager) PlayLevelUp() {
	m.arpeggio(levelUpArpeggio)
}

// PlayGameOver stops the music and plays the descending arpeggio.
func (m *Manager) PlayGameOver() {
	m.StopMusic()
	m.arpeggio(gameOverArpeggio)
}

// arpeggio plays the first note now and the rest on timers. Whether effects
// are enabled is checked when each note sounds.
func (m *Manager) arpeggio(cues []cue) {
	for _, c := range cues {
		if c.at == 0 || m.timers == nil {
			m.play(c.tone)
			continue
		}
		tone := c.tone
		m.pending = append(m.pending, m.timers.After(c.at, func() { m.play(tone) }))
	}
	m.prune()
}

func (m *Manager) prune() {
	live := m.pending[:0]
	for _, h := range m.pending {
		if h.Active() {
			live = append(live, h)
		}
	}
	clear(m.pending[len(live):])
	m.pending = live
}

// Pending returns the number of scheduled arpeggio notes.
func (m *Manager) Pending() int {
	m.prune()
	return len(m.pending)
}

// StartMusic starts the theme loop if music is enabled and not playing.
func (m *Manager) StartMusic() {
	if !m.musicEnabled || m.musicPlaying {
		return
	}
	if m.theme == nil {
		m.theme = RenderMelody(Theme, Tempo, m.musicVolume, m.rng)
	}
	m.musicPlaying = true
	m.out.StartMusic(m.theme)
}

func (m *Manager) StopMusic() {
	if !m.musicPlaying {
		return
	}
	m.musicPlaying = false
	m.out.StopMusic()
}

// ToggleMusic flips music on or off. Turning it on only starts playback when
// playing is true, so a paused or finished game stays quiet.
func (m *Manager) ToggleMusic(playing bool) bool {
	m.musicEnabled = !m.musicEnabled
	if m.musicEnabled && playing {
		m.StartMusic()
	} else if !m.musicEnabled {
		m.StopMusic()
	}
	return m.musicEnabled
}

func (m *Manager) ToggleSFX() bool {
	m.sfxEnabled = !m.sfxEnabled
	return m.sfxEnabled
}

// Close cancels scheduled notes and closes the output.
func (m *Manager) Close() error {
	for _, h := range m.pending {
		h.Cancel()
	}
	m.pending = nil
	m.StopMusic()
	return m.out.Close()
}

package render

import (
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/plus3/metris/tetris"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ParticleStep is the simulation period of particles.
const ParticleStep = time.Second / 60

const (
	ShakeDuration = 500 * time.Millisecond
	FlashDuration = 300 * time.Millisecond
	shakeStrength = 8
)

// Shake is a decaying random screen offset.
type Shake struct {
	tween    *gween.Tween
	strength float32
}

// Start restarts the shake at full strength.
func (s *Shake) Start(d time.Duration) {
	s.tween = gween.New(shakeStrength, 0, float32(d.Seconds()), ease.OutQuad)
	s.strength = shakeStrength
}

func (s *Shake) Update(dt time.Duration) {
	if s.tween == nil {
		return
	}
	current, finished := s.tween.Update(float32(dt.Seconds()))
	s.strength = current
	if finished {
		s.tween = nil
		s.strength = 0
	}
}

func (s *Shake) Active() bool {
	return s.tween != nil
}

// Strength is the current maximum offset in pixels.
func (s *Shake) Strength() float32 {
	return s.strength
}

// Offset returns a random displacement within the current strength.
func (s *Shake) Offset(rng *rand.Rand) (dx, dy float64) {
	if !s.Active() {
		return 0, 0
	}
	k := float64(s.strength)
	return (rng.Float64()*2 - 1) * k, (rng.Float64()*2 - 1) * k
}

// Flash highlights cleared rows and fades them out.
type Flash struct {
	tween *gween.Tween
	alpha float32
	rows  []int
}

func (f *Flash) Start(rows []int, d time.Duration) {
	f.rows = append(f.rows[:0], rows...)
	f.tween = gween.New(0.6, 0, float32(d.Seconds()), ease.OutQuad)
	f.alpha = 0.6
}

func (f *Flash) Update(dt time.Duration) {
	if f.tween == nil {
		return
	}
	current, finished := f.tween.Update(float32(dt.Seconds()))
	f.alpha = current
	if finished {
		f.tween = nil
		f.alpha = 0
		f.rows = f.rows[:0]
	}
}

// Rows returns the flashing rows and their current alpha.
func (f *Flash) Rows() ([]int, float32) {
	return f.rows, f.alpha
}

// Effects turns session events into particles, screen shake and row flashes.
type Effects struct {
	Particles *Particles
	Shake     Shake
	Flash     Flash

	board tetris.Board
	rng   *rand.Rand
	acc   time.Duration
}

func NewEffects(rng *rand.Rand) *Effects {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Effects{
		Particles: NewParticles(rng),
		rng:       rng,
	}
}

// Sync records the board as last presented, so cleared rows can be sprayed
// in their own colors.
func (e *Effects) Sync(b tetris.Board) {
	e.board = b
}

// Attach subscribes to every event on bus.
func (e *Effects) Attach(bus *tetris.Bus) {
	bus.SubscribeAll(e.Handle)
}

func (e *Effects) Handle(ev tetris.Event) {
	switch ev.Kind {
	case tetris.EventStarted:
		e.Particles.Clear()
		e.board = tetris.Board{}
	case tetris.EventLocked:
		for _, c := range ev.Cells {
			e.board.Place(c.Row, c.Col, tetris.BlockOf(ev.Piece.Type))
		}
		x, y := PieceCenter(ev.Piece)
		e.Particles.Emit(x, y, ev.Piece.Type.Color(), 10)
	case tetris.EventLinesCleared:
		for _, row := range ev.Rows {
			e.Particles.EmitLineClear(row, e.rowColors(row, ev.Piece))
		}
		e.Flash.Start(ev.Rows, FlashDuration)
		e.board.ClearRows(ev.Rows)
		if ev.Count == 4 {
			e.Particles.EmitExplosion(BoardX+BoardWidth/2, BoardY+BoardHeight/2, Neon, 100)
			e.Shake.Start(ShakeDuration)
		}
	case tetris.EventLevelUp:
		e.Particles.EmitConfetti(50)
		e.Shake.Start(ShakeDuration)
	}
}

func (e *Effects) rowColors(row int, fallback tetris.Piece) []color.RGBA {
	colors := make([]color.RGBA, 0, tetris.Width)
	for _, b := range e.board.Row(row) {
		if b.Filled() {
			colors = append(colors, b.Color())
		}
	}
	if len(colors) == 0 {
		colors = append(colors, fallback.Type.Color())
	}
	return colors
}

// Update advances tweens by dt and particles in fixed steps.
func (e *Effects) Update(dt time.Duration) {
	e.Shake.Update(dt)
	e.Flash.Update(dt)

	e.acc += dt
	for e.acc >= ParticleStep {
		e.acc -= ParticleStep
		e.Particles.Step()
	}
}

// ShakeOffset is the screen displacement for this frame.
func (e *Effects) ShakeOffset() (dx, dy float64) {
	return e.Shake.Offset(e.rng)
}

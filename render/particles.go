package render

import (
	"image/color"
	"math"
	"math/rand/v2"
)

const (
	particleGravity  = 0.1
	particleFriction = 0.98
)

// Particle is a fading dot. Positions and velocities are in pixels per step;
// one step is one 60Hz frame.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Color  color.RGBA
	Life   float64
	Decay  float64
	Size   float64
}

// Step advances the particle by one frame.
func (p *Particle) Step() {
	p.X += p.VX
	p.Y += p.VY
	p.VY += particleGravity
	p.VX *= particleFriction
	p.Life -= p.Decay
}

func (p *Particle) Dead() bool {
	return p.Life <= 0
}

// Particles is a pool of live particles.
type Particles struct {
	list []Particle
	rng  *rand.Rand
}

func NewParticles(rng *rand.Rand) *Particles {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Particles{rng: rng}
}

func (ps *Particles) spawn(x, y, vx, vy float64, c color.RGBA) {
	ps.list = append(ps.list, Particle{
		X: x, Y: y, VX: vx, VY: vy,
		Color: c,
		Life:  1,
		Decay: ps.rng.Float64()*0.02 + 0.01,
		Size:  ps.rng.Float64()*4 + 2,
	})
}

func (ps *Particles) pick(colors []color.RGBA) color.RGBA {
	return colors[ps.rng.IntN(len(colors))]
}

// Emit sends count particles outward in an even ring.
func (ps *Particles) Emit(x, y float64, c color.RGBA, count int) {
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		speed := ps.rng.Float64()*3 + 2
		ps.spawn(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, c)
	}
}

// EmitExplosion bursts count particles in random directions with an upward
// bias.
func (ps *Particles) EmitExplosion(x, y float64, colors []color.RGBA, count int) {
	for i := 0; i < count; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := ps.rng.Float64()*5 + 3
		ps.spawn(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed-2, ps.pick(colors))
	}
}

// EmitLineClear sprays particles along the given board row.
func (ps *Particles) EmitLineClear(row int, colors []color.RGBA) {
	_, y := CellOrigin(row, 0)
	y += BlockSize / 2
	for i := 0; i < 100; i++ {
		x := BoardX + ps.rng.Float64()*BoardWidth
		vx := (ps.rng.Float64() - 0.5) * 8
		vy := (ps.rng.Float64()-0.5)*8 - 3
		ps.spawn(x, y, vx, vy, ps.pick(colors))
	}
}

// EmitConfetti drops count particles from above the board.
func (ps *Particles) EmitConfetti(count int) {
	for i := 0; i < count; i++ {
		x := BoardX + ps.rng.Float64()*BoardWidth
		vx := (ps.rng.Float64() - 0.5) * 4
		vy := ps.rng.Float64()*2 + 1
		ps.spawn(x, BoardY-20, vx, vy, ps.pick(Neon))
	}
}

// Step advances every particle one frame and drops the dead ones.
func (ps *Particles) Step() {
	live := ps.list[:0]
	for i := range ps.list {
		p := &ps.list[i]
		p.Step()
		if !p.Dead() {
			live = append(live, *p)
		}
	}
	ps.list = live
}

func (ps *Particles) Len() int {
	return len(ps.list)
}

// All returns the live particles. The slice is reused by Step.
func (ps *Particles) All() []Particle {
	return ps.list
}

func (ps *Particles) Clear() {
	ps.list = ps.list[:0]
}

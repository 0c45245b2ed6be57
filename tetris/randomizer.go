package tetris

import (
	"math/rand/v2"
)

// Randomizer chooses the type of each newly drawn piece.
type Randomizer interface {
	Next() PieceType
}

// UniformRandomizer draws every piece independently and uniformly.
type UniformRandomizer struct {
	rng *rand.Rand
}

// NewUniformRandomizer seeds a uniform randomizer. A zero seed selects a
// random seed.
func NewUniformRandomizer(seed uint64) *UniformRandomizer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &UniformRandomizer{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (u *UniformRandomizer) Next() PieceType {
	return PieceType(u.rng.IntN(PieceTypeCount))
}

// BagRandomizer deals all seven types in shuffled order before repeating.
type BagRandomizer struct {
	rng *rand.Rand
	bag []PieceType
}

func NewBagRandomizer(seed uint64) *BagRandomizer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &BagRandomizer{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (b *BagRandomizer) Next() PieceType {
	if len(b.bag) == 0 {
		b.bag = []PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}
		b.rng.Shuffle(len(b.bag), func(i, j int) {
			b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
		})
	}
	t := b.bag[0]
	b.bag = b.bag[1:]
	return t
}

// SequenceRandomizer replays a fixed list of types, cycling when exhausted.
type SequenceRandomizer struct {
	types []PieceType
	pos   int
}

func NewSequenceRandomizer(types ...PieceType) *SequenceRandomizer {
	if len(types) == 0 {
		types = []PieceType{PieceI}
	}
	return &SequenceRandomizer{types: types}
}

func (s *SequenceRandomizer) Next() PieceType {
	t := s.types[s.pos%len(s.types)]
	s.pos++
	return t
}

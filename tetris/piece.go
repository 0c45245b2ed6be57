package tetris

import (
	"fmt"
	"image/color"
	"strings"
)

// PieceType identifies one of the seven tetrominoes.
type PieceType uint8

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// PieceTypeCount is the number of distinct piece types.
const PieceTypeCount = 7

// Spawn position of a new piece's top-left origin.
const (
	SpawnX = 3
	SpawnY = 0
)

// Shape is a square occupancy matrix indexed [row][col].
type Shape [][]bool

// Size returns the side length of the shape.
func (s Shape) Size() int {
	return len(s)
}

type pieceDef struct {
	name      string
	color     color.RGBA
	rotations []Shape
}

var pieceDefs = [PieceTypeCount]pieceDef{
	PieceI: {
		name:  "I",
		color: color.RGBA{0x00, 0xf3, 0xff, 0xff},
		rotations: shapes(
			[]string{
				"....",
				"####",
				"....",
				"....",
			},
			[]string{
				"..#.",
				"..#.",
				"..#.",
				"..#.",
			},
			[]string{
				"....",
				"....",
				"####",
				"....",
			},
			[]string{
				".#..",
				".#..",
				".#..",
				".#..",
			},
		),
	},
	PieceO: {
		name:  "O",
		color: color.RGBA{0xff, 0xd7, 0x00, 0xff},
		rotations: shapes(
			[]string{"##", "##"},
			[]string{"##", "##"},
			[]string{"##", "##"},
			[]string{"##", "##"},
		),
	},
	PieceT: {
		name:  "T",
		color: color.RGBA{0xb5, 0x37, 0xf2, 0xff},
		rotations: shapes(
			[]string{".#.", "###", "..."},
			[]string{".#.", ".##", ".#."},
			[]string{"...", "###", ".#."},
			[]string{".#.", "##.", ".#."},
		),
	},
	PieceS: {
		name:  "S",
		color: color.RGBA{0x39, 0xff, 0x14, 0xff},
		rotations: shapes(
			[]string{".##", "##.", "..."},
			[]string{".#.", ".##", "..#"},
		),
	},
	PieceZ: {
		name:  "Z",
		color: color.RGBA{0xff, 0x00, 0x6e, 0xff},
		rotations: shapes(
			[]string{"##.", ".##", "..."},
			[]string{"..#", ".##", ".#."},
		),
	},
	PieceJ: {
		name:  "J",
		color: color.RGBA{0x00, 0x80, 0xff, 0xff},
		rotations: shapes(
			[]string{"#..", "###", "..."},
			[]string{".##", ".#.", ".#."},
			[]string{"...", "###", "..#"},
			[]string{".#.", ".#.", "##."},
		),
	},
	PieceL: {
		name:  "L",
		color: color.RGBA{0xff, 0x8c, 0x00, 0xff},
		rotations: shapes(
			[]string{"..#", "###", "..."},
			[]string{".#.", ".#.", ".##"},
			[]string{"...", "###", "#.."},
			[]string{"##.", ".#.", ".#."},
		),
	},
}

// shapes builds rotation states from rows where '#' marks an occupied cell.
func shapes(states ...[]string) []Shape {
	out := make([]Shape, len(states))
	for i, rows := range states {
		shape := make(Shape, len(rows))
		for r, row := range rows {
			if len(row) != len(rows) {
				panic(fmt.Sprintf("tetris: shape row %q is not square", row))
			}
			shape[r] = make([]bool, len(row))
			for c, ch := range row {
				shape[r][c] = ch == '#'
			}
		}
		out[i] = shape
	}
	return out
}

// Valid reports whether t names one of the seven piece types.
func (t PieceType) Valid() bool {
	return t < PieceTypeCount
}

func (t PieceType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("PieceType(%d)", uint8(t))
	}
	return pieceDefs[t].name
}

// Color returns the display color of the piece type.
func (t PieceType) Color() color.RGBA {
	if !t.Valid() {
		return color.RGBA{}
	}
	return pieceDefs[t].color
}

// Rotations returns the number of rotation states defined for the type.
func (t PieceType) Rotations() int {
	return len(pieceDefs[t].rotations)
}

// ParsePieceType resolves a single-letter piece name such as "T".
func ParsePieceType(name string) (PieceType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, def := range pieceDefs {
		if def.name == name {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("tetris: unknown piece type %q", name)
}

// Piece is a tetromino with a rotation state and a board position.
// X and Y address the top-left corner of the current shape.
type Piece struct {
	Type     PieceType
	Rotation int
	X, Y     int
}

// Spawn creates a piece of the given type at the spawn position.
func Spawn(t PieceType) Piece {
	return Piece{
		Type: t,
		X:    SpawnX,
		Y:    SpawnY,
	}
}

// Shape returns the occupancy matrix for the active rotation.
// The returned matrix is shared and must not be modified.
func (p Piece) Shape() Shape {
	return pieceDefs[p.Type].rotations[p.Rotation]
}

// Color returns the piece's display color.
func (p Piece) Color() color.RGBA {
	return p.Type.Color()
}

// RotateForward advances the rotation index, wrapping around.
func (p *Piece) RotateForward() {
	p.Rotation = (p.Rotation + 1) % p.Type.Rotations()
}

// RotateBackward steps the rotation index back, wrapping around.
func (p *Piece) RotateBackward() {
	n := p.Type.Rotations()
	p.Rotation = (p.Rotation - 1 + n) % n
}

// Clone returns an independent copy of the piece.
func (p Piece) Clone() Piece {
	return p
}

// Cells returns the absolute board cells covered by the piece.
func (p Piece) Cells() []Cell {
	shape := p.Shape()
	cells := make([]Cell, 0, 4)
	for r, row := range shape {
		for c, filled := range row {
			if filled {
				cells = append(cells, Cell{Row: p.Y + r, Col: p.X + c})
			}
		}
	}
	return cells
}

func (p Piece) String() string {
	return fmt.Sprintf("%s@(%d,%d)r%d", p.Type, p.X, p.Y, p.Rotation)
}

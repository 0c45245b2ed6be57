package tetris

// Offset is a positional delta in columns (DX) and rows (DY).
type Offset struct {
	DX, DY int
}

// WallKicks are tried in order when a rotation collides in place.
var WallKicks = [...]Offset{
	{DX: 1, DY: 0},
	{DX: -1, DY: 0},
	{DX: 0, DY: -1},
}

// Direction selects the rotation sense.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// Collides reports whether the piece, translated by (dx, dy), would leave the
// horizontal bounds, reach below the bottom edge, or overlap a filled cell.
// Cells above the top edge are never checked against the board.
func Collides(p Piece, dx, dy int, board *Board) bool {
	shape := p.Shape()
	for r, row := range shape {
		for c, filled := range row {
			if !filled {
				continue
			}

			x := p.X + dx + c
			y := p.Y + dy + r

			if x < 0 || x >= Width || y >= Height {
				return true
			}

			if y >= 0 && board.rows[y][x].Filled() {
				return true
			}
		}
	}

	return false
}

// CanMove reports whether the piece can be translated by (dx, dy).
func CanMove(p Piece, dx, dy int, board *Board) bool {
	return !Collides(p, dx, dy, board)
}

// Move translates the piece if the destination is free and reports success.
// A blocked move leaves the piece untouched.
func Move(p *Piece, dx, dy int, board *Board) bool {
	if Collides(*p, dx, dy, board) {
		return false
	}
	p.X += dx
	p.Y += dy
	return true
}

// Rotate turns the piece in the given direction, applying the first wall kick
// that resolves a collision. If no kick helps, the piece is restored exactly
// and false is returned.
func Rotate(p *Piece, board *Board, dir Direction) bool {
	original := *p

	if dir == CounterClockwise {
		p.RotateBackward()
	} else {
		p.RotateForward()
	}

	if !Collides(*p, 0, 0, board) {
		return true
	}

	for _, kick := range WallKicks {
		if !Collides(*p, kick.DX, kick.DY, board) {
			p.X += kick.DX
			p.Y += kick.DY
			return true
		}
	}

	*p = original
	return false
}

// Lock writes the piece into the board and returns the cells written.
// Cells above the top edge are dropped.
func Lock(p Piece, board *Board) []Cell {
	block := BlockOf(p.Type)
	written := make([]Cell, 0, 4)
	for _, cell := range p.Cells() {
		if cell.Row < 0 {
			continue
		}
		board.Place(cell.Row, cell.Col, block)
		written = append(written, cell)
	}
	return written
}

// DropDistance returns how many rows the piece can fall before colliding.
func DropDistance(p Piece, board *Board) int {
	dist := 0
	for !Collides(p, 0, dist+1, board) {
		dist++
	}
	return dist
}

// Ghost returns a copy of the piece moved down as far as it can go.
func Ghost(p Piece, board *Board) Piece {
	ghost := p.Clone()
	ghost.Y += DropDistance(p, board)
	return ghost
}

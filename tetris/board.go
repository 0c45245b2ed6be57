package tetris

import (
	"image/color"
	"strings"
)

// Board dimensions.
const (
	Width  = 10
	Height = 20
)

// Cell addresses a board position.
type Cell struct {
	Row, Col int
}

// Block is the content of a board cell: Empty or the type of the piece that
// locked into it.
type Block uint8

// Empty marks an unoccupied cell.
const Empty Block = 0

// BlockOf returns the block written when a piece of type t locks.
func BlockOf(t PieceType) Block {
	return Block(t) + 1
}

// Filled reports whether the block is occupied.
func (b Block) Filled() bool {
	return b != Empty
}

// Piece returns the type that produced the block. Only meaningful for filled blocks.
func (b Block) Piece() PieceType {
	return PieceType(b - 1)
}

// Color returns the display color of a filled block.
func (b Block) Color() color.RGBA {
	if !b.Filled() {
		return color.RGBA{}
	}
	return b.Piece().Color()
}

// Board is a fixed Height x Width grid of blocks. Row 0 is the top.
// Board is a value type: assigning it copies the grid.
type Board struct {
	rows [Height][Width]Block
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// InBounds reports whether the cell lies on the visible grid.
func InBounds(row, col int) bool {
	return row >= 0 && row < Height && col >= 0 && col < Width
}

// IsOccupied reports whether a cell blocks movement. Columns outside the grid
// and rows below the bottom are occupied; rows above the top are free.
func (b *Board) IsOccupied(row, col int) bool {
	if col < 0 || col >= Width || row >= Height {
		return true
	}
	if row < 0 {
		return false
	}
	return b.rows[row][col].Filled()
}

// At returns the block at the given cell, or Empty outside the grid.
func (b *Board) At(row, col int) Block {
	if !InBounds(row, col) {
		return Empty
	}
	return b.rows[row][col]
}

// Place writes a block into an empty in-bounds cell.
// Callers guarantee the cell is free; out-of-bounds writes are ignored.
func (b *Board) Place(row, col int, block Block) {
	if !InBounds(row, col) {
		return
	}
	b.rows[row][col] = block
}

// Row returns a copy of a single row.
func (b *Board) Row(row int) [Width]Block {
	return b.rows[row]
}

func (b *Board) rowComplete(row int) bool {
	for _, block := range b.rows[row] {
		if !block.Filled() {
			return false
		}
	}
	return true
}

// CompletedRows returns the indices of rows with no empty cell, ordered from
// the bottom of the board to the top.
func (b *Board) CompletedRows() []int {
	var rows []int
	for row := Height - 1; row >= 0; row-- {
		if b.rowComplete(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

// ClearRows removes the given rows, shifts the rows above them down and fills
// the top with empty rows. Surviving rows keep their relative order.
func (b *Board) ClearRows(rows []int) {
	if len(rows) == 0 {
		return
	}

	var remove [Height]bool
	for _, row := range rows {
		if row >= 0 && row < Height {
			remove[row] = true
		}
	}

	dst := Height - 1
	for src := Height - 1; src >= 0; src-- {
		if remove[src] {
			continue
		}
		b.rows[dst] = b.rows[src]
		dst--
	}
	for ; dst >= 0; dst-- {
		b.rows[dst] = [Width]Block{}
	}
}

// ClearCompleted scans bottom-up and removes every complete row, re-checking
// the same index after each removal. It returns the removed rows using the
// board indices they had before any removal, bottom to top.
func (b *Board) ClearCompleted() []int {
	var cleared []int
	shift := 0
	for row := Height - 1; row >= 0; row-- {
		if !b.rowComplete(row) {
			continue
		}
		cleared = append(cleared, row-shift)
		copy(b.rows[1:row+1], b.rows[0:row])
		b.rows[0] = [Width]Block{}
		shift++
		row++
	}
	return cleared
}

// Filled returns the number of occupied cells.
func (b *Board) Filled() int {
	n := 0
	for _, row := range b.rows {
		for _, block := range row {
			if block.Filled() {
				n++
			}
		}
	}
	return n
}

// String renders the board with '.' for empty cells and the piece letter
// otherwise.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for _, row := range b.rows {
		for _, block := range row {
			if block.Filled() {
				sb.WriteString(block.Piece().String())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

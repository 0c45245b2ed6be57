package tetris_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/metris/tetris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(b *tetris.Board, row int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, c := range except {
		skip[c] = true
	}
	for col := 0; col < tetris.Width; col++ {
		if !skip[col] {
			b.Place(row, col, tetris.BlockOf(tetris.PieceT))
		}
	}
}

func randomBoard(rng *rand.Rand) *tetris.Board {
	b := tetris.NewBoard()
	for row := 0; row < tetris.Height; row++ {
		switch rng.IntN(4) {
		case 0:
			// leave empty
		case 1:
			fillRow(b, row)
		default:
			for col := 0; col < tetris.Width; col++ {
				if rng.IntN(3) > 0 {
					b.Place(row, col, tetris.BlockOf(tetris.PieceType(rng.IntN(tetris.PieceTypeCount))))
				}
			}
		}
	}
	return b
}

func rowsEqual(b *tetris.Board, row int, want [tetris.Width]tetris.Block) bool {
	return b.Row(row) == want
}

func TestIsOccupiedBounds(t *testing.T) {
	b := tetris.NewBoard()

	assert.True(t, b.IsOccupied(0, -1), "left of grid")
	assert.True(t, b.IsOccupied(0, tetris.Width), "right of grid")
	assert.True(t, b.IsOccupied(tetris.Height, 0), "below grid")
	assert.False(t, b.IsOccupied(-1, 0), "above grid")
	assert.False(t, b.IsOccupied(-3, 5), "above grid")
	assert.False(t, b.IsOccupied(10, 5))

	b.Place(10, 5, tetris.BlockOf(tetris.PieceL))
	assert.True(t, b.IsOccupied(10, 5))
	assert.Equal(t, tetris.PieceL, b.At(10, 5).Piece())
	assert.Equal(t, tetris.Empty, b.At(-1, 5))
}

func TestCompletedRows(t *testing.T) {
	b := tetris.NewBoard()
	fillRow(b, 19)
	fillRow(b, 17)
	fillRow(b, 16, 3)
	fillRow(b, 5)

	assert.Equal(t, []int{19, 17, 5}, b.CompletedRows())
	assert.Equal(t, []int{19, 17, 5}, b.CompletedRows(), "idempotent")
	assert.Empty(t, tetris.NewBoard().CompletedRows())
}

func TestCompletedRowsRandomBoards(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		b := randomBoard(rng)

		var want []int
		for row := tetris.Height - 1; row >= 0; row-- {
			full := true
			for col := 0; col < tetris.Width; col++ {
				if !b.At(row, col).Filled() {
					full = false
				}
			}
			if full {
				want = append(want, row)
			}
		}

		assert.Equal(t, want, b.CompletedRows())
		assert.Equal(t, want, b.CompletedRows())
	}
}

func TestClearRowsShiftsDown(t *testing.T) {
	b := tetris.NewBoard()
	b.Place(15, 2, tetris.BlockOf(tetris.PieceS))
	fillRow(b, 16)
	b.Place(17, 7, tetris.BlockOf(tetris.PieceZ))
	fillRow(b, 18)
	fillRow(b, 19, 0)

	b.ClearRows(b.CompletedRows())

	assert.Equal(t, tetris.PieceS, b.At(17, 2).Piece())
	assert.Equal(t, tetris.PieceZ, b.At(18, 7).Piece())
	assert.False(t, b.At(19, 0).Filled())
	assert.True(t, b.At(19, 1).Filled())
	assert.False(t, b.At(15, 2).Filled())
	assert.Equal(t, 1+1+9, b.Filled())
}

func TestClearRowsMatchesRescan(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		original := randomBoard(rng)

		stable := *original
		rescan := *original

		rows := stable.CompletedRows()
		stable.ClearRows(rows)
		cleared := rescan.ClearCompleted()

		require.Equal(t, rows, cleared, "reported rows")
		require.Equal(t, stable.String(), rescan.String(), "final board")

		// N empty rows on top, survivors keep their order.
		for row := 0; row < len(rows); row++ {
			assert.True(t, rowsEqual(&stable, row, [tetris.Width]tetris.Block{}), "row %d should be empty", row)
		}
		removed := make(map[int]bool)
		for _, r := range rows {
			removed[r] = true
		}
		dst := tetris.Height - 1
		for src := tetris.Height - 1; src >= 0; src-- {
			if removed[src] {
				continue
			}
			assert.Equal(t, original.Row(src), stable.Row(dst))
			dst--
		}
	}
}

func TestClearRowsNonAdjacent(t *testing.T) {
	b := tetris.NewBoard()
	fillRow(b, 19)
	b.Place(18, 4, tetris.BlockOf(tetris.PieceJ))
	fillRow(b, 17)
	b.Place(16, 1, tetris.BlockOf(tetris.PieceI))

	b.ClearRows([]int{19, 17})

	assert.Equal(t, tetris.PieceJ, b.At(19, 4).Piece())
	assert.Equal(t, tetris.PieceI, b.At(18, 1).Piece())
	assert.Equal(t, 2, b.Filled())
}

func TestBoardString(t *testing.T) {
	b := tetris.NewBoard()
	b.Place(0, 0, tetris.BlockOf(tetris.PieceO))
	s := b.String()
	assert.Equal(t, byte('O'), s[0])
	assert.Equal(t, byte('.'), s[1])
	assert.Len(t, s, tetris.Height*(tetris.Width+1))
}

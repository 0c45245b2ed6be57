package render

import "github.com/plus3/metris/tetris"

// Layout in logical pixels.
const (
	BlockSize = 32
	BoardX    = 20
	BoardY    = 40

	BoardWidth  = tetris.Width * BlockSize
	BoardHeight = tetris.Height * BlockSize

	PanelX       = BoardX + BoardWidth + 30
	PreviewBlock = 24

	ScreenWidth  = PanelX + 220
	ScreenHeight = BoardY + BoardHeight + 30
)

// CellOrigin returns the top-left pixel of a board cell.
func CellOrigin(row, col int) (x, y float64) {
	return float64(BoardX + col*BlockSize), float64(BoardY + row*BlockSize)
}

// PieceCenter returns the pixel center of a piece's 3x3 neighbourhood, where
// placement bursts start.
func PieceCenter(p tetris.Piece) (x, y float64) {
	return (float64(p.X)+1.5)*BlockSize + BoardX, (float64(p.Y)+1.5)*BlockSize + BoardY
}

package render

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/metris/app"
	"github.com/plus3/metris/tetris"
	"golang.org/x/image/font/basicfont"
)

const (
	ghostAlpha  = 0.2
	bevel       = 3
	lineSpacing = 16
)

// Renderer draws the game with ebiten. Render stores the frame's view; Draw
// paints it. Both run on the ebiten game goroutine.
type Renderer struct {
	view    app.View
	effects *Effects
	face    text.Face

	name  string
	blink time.Duration
}

func NewRenderer(effects *Effects) *Renderer {
	if effects == nil {
		effects = NewEffects(nil)
	}
	return &Renderer{
		effects: effects,
		face:    text.NewGoXFace(basicfont.Face7x13),
	}
}

func (r *Renderer) Effects() *Effects { return r.effects }

// Render implements app.Renderer.
func (r *Renderer) Render(v app.View) {
	r.view = v
	r.effects.Sync(v.Snapshot.Board)
}

// View returns the last rendered view.
func (r *Renderer) View() app.View { return r.view }

// SetName sets the text shown in the name entry prompt.
func (r *Renderer) SetName(name string) {
	r.name = name
}

// Update advances effects and the caret blink. Effects hold still while the
// last rendered view is paused.
func (r *Renderer) Update(dt time.Duration) {
	if r.view.Phase != app.PhasePaused {
		r.effects.Update(dt)
	}
	r.blink = (r.blink + dt) % time.Second
}

func (r *Renderer) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	drawBackground(screen)

	dx, dy := r.effects.ShakeOffset()
	snap := r.view.Snapshot

	r.drawBoard(screen, snap, float32(dx), float32(dy))
	r.drawParticles(screen, float32(dx), float32(dy))
	r.drawPanel(screen, snap)

	switch r.view.Phase {
	case app.PhaseTitle:
		r.drawTitle(screen)
	case app.PhasePaused:
		r.drawPaused(screen)
	case app.PhaseGameOver:
		r.drawGameOver(screen)
	case app.PhaseNameEntry:
		r.drawNameEntry(screen)
	}
}

func drawBackground(dst *ebiten.Image) {
	const bands = 32
	h := float32(ScreenHeight) / bands
	for i := 0; i < bands; i++ {
		t := float64(i) / (bands - 1)
		c := color.RGBA{
			R: lerp(backgroundTop.R, backgroundBottom.R, t),
			G: lerp(backgroundTop.G, backgroundBottom.G, t),
			B: lerp(backgroundTop.B, backgroundBottom.B, t),
			A: 255,
		}
		vector.DrawFilledRect(dst, 0, float32(i)*h, ScreenWidth, h+1, c, false)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func (r *Renderer) drawBoard(dst *ebiten.Image, snap tetris.Snapshot, dx, dy float32) {
	ox, oy := float32(BoardX)+dx, float32(BoardY)+dy

	vector.DrawFilledRect(dst, ox, oy, BoardWidth, BoardHeight, color.RGBA{0, 0, 0, 120}, false)
	for col := 0; col <= tetris.Width; col++ {
		x := ox + float32(col*BlockSize)
		vector.StrokeLine(dst, x, oy, x, oy+BoardHeight, 1, gridColor, false)
	}
	for row := 0; row <= tetris.Height; row++ {
		y := oy + float32(row*BlockSize)
		vector.StrokeLine(dst, ox, y, ox+BoardWidth, y, 1, gridColor, false)
	}

	for row := 0; row < tetris.Height; row++ {
		for col := 0; col < tetris.Width; col++ {
			b := snap.Board.At(row, col)
			if !b.Filled() {
				continue
			}
			x, y := CellOrigin(row, col)
			drawBlock(dst, float32(x)+dx, float32(y)+dy, BlockSize, b.Color(), 1)
		}
	}

	rows, alpha := r.effects.Flash.Rows()
	for _, row := range rows {
		_, y := CellOrigin(row, 0)
		vector.DrawFilledRect(dst, ox, float32(y)+dy, BoardWidth, BlockSize, Fade(color.RGBA{255, 255, 255, 255}, float64(alpha)), false)
	}

	vector.StrokeRect(dst, ox-1, oy-1, BoardWidth+2, BoardHeight+2, 2, accentColor, false)

	if !snap.HasPiece || snap.State == tetris.StateOver {
		return
	}
	drawPiece(dst, snap.Ghost, dx, dy, ghostAlpha)
	drawPiece(dst, snap.Current, dx, dy, 1)
}

func drawPiece(dst *ebiten.Image, p tetris.Piece, dx, dy float32, alpha float64) {
	for _, c := range p.Cells() {
		if c.Row < 0 {
			continue
		}
		x, y := CellOrigin(c.Row, c.Col)
		drawBlock(dst, float32(x)+dx, float32(y)+dy, BlockSize, p.Color(), alpha)
	}
}

// drawBlock paints a bevelled block: the fill, a lighter top and left edge,
// and a darker border.
func drawBlock(dst *ebiten.Image, x, y, size float32, c color.RGBA, alpha float64) {
	vector.DrawFilledRect(dst, x, y, size, size, Fade(c, alpha), false)
	hl := Fade(Lighten(c, 0.3), alpha)
	vector.DrawFilledRect(dst, x, y, size, bevel, hl, false)
	vector.DrawFilledRect(dst, x, y, bevel, size, hl, false)
	vector.StrokeRect(dst, x+0.5, y+0.5, size-1, size-1, 1, Fade(Darken(c, 0.3), alpha), false)
}

func (r *Renderer) drawParticles(dst *ebiten.Image, dx, dy float32) {
	for _, p := range r.effects.Particles.All() {
		vector.DrawFilledCircle(dst, float32(p.X)+dx, float32(p.Y)+dy, float32(p.Size)/2, Fade(p.Color, p.Life), true)
	}
}

func (r *Renderer) drawPanel(dst *ebiten.Image, snap tetris.Snapshot) {
	y := float64(BoardY)
	r.text(dst, "NEXT", PanelX, y, accentColor, 1)
	y += lineSpacing + 4

	if snap.HasPiece {
		shape := snap.Next.Shape()
		for row, cells := range shape {
			for col, filled := range cells {
				if !filled {
					continue
				}
				x := float32(PanelX + col*PreviewBlock)
				py := float32(y) + float32(row*PreviewBlock)
				drawBlock(dst, x, py, PreviewBlock, snap.Next.Color(), 1)
			}
		}
	}
	y += 4*PreviewBlock + 20

	stats := []struct {
		label string
		value int
	}{
		{"SCORE", snap.Score},
		{"LEVEL", snap.Level},
		{"LINES", snap.Lines},
		{"COMBO", snap.Combo},
	}
	for _, s := range stats {
		r.text(dst, s.label, PanelX, y, accentColor, 1)
		r.text(dst, fmt.Sprint(s.value), PanelX, y+lineSpacing, textColor, 2)
		y += 3*lineSpacing + 8
	}

	r.text(dst, fmt.Sprintf("MUSIC %s  SFX %s", onOff(r.view.Music), onOff(r.view.SFX)), PanelX, y, textColor, 1)
	y += 2 * lineSpacing

	r.text(dst, "HIGHSCORES", PanelX, y, accentColor, 1)
	y += lineSpacing
	r.drawHighscores(dst, PanelX, y, 10)
}

func (r *Renderer) drawHighscores(dst *ebiten.Image, x, y float64, limit int) {
	if len(r.view.Highscores) == 0 {
		r.text(dst, "no scores yet", x, y, Fade(textColor, 0.6), 1)
		return
	}
	for i, e := range r.view.Highscores {
		if i >= limit {
			break
		}
		c := textColor
		if r.view.Submitted != nil && i+1 == r.view.Rank && e == *r.view.Submitted {
			c = accentColor
		}
		r.text(dst, fmt.Sprintf("%2d %-15s %7d", i+1, e.Name, e.Score), x, y, c, 1)
		y += lineSpacing
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (r *Renderer) overlay(dst *ebiten.Image) {
	vector.DrawFilledRect(dst, BoardX, BoardY, BoardWidth, BoardHeight, overlayColor, false)
}

func (r *Renderer) drawTitle(dst *ebiten.Image) {
	r.overlay(dst)
	r.centered(dst, "METRIS", BoardY+BoardHeight/3, accentColor, 4)
	r.centered(dst, "press enter to start", BoardY+BoardHeight/2, textColor, 1)
	r.centered(dst, "arrows move  up rotate  space drop", BoardY+BoardHeight/2+2*lineSpacing, Fade(textColor, 0.7), 1)
	r.centered(dst, "p pause  m music  n sound", BoardY+BoardHeight/2+3*lineSpacing, Fade(textColor, 0.7), 1)
}

func (r *Renderer) drawPaused(dst *ebiten.Image) {
	r.overlay(dst)
	r.centered(dst, "PAUSED", BoardY+BoardHeight/2-lineSpacing, accentColor, 3)
	r.centered(dst, "press p to resume", BoardY+BoardHeight/2+2*lineSpacing, textColor, 1)
}

func (r *Renderer) drawGameOver(dst *ebiten.Image) {
	r.overlay(dst)
	y := float64(BoardY + BoardHeight/4)
	r.centered(dst, "GAME OVER", y, Neon[1], 3)
	y += 4 * lineSpacing
	r.centered(dst, fmt.Sprintf("score %d", r.view.FinalScore), y, textColor, 1)
	if r.view.Submitted != nil {
		y += lineSpacing
		r.centered(dst, fmt.Sprintf("rank %d", r.view.Rank), y, accentColor, 1)
	}
	y += 2 * lineSpacing
	r.centered(dst, "press r to restart", y, textColor, 1)
}

func (r *Renderer) drawNameEntry(dst *ebiten.Image) {
	r.overlay(dst)
	y := float64(BoardY + BoardHeight/4)
	r.centered(dst, "NEW HIGHSCORE", y, Neon[4], 2)
	y += 3 * lineSpacing
	r.centered(dst, fmt.Sprintf("score %d  rank %d", r.view.FinalScore, r.view.Rank), y, textColor, 1)
	y += 2 * lineSpacing
	r.centered(dst, "enter your name", y, textColor, 1)
	y += lineSpacing + 4

	name := r.name
	if r.blink < time.Second/2 {
		name += "_"
	} else {
		name += " "
	}
	r.centered(dst, name, y, accentColor, 2)
}

func (r *Renderer) text(dst *ebiten.Image, s string, x, y float64, c color.Color, scale float64) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, r.face, op)
}

// centered draws s horizontally centered over the board.
func (r *Renderer) centered(dst *ebiten.Image, s string, y float64, c color.Color, scale float64) {
	w, _ := text.Measure(s, r.face, lineSpacing)
	x := BoardX + (BoardWidth-w*scale)/2
	r.text(dst, s, x, y, c, scale)
}

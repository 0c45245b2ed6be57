package term

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/metris/app"
	"github.com/plus3/metris/tetris"
)

// Each board cell is two terminal columns wide.
const (
	cellWidth = 2
	boardLeft = 1
	boardTop  = 1
	panelLeft = boardLeft + tetris.Width*cellWidth + 4
)

var (
	styleBase   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleBorder = styleBase.Foreground(tcell.NewRGBColor(0x00, 0xf3, 0xff))
	styleEmpty  = styleBase.Foreground(tcell.NewRGBColor(0x30, 0x30, 0x48))
	styleLabel  = styleBase.Foreground(tcell.NewRGBColor(0x00, 0xf3, 0xff)).Bold(true)
	styleDim    = styleBase.Foreground(tcell.ColorGray)
	styleAlert  = styleBase.Foreground(tcell.NewRGBColor(0xff, 0x00, 0x6e)).Bold(true)
)

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Renderer draws views onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	view   app.View
	name   string
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// SetName sets the text shown in the name entry prompt.
func (r *Renderer) SetName(name string) {
	r.name = name
}

// View returns the last rendered view.
func (r *Renderer) View() app.View { return r.view }

// Render implements app.Renderer.
func (r *Renderer) Render(v app.View) {
	r.view = v
	r.screen.Fill(' ', styleBase)

	r.drawBoard(v.Snapshot)
	r.drawPanel(v)

	switch v.Phase {
	case app.PhaseTitle:
		r.banner(styleLabel, "M E T R I S", "", "enter  start", "q  quit")
	case app.PhasePaused:
		r.banner(styleLabel, "PAUSED", "", "p  resume")
	case app.PhaseGameOver:
		lines := []string{fmt.Sprintf("score %d", v.FinalScore)}
		if v.Submitted != nil {
			lines = append(lines, fmt.Sprintf("rank %d", v.Rank))
		}
		lines = append(lines, "", "r  restart")
		r.banner(styleAlert, "GAME OVER", lines...)
	case app.PhaseNameEntry:
		r.banner(styleAlert, "NEW HIGHSCORE",
			fmt.Sprintf("score %d  rank %d", v.FinalScore, v.Rank),
			"",
			"name: "+r.name+"_",
		)
	}

	r.screen.Show()
}

func (r *Renderer) put(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *Renderer) cell(row, col int, ch rune, style tcell.Style) {
	x := boardLeft + 1 + col*cellWidth
	y := boardTop + 1 + row
	for i := 0; i < cellWidth; i++ {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (r *Renderer) drawBoard(snap tetris.Snapshot) {
	right := boardLeft + 1 + tetris.Width*cellWidth
	bottom := boardTop + 1 + tetris.Height
	for y := boardTop; y <= bottom; y++ {
		r.screen.SetContent(boardLeft, y, '│', nil, styleBorder)
		r.screen.SetContent(right, y, '│', nil, styleBorder)
	}
	for x := boardLeft; x <= right; x++ {
		r.screen.SetContent(x, boardTop, '─', nil, styleBorder)
		r.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}
	r.screen.SetContent(boardLeft, boardTop, '┌', nil, styleBorder)
	r.screen.SetContent(right, boardTop, '┐', nil, styleBorder)
	r.screen.SetContent(boardLeft, bottom, '└', nil, styleBorder)
	r.screen.SetContent(right, bottom, '┘', nil, styleBorder)

	for row := 0; row < tetris.Height; row++ {
		for col := 0; col < tetris.Width; col++ {
			b := snap.Board.At(row, col)
			if b.Filled() {
				r.cell(row, col, '█', styleBase.Foreground(rgb(b.Color())))
			} else {
				r.cell(row, col, '·', styleEmpty)
			}
		}
	}

	if !snap.HasPiece || snap.State == tetris.StateOver {
		return
	}
	for _, c := range snap.Ghost.Cells() {
		if c.Row >= 0 {
			r.cell(c.Row, c.Col, '░', styleBase.Foreground(rgb(snap.Ghost.Color())).Dim(true))
		}
	}
	for _, c := range snap.Current.Cells() {
		if c.Row >= 0 {
			r.cell(c.Row, c.Col, '█', styleBase.Foreground(rgb(snap.Current.Color())))
		}
	}
}

func (r *Renderer) drawPanel(v app.View) {
	snap := v.Snapshot
	y := boardTop

	r.put(panelLeft, y, "NEXT", styleLabel)
	y++
	if snap.HasPiece {
		style := styleBase.Foreground(rgb(snap.Next.Color()))
		for row, cells := range snap.Next.Shape() {
			for col, filled := range cells {
				if filled {
					r.put(panelLeft+col*cellWidth, y+row, "██", style)
				}
			}
		}
	}
	y += 5

	for _, s := range []struct {
		label string
		value int
	}{
		{"SCORE", snap.Score},
		{"LEVEL", snap.Level},
		{"LINES", snap.Lines},
		{"COMBO", snap.Combo},
	} {
		r.put(panelLeft, y, s.label, styleLabel)
		r.put(panelLeft+7, y, fmt.Sprint(s.value), styleBase)
		y++
	}
	y++
	r.put(panelLeft, y, fmt.Sprintf("music %s  sfx %s", onOff(v.Music), onOff(v.SFX)), styleDim)
	y += 2

	r.put(panelLeft, y, "HIGHSCORES", styleLabel)
	y++
	if len(v.Highscores) == 0 {
		r.put(panelLeft, y, "no scores yet", styleDim)
	}
	for i, e := range v.Highscores {
		style := styleBase
		if v.Submitted != nil && i+1 == v.Rank {
			style = styleLabel
		}
		r.put(panelLeft, y+i, fmt.Sprintf("%2d %-15s %7d", i+1, e.Name, e.Score), style)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// banner writes a title and lines centered over the board.
func (r *Renderer) banner(titleStyle tcell.Style, title string, lines ...string) {
	inner := tetris.Width * cellWidth
	y := boardTop + tetris.Height/2 - (len(lines)+1)/2
	center := func(s string, row int, style tcell.Style) {
		n := len([]rune(s))
		x := boardLeft + 1 + (inner-n)/2
		r.put(boardLeft+1, row, fmt.Sprintf("%*s", inner, ""), styleBase)
		r.put(x, row, s, style)
	}
	center(title, y, titleStyle)
	for i, line := range lines {
		center(line, y+1+i, styleBase)
	}
}

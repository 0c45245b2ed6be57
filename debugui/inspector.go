package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/metris/tetris"
)

// SessionInspector shows the live state of a session and offers pause and
// restart controls.
type SessionInspector struct {
	session *tetris.Session
}

func NewSessionInspector(session *tetris.Session) *SessionInspector {
	return &SessionInspector{session: session}
}

// BoardText renders the board with the active piece as '@' and its ghost as
// '+'.
func BoardText(snap tetris.Snapshot) string {
	var overlay [tetris.Height][tetris.Width]byte
	if snap.HasPiece {
		for _, c := range snap.Ghost.Cells() {
			if tetris.InBounds(c.Row, c.Col) {
				overlay[c.Row][c.Col] = '+'
			}
		}
		for _, c := range snap.Current.Cells() {
			if tetris.InBounds(c.Row, c.Col) {
				overlay[c.Row][c.Col] = '@'
			}
		}
	}

	var sb strings.Builder
	sb.Grow(tetris.Height * (tetris.Width + 1))
	for row := 0; row < tetris.Height; row++ {
		for col := 0; col < tetris.Width; col++ {
			switch b := snap.Board.At(row, col); {
			case overlay[row][col] != 0:
				sb.WriteByte(overlay[row][col])
			case b.Filled():
				sb.WriteString(b.Piece().String())
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (si *SessionInspector) Render() {
	snap := si.session.Snapshot()

	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(260, 520), imgui.CondOnce)
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	switch snap.State {
	case tetris.StateRunning:
		imgui.TextColored(imgui.NewVec4(0.0, 1.0, 0.0, 1.0), "RUNNING")
	case tetris.StatePaused:
		imgui.TextColored(imgui.NewVec4(1.0, 0.8, 0.0, 1.0), "PAUSED")
	default:
		imgui.Text(strings.ToUpper(snap.State.String()))
	}

	if imgui.Button("Pause/Resume") {
		si.session.TogglePause()
	}
	imgui.SameLine()
	if imgui.Button("Restart") {
		si.session.Start()
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Score: %d", snap.Score))
	imgui.Text(fmt.Sprintf("Level: %d  Lines: %d  Combo: %d", snap.Level, snap.Lines, snap.Combo))
	imgui.Text(fmt.Sprintf("Drop Interval: %s", snap.DropInterval))
	imgui.Text(fmt.Sprintf("Filled Cells: %d", snap.Board.Filled()))

	if snap.HasPiece {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Current: %s", snap.Current))
		imgui.Text(fmt.Sprintf("Ghost:   %s", snap.Ghost))
		imgui.Text(fmt.Sprintf("Next:    %s", snap.Next.Type))
	}

	if imgui.TreeNodeStr("Board") {
		imgui.Text(BoardText(snap))
		imgui.TreePop()
	}

	imgui.End()
}

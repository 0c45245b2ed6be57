package app

import (
	"github.com/plus3/metris/loop"
	"github.com/plus3/metris/tetris"
)

// descentSystem advances automatic descent with frame time.
type descentSystem struct {
	session *tetris.Session
}

func (s *descentSystem) Execute(frame *loop.Frame) {
	s.session.Update(frame.DeltaTime)
}

func (s *descentSystem) SystemName() string { return "Descent" }

// renderSystem hands the frame's view to the renderer.
type renderSystem struct {
	app *App
}

func (s *renderSystem) Execute(frame *loop.Frame) {
	s.app.renderer.Render(s.app.View())
}

func (s *renderSystem) SystemName() string { return "Render" }

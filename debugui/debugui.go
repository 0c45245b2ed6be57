// Package debugui provides Dear ImGui debug windows for a running game: frame
// and system timings, a session inspector and an event log.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/metris/loop"
)

// Item holds a Dear ImGui render function.
type Item struct {
	Render func()
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// System defers every item's render function to the end of the frame and
// refreshes the input capture state. Run it between the backend's BeginFrame
// and EndFrame.
type System struct {
	Items []Item
	Input InputState

	readInput func() InputState
}

func NewSystem(items ...Item) *System {
	return &System{Items: items, readInput: imguiInput}
}

func imguiInput() InputState {
	io := imgui.CurrentIO()
	return InputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// Add appends a window.
func (s *System) Add(render func()) {
	s.Items = append(s.Items, Item{Render: render})
}

func (s *System) Execute(frame *loop.Frame) {
	if s.readInput != nil {
		s.Input = s.readInput()
	}
	for _, item := range s.Items {
		frame.Commands.Defer(item.Render)
	}
}

func (s *System) SystemName() string { return "DebugUI" }

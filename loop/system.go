package loop

// System is one step of a frame. Systems run in registration order and keep
// whatever state they need between frames.
type System interface {
	Execute(frame *Frame)
}

// SystemFunc adapts a function to a named System.
type SystemFunc struct {
	Name string
	Fn   func(frame *Frame)
}

func (s SystemFunc) Execute(frame *Frame) {
	s.Fn(frame)
}

// Named lets a system choose the name it is reported under in Stats.
type Named interface {
	SystemName() string
}

func (s SystemFunc) SystemName() string {
	return s.Name
}

package tetris

import "fmt"

// Command is a discrete player instruction understood by a Session.
type Command int

const (
	CommandMoveLeft Command = iota
	CommandMoveRight
	CommandSoftDrop
	CommandHardDrop
	CommandRotate
	CommandRotateBack
	CommandTogglePause
	CommandStart
)

var commandNames = [...]string{
	CommandMoveLeft:    "move-left",
	CommandMoveRight:   "move-right",
	CommandSoftDrop:    "soft-drop",
	CommandHardDrop:    "hard-drop",
	CommandRotate:      "rotate",
	CommandRotateBack:  "rotate-back",
	CommandTogglePause: "toggle-pause",
	CommandStart:       "start",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// Apply executes a command and reports whether it changed the session.
func (s *Session) Apply(cmd Command) bool {
	switch cmd {
	case CommandMoveLeft:
		return s.MoveLeft()
	case CommandMoveRight:
		return s.MoveRight()
	case CommandSoftDrop:
		return s.SoftDrop()
	case CommandHardDrop:
		return s.HardDrop()
	case CommandRotate:
		return s.Rotate(Clockwise)
	case CommandRotateBack:
		return s.Rotate(CounterClockwise)
	case CommandTogglePause:
		return s.TogglePause()
	case CommandStart:
		s.Start()
		return true
	}
	return false
}

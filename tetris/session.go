package tetris

import (
	"fmt"
	"time"
)

// State is the lifecycle phase of a Session.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Session is a single game: the board, the active and next piece, and the
// score counters. It is not safe for concurrent use; one owner drives it from
// one goroutine.
type Session struct {
	board   Board
	current Piece
	next    Piece

	score int
	level int
	lines int
	combo int

	state     State
	dropTimer time.Duration

	random Randomizer
	bus    *Bus
}

// Option configures a Session.
type Option func(*Session)

// WithRandomizer sets the piece randomizer.
func WithRandomizer(r Randomizer) Option {
	return func(s *Session) {
		s.random = r
	}
}

// WithBus publishes the session's events on an existing bus.
func WithBus(b *Bus) Option {
	return func(s *Session) {
		s.bus = b
	}
}

// NewSession creates an idle session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		level: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.random == nil {
		s.random = NewUniformRandomizer(0)
	}
	if s.bus == nil {
		s.bus = NewBus()
	}
	return s
}

// Bus returns the bus the session publishes on.
func (s *Session) Bus() *Bus { return s.bus }

func (s *Session) State() State   { return s.state }
func (s *Session) Score() int     { return s.score }
func (s *Session) Level() int     { return s.level }
func (s *Session) Lines() int     { return s.lines }
func (s *Session) Combo() int     { return s.combo }
func (s *Session) Current() Piece { return s.current }
func (s *Session) Next() Piece    { return s.next }

// Board returns a copy of the board.
func (s *Session) Board() Board { return s.board }

// DropInterval returns the automatic descent period at the current level.
func (s *Session) DropInterval() time.Duration {
	return DropInterval(s.level)
}

// Start resets the session and begins a new game. It may be called in any
// state, which makes it the restart command as well.
func (s *Session) Start() {
	s.board = Board{}
	s.score = 0
	s.level = 1
	s.lines = 0
	s.combo = 0
	s.dropTimer = 0

	s.current = Spawn(s.random.Next())
	s.next = Spawn(s.random.Next())
	s.state = StateRunning

	s.publish(Event{Kind: EventStarted, Piece: s.current})
}

// Update advances the descent timer by dt. When the timer reaches the drop
// interval the active piece falls one row, locking if it cannot. It reports
// whether a descent step ran.
func (s *Session) Update(dt time.Duration) bool {
	if s.state != StateRunning {
		return false
	}

	s.dropTimer += dt
	if s.dropTimer < s.DropInterval() {
		return false
	}
	s.dropTimer = 0

	if !Move(&s.current, 0, 1, &s.board) {
		s.lockPiece()
	}
	return true
}

func (s *Session) canControl() bool {
	return s.state == StateRunning
}

func (s *Session) shift(dx int) bool {
	if !s.canControl() {
		return false
	}
	if !Move(&s.current, dx, 0, &s.board) {
		return false
	}
	s.publish(Event{Kind: EventMoved, Piece: s.current})
	return true
}

// MoveLeft shifts the active piece one column left.
func (s *Session) MoveLeft() bool { return s.shift(-1) }

// MoveRight shifts the active piece one column right.
func (s *Session) MoveRight() bool { return s.shift(1) }

// SoftDrop moves the active piece down one row, awarding SoftDropPoints.
// A blocked soft drop does not lock the piece.
func (s *Session) SoftDrop() bool {
	if !s.canControl() {
		return false
	}
	if !Move(&s.current, 0, 1, &s.board) {
		return false
	}
	s.score += SoftDropPoints
	s.publish(Event{
		Kind:   EventSoftDropped,
		Piece:  s.current,
		Points: SoftDropPoints,
	})
	return true
}

// HardDrop drops the active piece to rest, awarding HardDropPoints per row,
// and locks it.
func (s *Session) HardDrop() bool {
	if !s.canControl() {
		return false
	}

	dist := DropDistance(s.current, &s.board)
	s.current.Y += dist
	s.score += dist * HardDropPoints

	s.publish(Event{
		Kind:     EventHardDropped,
		Piece:    s.current,
		Distance: dist,
		Points:   dist * HardDropPoints,
	})

	s.lockPiece()
	return true
}

// Rotate turns the active piece, applying wall kicks when needed.
func (s *Session) Rotate(dir Direction) bool {
	if !s.canControl() {
		return false
	}
	if !Rotate(&s.current, &s.board, dir) {
		return false
	}
	s.publish(Event{Kind: EventRotated, Piece: s.current})
	return true
}

// Pause suspends automatic descent and player control.
func (s *Session) Pause() bool {
	if s.state != StateRunning {
		return false
	}
	s.state = StatePaused
	s.publish(Event{Kind: EventPaused})
	return true
}

// Resume continues a paused game with a fresh descent timer.
func (s *Session) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StateRunning
	s.dropTimer = 0
	s.publish(Event{Kind: EventResumed})
	return true
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() bool {
	if s.state == StatePaused {
		return s.Resume()
	}
	return s.Pause()
}

func (s *Session) lockPiece() {
	locked := s.current
	cells := Lock(locked, &s.board)
	s.publish(Event{Kind: EventLocked, Piece: locked, Cells: cells})

	rows := s.board.CompletedRows()
	if len(rows) > 0 {
		s.board.ClearRows(rows)
		s.lines += len(rows)
		s.combo++

		points := LineClearPoints(len(rows), s.combo, s.level)
		s.score += points

		s.publish(Event{
			Kind:   EventLinesCleared,
			Piece:  locked,
			Rows:   rows,
			Count:  len(rows),
			Points: points,
			Combo:  s.combo,
		})

		if level := LevelForLines(s.lines); level > s.level {
			s.level = level
			s.publish(Event{Kind: EventLevelUp})
		}
	} else {
		s.combo = 0
	}

	s.current = s.next
	s.next = Spawn(s.random.Next())

	if Collides(s.current, 0, 0, &s.board) {
		s.state = StateOver
		s.publish(Event{Kind: EventGameOver, Piece: s.current})
		return
	}

	s.publish(Event{Kind: EventSpawned, Piece: s.current})
}

// publish stamps the event with the session's score and level at the moment
// it is sent.
func (s *Session) publish(e Event) {
	e.Score = s.score
	e.Level = s.level
	s.bus.Publish(e)
}

// Snapshot is a read-only copy of the session for collaborators.
type Snapshot struct {
	Board   Board
	Current Piece
	Ghost   Piece
	Next    Piece

	// HasPiece is false before the first Start.
	HasPiece bool

	Score int
	Level int
	Lines int
	Combo int
	State State

	DropInterval time.Duration
}

// Snapshot copies the observable state, including the ghost projection of
// the active piece.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Board:        s.board,
		Score:        s.score,
		Level:        s.level,
		Lines:        s.lines,
		Combo:        s.combo,
		State:        s.state,
		DropInterval: s.DropInterval(),
	}
	if s.state == StateIdle {
		return snap
	}
	snap.HasPiece = true
	snap.Current = s.current
	snap.Next = s.next
	snap.Ghost = Ghost(s.current, &s.board)
	return snap
}

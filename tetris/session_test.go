package tetris

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(b *Board, row int, cols ...int) {
	for _, col := range cols {
		b.Place(row, col, BlockOf(PieceT))
	}
}

func span(from, to int) []int {
	cols := make([]int, 0, to-from+1)
	for c := from; c <= to; c++ {
		cols = append(cols, c)
	}
	return cols
}

func newTestSession(types ...PieceType) *Session {
	if len(types) == 0 {
		types = []PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}
	}
	s := NewSession(WithRandomizer(NewSequenceRandomizer(types...)))
	s.Start()
	return s
}

type recorder struct {
	events []Event
}

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func record(s *Session) *recorder {
	r := &recorder{}
	s.Bus().SubscribeAll(func(e Event) {
		r.events = append(r.events, e)
	})
	return r
}

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.MoveLeft())
	assert.False(t, s.HardDrop())
	assert.False(t, s.TogglePause())
	assert.False(t, s.Update(time.Hour))

	snap := s.Snapshot()
	assert.False(t, snap.HasPiece)
	assert.Equal(t, 1, snap.Level)
}

func TestStartResets(t *testing.T) {
	s := newTestSession(PieceT, PieceL)
	s.score = 999
	s.level = 4
	s.lines = 33
	s.combo = 2
	fill(&s.board, 19, 0, 1, 2)

	s.Start()

	assert.Equal(t, StateRunning, s.State())
	assert.Zero(t, s.Score())
	assert.Equal(t, 1, s.Level())
	assert.Zero(t, s.Lines())
	assert.Zero(t, s.Combo())
	assert.Zero(t, s.board.Filled())
	assert.Equal(t, Spawn(s.current.Type), s.current)
	assert.Equal(t, Spawn(s.next.Type), s.next)
}

func TestSingleLineClearScoresByLevel(t *testing.T) {
	s := newTestSession(PieceI, PieceO)
	fill(&s.board, Height-1, span(0, 5)...)
	s.current = Piece{Type: PieceI, X: 6, Y: Height - 2}

	before := s.Score()
	s.lockPiece()

	assert.Zero(t, s.board.Filled(), "board returns to empty")
	assert.Equal(t, 100*s.Level(), s.Score()-before)
	assert.Equal(t, 1, s.Lines())
	assert.Equal(t, 1, s.Combo())
	assert.Equal(t, StateRunning, s.State())
}

func TestHardDropClearsLine(t *testing.T) {
	s := newTestSession(PieceI, PieceO)
	fill(&s.board, Height-1, span(0, 5)...)
	rec := record(s)

	for i := 0; i < 3; i++ {
		require.True(t, s.MoveRight())
	}
	assert.False(t, s.MoveRight(), "I piece is against the right wall")

	require.True(t, s.HardDrop())

	assert.Equal(t, 18*HardDropPoints+100, s.Score())
	assert.Zero(t, s.board.Filled())
	assert.Equal(t, PieceO, s.Current().Type)
	assert.Equal(t, []EventKind{
		EventMoved, EventMoved, EventMoved,
		EventHardDropped, EventLocked, EventLinesCleared, EventSpawned,
	}, rec.kinds())

	cleared := rec.events[5]
	assert.Equal(t, 1, cleared.Count)
	assert.Equal(t, []int{Height - 1}, cleared.Rows)
	assert.Equal(t, 100, cleared.Points)
}

func TestComboBonus(t *testing.T) {
	s := newTestSession(PieceI)
	expected := []int{100, 150, 200, 250}

	for i, want := range expected {
		fill(&s.board, Height-1, span(0, 5)...)
		s.current = Piece{Type: PieceI, X: 6, Y: Height - 2}

		before := s.Score()
		s.lockPiece()

		assert.Equal(t, i+1, s.Combo())
		assert.Equal(t, want, s.Score()-before, "clear %d", i+1)
	}
	assert.Equal(t, (4-1)*ComboBonus, LineClearPoints(1, 4, 1)-100)
}

func TestNonClearingLockResetsCombo(t *testing.T) {
	s := newTestSession(PieceO)
	s.combo = 3

	s.current = Piece{Type: PieceO, X: 0, Y: Height - 2}
	s.lockPiece()

	assert.Zero(t, s.Combo())
	assert.Equal(t, 4, s.board.Filled())
}

func TestLevelUp(t *testing.T) {
	s := newTestSession(PieceI)
	rec := record(s)
	s.lines = LinesPerLevel - 1

	fill(&s.board, Height-1, span(0, 5)...)
	s.current = Piece{Type: PieceI, X: 6, Y: Height - 2}
	s.lockPiece()

	assert.Equal(t, 2, s.Level())
	assert.Equal(t, 100, s.Score(), "points use the level before the increase")
	assert.Equal(t, 950*time.Millisecond, s.DropInterval())
	assert.Contains(t, rec.kinds(), EventLevelUp)
}

func TestEventsCarryScoreAndLevelWhenPublished(t *testing.T) {
	s := newTestSession(PieceI)
	rec := record(s)
	s.lines = LinesPerLevel - 1
	s.score = 40

	fill(&s.board, Height-1, span(0, 5)...)
	s.current = Piece{Type: PieceI, X: 6, Y: Height - 2}
	s.lockPiece()

	byKind := make(map[EventKind]Event)
	for _, e := range rec.events {
		byKind[e.Kind] = e
	}
	assert.Equal(t, 40, byKind[EventLocked].Score)
	assert.Equal(t, 1, byKind[EventLocked].Level)
	assert.Equal(t, 140, byKind[EventLinesCleared].Score)
	assert.Equal(t, 1, byKind[EventLinesCleared].Level, "level before the increase")
	assert.Equal(t, 2, byKind[EventLevelUp].Level)
	assert.Equal(t, 140, byKind[EventLevelUp].Score)

	rec.events = nil
	s.Start()
	require.Len(t, rec.events, 1)
	assert.Zero(t, rec.events[0].Score, "restart reports the reset score")
	assert.Equal(t, 1, rec.events[0].Level)
}

func TestEventsMatchSessionState(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	s := NewSession(WithRandomizer(NewUniformRandomizer(3)))
	s.Bus().SubscribeAll(func(e Event) {
		require.Equal(t, s.score, e.Score, e.Kind.String())
		require.Equal(t, s.level, e.Level, e.Kind.String())
	})
	s.Start()

	commands := []Command{CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandHardDrop, CommandRotate}
	for i := 0; i < 3000; i++ {
		if s.State() == StateOver {
			s.Start()
			continue
		}
		s.Apply(commands[rng.IntN(len(commands))])
	}
}

func TestLevelIsMonotonic(t *testing.T) {
	s := newTestSession(PieceI)
	s.level = 5
	s.lines = 12

	fill(&s.board, Height-1, span(0, 5)...)
	s.current = Piece{Type: PieceI, X: 6, Y: Height - 2}
	s.lockPiece()

	assert.Equal(t, 5, s.Level(), "never decreases below the current level")
}

func TestDropInterval(t *testing.T) {
	cases := []struct {
		level int
		want  time.Duration
	}{
		{1, 1000 * time.Millisecond},
		{2, 950 * time.Millisecond},
		{10, 550 * time.Millisecond},
		{19, 100 * time.Millisecond},
		{40, 100 * time.Millisecond},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DropInterval(tc.level), "level %d", tc.level)
	}
}

func TestLineClearPoints(t *testing.T) {
	assert.Equal(t, 0, LineClearPoints(0, 0, 3))
	assert.Equal(t, 100, LineClearPoints(1, 1, 1))
	assert.Equal(t, 300, LineClearPoints(2, 1, 1))
	assert.Equal(t, 500, LineClearPoints(3, 0, 1))
	assert.Equal(t, 800*3, LineClearPoints(4, 1, 3))
	assert.Equal(t, (300+50)*2, LineClearPoints(2, 2, 2))
}

func TestGameOverOnSpawnCollision(t *testing.T) {
	s := newTestSession(PieceO)
	rec := record(s)

	// Every piece type occupies column 4 of its second row at spawn.
	fill(&s.board, 1, span(0, 8)...)
	s.current = Piece{Type: PieceO, X: 0, Y: Height - 2}
	s.lockPiece()

	require.Equal(t, StateOver, s.State())
	assert.Equal(t, EventGameOver, rec.events[len(rec.events)-1].Kind)

	board := s.Board()
	score := s.Score()
	piece := s.Current()

	for _, cmd := range []Command{
		CommandMoveLeft, CommandMoveRight, CommandSoftDrop,
		CommandHardDrop, CommandRotate, CommandRotateBack, CommandTogglePause,
	} {
		assert.False(t, s.Apply(cmd), cmd.String())
	}
	assert.False(t, s.Update(10*time.Second))

	assert.Equal(t, board, s.Board())
	assert.Equal(t, score, s.Score())
	assert.Equal(t, piece, s.Current())
	assert.Equal(t, StateOver, s.State())

	assert.True(t, s.Apply(CommandStart))
	assert.Equal(t, StateRunning, s.State())
}

func TestEveryTypeCollidesWithBlockedSpawnRow(t *testing.T) {
	var b Board
	fill(&b, 1, 4)
	for typ := PieceType(0); typ < PieceTypeCount; typ++ {
		assert.True(t, Collides(Spawn(typ), 0, 0, &b), typ.String())
	}
}

func TestPauseSuspendsPlay(t *testing.T) {
	s := newTestSession(PieceT)
	rec := record(s)

	require.True(t, s.TogglePause())
	assert.Equal(t, StatePaused, s.State())

	before := s.Current()
	assert.False(t, s.MoveLeft())
	assert.False(t, s.SoftDrop())
	assert.False(t, s.HardDrop())
	assert.False(t, s.Rotate(Clockwise))
	assert.False(t, s.Update(5*time.Second))
	assert.Equal(t, before, s.Current())
	assert.False(t, s.Pause(), "already paused")

	require.True(t, s.TogglePause())
	assert.Equal(t, StateRunning, s.State())
	assert.False(t, s.Resume(), "already running")
	assert.Equal(t, []EventKind{EventPaused, EventResumed}, rec.kinds())
}

func TestResumeResetsDropTimer(t *testing.T) {
	s := newTestSession(PieceT)
	assert.False(t, s.Update(900*time.Millisecond))

	s.Pause()
	s.Resume()

	assert.False(t, s.Update(900*time.Millisecond), "timer restarted on resume")
	assert.True(t, s.Update(100*time.Millisecond))
}

func TestUpdateDescends(t *testing.T) {
	s := newTestSession(PieceT)
	y := s.Current().Y

	assert.False(t, s.Update(999*time.Millisecond))
	assert.Equal(t, y, s.Current().Y)

	assert.True(t, s.Update(time.Millisecond))
	assert.Equal(t, y+1, s.Current().Y)
	assert.Zero(t, s.Score(), "gravity awards nothing")
}

func TestUpdateLocksAtRest(t *testing.T) {
	s := newTestSession(PieceO, PieceT)
	s.current = Piece{Type: PieceO, X: 0, Y: Height - 2}

	assert.True(t, s.Update(time.Second))

	assert.Equal(t, 4, s.board.Filled())
	assert.Equal(t, PieceT, s.Current().Type)
}

func TestSoftDrop(t *testing.T) {
	s := newTestSession(PieceO)
	require.True(t, s.SoftDrop())
	assert.Equal(t, SoftDropPoints, s.Score())
	assert.Equal(t, 1, s.Current().Y)

	s.current.Y = Height - 2
	assert.False(t, s.SoftDrop(), "blocked soft drop")
	assert.Zero(t, s.board.Filled(), "blocked soft drop does not lock")
	assert.Equal(t, SoftDropPoints, s.Score())
}

func TestScoreNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	s := NewSession(WithRandomizer(NewUniformRandomizer(7)))
	s.Start()

	commands := []Command{
		CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandHardDrop,
		CommandRotate, CommandRotateBack, CommandTogglePause,
	}

	last := s.Score()
	for i := 0; i < 20000; i++ {
		if s.State() == StateOver {
			s.Start()
			last = 0
			continue
		}
		if rng.IntN(2) == 0 {
			s.Apply(commands[rng.IntN(len(commands))])
		} else {
			s.Update(time.Duration(rng.IntN(400)) * time.Millisecond)
		}

		require.GreaterOrEqual(t, s.Score(), last)
		last = s.Score()

		require.GreaterOrEqual(t, s.Level(), LevelForLines(s.Lines()))
	}
}

func TestSnapshotIncludesGhost(t *testing.T) {
	s := newTestSession(PieceO, PieceI)
	snap := s.Snapshot()

	require.True(t, snap.HasPiece)
	assert.Equal(t, s.Current(), snap.Current)
	assert.Equal(t, PieceI, snap.Next.Type)
	assert.Equal(t, Height-2, snap.Ghost.Y)
	assert.Equal(t, s.Current().X, snap.Ghost.X)
	assert.Equal(t, time.Second, snap.DropInterval)

	snap.Board.Place(0, 0, BlockOf(PieceZ))
	assert.Zero(t, s.board.Filled(), "snapshot is a copy")
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "hard-drop", CommandHardDrop.String())
	assert.Equal(t, "Command(99)", Command(99).String())
	assert.Equal(t, "lines-cleared", EventLinesCleared.String())
	assert.Equal(t, "paused", StatePaused.String())
}

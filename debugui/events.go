package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/metris/tetris"
)

// LogEntry is one recorded event.
type LogEntry struct {
	At    time.Duration
	Kind  tetris.EventKind
	Event tetris.Event
}

// Summary describes the event in one line.
func (e LogEntry) Summary() string {
	ev := e.Event
	switch ev.Kind {
	case tetris.EventLinesCleared:
		return fmt.Sprintf("%d lines +%d combo %d", ev.Count, ev.Points, ev.Combo)
	case tetris.EventHardDropped:
		return fmt.Sprintf("%s dist %d +%d", ev.Piece, ev.Distance, ev.Points)
	case tetris.EventSoftDropped:
		return fmt.Sprintf("+%d", ev.Points)
	case tetris.EventLevelUp:
		return fmt.Sprintf("level %d", ev.Level)
	case tetris.EventGameOver:
		return fmt.Sprintf("score %d level %d", ev.Score, ev.Level)
	case tetris.EventPaused, tetris.EventResumed:
		return ""
	}
	return ev.Piece.String()
}

// EventLog keeps the most recent session events.
type EventLog struct {
	max     int
	entries []LogEntry
	clock   func() time.Duration
	hide    map[tetris.EventKind]bool
}

// NewEventLog keeps up to max entries. clock stamps each entry; nil stamps
// zero.
func NewEventLog(max int, clock func() time.Duration) *EventLog {
	if max <= 0 {
		max = 200
	}
	return &EventLog{
		max:   max,
		clock: clock,
		hide:  map[tetris.EventKind]bool{tetris.EventMoved: true},
	}
}

// Attach subscribes to every event on bus.
func (l *EventLog) Attach(bus *tetris.Bus) {
	bus.SubscribeAll(l.Handle)
}

func (l *EventLog) Handle(e tetris.Event) {
	var at time.Duration
	if l.clock != nil {
		at = l.clock()
	}
	l.entries = append(l.entries, LogEntry{At: at, Kind: e.Kind, Event: e})
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Entries returns the recorded events, oldest first, without hidden kinds.
func (l *EventLog) Entries() []LogEntry {
	out := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if !l.hide[e.Kind] {
			out = append(out, e)
		}
	}
	return out
}

// SetHidden hides or shows a kind.
func (l *EventLog) SetHidden(kind tetris.EventKind, hidden bool) {
	l.hide[kind] = hidden
}

func (l *EventLog) Clear() {
	l.entries = l.entries[:0]
}

func (l *EventLog) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 300), imgui.CondOnce)
	if !imgui.BeginV("Events", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if imgui.Button("Clear") {
		l.Clear()
	}
	imgui.SameLine()
	showMoves := !l.hide[tetris.EventMoved]
	if imgui.Checkbox("moves", &showMoves) {
		l.SetHidden(tetris.EventMoved, !showMoves)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EventTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Time")
		imgui.TableSetupColumn("Event")
		imgui.TableSetupColumn("Detail")
		imgui.TableHeadersRow()

		entries := l.Entries()
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(e.At.Truncate(time.Millisecond).String())
			imgui.TableNextColumn()
			imgui.Text(e.Kind.String())
			imgui.TableNextColumn()
			imgui.Text(e.Summary())
		}
		imgui.EndTable()
	}

	imgui.End()
}

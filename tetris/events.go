package tetris

import (
	"fmt"

	"github.com/kamstrup/intmap"
)

// EventKind classifies a domain event published by a Session.
type EventKind int

const (
	EventStarted EventKind = iota
	EventMoved
	EventRotated
	EventSoftDropped
	EventHardDropped
	EventLocked
	EventLinesCleared
	EventLevelUp
	EventSpawned
	EventPaused
	EventResumed
	EventGameOver
)

var eventNames = [...]string{
	EventStarted:      "started",
	EventMoved:        "moved",
	EventRotated:      "rotated",
	EventSoftDropped:  "soft-dropped",
	EventHardDropped:  "hard-dropped",
	EventLocked:       "locked",
	EventLinesCleared: "lines-cleared",
	EventLevelUp:      "level-up",
	EventSpawned:      "spawned",
	EventPaused:       "paused",
	EventResumed:      "resumed",
	EventGameOver:     "game-over",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventNames[k]
}

// Event describes a state change. Fields not relevant to the kind are zero.
type Event struct {
	Kind  EventKind
	Piece Piece

	// Cells written by a lock.
	Cells []Cell
	// Rows cleared, bottom to top, in pre-clear board indices.
	Rows []int

	// Count is the number of lines cleared.
	Count int
	// Distance is the number of rows covered by a hard drop.
	Distance int
	// Points awarded by this event.
	Points int

	Score int
	Level int
	Combo int
}

// Handler receives published events.
type Handler func(Event)

// Bus delivers events synchronously, first to kind-specific handlers and then
// to handlers registered for every kind, each in subscription order.
type Bus struct {
	byKind *intmap.Map[EventKind, []Handler]
	all    []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		byKind: intmap.New[EventKind, []Handler](16),
	}
}

// Subscribe registers h for a single event kind.
func (b *Bus) Subscribe(kind EventKind, h Handler) {
	handlers, _ := b.byKind.Get(kind)
	b.byKind.Put(kind, append(handlers, h))
}

// SubscribeAll registers h for every event kind.
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Publish delivers e to its subscribers.
func (b *Bus) Publish(e Event) {
	if handlers, ok := b.byKind.Get(e.Kind); ok {
		for _, h := range handlers {
			h(e)
		}
	}
	for _, h := range b.all {
		h(e)
	}
}

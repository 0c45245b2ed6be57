package loop

import (
	"sort"
	"time"

	"github.com/kamstrup/intmap"
)

// Handle controls a scheduled timer.
type Handle struct {
	id     uint64
	due    time.Duration
	period time.Duration
	fn     func()
	timers *Timers
}

// Cancel stops the timer. Cancelling twice, or after a one-shot timer fired,
// is a no-op.
func (h *Handle) Cancel() {
	if h == nil || h.timers == nil {
		return
	}
	h.timers.handles.Del(h.id)
	h.timers = nil
}

// Active reports whether the timer will still fire.
func (h *Handle) Active() bool {
	return h != nil && h.timers != nil
}

// Timers fires callbacks against frame time rather than the wall clock.
// Time only moves when Advance is called.
type Timers struct {
	now     time.Duration
	nextID  uint64
	handles *intmap.Map[uint64, *Handle]
	order   []uint64
}

// NewTimers creates an empty timer set at time zero.
func NewTimers() *Timers {
	return &Timers{
		handles: intmap.New[uint64, *Handle](16),
	}
}

// Now returns the current frame time.
func (t *Timers) Now() time.Duration {
	return t.now
}

// Len returns the number of active timers.
func (t *Timers) Len() int {
	return t.handles.Len()
}

// After runs fn once, d after the current frame time.
func (t *Timers) After(d time.Duration, fn func()) *Handle {
	return t.add(d, 0, fn)
}

// Every runs fn every d, starting d from now. A non-positive period panics.
func (t *Timers) Every(d time.Duration, fn func()) *Handle {
	if d <= 0 {
		panic("loop: Every requires a positive period")
	}
	return t.add(d, d, fn)
}

func (t *Timers) add(d, period time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	t.nextID++
	h := &Handle{
		id:     t.nextID,
		due:    t.now + d,
		period: period,
		fn:     fn,
		timers: t,
	}
	t.handles.Put(h.id, h)
	t.order = append(t.order, h.id)
	return h
}

// Advance moves frame time forward by dt and fires every timer that became
// due, earliest first; timers due at the same instant fire in creation order.
// A repeating timer fires once for each period that elapsed. Timers created
// by a callback are first considered on the next Advance.
func (t *Timers) Advance(dt time.Duration) {
	t.now += dt

	live := t.order[:0]
	var due []*Handle
	for _, id := range t.order {
		h, ok := t.handles.Get(id)
		if !ok {
			continue
		}
		live = append(live, id)
		if h.due <= t.now {
			due = append(due, h)
		}
	}
	t.order = live

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].due < due[j].due
	})

	for _, h := range due {
		for h.Active() && h.due <= t.now {
			if h.period == 0 {
				h.Cancel()
				h.fn()
				break
			}
			h.due += h.period
			h.fn()
		}
	}
}

// Reset cancels every timer. Frame time is kept.
func (t *Timers) Reset() {
	for _, id := range t.order {
		if h, ok := t.handles.Get(id); ok {
			h.timers = nil
		}
	}
	t.handles.Clear()
	t.order = t.order[:0]
}

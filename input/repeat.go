// Package input turns held keys into discrete game actions.
package input

import "time"

// Default key repeat timing.
const (
	DefaultDelay = 200 * time.Millisecond
	DefaultRate  = 50 * time.Millisecond
)

type heldKey struct {
	elapsed time.Duration
	next    time.Duration
}

// Repeater gates held keys: a key fires when first pressed, again after
// Delay, and then every Rate while it stays down.
type Repeater[K comparable] struct {
	Delay time.Duration
	Rate  time.Duration
	held  map[K]*heldKey
}

func NewRepeater[K comparable](delay, rate time.Duration) *Repeater[K] {
	return &Repeater[K]{
		Delay: delay,
		Rate:  rate,
		held:  make(map[K]*heldKey),
	}
}

// Step records the key state for a frame of dt and reports whether the key
// fires. A key fires at most once per frame; a long frame does not queue
// extra repeats.
func (r *Repeater[K]) Step(key K, down bool, dt time.Duration) bool {
	if !down {
		delete(r.held, key)
		return false
	}

	h, ok := r.held[key]
	if !ok {
		r.held[key] = &heldKey{next: r.Delay}
		return true
	}

	h.elapsed += dt
	if h.elapsed < h.next {
		return false
	}
	for h.next <= h.elapsed {
		h.next += max(r.Rate, time.Millisecond)
	}
	return true
}

// Held reports whether key is currently tracked as down.
func (r *Repeater[K]) Held(key K) bool {
	_, ok := r.held[key]
	return ok
}

// Reset forgets every held key.
func (r *Repeater[K]) Reset() {
	clear(r.held)
}

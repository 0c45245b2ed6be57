package loop

import "time"

// Frame is passed to every system during one scheduler step.
type Frame struct {
	DeltaTime time.Duration
	// Elapsed is the total frame time since the scheduler was created.
	Elapsed  time.Duration
	Index    uint64
	Commands *Commands
	Timers   *Timers
}

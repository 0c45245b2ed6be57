package loop

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          uint64
	Elapsed         time.Duration
	LastFrame       time.Duration
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStats struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStats) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// Scheduler executes systems in order, once per frame.
type Scheduler struct {
	systems []System
	stats   []*systemStats

	timers   *Timers
	commands *Commands

	frames    uint64
	lastFrame time.Duration
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers:   NewTimers(),
		commands: newCommands(),
	}
}

// Timers returns the frame-time timers fired at the start of each frame.
func (s *Scheduler) Timers() *Timers {
	return s.timers
}

// Register appends a system. It is reported in Stats under its SystemName if
// it implements Named, otherwise under its type name.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)
	s.stats = append(s.stats, &systemStats{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system System) string {
	if named, ok := system.(Named); ok {
		return named.SystemName()
	}
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// Once runs a single frame: due timers fire, every system executes, and
// deferred commands are flushed.
func (s *Scheduler) Once(dt time.Duration) {
	start := time.Now()
	s.timers.Advance(dt)

	frame := &Frame{
		DeltaTime: dt,
		Elapsed:   s.timers.Now(),
		Index:     s.frames,
		Commands:  s.commands,
		Timers:    s.timers,
	}

	for i, system := range s.systems {
		begin := time.Now()
		system.Execute(frame)
		s.stats[i].record(time.Since(begin))
	}

	s.commands.Flush()
	s.frames++
	s.lastFrame = time.Since(start)
}

// Run executes frames at the given interval until the context is cancelled.
// Each frame receives the wall-clock time since the previous one.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			s.Once(dt)
		}
	}
}

// Stats returns a copy of the execution statistics.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Elapsed:     s.timers.Now(),
		LastFrame:   s.lastFrame,
		Systems:     make([]SystemStats, len(s.stats)),
	}

	for i, internal := range s.stats {
		var avg time.Duration
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avg = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avg,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}

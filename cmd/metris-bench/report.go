package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/metris/highscore"
	"github.com/plus3/metris/loop"
)

type GameResult struct {
	Score     int
	Lines     int
	Level     int
	Pieces    int
	ToppedOut bool
}

type Report struct {
	// Configuration
	Duration  time.Duration
	Frame     time.Duration
	Seed      uint64
	Bag       bool
	Audio     bool
	MaxPieces int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Games          []GameResult
	Scheduler      *loop.SchedulerStats
	Highscores     []highscore.Entry
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Totals aggregates the finished games.
type Totals struct {
	Games     int
	ToppedOut int
	Pieces    int
	Lines     int
	BestScore int
	AvgScore  float64
	AvgLines  float64
}

func (r *Report) Totals() Totals {
	var t Totals
	t.Games = len(r.Games)
	score := 0
	for _, g := range r.Games {
		if g.ToppedOut {
			t.ToppedOut++
		}
		t.Pieces += g.Pieces
		t.Lines += g.Lines
		score += g.Score
		t.BestScore = max(t.BestScore, g.Score)
	}
	if t.Games > 0 {
		t.AvgScore = float64(score) / float64(t.Games)
		t.AvgLines = float64(t.Lines) / float64(t.Games)
	}
	return t
}

// PiecesPerSecond is the wall-clock placement rate.
func (r *Report) PiecesPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.Totals().Pieces) / r.TotalTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `# Metris Benchmark Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Frame Time:** {{.Frame}}
- **Seed:** {{.Seed}}
- **Randomizer:** {{if .Bag}}7-bag{{else}}uniform{{end}}
- **Audio Manager:** {{.Audio}}
- **Piece Limit:** {{.MaxPieces}}

## Games
{{with .Totals -}}
- **Games:** {{.Games}} ({{.ToppedOut}} topped out)
- **Best Score:** {{.BestScore}}
- **Avg Score:** {{printf "%.1f" .AvgScore}}
- **Avg Lines:** {{printf "%.1f" .AvgLines}}
- **Pieces:** {{.Pieces}}
{{- end}}
- **Pieces/s:** {{printf "%.0f" .PiecesPerSecond}}

| # | Score | Lines | Level | Pieces |
|---|---|---|---|---|
{{range $i, $g := .Games}}| {{inc $i}} | {{$g.Score}} | {{$g.Lines}} | {{$g.Level}} | {{$g.Pieces}} |
{{end}}
## Frame Performance
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Update Time:**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{if .Scheduler}}
| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Scheduler.Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}{{end}}
## Highscores
{{range $i, $e := .Highscores}}{{inc $i}}. {{$e.Name}} {{$e.Score}}
{{else}}none
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	return tmpl.Execute(w, r)
}

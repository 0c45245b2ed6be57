// Command metris-bench plays headless games with a placement bot and prints a
// markdown report of frame timings and game results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/metris/app"
	"github.com/plus3/metris/audio"
	"github.com/plus3/metris/config"
	"github.com/plus3/metris/highscore"
	"github.com/plus3/metris/loop"
	"github.com/plus3/metris/tetris"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	games := flag.Int("games", 0, "Stop after this many games; 0 runs until the duration ends.")
	maxPieces := flag.Int("max-pieces", 2000, "End a game after this many pieces.")
	frame := flag.Duration("frame", time.Second/60, "Simulated frame time per tick.")
	seed := flag.Uint64("seed", cfg.Seed, "Randomizer seed; 0 picks one.")
	bag := flag.Bool("bag", false, "Use the 7-bag randomizer instead of uniform picks.")
	withAudio := flag.Bool("audio", false, "Run the sound manager against a silent output.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level.")
	flag.Parse()

	config.SetupLogging(*logLevel)
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	log.WithFields(log.Fields{
		"duration": *duration,
		"seed":     *seed,
		"bag":      *bag,
	}).Info("starting benchmark")

	var random tetris.Randomizer = tetris.NewUniformRandomizer(*seed)
	if *bag {
		random = tetris.NewBagRandomizer(*seed)
	}

	scheduler := loop.NewScheduler()
	opts := app.Options{
		Randomizer: random,
		Scheduler:  scheduler,
		Highscores: highscore.Open(context.Background(), highscore.NewMemoryStore(), highscore.Options{}),
	}
	if *withAudio {
		opts.Sounds = audio.NewManager(audio.NopOutput{}, scheduler.Timers(), audio.DefaultOptions())
	}
	a := app.New(opts)

	pieces := 0
	a.Session().Bus().Subscribe(tetris.EventSpawned, func(tetris.Event) { pieces++ })

	report := &Report{
		Duration:       *duration,
		Frame:          *frame,
		Seed:           *seed,
		Bag:            *bag,
		Audio:          *withAudio,
		MaxPieces:      *maxPieces,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	controller := appController{app: a}
	startTime := time.Now()
	a.Dispatch(app.ActionStart)

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		if a.Session().State() == tetris.StateRunning && pieces < *maxPieces {
			Play(a.Session(), controller)
		}

		updateStart := time.Now()
		a.Tick(*frame)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++

		if a.Session().State() == tetris.StateOver || pieces >= *maxPieces {
			report.Games = append(report.Games, finishGame(ctx, a, pieces))
			pieces = 0
			if *games > 0 && len(report.Games) >= *games {
				break
			}
			a.Dispatch(app.ActionRestart)
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Scheduler = scheduler.Stats()
	report.Highscores = a.Highscores().Entries()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.WithField("games", len(report.Games)).Info("benchmark finished")

	fmt.Println()
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
}

func finishGame(ctx context.Context, a *app.App, pieces int) GameResult {
	s := a.Session()
	result := GameResult{
		Score:     s.Score(),
		Lines:     s.Lines(),
		Level:     s.Level(),
		Pieces:    pieces,
		ToppedOut: s.State() == tetris.StateOver,
	}
	if a.AwaitingName() {
		if _, err := a.SubmitName(ctx, fmt.Sprintf("bot-%d", pieces)); err != nil {
			log.WithError(err).Warn("highscore not recorded")
		}
	}
	log.WithFields(log.Fields{
		"score":  result.Score,
		"lines":  result.Lines,
		"pieces": result.Pieces,
	}).Debug("game finished")
	return result
}

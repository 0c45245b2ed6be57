// Command metris-term runs the game in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/metris/app"
	"github.com/plus3/metris/audio"
	"github.com/plus3/metris/config"
	"github.com/plus3/metris/loop"
	"github.com/plus3/metris/term"
	"github.com/plus3/metris/tetris"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	seed := flag.Uint64("seed", cfg.Seed, "Randomizer seed; 0 picks one.")
	bag := flag.Bool("bag", false, "Use the 7-bag randomizer.")
	mute := flag.Bool("mute", false, "Disable music and sound effects.")
	fps := flag.Int("fps", 60, "Frames per second.")
	logFile := flag.String("log-file", "metris.log", "Log destination; the terminal is owned by the game.")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level.")
	flag.Parse()

	config.SetupLogging(*logLevel)
	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(f)

	if *seed == 0 {
		*seed = rand.Uint64()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scores, closeScores := cfg.OpenHighscores(ctx)
	defer func() {
		if err := closeScores(); err != nil {
			log.WithError(err).Warn("close highscore store")
		}
	}()

	var out audio.Output = audio.NopOutput{}
	if !*mute {
		bo, err := audio.NewBeepOutput(1)
		if err != nil {
			log.WithError(err).Warn("audio unavailable")
		} else {
			out = bo
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("terminal: %v", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	scheduler := loop.NewScheduler()
	sounds := audio.NewManager(out, scheduler.Timers(), cfg.AudioOptions())
	defer sounds.Close()

	var random tetris.Randomizer = tetris.NewUniformRandomizer(*seed)
	if *bag {
		random = tetris.NewBagRandomizer(*seed)
	}

	renderer := term.NewRenderer(screen)
	a := app.New(app.Options{
		Randomizer: random,
		Scheduler:  scheduler,
		Highscores: scores,
		Renderer:   renderer,
		Sounds:     sounds,
	})

	log.WithField("seed", *seed).Info("starting")
	game := term.NewGame(a, screen, renderer)
	if err := game.Run(ctx, time.Second/time.Duration(max(1, *fps))); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("game loop")
	}
	log.Info("bye")
}

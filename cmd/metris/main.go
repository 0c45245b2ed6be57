// Command metris runs the game in an ebiten window.
package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/metris/app"
	"github.com/plus3/metris/audio"
	"github.com/plus3/metris/config"
	"github.com/plus3/metris/debugui"
	debugui_ebiten "github.com/plus3/metris/debugui/ebiten"
	"github.com/plus3/metris/input"
	"github.com/plus3/metris/loop"
	"github.com/plus3/metris/render"
	"github.com/plus3/metris/tetris"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	debug := flag.Bool("debug", cfg.DebugUI, "Show the Dear ImGui debug windows.")
	seed := flag.Uint64("seed", cfg.Seed, "Randomizer seed; 0 picks one.")
	bag := flag.Bool("bag", false, "Use the 7-bag randomizer.")
	mute := flag.Bool("mute", false, "Disable music and sound effects.")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level.")
	flag.Parse()

	config.SetupLogging(*logLevel)
	if *seed == 0 {
		*seed = rand.Uint64()
	}

	ctx := context.Background()
	scores, closeScores := cfg.OpenHighscores(ctx)
	defer func() {
		if err := closeScores(); err != nil {
			log.WithError(err).Warn("close highscore store")
		}
	}()

	var out audio.Output = audio.NopOutput{}
	if !*mute {
		eo, err := audio.NewEbitenOutput()
		if err != nil {
			log.WithError(err).Warn("audio unavailable")
		} else {
			out = eo
		}
	}

	scheduler := loop.NewScheduler()
	sounds := audio.NewManager(out, scheduler.Timers(), cfg.AudioOptions())
	defer sounds.Close()

	var random tetris.Randomizer = tetris.NewUniformRandomizer(*seed)
	if *bag {
		random = tetris.NewBagRandomizer(*seed)
	}

	effects := render.NewEffects(rand.New(rand.NewPCG(*seed, *seed>>1)))
	renderer := render.NewRenderer(effects)

	a := app.New(app.Options{
		Randomizer: random,
		Scheduler:  scheduler,
		Highscores: scores,
		Renderer:   renderer,
		Sounds:     sounds,
	})
	effects.Attach(a.Session().Bus())

	game := &Game{
		app:      a,
		renderer: renderer,
		keyboard: input.NewKeyboard(nil),
		ctx:      ctx,
	}

	if *debug {
		game.imgui = debugui_ebiten.New("metris", render.ScreenWidth*2, render.ScreenHeight)
		game.debug = newDebugSystem(a, scheduler)
		scheduler.Register(game.debug)
	} else {
		ebiten.SetWindowSize(render.ScreenWidth, render.ScreenHeight)
		ebiten.SetWindowTitle("metris")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.WithFields(log.Fields{"seed": *seed, "debug": *debug}).Info("starting")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func newDebugSystem(a *app.App, scheduler *loop.Scheduler) *debugui.System {
	perf := debugui.NewPerformanceStats(scheduler, 120)
	inspector := debugui.NewSessionInspector(a.Session())
	events := debugui.NewEventLog(200, scheduler.Timers().Now)
	events.Attach(a.Session().Bus())

	timer := debugui.NewFrameTimer(nil)

	sys := debugui.NewSystem()
	sys.Add(func() {
		perf.Render(timer.Delta())
	})
	sys.Add(inspector.Render)
	sys.Add(events.Render)
	return sys
}

// Game implements ebiten.Game.
type Game struct {
	app      *app.App
	renderer *render.Renderer
	keyboard *input.Keyboard
	name     input.TextField
	ctx      context.Context

	imgui *debugui_ebiten.ImguiBackend
	debug *debugui.System
}

func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	if g.imgui != nil {
		g.imgui.BeginFrame()
	}

	if !g.debugHasKeyboard() {
		g.handleInput(dt)
	}
	g.app.Tick(dt)
	g.renderer.Update(dt)

	if g.imgui != nil {
		g.imgui.EndFrame()
	}
	return nil
}

func (g *Game) debugHasKeyboard() bool {
	return g.debug != nil && g.debug.Input.WantCaptureKeyboard
}

func (g *Game) handleInput(dt time.Duration) {
	if g.app.AwaitingName() {
		g.keyboard.Reset()
		if g.name.Update(nil) {
			if _, err := g.app.SubmitName(g.ctx, g.name.Text()); err != nil {
				log.WithError(err).Warn("submit highscore")
			}
			g.name.Clear()
		}
		g.renderer.SetName(g.name.Text())
		return
	}

	for _, act := range g.keyboard.Poll(dt) {
		g.app.Dispatch(act)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return g.renderer.Layout(outsideWidth, outsideHeight)
}

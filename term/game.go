package term

import (
	"context"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/metris/app"
	"github.com/plus3/metris/highscore"
	log "github.com/sirupsen/logrus"
)

// Game connects a tcell screen to an App.
type Game struct {
	app      *app.App
	screen   tcell.Screen
	renderer *Renderer
	name     []rune
}

// NewGame creates a game. The App must have been built with r as its
// renderer.
func NewGame(a *app.App, screen tcell.Screen, r *Renderer) *Game {
	return &Game{app: a, screen: screen, renderer: r}
}

// HandleKey applies one key event and reports whether the player asked to
// quit.
func (g *Game) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if g.app.AwaitingName() {
		g.editName(ctx, ev)
		return false
	}
	if IsQuit(ev) {
		return true
	}
	if act, ok := ActionFor(ev); ok {
		g.app.Dispatch(act)
	}
	return false
}

func (g *Game) editName(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyEscape:
		if _, err := g.app.SubmitName(ctx, string(g.name)); err != nil {
			log.WithError(err).Warn("submit highscore")
		}
		g.name = g.name[:0]
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(g.name) > 0 {
			g.name = g.name[:len(g.name)-1]
		}
	case tcell.KeyRune:
		if len(g.name) < highscore.MaxNameLength && unicode.IsPrint(ev.Rune()) {
			g.name = append(g.name, ev.Rune())
		}
	}
	g.renderer.SetName(string(g.name))
}

// Run polls terminal events and ticks the app at interval until ctx is done,
// the player quits, or the screen is finalized.
func (g *Game) Run(ctx context.Context, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	g.app.Tick(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				g.screen.Sync()
			case *tcell.EventKey:
				if g.HandleKey(ctx, e) {
					log.Debug("quit requested")
					return nil
				}
			}
		case now := <-ticker.C:
			g.app.Tick(now.Sub(last))
			last = now
		}
	}
}

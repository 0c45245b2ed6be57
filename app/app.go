// Package app owns a game session and connects it to input, highscores and
// the rendering and audio collaborators.
package app

import (
	"context"
	"time"

	"github.com/plus3/metris/highscore"
	"github.com/plus3/metris/loop"
	"github.com/plus3/metris/tetris"
	log "github.com/sirupsen/logrus"
)

// Renderer presents a view. It is called from the loop goroutine.
type Renderer interface {
	Render(v View)
}

// Sounds reacts to session events and owns the audio toggles.
type Sounds interface {
	Handle(e tetris.Event)
	ToggleMusic(playing bool) bool
	ToggleSFX() bool
	MusicEnabled() bool
	SFXEnabled() bool
}

// Options configures an App. Every field is optional.
type Options struct {
	Randomizer tetris.Randomizer
	Scheduler  *loop.Scheduler
	Highscores *highscore.Table
	Renderer   Renderer
	Sounds     Sounds
}

// App drives exactly one session. It is not safe for concurrent use.
type App struct {
	session   *tetris.Session
	scheduler *loop.Scheduler
	scores    *highscore.Table
	renderer  Renderer
	sounds    Sounds

	finalScore int
	rank       int
	nameEntry  bool
	submitted  *highscore.Entry
}

// New wires a session to the collaborators and registers the per-frame
// systems: descent first, then rendering.
func New(opts Options) *App {
	a := &App{
		scheduler: opts.Scheduler,
		scores:    opts.Highscores,
		renderer:  opts.Renderer,
		sounds:    opts.Sounds,
	}
	if a.scheduler == nil {
		a.scheduler = loop.NewScheduler()
	}
	if a.scores == nil {
		a.scores = highscore.Open(context.Background(), highscore.NewMemoryStore(), highscore.Options{})
	}

	var sessionOpts []tetris.Option
	if opts.Randomizer != nil {
		sessionOpts = append(sessionOpts, tetris.WithRandomizer(opts.Randomizer))
	}
	a.session = tetris.NewSession(sessionOpts...)

	bus := a.session.Bus()
	if a.sounds != nil {
		bus.SubscribeAll(a.sounds.Handle)
	}
	bus.Subscribe(tetris.EventStarted, a.onStarted)
	bus.Subscribe(tetris.EventGameOver, a.onGameOver)

	a.scheduler.Register(&descentSystem{session: a.session})
	if a.renderer != nil {
		a.scheduler.Register(&renderSystem{app: a})
	}
	return a
}

func (a *App) Session() *tetris.Session     { return a.session }
func (a *App) Scheduler() *loop.Scheduler   { return a.scheduler }
func (a *App) Highscores() *highscore.Table { return a.scores }

// Tick runs one frame of dt.
func (a *App) Tick(dt time.Duration) {
	a.scheduler.Once(dt)
}

// Run ticks at interval until ctx is done.
func (a *App) Run(ctx context.Context, interval time.Duration) {
	a.scheduler.Run(ctx, interval)
}

// Dispatch applies an action and reports whether it changed anything. Game
// actions are forwarded to the session as commands.
func (a *App) Dispatch(act Action) bool {
	if cmd, ok := act.Command(); ok {
		return a.session.Apply(cmd)
	}

	s := a.session
	switch act {
	case ActionMusicToggle:
		if a.sounds == nil {
			return false
		}
		a.sounds.ToggleMusic(s.State() == tetris.StateRunning)
		return true
	case ActionSFXToggle:
		if a.sounds == nil {
			return false
		}
		a.sounds.ToggleSFX()
		return true
	case ActionStart:
		switch s.State() {
		case tetris.StateIdle, tetris.StateOver:
			return s.Apply(tetris.CommandStart)
		}
		return false
	case ActionRestart:
		return s.Apply(tetris.CommandStart)
	}
	log.WithField("action", act).Debug("ignoring unknown action")
	return false
}

func (a *App) onStarted(tetris.Event) {
	a.nameEntry = false
	a.submitted = nil
	a.rank = 0
	log.Debug("game started")
}

func (a *App) onGameOver(e tetris.Event) {
	a.finalScore = e.Score
	a.rank = a.scores.Rank(e.Score)
	a.nameEntry = a.scores.IsHighscore(e.Score)
	log.WithFields(log.Fields{
		"score":     e.Score,
		"level":     e.Level,
		"highscore": a.nameEntry,
	}).Info("game over")
}

// AwaitingName reports whether the last game qualifies for the table and no
// name has been submitted yet.
func (a *App) AwaitingName() bool {
	return a.nameEntry
}

// SubmitName records the finished game's score under name. Saving failures
// are logged and returned, and the entry stays in the in-memory table.
func (a *App) SubmitName(ctx context.Context, name string) (highscore.Entry, error) {
	if !a.nameEntry {
		return highscore.Entry{}, ErrNoPendingScore
	}
	a.nameEntry = false

	entry, err := a.scores.Add(ctx, name, a.finalScore)
	a.submitted = &entry
	if err != nil {
		log.WithError(err).Warn("highscore not saved")
	}
	return entry, err
}

// View snapshots the current state for a renderer.
func (a *App) View() View {
	snap := a.session.Snapshot()
	v := View{
		Snapshot:   snap,
		Highscores: a.scores.Entries(),
		FinalScore: a.finalScore,
		Rank:       a.rank,
		Submitted:  a.submitted,
	}
	if a.sounds != nil {
		v.Music = a.sounds.MusicEnabled()
		v.SFX = a.sounds.SFXEnabled()
	}

	switch snap.State {
	case tetris.StateIdle:
		v.Phase = PhaseTitle
	case tetris.StateRunning:
		v.Phase = PhasePlaying
	case tetris.StatePaused:
		v.Phase = PhasePaused
	case tetris.StateOver:
		v.Phase = PhaseGameOver
		if a.nameEntry {
			v.Phase = PhaseNameEntry
		}
	}
	return v
}

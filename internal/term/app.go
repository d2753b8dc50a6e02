package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/vladimirvolkov/emojipong/internal/game"
)

// App runs a session in the terminal: keys in, frames out.
type App struct {
	screen   tcell.Screen
	session  *game.Session
	keys     *KeyState
	renderer *Renderer
	status   string
	frame    game.Frame
}

func NewApp(screen tcell.Screen, session *game.Session, clock game.Clock) *App {
	return &App{
		screen:   screen,
		session:  session,
		keys:     NewKeyState(clock, HoldTimeout),
		renderer: NewRenderer(screen),
		frame:    session.Frame(),
	}
}

// Frame is the last frame drawn.
func (a *App) Frame() game.Frame {
	return a.frame
}

// Status is the message shown in place of the help line, if any.
func (a *App) Status() string {
	return a.status
}

// Step advances the session by one tick and redraws.
func (a *App) Step() {
	a.frame = a.session.Tick(a.keys.Input())
	a.renderer.Draw(a.frame, a.session.Config(), a.status)
}

// HandleEvent returns false once the player asks to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		a.keys.Release()
		a.apply(game.Command{Kind: game.CmdExit})
	case tcell.KeyEnter:
		a.apply(game.Command{Kind: game.CmdStart})
	case tcell.KeyUp:
		a.keys.press(rightUp)
	case tcell.KeyDown:
		a.keys.press(rightDown)
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case 'w', 'W':
		a.keys.press(leftUp)
	case 's', 'S':
		a.keys.press(leftDown)
	case ' ', 'p', 'P':
		a.apply(game.Command{Kind: game.CmdPauseToggle})
	case 'r', 'R':
		a.apply(game.Command{Kind: game.CmdRestart})
	case 'x', 'X':
		a.keys.Release()
		a.apply(game.Command{Kind: game.CmdReset})
	case 'm', 'M':
		next := game.ModeTwoPlayer
		if a.session.Mode() == game.ModeTwoPlayer {
			next = game.ModeOnePlayer
		}
		a.apply(game.Command{Kind: game.CmdSetMode, Mode: next})
	case '1', '2', '3':
		a.apply(game.Command{Kind: game.CmdSetDifficulty, Difficulty: game.Difficulty(r - '1')})
	case 'c', 'C':
		a.apply(game.Command{Kind: game.CmdSetAIEnabled, Enabled: !a.session.AIEnabled()})
	case '7', '8', '9':
		a.apply(game.Command{Kind: game.CmdSetAIDifficulty, Difficulty: game.Difficulty(r - '7')})
	}
	return true
}

func (a *App) apply(cmd game.Command) {
	if a.session.Apply(cmd) {
		a.status = ""
		return
	}
	a.status = fmt.Sprintf("%s not available while %s", cmd.Kind, a.session.Phase())
}

// Run polls the screen for events and ticks the session at game.TickRate
// until the player quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / game.TickRate)
	defer ticker.Stop()

	a.renderer.Draw(a.frame, a.session.Config(), a.status)
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Step()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

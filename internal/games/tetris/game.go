// Package tetris adapts the playfield engine to the platform's fixed-rate
// game loop. It turns frame ticks into gravity steps, maps actions onto board
// operations, and implements the marathon and sprint modes.
package tetris

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/termtris/internal/config"
	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"
	"github.com/vovakirdan/termtris/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeMarathon Mode = "marathon"
	ModeSprint   Mode = "sprint"
)

// clearLabelTime is how long the last clear stays on the HUD.
const clearLabelTime = 2 * time.Second

// Game implements a single-player session on one board.
type Game struct {
	mode  Mode
	cfg   config.GameConfig
	board *playfield.Board
	err   error // Set when the board could not be built

	tick    uint64
	frame   time.Duration // Simulated time per Step
	gravity time.Duration // Time accumulated towards the next Advance
	elapsed time.Duration

	softDropLeft time.Duration // Remaining emulated hold of the soft drop key

	pieceColors [playfield.KindCount]core.Color
	ghostColors [playfield.KindCount]core.Color

	lastClear     string
	lastClearLeft time.Duration

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver bool
	won      bool
	paused   bool
	tooSmall bool
}

// New creates a game in the given mode.
func New(mode Mode, cfg config.GameConfig) *Game {
	return &Game{
		mode:        mode,
		cfg:         cfg,
		pieceColors: cfg.Colors.Piece.Table(),
		ghostColors: cfg.Colors.Ghost.Table(),
	}
}

func init() {
	registry.Register(string(ModeMarathon), func(cfg config.GameConfig) registry.Game {
		return New(ModeMarathon, cfg)
	})
	registry.Register(string(ModeSprint), func(cfg config.GameConfig) registry.Game {
		return New(ModeSprint, cfg)
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeSprint {
		return fmt.Sprintf("Sprint %d", g.cfg.Sprint.TargetLines)
	}
	return "Marathon"
}

// Summary describes the mode in one line.
func (g *Game) Summary() string {
	if g.mode == ModeSprint {
		return fmt.Sprintf("Clear %d lines as fast as you can", g.cfg.Sprint.TargetLines)
	}
	return "Endless play, gravity speeds up every level"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	tickRate := rc.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}

	g.tick = 0
	g.frame = time.Second / time.Duration(tickRate)
	g.gravity = 0
	g.elapsed = 0
	g.softDropLeft = 0
	g.lastClear = ""
	g.lastClearLeft = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH

	rng := rand.New(rand.NewSource(rc.Seed))
	g.board, g.err = playfield.NewBoard(g.cfg.Playfield(), rng)
	if g.err != nil {
		g.gameOver = true
	}

	g.checkScreenSize()
}

// Err returns the error that prevented the board from being built, if any.
func (g *Game) Err() error {
	return g.err
}

// Board exposes the underlying playfield.
func (g *Game) Board() *playfield.Board {
	return g.board
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	// Handle window size check
	if g.tooSmall || g.board == nil {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	g.elapsed += g.frame
	locked := g.board.Locked()
	var events []string

	for _, a := range in.Actions {
		if err := g.apply(a); err != nil {
			events = append(events, g.lockEvents(locked)...)
			locked = g.board.Locked()
			events = append(events, g.endGame(err))
			return core.StepResult{State: g.State(), Events: events}
		}
		if g.board.Locked() != locked {
			events = append(events, g.lockEvents(locked)...)
			locked = g.board.Locked()
			if g.checkGoal() {
				events = append(events, "sprint complete")
				return core.StepResult{State: g.State(), Events: events}
			}
		}
	}

	g.updateSoftDrop(in.Has(core.ActionSoftDrop))

	g.gravity += g.frame
	for delay := g.board.TickDelay(); delay > 0 && g.gravity >= delay; delay = g.board.TickDelay() {
		g.gravity -= delay
		if err := g.board.Advance(); err != nil {
			events = append(events, g.lockEvents(locked)...)
			events = append(events, g.endGame(err))
			return core.StepResult{State: g.State(), Events: events}
		}
		// A long frame can lock several pieces; report each one.
		if g.board.Locked() != locked {
			events = append(events, g.lockEvents(locked)...)
			locked = g.board.Locked()
			if g.checkGoal() {
				events = append(events, "sprint complete")
				break
			}
		}
	}

	if g.lastClearLeft > 0 {
		g.lastClearLeft -= g.frame
		if g.lastClearLeft <= 0 {
			g.lastClear = ""
		}
	}

	return core.StepResult{State: g.State(), Events: events}
}

// apply performs one player action on the board.
func (g *Game) apply(a core.Action) error {
	switch a {
	case core.ActionLeft:
		g.board.Move(playfield.Left)
	case core.ActionRight:
		g.board.Move(playfield.Right)
	case core.ActionRotateCW:
		g.board.Rotate(true)
	case core.ActionRotateCCW:
		g.board.Rotate(false)
	case core.ActionHold:
		return g.board.Hold()
	case core.ActionHardDrop:
		g.gravity = 0
		return g.board.HardDrop()
	}
	return nil
}

// updateSoftDrop keeps soft drop enabled for a while after each key press,
// since terminals do not report key releases.
func (g *Game) updateSoftDrop(pressed bool) {
	if pressed {
		if !g.board.SoftDropping() {
			g.board.SoftDrop(true)
			// Let the faster gravity take effect from this frame on.
			g.gravity = max(g.gravity, g.board.TickDelay()-g.frame)
		}
		g.softDropLeft = g.cfg.SoftDropHold()
		return
	}
	if g.softDropLeft > 0 {
		g.softDropLeft -= g.frame
		if g.softDropLeft <= 0 {
			g.board.SoftDrop(false)
			g.gravity = 0
		}
	}
}

// lockEvents reports the locks that happened since the board had locked
// `since` pieces. Only the most recent lock result is kept by the board,
// which is all a single action or gravity step can produce.
func (g *Game) lockEvents(since int) []string {
	res, ok := g.board.LastLock()
	if !ok || g.board.Locked() == since {
		return nil
	}

	events := []string{fmt.Sprintf("lock %s", res.Kind)}
	if res.Lines > 0 {
		g.lastClear = res.Label()
		g.lastClearLeft = clearLabelTime
		events = append(events, fmt.Sprintf("clear %s +%d", g.lastClear, res.Points))
	}
	if res.LevelUp {
		events = append(events, fmt.Sprintf("level %d", res.Level))
	}
	return events
}

// checkGoal ends a sprint once the target is reached.
func (g *Game) checkGoal() bool {
	if g.mode != ModeSprint || g.board.Lines() < uint64(g.cfg.Sprint.TargetLines) {
		return false
	}
	g.won = true
	return true
}

// endGame records a top out and returns the event describing it.
func (g *Game) endGame(err error) string {
	g.gameOver = true
	if errors.Is(err, playfield.ErrTopOut) {
		return "game over"
	}
	g.err = err
	return fmt.Sprintf("game over: %v", err)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.gameOver || g.won,
		Won:      g.won,
		Paused:   g.paused || g.tooSmall,
		Elapsed:  g.elapsed,
	}
	if g.board != nil {
		st.Score = int(g.board.Score())
		st.Lines = int(g.board.Lines())
		st.Level = g.board.Level()
	}
	return st
}

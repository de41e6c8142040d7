package tetris

import (
	"time"

	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateWin         GameStateType = "win"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick        uint64
	Mode        string
	Score       uint64
	Lines       uint64
	Level       int
	Combo       int
	Locked      int
	Active      playfield.Kind
	Anchor      core.Point
	Orientation int
	Held        playfield.Kind
	HasHeld     bool
	Next        []playfield.Kind
	Elapsed     time.Duration
	State       GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Elapsed: g.elapsed,
		State:   state,
	}
	if g.board == nil {
		return snap
	}

	active := g.board.Active()
	snap.Score = g.board.Score()
	snap.Lines = g.board.Lines()
	snap.Level = g.board.Level()
	snap.Combo = g.board.Combo()
	snap.Locked = g.board.Locked()
	snap.Active = active.Kind
	snap.Anchor = active.Anchor
	snap.Orientation = active.Orientation
	snap.Held, snap.HasHeld = g.board.Held()
	snap.Next = g.board.Preview(g.cfg.Rules.Previews)
	return snap
}

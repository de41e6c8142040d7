package tetris

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/termtris/internal/config"
	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"
	"github.com/vovakirdan/termtris/internal/registry"
)

func newTestGame(t *testing.T, mode Mode, cfg config.GameConfig) *Game {
	t.Helper()
	g := New(mode, cfg)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})
	require.NoError(t, g.Err())
	return g
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"marathon", "sprint"} {
		assert.True(t, registry.Exists(id), id)
		g, err := registry.Create(id, config.DefaultGameConfig())
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Marathon", New(ModeMarathon, config.DefaultGameConfig()).Title())
	assert.Equal(t, "Sprint 40", New(ModeSprint, config.DefaultGameConfig()).Title())
}

func TestDeterminism(t *testing.T) {
	script := []core.InputFrame{
		input(core.ActionLeft),
		input(core.ActionRotateCW, core.ActionRight),
		input(),
		input(core.ActionHardDrop),
		input(core.ActionHold),
		input(core.ActionSoftDrop),
		input(core.ActionRotateCCW, core.ActionHardDrop),
	}

	run := func() Snapshot {
		g := newTestGame(t, ModeMarathon, config.DefaultGameConfig())
		for i := 0; i < 300; i++ {
			g.Step(script[i%len(script)])
		}
		return g.Snapshot()
	}

	first, second := run(), run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("snapshots differ (-first +second):\n%s", diff)
	}
	assert.Positive(t, first.Locked)
}

func TestGravityTiming(t *testing.T) {
	g := newTestGame(t, ModeMarathon, config.DefaultGameConfig())
	startY := g.Board().Active().Anchor.Y

	// 800ms at 60 ticks per second is just over 48 frames.
	for i := 0; i < 48; i++ {
		g.Step(input())
	}
	assert.Equal(t, startY, g.Board().Active().Anchor.Y)

	g.Step(input())
	assert.Equal(t, startY+1, g.Board().Active().Anchor.Y)
}

func TestHardDropEvents(t *testing.T) {
	g := newTestGame(t, ModeMarathon, config.DefaultGameConfig())
	kind := g.Board().Active().Kind
	dist := g.Board().DropDistance()

	res := g.Step(input(core.ActionHardDrop))

	require.NotEmpty(t, res.Events)
	assert.Equal(t, fmt.Sprintf("lock %s", kind), res.Events[0])
	assert.Equal(t, 1, g.Board().Locked())
	assert.Equal(t, 2*dist, res.State.Score)
}

func TestSprintWin(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Board.Width = 4
	cfg.Sprint.TargetLines = 1
	g := newTestGame(t, ModeSprint, cfg)

	// On a four column board every I piece clears a line by itself.
	var events []string
	for i := 0; i < 20 && !g.State().Won; i++ {
		res := g.Step(input(core.ActionHardDrop))
		events = append(events, res.Events...)
	}

	st := g.State()
	require.True(t, st.Won)
	assert.True(t, st.GameOver)
	assert.GreaterOrEqual(t, st.Lines, 1)
	assert.Contains(t, events, "sprint complete")

	before := g.Snapshot()
	g.Step(input(core.ActionHardDrop))
	after := g.Snapshot()
	assert.Equal(t, before.Locked, after.Locked)
	assert.Equal(t, StateWin, after.State)
}

func TestPause(t *testing.T) {
	g := newTestGame(t, ModeMarathon, config.DefaultGameConfig())

	g.Step(input(core.ActionPause))
	require.True(t, g.State().Paused)

	before := g.Snapshot()
	for i := 0; i < 120; i++ {
		g.Step(input(core.ActionHardDrop))
	}
	after := g.Snapshot()
	assert.Equal(t, before.Anchor, after.Anchor)
	assert.Equal(t, before.Elapsed, after.Elapsed)
	assert.Zero(t, after.Locked)
	assert.Equal(t, StatePaused, after.State)

	g.Step(input(core.ActionPause))
	assert.False(t, g.State().Paused)
}

func TestSoftDropHold(t *testing.T) {
	g := newTestGame(t, ModeMarathon, config.DefaultGameConfig())
	startY := g.Board().Active().Anchor.Y

	res := g.Step(input(core.ActionSoftDrop))
	require.True(t, g.Board().SoftDropping())
	assert.Equal(t, startY+1, g.Board().Active().Anchor.Y, "soft drop moves on the press frame")
	assert.Equal(t, 1, res.State.Score)

	// The default 150ms hold lasts just under ten frames.
	for i := 0; i < 8; i++ {
		g.Step(input())
	}
	assert.True(t, g.Board().SoftDropping())

	for i := 0; i < 4; i++ {
		g.Step(input())
	}
	assert.False(t, g.Board().SoftDropping())
}

func TestTooSmallWindow(t *testing.T) {
	g := New(ModeMarathon, config.DefaultGameConfig())
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, TickRate: 60, Seed: 1})

	for i := 0; i < 100; i++ {
		g.Step(input())
	}
	assert.Equal(t, StatePausedSmall, g.Snapshot().State)
	assert.Zero(t, g.Snapshot().Elapsed)

	screen := core.NewScreen(20, 10)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Window too small")

	g.Resize(80, 24)
	g.Step(input())
	assert.Equal(t, StatePlaying, g.Snapshot().State)
}

func TestInvalidBoard(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Board.Width = 2
	g := New(ModeMarathon, cfg)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60})

	require.ErrorIs(t, g.Err(), playfield.ErrInvalidConfig)
	assert.True(t, g.State().GameOver)

	// Stepping and drawing a game without a board must not panic.
	g.Step(input(core.ActionHardDrop))
	g.Render(core.NewScreen(80, 24))
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeSprint, config.DefaultGameConfig())
	g.Step(input(core.ActionHold))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"HOLD", "NEXT", "SCORE", "LINES", "0/40", "██"} {
		assert.True(t, strings.Contains(out, want), "missing %q", want)
	}

	g.Step(input(core.ActionPause))
	g.Render(screen)
	assert.Contains(t, screen.String(), "PAUSED")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00.00", formatElapsed(0))
	assert.Equal(t, "1:05.25", formatElapsed(65250*time.Millisecond))
}

func TestLockEventsPerGravityLock(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Difficulty.Progression = false
	cfg.Timing.DefaultTickDelayMS = 10
	cfg.Timing.TickDelayMS = map[int]int{1: 10}

	g := New(ModeMarathon, cfg)
	// One second frames run a hundred gravity steps each, enough to land
	// several pieces before the frame ends.
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 1, Seed: 7})
	require.NoError(t, g.Err())

	res := g.Step(input())

	var locks int
	for _, ev := range res.Events {
		if strings.HasPrefix(ev, "lock ") {
			locks++
		}
	}
	require.GreaterOrEqual(t, g.Board().Locked(), 2)
	assert.Equal(t, g.Board().Locked(), locks, "events: %v", res.Events)
}

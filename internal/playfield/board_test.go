package playfield

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/termtris/internal/core"
)

func newTestBoard(t *testing.T, opts ...func(*Config)) *Board {
	t.Helper()
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	b, err := NewBoard(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return b
}

// fillRow fills row y with Z cells, leaving the listed columns empty.
func fillRow(b *Board, y int, holes ...int) {
	for x := range b.grid[y] {
		b.grid[y][x] = Cell{Kind: KindZ, Filled: true}
	}
	for _, x := range holes {
		b.grid[y][x] = Cell{}
	}
}

// settle advances until the active piece locks.
func settle(t *testing.T, b *Board) {
	t.Helper()
	locked := b.Locked()
	for i := 0; i < b.Height()+b.cfg.LockDelay && b.Locked() == locked; i++ {
		require.NoError(t, b.Advance())
	}
	require.Equal(t, locked+1, b.Locked(), "piece did not lock")
}

func TestNewBoardValidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"narrow", func(c *Config) { c.Width = 3 }},
		{"short", func(c *Config) { c.Height = 2 }},
		{"no lock delay", func(c *Config) { c.LockDelay = 0 }},
		{"zero soft drop", func(c *Config) { c.SoftDropFactor = 0 }},
		{"level zero", func(c *Config) { c.StartLevel = 0 }},
		{"bad bag", func(c *Config) { c.Bag = BagStrategy(9) }},
		{"bad lock reset", func(c *Config) { c.LockReset = LockReset(5) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := NewBoard(cfg, rand.New(rand.NewSource(1)))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewBoardDefaultsDelays(t *testing.T) {
	b := newTestBoard(t, func(c *Config) { c.Delays = nil })
	assert.Equal(t, 800*time.Millisecond, b.TickDelay())
}

func TestMoveKeepsRowAndBounds(t *testing.T) {
	b := newTestBoard(t)
	b.active = SpawnPiece(KindI, b.Width())
	row := b.Active().Anchor.Y

	for _, dir := range []Direction{Left, Right} {
		for i := 0; i < 2*b.Width(); i++ {
			b.Move(dir)
			assert.Equal(t, row, b.Active().Anchor.Y)
			for _, c := range b.ActiveCells() {
				assert.GreaterOrEqual(t, c.X, 0)
				assert.Less(t, c.X, b.Width())
			}
		}
	}

	// Pinned against the right wall.
	assert.Equal(t, b.Width()-1, b.ActiveCells()[3].X)
	assert.False(t, b.Move(Right))
}

func TestMoveBlockedByStack(t *testing.T) {
	b := newTestBoard(t)
	b.active = SpawnPiece(KindO, b.Width())
	b.grid[2][3] = Cell{Kind: KindJ, Filled: true}

	before := b.Active()
	assert.False(t, b.Move(Left))
	assert.Equal(t, before, b.Active())
	assert.True(t, b.Move(Right))
}

func TestAdvanceFallsThenLocks(t *testing.T) {
	b := newTestBoard(t)
	b.active = SpawnPiece(KindO, b.Width())

	require.NoError(t, b.Advance())
	assert.Equal(t, 4, b.Active().Anchor.Y)

	// Rest on the floor: cells on rows 22 and 23.
	b.active = SpawnPiece(KindO, b.Width()).Shifted(0, 20)
	for i := 0; i < b.cfg.LockDelay-1; i++ {
		require.NoError(t, b.Advance())
		assert.Equal(t, 0, b.Locked(), "locked after %d blocked steps", i+1)
	}
	require.NoError(t, b.Advance())
	assert.Equal(t, 1, b.Locked())

	for _, p := range pts(4, 22, 5, 22, 4, 23, 5, 23) {
		assert.Equal(t, Cell{Kind: KindO, Filled: true}, b.Cell(p.X, p.Y))
	}
	assert.Equal(t, SpawnPiece(b.Active().Kind, b.Width()), b.Active())
}

func TestLockResetOnMove(t *testing.T) {
	tests := []struct {
		name     string
		policy   LockReset
		maxReset int
		// blocked advances needed after the move to lock
		after int
	}{
		{"move policy", LockResetMove, 15, 3},
		{"step policy", LockResetStep, 15, 2},
		{"move policy without resets left", LockResetMove, 0, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard(t, func(c *Config) {
				c.LockReset = tc.policy
				c.MaxLockResets = tc.maxReset
			})
			b.active = SpawnPiece(KindO, b.Width()).Shifted(0, 20)

			require.NoError(t, b.Advance())
			require.True(t, b.Move(Left))
			for i := 0; i < tc.after-1; i++ {
				require.NoError(t, b.Advance())
			}
			assert.Equal(t, 0, b.Locked())
			require.NoError(t, b.Advance())
			assert.Equal(t, 1, b.Locked())
		})
	}
}

func TestLockResetCapSurvivesKicks(t *testing.T) {
	b := newTestBoard(t, func(c *Config) { c.MaxLockResets = 2 })
	b.active = SpawnPiece(KindT, b.Width())
	for b.DropDistance() > 0 {
		require.NoError(t, b.Advance())
	}
	require.Zero(t, b.Locked())

	// Turning a grounded flat T kicks it up a row and turning it back lets
	// it fall again. Falling back to a row it already reached must not
	// restore the lock delay or the reset allowance.
	cycles := 0
	for ; cycles < 200 && b.Locked() == 0; cycles++ {
		b.Rotate(true)
		b.Rotate(false)
		require.NoError(t, b.Advance())
	}
	assert.Equal(t, 1, b.Locked())
	assert.LessOrEqual(t, cycles, b.cfg.LockDelay+b.cfg.MaxLockResets+1)
}

func TestLineClearShiftsRows(t *testing.T) {
	b := newTestBoard(t)
	fillRow(b, 23, 3, 4, 5, 6)
	b.grid[22][0] = Cell{Kind: KindS, Filled: true}
	b.grid[20][9] = Cell{Kind: KindL, Filled: true}
	b.active = SpawnPiece(KindI, b.Width())

	require.NoError(t, b.HardDrop())

	want := newGrid(b.Width(), b.Height())
	want[23][0] = Cell{Kind: KindS, Filled: true}
	want[21][9] = Cell{Kind: KindL, Filled: true}
	if diff := cmp.Diff(want, b.Rows()); diff != "" {
		t.Errorf("grid after clear (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint64(1), b.Lines())
	assert.Equal(t, uint64(2*21+100), b.Score())
}

func TestSingleLineScore(t *testing.T) {
	b := newTestBoard(t)
	fillRow(b, 23, 3, 4, 5, 6)
	b.grid[22][0] = Cell{Kind: KindS, Filled: true}
	b.active = SpawnPiece(KindI, b.Width()).Shifted(0, 21)

	settle(t, b)

	assert.Equal(t, uint64(100), b.Score())
	assert.Equal(t, uint64(1), b.Lines())
	res, ok := b.LastLock()
	require.True(t, ok)
	assert.Equal(t, 1, res.Lines)
	assert.Equal(t, ClearNone, res.Tag)
	assert.False(t, res.PerfectClear)
	assert.Equal(t, "Single", res.Label())
}

// setupTetris prepares four rows with a well in column 0 and places a
// vertical I above it.
func setupTetris(b *Board) {
	b.grid = newGrid(b.Width(), b.Height())
	for y := 20; y < 24; y++ {
		fillRow(b, y, 0)
	}
	b.grid[19][5] = Cell{Kind: KindT, Filled: true}
	p := SpawnPiece(KindI, b.Width()).Rotated(true)
	p.Anchor = core.Point{X: 0, Y: 21}
	b.active = p
	b.rotationAttempted = false
}

func TestTetrisScore(t *testing.T) {
	b := newTestBoard(t)
	b.level = 3
	setupTetris(b)

	settle(t, b)

	res, _ := b.LastLock()
	assert.Equal(t, 4, res.Lines)
	assert.Equal(t, ClearTetris, res.Tag)
	assert.Equal(t, uint64(800*3), res.Points)
	assert.Equal(t, uint64(800*3), b.Score())
	assert.Equal(t, ClearTetris, b.BackToBack())
}

func TestBackToBackAndCombo(t *testing.T) {
	b := newTestBoard(t)

	setupTetris(b)
	settle(t, b)
	first, _ := b.LastLock()
	assert.Equal(t, uint64(800), first.Points)
	assert.False(t, first.BackToBack)

	setupTetris(b)
	settle(t, b)
	second, _ := b.LastLock()
	assert.True(t, second.BackToBack)
	assert.Equal(t, 1, second.Combo)
	assert.Equal(t, uint64(1200+50), second.Points)
	assert.Equal(t, uint64(800+1250), b.Score())
	assert.Equal(t, 2, b.Combo())
	assert.Equal(t, "Tetris B2B", second.Label())
}

func TestComboReset(t *testing.T) {
	for _, reset := range []bool{true, false} {
		b := newTestBoard(t, func(c *Config) { c.ComboReset = reset })
		fillRow(b, 23, 3, 4, 5, 6)
		b.grid[22][0] = Cell{Kind: KindS, Filled: true}
		b.active = SpawnPiece(KindI, b.Width()).Shifted(0, 21)
		settle(t, b)
		require.Equal(t, 1, b.Combo())

		b.active = SpawnPiece(KindO, b.Width())
		require.NoError(t, b.HardDrop())

		if reset {
			assert.Equal(t, 0, b.Combo(), "combo should break on a lock without clears")
		} else {
			assert.Equal(t, 1, b.Combo(), "combo should survive when reset is disabled")
		}
	}
}

// setupTSpinDouble leaves a T pointing down into a slot that closes two rows.
func setupTSpinDouble(b *Board) {
	fillRow(b, 22, 3, 4, 5)
	fillRow(b, 23, 4)
	b.grid[21][0] = Cell{Kind: KindS, Filled: true}

	p := SpawnPiece(KindT, b.Width()).Rotated(true).Rotated(true)
	p.Anchor = core.Point{X: 4, Y: 22}
	b.active = p
}

// setupTSpinTriple leaves an upright T in a three row well with a notch on
// its middle row.
func setupTSpinTriple(b *Board) {
	fillRow(b, 21, 4)
	fillRow(b, 22, 4, 5)
	fillRow(b, 23, 4)
	b.grid[20][0] = Cell{Kind: KindS, Filled: true}

	p := SpawnPiece(KindT, b.Width()).Rotated(true)
	p.Anchor = core.Point{X: 4, Y: 22}
	b.active = p
}

func TestTSpinClears(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*Board)
		rotated    bool
		previous   ClearTag
		wantLines  int
		wantTag    ClearTag
		wantPoints uint64
		wantB2B    bool
	}{
		{
			name:       "double",
			setup:      setupTSpinDouble,
			rotated:    true,
			wantLines:  2,
			wantTag:    ClearTSpinDouble,
			wantPoints: 1200,
		},
		{
			name:       "double without rotation",
			setup:      setupTSpinDouble,
			wantLines:  2,
			wantTag:    ClearNone,
			wantPoints: 300,
		},
		{
			name:       "triple",
			setup:      setupTSpinTriple,
			rotated:    true,
			wantLines:  3,
			wantTag:    ClearTSpinTriple,
			wantPoints: 1600,
		},
		{
			name:       "triple without rotation",
			setup:      setupTSpinTriple,
			wantLines:  3,
			wantTag:    ClearNone,
			wantPoints: 500,
		},
		{
			name:       "double after double",
			setup:      setupTSpinDouble,
			rotated:    true,
			previous:   ClearTSpinDouble,
			wantLines:  2,
			wantTag:    ClearTSpinDouble,
			wantPoints: 1800,
			wantB2B:    true,
		},
		{
			name:       "double after tetris",
			setup:      setupTSpinDouble,
			rotated:    true,
			previous:   ClearTetris,
			wantLines:  2,
			wantTag:    ClearTSpinDouble,
			wantPoints: 1200,
		},
		{
			name:       "triple after double",
			setup:      setupTSpinTriple,
			rotated:    true,
			previous:   ClearTSpinDouble,
			wantLines:  3,
			wantTag:    ClearTSpinTriple,
			wantPoints: 1600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t)
			tt.setup(b)
			b.rotationAttempted = tt.rotated
			b.lastDifficult = tt.previous

			settle(t, b)

			res, _ := b.LastLock()
			require.Equal(t, tt.wantLines, res.Lines)
			assert.Equal(t, tt.wantTag, res.Tag)
			assert.Equal(t, tt.wantPoints, res.Points)
			assert.Equal(t, tt.wantB2B, res.BackToBack)
			assert.False(t, res.PerfectClear)
			if tt.wantTag != ClearNone {
				assert.Equal(t, tt.wantTag, b.BackToBack())
			} else {
				assert.Equal(t, tt.previous, b.BackToBack())
			}
		})
	}
}

func TestPerfectClear(t *testing.T) {
	b := newTestBoard(t)
	fillRow(b, 22, 4, 5)
	fillRow(b, 23, 4, 5)
	b.active = SpawnPiece(KindO, b.Width()).Shifted(0, 20)

	settle(t, b)

	res, _ := b.LastLock()
	assert.True(t, res.PerfectClear)
	assert.Equal(t, 2, res.Lines)
	assert.Equal(t, uint64(300+PerfectClearBonus), b.Score())
	assert.True(t, b.empty())
}

func TestClassifyClearPanics(t *testing.T) {
	assert.Panics(t, func() { classifyClear(5, KindI, false) })
	assert.NotPanics(t, func() { classifyClear(4, KindI, true) })
}

func TestLevelUp(t *testing.T) {
	for _, progression := range []bool{true, false} {
		b := newTestBoard(t, func(c *Config) { c.Progression = progression })
		b.lines = 19
		fillRow(b, 23, 3, 4, 5, 6)
		b.grid[22][0] = Cell{Kind: KindS, Filled: true}
		b.active = SpawnPiece(KindI, b.Width()).Shifted(0, 21)

		settle(t, b)

		res, _ := b.LastLock()
		if progression {
			assert.True(t, res.LevelUp)
			assert.Equal(t, 2, b.Level())
			assert.Equal(t, 717*time.Millisecond, b.TickDelay())
		} else {
			assert.False(t, res.LevelUp)
			assert.Equal(t, 1, b.Level())
		}
	}
}

func TestHoldOncePerLock(t *testing.T) {
	b := newTestBoard(t)
	first := b.Active().Kind
	next, err := b.PeekNext(1)
	require.NoError(t, err)

	require.NoError(t, b.Hold())
	held, ok := b.Held()
	require.True(t, ok)
	assert.Equal(t, first, held)
	assert.Equal(t, next, b.Active().Kind)
	assert.False(t, b.CanHold())

	// A second hold before locking changes nothing.
	active := b.Active()
	require.NoError(t, b.Hold())
	held, _ = b.Held()
	assert.Equal(t, first, held)
	assert.Equal(t, active, b.Active())

	require.NoError(t, b.HardDrop())
	assert.True(t, b.CanHold())

	spawned := b.Active().Kind
	require.NoError(t, b.Hold())
	assert.Equal(t, first, b.Active().Kind)
	held, _ = b.Held()
	assert.Equal(t, spawned, held)
}

func TestHoldDisabled(t *testing.T) {
	b := newTestBoard(t, func(c *Config) { c.HoldEnabled = false })
	before := b.Active()

	require.NoError(t, b.Hold())
	_, ok := b.Held()
	assert.False(t, ok)
	assert.Equal(t, before, b.Active())
	assert.False(t, b.CanHold())
}

func TestLookaheadAcrossSpawn(t *testing.T) {
	b := newTestBoard(t)
	next1, err := b.PeekNext(1)
	require.NoError(t, err)
	next2, err := b.PeekNext(2)
	require.NoError(t, err)

	require.NoError(t, b.HardDrop())

	assert.Equal(t, next1, b.Active().Kind)
	got, err := b.PeekNext(1)
	require.NoError(t, err)
	assert.Equal(t, next2, got)
	assert.Len(t, b.Preview(4), 4)
}

func TestSoftDrop(t *testing.T) {
	b := newTestBoard(t)
	b.active = SpawnPiece(KindT, b.Width())

	b.SoftDrop(true)
	assert.True(t, b.SoftDropping())
	assert.Equal(t, 100*time.Millisecond, b.TickDelay())

	require.NoError(t, b.Advance())
	require.NoError(t, b.Advance())
	assert.Equal(t, uint64(2), b.Score())

	b.SoftDrop(false)
	assert.Equal(t, 800*time.Millisecond, b.TickDelay())
	require.NoError(t, b.Advance())
	assert.Equal(t, uint64(2), b.Score())
}

func TestHardDrop(t *testing.T) {
	b := newTestBoard(t)
	b.active = SpawnPiece(KindI, b.Width())
	b.SoftDrop(true)

	assert.Equal(t, 21, b.DropDistance())
	assert.Equal(t, pts(3, 23, 4, 23, 5, 23, 6, 23), b.GhostCells())

	require.NoError(t, b.HardDrop())

	assert.Equal(t, uint64(42), b.Score())
	assert.Equal(t, 1, b.Locked())
	for x := 3; x <= 6; x++ {
		assert.True(t, b.Cell(x, 23).Filled)
	}
	assert.Equal(t, SpawnPiece(b.Active().Kind, b.Width()), b.Active())
}

func TestDropDistancePanicsWithoutCells(t *testing.T) {
	b := newTestBoard(t)
	b.active.Anchor = core.Point{X: -5, Y: 0}
	assert.Panics(t, func() { b.DropDistance() })
}

func TestTopOut(t *testing.T) {
	b := newTestBoard(t)
	b.active = b.active.Shifted(0, 10)
	b.grid[2][4] = Cell{Kind: KindZ, Filled: true}

	err := b.HardDrop()
	require.ErrorIs(t, err, ErrTopOut)
	assert.ErrorIs(t, err, ErrCollision)
	assert.True(t, b.GameOver())

	assert.ErrorIs(t, b.Advance(), ErrTopOut)
	assert.ErrorIs(t, b.HardDrop(), ErrTopOut)
	assert.ErrorIs(t, b.Hold(), ErrTopOut)
	assert.False(t, b.Move(Left))
	assert.False(t, b.Rotate(true))
	assert.False(t, b.CanHold())
}

func TestRowsIsCopy(t *testing.T) {
	b := newTestBoard(t)
	rows := b.Rows()
	rows[23][0] = Cell{Kind: KindI, Filled: true}
	assert.False(t, b.Cell(0, 23).Filled)
	assert.Equal(t, Cell{}, b.Cell(-1, 99))
}

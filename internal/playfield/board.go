package playfield

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/termtris/internal/core"
)

// Direction is a horizontal shift.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Cell is one grid position. The zero value is empty.
type Cell struct {
	Kind   Kind
	Filled bool
}

// Board owns the grid, the active piece, hold, and scoring state.
// It is not safe for concurrent use; every call is expected to come from the
// single loop that drives the game.
type Board struct {
	cfg  Config
	grid [][]Cell // grid[y][x], row 0 at the top
	bag  *Bag

	active      Piece
	lowest      int // Deepest anchor row the active piece has fallen to
	lockCounter int
	lockResets  int

	held        Kind
	hasHeld     bool
	alreadyHeld bool

	score             uint64
	lines             uint64
	level             int
	combo             int
	lastDifficult     ClearTag
	rotationAttempted bool

	softDrop bool
	gameOver bool

	lastLock LockResult
	locked   int // pieces locked so far
}

// NewBoard validates cfg and spawns the first piece from a fresh bag.
func NewBoard(cfg Config, rng *rand.Rand) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Delays == nil {
		cfg.Delays = DefaultDelayTable()
	}

	b := &Board{
		cfg:   cfg,
		grid:  newGrid(cfg.Width, cfg.Height),
		bag:   NewBag(cfg.Bag, rng),
		level: cfg.StartLevel,
	}
	if err := b.spawn(b.bag.Current()); err != nil {
		return nil, fmt.Errorf("%w: board too small to spawn %s", ErrInvalidConfig, b.active.Kind)
	}
	return b, nil
}

func newGrid(w, h int) [][]Cell {
	grid := make([][]Cell, h)
	for y := range grid {
		grid[y] = make([]Cell, w)
	}
	return grid
}

// Advance applies one gravity step. A piece that cannot fall counts down its
// lock delay and locks when it runs out; the next piece is then spawned.
// ErrTopOut is returned when that spawn collides, and on every call after.
func (b *Board) Advance() error {
	if b.gameOver {
		return ErrTopOut
	}
	_, err := b.step(true)
	return err
}

// step moves the active piece down one row or counts down its lock delay.
// It reports whether the piece locked.
func (b *Board) step(awardSoftDrop bool) (bool, error) {
	down := b.active.Shifted(0, 1)
	if b.check(down) == nil {
		b.active = down
		b.rotationAttempted = false
		if down.Anchor.Y > b.lowest {
			b.lowest = down.Anchor.Y
			b.lockCounter = b.cfg.LockDelay
			b.lockResets = 0
			if awardSoftDrop && b.softDrop {
				b.score++
			}
			return false, nil
		}

		// Falling back into rows the piece already reached, e.g. after a kick
		// lifted it, keeps counting down the lock delay.
		b.lockCounter--
		if b.lockCounter > 0 || b.check(down.Shifted(0, 1)) == nil {
			return false, nil
		}
		return true, b.lock()
	}

	b.lockCounter--
	if b.lockCounter > 0 {
		return false, nil
	}
	return true, b.lock()
}

// lock writes the active piece into the grid, clears and scores lines, and
// spawns the next piece.
func (b *Board) lock() error {
	cells, err := b.active.Cells()
	if err != nil {
		panic(fmt.Sprintf("playfield: locking piece outside the grid: %v", err))
	}
	for _, c := range cells {
		b.grid[c.Y][c.X] = Cell{Kind: b.active.Kind, Filled: true}
	}

	lines := b.clearLines()
	b.lastLock = b.applyLock(b.active.Kind, lines)
	b.locked++
	b.alreadyHeld = false

	return b.spawn(b.bag.Advance())
}

// clearLines removes every full row and drops the rows above it. It returns
// the number of rows removed.
func (b *Board) clearLines() int {
	kept := make([][]Cell, 0, len(b.grid))
	for _, row := range b.grid {
		if !rowFull(row) {
			kept = append(kept, row)
		}
	}
	cleared := len(b.grid) - len(kept)
	if cleared == 0 {
		return 0
	}
	b.grid = append(newGrid(b.cfg.Width, cleared), kept...)
	return cleared
}

func rowFull(row []Cell) bool {
	for _, c := range row {
		if !c.Filled {
			return false
		}
	}
	return true
}

func (b *Board) empty() bool {
	for _, row := range b.grid {
		for _, c := range row {
			if c.Filled {
				return false
			}
		}
	}
	return true
}

// spawn places a new active piece of kind k. A spawn that overlaps the stack
// ends the game.
func (b *Board) spawn(k Kind) error {
	b.active = SpawnPiece(k, b.cfg.Width)
	b.lowest = b.active.Anchor.Y
	b.lockCounter = b.cfg.LockDelay
	b.lockResets = 0
	b.rotationAttempted = false
	if b.check(b.active) != nil {
		b.gameOver = true
		return ErrTopOut
	}
	return nil
}

// check reports whether p can occupy the grid.
func (b *Board) check(p Piece) error {
	cells, err := p.Cells()
	if err != nil {
		return err
	}
	for _, c := range cells {
		if c.X >= b.cfg.Width || c.Y >= b.cfg.Height || b.grid[c.Y][c.X].Filled {
			return ErrCollision
		}
	}
	return nil
}

// refreshLock refills the lock counter after a successful move or rotation of
// a resting piece, if the policy allows it.
func (b *Board) refreshLock() {
	if b.cfg.LockReset != LockResetMove || b.lockCounter == b.cfg.LockDelay {
		return
	}
	if b.lockResets >= b.cfg.MaxLockResets {
		return
	}
	b.lockCounter = b.cfg.LockDelay
	b.lockResets++
}

// Move shifts the active piece one column. Blocked moves are ignored.
// It reports whether the piece moved.
func (b *Board) Move(dir Direction) bool {
	if b.gameOver {
		return false
	}
	next := b.active.Shifted(int(dir), 0)
	if b.check(next) != nil {
		return false
	}
	b.active = next
	b.refreshLock()
	return true
}

// Rotate turns the active piece, trying each wall kick in order. If no kick
// fits the piece is left unchanged. The attempt is remembered for T-spin
// scoring either way.
func (b *Board) Rotate(clockwise bool) bool {
	if b.gameOver {
		return false
	}
	b.rotationAttempted = true
	for _, candidate := range rotationCandidates(b.active, clockwise) {
		if b.check(candidate) == nil {
			b.active = candidate
			b.refreshLock()
			return true
		}
	}
	return false
}

// Hold swaps the active piece with the held one, or stores it and spawns the
// next piece when nothing is held yet. Only one hold is allowed per lock.
func (b *Board) Hold() error {
	if b.gameOver {
		return ErrTopOut
	}
	if !b.CanHold() {
		return nil
	}

	current := b.active.Kind
	b.alreadyHeld = true
	if b.hasHeld {
		swap := b.held
		b.held = current
		return b.spawn(swap)
	}
	b.held = current
	b.hasHeld = true
	return b.spawn(b.bag.Advance())
}

// SoftDrop speeds gravity up by the configured factor while enabled.
func (b *Board) SoftDrop(enabled bool) {
	b.softDrop = enabled
}

// HardDrop drops the active piece to the floor and locks it. It scores two
// points per row fallen.
func (b *Board) HardDrop() error {
	if b.gameOver {
		return ErrTopOut
	}
	dist := b.DropDistance()
	b.score += uint64(2 * dist)

	for i := 0; i < dist+b.cfg.LockDelay; i++ {
		locked, err := b.step(false)
		if err != nil || locked {
			return err
		}
	}
	// Unreachable with a consistent lock counter: the last LockDelay steps
	// above always lock a grounded piece.
	return b.lock()
}

// DropDistance returns how many rows the active piece can fall before it
// rests on the stack or the floor.
func (b *Board) DropDistance() int {
	cells, err := b.active.Cells()
	if err != nil {
		panic(fmt.Sprintf("playfield: active piece has no cells: %v", err))
	}

	dist := -1
	for _, c := range cells {
		d := 0
		for y := c.Y + 1; y < b.cfg.Height && !b.grid[y][c.X].Filled; y++ {
			d++
		}
		if dist < 0 || d < dist {
			dist = d
		}
	}
	return dist
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.cfg.Width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.cfg.Height }

// Config returns the configuration the board was built with.
func (b *Board) Config() Config { return b.cfg }

// Cell returns the locked cell at (x, y). Out-of-range positions are empty.
func (b *Board) Cell(x, y int) Cell {
	if x < 0 || x >= b.cfg.Width || y < 0 || y >= b.cfg.Height {
		return Cell{}
	}
	return b.grid[y][x]
}

// Rows returns a copy of the locked cells, row 0 first.
func (b *Board) Rows() [][]Cell {
	rows := make([][]Cell, len(b.grid))
	for y, row := range b.grid {
		rows[y] = append([]Cell(nil), row...)
	}
	return rows
}

// Active returns the falling piece.
func (b *Board) Active() Piece { return b.active }

// ActiveCells returns the grid cells of the falling piece.
func (b *Board) ActiveCells() [4]core.Point {
	cells, _ := b.active.Cells()
	return cells
}

// GhostCells returns where the falling piece would land if hard dropped.
func (b *Board) GhostCells() [4]core.Point {
	cells, _ := b.active.Shifted(0, b.DropDistance()).Cells()
	return cells
}

// Held returns the held kind, if any.
func (b *Board) Held() (Kind, bool) { return b.held, b.hasHeld }

// CanHold reports whether Hold would do anything right now.
func (b *Board) CanHold() bool {
	return b.cfg.HoldEnabled && !b.alreadyHeld && !b.gameOver
}

// Preview returns up to n upcoming kinds, nearest first.
func (b *Board) Preview(n int) []Kind { return b.bag.Preview(n) }

// PeekNext returns the kind that spawns n pieces from now.
func (b *Board) PeekNext(n int) (Kind, error) { return b.bag.Peek(n) }

// Score returns the total score.
func (b *Board) Score() uint64 { return b.score }

// Lines returns the number of lines cleared.
func (b *Board) Lines() uint64 { return b.lines }

// Level returns the current level.
func (b *Board) Level() int { return b.level }

// Combo returns the number of consecutive scoring locks.
func (b *Board) Combo() int { return b.combo }

// BackToBack returns the tag of the last scoring clear.
func (b *Board) BackToBack() ClearTag { return b.lastDifficult }

// Locked returns how many pieces have locked.
func (b *Board) Locked() int { return b.locked }

// LastLock returns the result of the most recent lock.
func (b *Board) LastLock() (LockResult, bool) { return b.lastLock, b.locked > 0 }

// SoftDropping reports whether soft drop is enabled.
func (b *Board) SoftDropping() bool { return b.softDrop }

// GameOver reports whether the stack has topped out.
func (b *Board) GameOver() bool { return b.gameOver }

// TickDelay returns how long the caller should wait between Advance calls.
func (b *Board) TickDelay() time.Duration {
	d := b.cfg.Delays.Lookup(b.level)
	if b.softDrop {
		d /= time.Duration(b.cfg.SoftDropFactor)
	}
	return d
}

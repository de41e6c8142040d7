package playfield

import "fmt"

// ClearTag marks clears that count as difficult for back-to-back purposes.
type ClearTag int

const (
	ClearNone ClearTag = iota
	ClearTetris
	ClearTSpinDouble
	ClearTSpinTriple
)

// String returns a label suitable for the HUD.
func (t ClearTag) String() string {
	switch t {
	case ClearTetris:
		return "Tetris"
	case ClearTSpinDouble:
		return "T-Spin Double"
	case ClearTSpinTriple:
		return "T-Spin Triple"
	default:
		return ""
	}
}

const (
	// ComboBonus is multiplied by the combo count and the level.
	ComboBonus = 50
	// PerfectClearBonus is a flat bonus for emptying the whole board.
	PerfectClearBonus = 5000
)

// LockResult describes what happened when a piece locked.
type LockResult struct {
	Kind         Kind
	Lines        int
	Tag          ClearTag
	BackToBack   bool
	Combo        int // Combo count before this lock
	PerfectClear bool
	Points       uint64
	LevelUp      bool
	Level        int // Level after this lock
}

// Label summarizes the clear for display, e.g. "Tetris B2B" or "Triple".
func (r LockResult) Label() string {
	label := r.Tag.String()
	if label == "" {
		switch r.Lines {
		case 1:
			label = "Single"
		case 2:
			label = "Double"
		case 3:
			label = "Triple"
		}
	}
	if r.BackToBack {
		label += " B2B"
	}
	if r.PerfectClear {
		label += " Perfect Clear"
	}
	return label
}

// classifyClear returns the per-level points for a clear and its tag.
// rotated reports whether a rotation was attempted since the piece last fell,
// which is taken as the sign of a T-spin.
func classifyClear(lines int, kind Kind, rotated bool) (int, ClearTag) {
	if kind == KindT && rotated {
		switch lines {
		case 2:
			return 1200, ClearTSpinDouble
		case 3:
			return 1600, ClearTSpinTriple
		}
	}
	switch lines {
	case 0:
		return 0, ClearNone
	case 1:
		return 100, ClearNone
	case 2:
		return 300, ClearNone
	case 3:
		return 500, ClearNone
	case 4:
		return 800, ClearTetris
	}
	panic(fmt.Sprintf("playfield: cleared %d lines with a single piece", lines))
}

// applyLock scores a lock of kind that cleared the given number of lines and
// updates the level. The grid must already be compacted.
func (b *Board) applyLock(kind Kind, lines int) LockResult {
	base, tag := classifyClear(lines, kind, b.rotationAttempted)
	res := LockResult{
		Kind:  kind,
		Lines: lines,
		Tag:   tag,
		Combo: b.combo,
	}

	delta := uint64(base * b.level)
	if tag != ClearNone && tag == b.lastDifficult {
		res.BackToBack = true
		delta = uint64(float64(delta) * 1.5)
	}

	if delta > 0 {
		delta += uint64(b.combo * ComboBonus * b.level)
		b.combo++
		b.lastDifficult = tag
	} else if b.cfg.ComboReset {
		b.combo = 0
	}

	if lines > 0 && b.empty() {
		res.PerfectClear = true
		delta += PerfectClearBonus
	}

	b.score += delta
	b.lines += uint64(lines)
	if b.cfg.Progression && b.lines >= uint64(b.level*10+10) {
		b.level++
		res.LevelUp = true
	}

	res.Points = delta
	res.Level = b.level
	return res
}

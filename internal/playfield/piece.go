// Package playfield implements the falling-block simulation: piece geometry
// and wall kicks, bag randomizers, the board state machine, line clearing and
// scoring. It has no notion of time or terminals; callers drive it by calling
// Advance at the interval reported by TickDelay.
package playfield

import (
	"strings"

	"github.com/vovakirdan/termtris/internal/core"
)

// Kind identifies one of the seven tetrominoes.
type Kind uint8

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
	KindCount // Number of kinds, used to size per-kind tables
)

var kindNames = [KindCount]string{"I", "J", "L", "O", "S", "T", "Z"}

// String returns the single-letter name of the kind.
func (k Kind) String() string {
	if k >= KindCount {
		return "?"
	}
	return kindNames[k]
}

// ParseKind converts a letter (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for k := KindI; k < KindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// AllKinds returns the seven kinds in canonical order.
func AllKinds() []Kind {
	kinds := make([]Kind, KindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// baseOffsets holds the orientation-0 shapes. Offsets use rotation-math
// coordinates (y grows upward) relative to the rotation center.
var baseOffsets = [KindCount][4]core.Point{
	KindI: {{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
	KindJ: {{X: -1, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	KindL: {{X: 1, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	KindO: {{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	KindS: {{X: 0, Y: 1}, {X: 1, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}},
	KindT: {{X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}},
	KindZ: {{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}},
}

// BaseOffsets returns the shape of kind k at orientation 0.
func BaseOffsets(k Kind) [4]core.Point {
	return baseOffsets[k]
}

// Piece is a tetromino placed on the grid. Anchor is a grid coordinate
// (y grows downward); Offsets are relative to it with y growing upward.
type Piece struct {
	Kind        Kind
	Anchor      core.Point
	Orientation int // 0, R, 2, L as 0..3
	Offsets     [4]core.Point
}

// SpawnPiece returns kind k at its spawn position on a board of the given width.
// The O piece spawns one row lower so that its bottom row lines up with the
// others.
func SpawnPiece(k Kind, width int) Piece {
	anchor := core.Point{X: width/2 - 1, Y: 2}
	if k == KindO {
		anchor.Y = 3
	}
	return Piece{
		Kind:    k,
		Anchor:  anchor,
		Offsets: baseOffsets[k],
	}
}

// Cells returns the absolute grid cells covered by the piece.
func (p Piece) Cells() ([4]core.Point, error) {
	var cells [4]core.Point
	for i, off := range p.Offsets {
		x := p.Anchor.X + off.X
		y := p.Anchor.Y - off.Y
		if x < 0 || y < 0 {
			return cells, ErrNegativePosition
		}
		cells[i] = core.Point{X: x, Y: y}
	}
	return cells, nil
}

// Shifted returns the piece moved by dx columns and dy rows (grid coordinates).
func (p Piece) Shifted(dx, dy int) Piece {
	p.Anchor.X += dx
	p.Anchor.Y += dy
	return p
}

// Rotated returns the piece turned 90 degrees around its anchor without any
// kick applied.
func (p Piece) Rotated(clockwise bool) Piece {
	for i, off := range p.Offsets {
		if clockwise {
			p.Offsets[i] = core.Point{X: off.Y, Y: -off.X}
		} else {
			p.Offsets[i] = core.Point{X: -off.Y, Y: off.X}
		}
	}
	p.Orientation = nextOrientation(p.Orientation, clockwise)
	return p
}

func nextOrientation(o int, clockwise bool) int {
	if clockwise {
		return (o + 1) % 4
	}
	return (o + 3) % 4
}

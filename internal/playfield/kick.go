package playfield

import "github.com/vovakirdan/termtris/internal/core"

type offset struct{ x, y int }

// Offset tables per orientation (0, R, 2, L), in y-up notation. The kick for
// test i of a rotation from a to b is offsets[a][i] - offsets[b][i].
var (
	jlstzOffsets = [4][5]offset{
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	}

	iOffsets = [4][5]offset{
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 0}, {2, 0}},
		{{-1, 0}, {0, 0}, {0, 0}, {0, 1}, {0, -2}},
		{{-1, 1}, {1, 1}, {-2, 1}, {1, 0}, {-2, 0}},
		{{0, 1}, {0, 1}, {0, 1}, {0, -1}, {0, 2}},
	}

	// O never changes shape; its offsets only undo the drift of rotating a
	// 2x2 block around a corner.
	oOffsets = [4][5]offset{
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, -1}, {0, -1}, {0, -1}, {0, -1}, {0, -1}},
		{{-1, -1}, {-1, -1}, {-1, -1}, {-1, -1}, {-1, -1}},
		{{-1, 0}, {-1, 0}, {-1, 0}, {-1, 0}, {-1, 0}},
	}
)

func offsetTable(k Kind) *[4][5]offset {
	switch k {
	case KindI:
		return &iOffsets
	case KindO:
		return &oOffsets
	default:
		return &jlstzOffsets
	}
}

// Kicks returns the five translations (y-up) to try, in order, when rotating
// a piece of kind k out of orientation from.
func Kicks(k Kind, from int, clockwise bool) [5]core.Point {
	table := offsetTable(k)
	to := nextOrientation(from, clockwise)

	var kicks [5]core.Point
	for i := range kicks {
		a, b := table[from][i], table[to][i]
		kicks[i] = core.Point{X: a.x - b.x, Y: a.y - b.y}
	}
	return kicks
}

// rotationCandidates lists the kicked placements for rotating p, in the order
// they must be tried.
func rotationCandidates(p Piece, clockwise bool) [5]Piece {
	rotated := p.Rotated(clockwise)
	kicks := Kicks(p.Kind, p.Orientation, clockwise)

	var out [5]Piece
	for i, k := range kicks {
		// Kick Y grows upward; grid rows grow downward.
		out[i] = rotated.Shifted(k.X, -k.Y)
	}
	return out
}
